// Package normalize maps each backend's native result dialect into the
// canonical TestResult shape. There is one normalization path per backend
// variant, selected by an explicit switch over the backend identity.
//
// Normalization is lossy-resistant rather than strict: malformed or missing
// native fields become typed placeholders plus a warning annotation in the
// result metadata, never an error or a panic. Unrecognized native fields are
// preserved under metadata so no backend detail is dropped.
package normalize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/a11y-infra/at-acceptor/types"
)

// unknownOutput is the placeholder used when a backend did not report any
// recognizable output for a case.
const unknownOutput = "<unknown>"

// Normalize converts one backend-native result into the canonical TestResult.
// Timing is owned by the orchestrator and left zero here.
func Normalize(backend types.BackendID, tc types.TestCase, native types.NativeResult) types.TestResult {
	n := &normalizer{
		result: types.TestResult{
			TestName:       tc.Name,
			Backend:        backend,
			ExpectedOutput: tc.ExpectedOutcome,
			Metadata:       cloneMetadata(tc.Metadata),
		},
	}

	switch backend {
	case types.BackendNVDA:
		n.fromNVDA(native.Fields)
	case types.BackendJAWS:
		n.fromJAWS(native.Fields)
	case types.BackendVoiceOver:
		n.fromVoiceOver(native.Fields)
	default:
		n.fromGeneric(native.Fields)
	}

	n.finish()
	return n.result
}

type normalizer struct {
	result   types.TestResult
	verdict  *bool
	warnings []string
}

func (n *normalizer) fromNVDA(fields map[string]any) {
	n.result.ActualOutput = n.stringField(fields, "speech")
	n.boolField(fields, "success")
	for _, raw := range n.issueList(fields, "issues") {
		n.addViolation(raw, "rule", "impact", "wcag", "message", "fix")
	}
	n.preserveExtras(fields, "speech", "success", "issues")
}

func (n *normalizer) fromJAWS(fields map[string]any) {
	n.result.ActualOutput = n.stringField(fields, "spokenText")
	if status, ok := fields["status"].(string); ok {
		switch strings.ToLower(strings.TrimSpace(status)) {
		case "pass":
			n.setVerdict(true)
		case "fail":
			n.setVerdict(false)
		default:
			n.warn("unrecognized status %q", status)
		}
	} else if _, present := fields["status"]; present {
		n.warn("status field has unexpected type %T", fields["status"])
	}

	// JAWS nests its issue items one level down.
	if problems, ok := fields["problems"].(map[string]any); ok {
		for _, raw := range n.issueList(problems, "items") {
			n.addViolation(raw, "code", "level", "criterion", "detail", "advice")
		}
	} else if _, present := fields["problems"]; present {
		n.warn("problems field has unexpected type %T", fields["problems"])
	}
	n.preserveExtras(fields, "spokenText", "status", "problems")
}

func (n *normalizer) fromVoiceOver(fields map[string]any) {
	n.result.ActualOutput = n.stringField(fields, "announcement")
	// VoiceOver reports no explicit verdict; the containment fallback decides.
	for _, raw := range n.issueList(fields, "violations") {
		n.addViolation(raw, "rule", "severity", "wcagCriterion", "description", "suggestion")
	}
	n.preserveExtras(fields, "announcement", "violations")
}

// fromGeneric handles backends without a dedicated dialect using the most
// common field names.
func (n *normalizer) fromGeneric(fields map[string]any) {
	n.result.ActualOutput = n.stringField(fields, "output")
	n.boolField(fields, "passed")
	for _, raw := range n.issueList(fields, "violations") {
		n.addViolation(raw, "rule", "severity", "wcagCriterion", "description", "suggestion")
	}
	n.preserveExtras(fields, "output", "passed", "violations")
}

// finish derives the pass verdict and folds warnings into metadata.
func (n *normalizer) finish() {
	if n.verdict != nil {
		n.result.Passed = *n.verdict
	} else {
		// Fallback: case-insensitive substring match of the expected
		// outcome inside the reported output.
		actual := strings.ToLower(strings.TrimSpace(n.result.ActualOutput))
		expected := strings.ToLower(strings.TrimSpace(n.result.ExpectedOutput))
		n.result.Passed = expected != "" && strings.Contains(actual, expected)
	}
	if n.result.ActualOutput == "" {
		n.result.ActualOutput = unknownOutput
		n.result.Passed = false
	}
	if len(n.warnings) > 0 {
		n.meta()["warnings"] = strings.Join(n.warnings, "; ")
	}
}

func (n *normalizer) setVerdict(passed bool) {
	n.verdict = &passed
}

func (n *normalizer) warn(format string, args ...any) {
	n.warnings = append(n.warnings, fmt.Sprintf(format, args...))
}

func (n *normalizer) meta() map[string]string {
	if n.result.Metadata == nil {
		n.result.Metadata = make(map[string]string)
	}
	return n.result.Metadata
}

func (n *normalizer) stringField(fields map[string]any, key string) string {
	v, present := fields[key]
	if !present {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		n.warn("%s field has unexpected type %T", key, v)
		return ""
	}
	return s
}

func (n *normalizer) boolField(fields map[string]any, key string) {
	v, present := fields[key]
	if !present {
		return
	}
	b, ok := v.(bool)
	if !ok {
		n.warn("%s field has unexpected type %T", key, v)
		return
	}
	n.setVerdict(b)
}

func (n *normalizer) issueList(fields map[string]any, key string) []map[string]any {
	v, present := fields[key]
	if !present {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		n.warn("%s field has unexpected type %T", key, v)
		return nil
	}
	var out []map[string]any
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			n.warn("%s[%d] has unexpected type %T", key, i, item)
			continue
		}
		out = append(out, m)
	}
	return out
}

// addViolation flattens one native issue into a canonical Violation, reading
// the dialect's key names for rule, severity, criterion, description and
// suggestion.
func (n *normalizer) addViolation(raw map[string]any, ruleKey, sevKey, critKey, descKey, fixKey string) {
	v := types.Violation{
		Rule:          stringOr(raw[ruleKey], "unknown-rule"),
		WCAGCriterion: stringOr(raw[critKey], ""),
		Description:   stringOr(raw[descKey], "no description reported"),
		Suggestion:    stringOr(raw[fixKey], ""),
		Severity:      n.severity(raw[sevKey]),
	}
	n.result.Violations = append(n.result.Violations, v)
}

// severity maps a vendor severity word onto the canonical scale, defaulting
// to serious when absent or unrecognized.
func (n *normalizer) severity(v any) types.Severity {
	s, ok := v.(string)
	if !ok || s == "" {
		return types.SeveritySerious
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minor", "low":
		return types.SeverityMinor
	case "moderate", "medium":
		return types.SeverityModerate
	case "serious", "high":
		return types.SeveritySerious
	case "critical", "blocker":
		return types.SeverityCritical
	}
	n.warn("unrecognized severity %q", s)
	return types.SeveritySerious
}

// preserveExtras copies native fields the dialect did not consume into
// metadata under a native. prefix, stringified.
func (n *normalizer) preserveExtras(fields map[string]any, consumed ...string) {
	skip := make(map[string]bool, len(consumed))
	for _, k := range consumed {
		skip[k] = true
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !skip[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.meta()["native."+k] = fmt.Sprintf("%v", fields[k])
	}
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func cloneMetadata(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Package analysis performs cross-backend consistency analysis over a
// normalized result set. Analyze is a pure function: given the same input it
// always produces the same comparison records, with no hidden state.
package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/a11y-infra/at-acceptor/types"
)

// Config holds the agreement policy. The thresholds are heuristic rather
// than normative; they are configurable so product owners can tighten them.
type Config struct {
	// PartialAgreement is the minimum fraction of backends that must share
	// a verdict for a split group to count as partially consistent. The
	// comparison is tie-favoring (>=).
	PartialAgreement float64
}

// DefaultConfig matches the historical policy: a (possibly tied) majority.
func DefaultConfig() Config {
	return Config{PartialAgreement: 0.5}
}

// Analyze groups results by test name and classifies cross-backend
// agreement using the default policy.
func Analyze(results []types.TestResult) []types.ComparisonRecord {
	return AnalyzeWithConfig(DefaultConfig(), results)
}

// AnalyzeWithConfig is Analyze with an explicit agreement policy.
func AnalyzeWithConfig(cfg Config, results []types.TestResult) []types.ComparisonRecord {
	// Preserve first-seen order of test names so output is stable.
	var names []string
	groups := make(map[string]map[types.BackendID]types.TestResult)
	universe := make(map[types.BackendID]bool)

	for _, r := range results {
		universe[r.Backend] = true
		if groups[r.TestName] == nil {
			names = append(names, r.TestName)
			groups[r.TestName] = make(map[types.BackendID]types.TestResult)
		}
		groups[r.TestName][r.Backend] = r
	}

	records := make([]types.ComparisonRecord, 0, len(names))
	for _, name := range names {
		records = append(records, compare(cfg, name, groups[name], universe))
	}
	return records
}

func compare(cfg Config, name string, group map[types.BackendID]types.TestResult, universe map[types.BackendID]bool) types.ComparisonRecord {
	var passing, failing []types.BackendID
	for b, r := range group {
		if r.Passed {
			passing = append(passing, b)
		} else {
			failing = append(failing, b)
		}
	}
	sortBackends(passing)
	sortBackends(failing)

	n := len(group)
	agreement := len(passing)
	if len(failing) > agreement {
		agreement = len(failing)
	}

	record := types.ComparisonRecord{
		TestName:  name,
		Results:   group,
		Consensus: 2*len(passing) > n,
	}

	switch {
	case n > 0 && agreement == n:
		record.Consistency = types.Consistent
	case n > 0 && float64(agreement) >= cfg.PartialAgreement*float64(n):
		record.Consistency = types.PartiallyConsistent
	default:
		record.Consistency = types.Inconsistent
	}

	if len(passing) > 0 && len(failing) > 0 {
		record.Discrepancies = append(record.Discrepancies,
			fmt.Sprintf("pass/fail split: passing=%s failing=%s",
				joinBackends(passing), joinBackends(failing)))
	}
	record.Discrepancies = append(record.Discrepancies, outputDrift(group)...)
	if missing := missingBackends(group, universe); len(missing) > 0 {
		record.Discrepancies = append(record.Discrepancies,
			fmt.Sprintf("no result from: %s", joinBackends(missing)))
	}
	return record
}

// outputDrift reports wording differences across backends even when every
// backend passed; comparison is trimmed and case-insensitive.
func outputDrift(group map[types.BackendID]types.TestResult) []string {
	distinct := make(map[string]bool)
	backends := make([]types.BackendID, 0, len(group))
	for b, r := range group {
		backends = append(backends, b)
		distinct[strings.ToLower(strings.TrimSpace(r.ActualOutput))] = true
	}
	if len(distinct) <= 1 {
		return nil
	}
	sortBackends(backends)
	parts := make([]string, 0, len(backends))
	for _, b := range backends {
		parts = append(parts, fmt.Sprintf("%s=%q", b, group[b].ActualOutput))
	}
	return []string{"output differs across backends: " + strings.Join(parts, " ")}
}

func missingBackends(group map[types.BackendID]types.TestResult, universe map[types.BackendID]bool) []types.BackendID {
	var missing []types.BackendID
	for b := range universe {
		if _, ok := group[b]; !ok {
			missing = append(missing, b)
		}
	}
	sortBackends(missing)
	return missing
}

func sortBackends(ids []types.BackendID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func joinBackends(ids []types.BackendID) string {
	parts := make([]string, len(ids))
	for i, b := range ids {
		parts[i] = string(b)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

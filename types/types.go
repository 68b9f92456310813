package types

import (
	"fmt"
	"slices"
	"strings"
)

// BackendID identifies one assistive-technology automation backend.
type BackendID string

const (
	BackendNVDA      BackendID = "nvda"
	BackendJAWS      BackendID = "jaws"
	BackendVoiceOver BackendID = "voiceover"
)

// KnownBackends returns the closed set of backend identities, in canonical order.
func KnownBackends() []BackendID {
	return []BackendID{BackendNVDA, BackendJAWS, BackendVoiceOver}
}

// Valid reports whether b is a member of the known backend set.
func (b BackendID) Valid() bool {
	return slices.Contains(KnownBackends(), b)
}

func (b BackendID) String() string {
	return string(b)
}

// ParseBackendID parses a backend name, case-insensitively.
func ParseBackendID(s string) (BackendID, error) {
	b := BackendID(strings.ToLower(strings.TrimSpace(s)))
	if !b.Valid() {
		return "", fmt.Errorf("unknown backend %q", s)
	}
	return b, nil
}

// Severity grades how serious a reported violation is.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySerious  Severity = "serious"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is a member of the severity scale.
func (s Severity) Valid() bool {
	switch s {
	case SeverityMinor, SeverityModerate, SeveritySerious, SeverityCritical:
		return true
	}
	return false
}

// Rank orders severities from minor (0) to critical (3). Unknown severities
// rank below minor.
func (s Severity) Rank() int {
	switch s {
	case SeverityMinor:
		return 0
	case SeverityModerate:
		return 1
	case SeveritySerious:
		return 2
	case SeverityCritical:
		return 3
	}
	return -1
}

// Violation is one canonical accessibility issue reported by a backend.
type Violation struct {
	Rule          string   `json:"rule" yaml:"rule"`
	Severity      Severity `json:"severity" yaml:"severity"`
	WCAGCriterion string   `json:"wcagCriterion,omitempty" yaml:"wcagCriterion,omitempty"`
	Description   string   `json:"description" yaml:"description"`
	Suggestion    string   `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// TestCase is one canonical, backend-agnostic conformance check. Name is the
// join key for cross-backend comparison and must be unique within a suite.
type TestCase struct {
	Name            string            `json:"name" yaml:"name"`
	TargetSelector  string            `json:"targetSelector" yaml:"targetSelector"`
	ExpectedOutcome string            `json:"expectedOutcome" yaml:"expectedOutcome"`
	Metadata        map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NativeResult is the raw outcome of one test case in a backend's own dialect.
// Fields carries the backend-shaped payload; the normalizer knows which keys
// each backend uses and how its issue lists are nested.
type NativeResult struct {
	Backend BackendID      `json:"backend"`
	Fields  map[string]any `json:"fields"`
}

// TestResult is the canonical, normalized outcome of one test case on one
// backend. Results are never mutated after creation.
type TestResult struct {
	TestName       string            `json:"testName"`
	Backend        BackendID         `json:"backend"`
	Passed         bool              `json:"passed"`
	ActualOutput   string            `json:"actualOutput"`
	ExpectedOutput string            `json:"expectedOutput"`
	Violations     []Violation       `json:"violations,omitempty"`
	TimeTakenMs    int64             `json:"timeTakenMs"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Consistency classifies cross-backend agreement for one test case.
type Consistency string

const (
	Consistent          Consistency = "consistent"
	PartiallyConsistent Consistency = "partially-consistent"
	Inconsistent        Consistency = "inconsistent"
)

// ComparisonRecord is the cross-backend verdict for one test name. It is
// derived from the normalized result set and never persisted on its own.
type ComparisonRecord struct {
	TestName      string                   `json:"testName"`
	Results       map[BackendID]TestResult `json:"perBackendResult"`
	Consistency   Consistency              `json:"consistency"`
	Consensus     bool                     `json:"consensus"`
	Discrepancies []string                 `json:"discrepancies,omitempty"`
}

// ComplianceCell records pass/fail per backend for one WCAG success
// criterion. OverallPass is always the conjunction of PerBackendPass.
type ComplianceCell struct {
	Criterion      string             `json:"criterion"`
	PerBackendPass map[BackendID]bool `json:"perBackendPass"`
	OverallPass    bool               `json:"overallPass"`
}

// Package reporting assembles the MasterReport for one orchestration run and
// serializes it to the run's durable artifacts: a machine-readable JSON
// report and a human-readable Markdown summary. Both are derived from the
// same MasterReport value, so the two formats can never disagree.
package reporting

import (
	"fmt"
	"time"

	"github.com/a11y-infra/at-acceptor/runner"
	"github.com/a11y-infra/at-acceptor/types"
)

// Summary is the executive overview of a run.
type Summary struct {
	TotalTests         int               `json:"totalTests"`
	Passed             int               `json:"passed"`
	Failed             int               `json:"failed"`
	OverallSuccessRate float64           `json:"overallSuccessRate"`
	Backends           []types.BackendID `json:"backends"`
	Suites             []string          `json:"suites"`
	DurationMs         int64             `json:"durationMs"`
	CriticalIssues     int               `json:"criticalIssues"`
	ComplianceLevel    string            `json:"complianceLevel"`
}

// ComplianceMatrix is the per-criterion compliance grid plus the computed
// conformance level.
type ComplianceMatrix struct {
	Level string                 `json:"level"`
	Cells []types.ComplianceCell `json:"cells"`
}

// Recommendations is the tiered guidance list derived from the comparisons.
type Recommendations struct {
	Critical  []string `json:"critical"`
	Important []string `json:"important"`
	Suggested []string `json:"suggested"`
}

// MasterReport is the complete, immutable record of one run.
type MasterReport struct {
	RunID           string                   `json:"runId"`
	GeneratedAt     time.Time                `json:"generatedAt"`
	Summary         Summary                  `json:"summary"`
	Results         []types.TestResult       `json:"results"`
	Comparisons     []types.ComparisonRecord `json:"comparisons"`
	Compliance      ComplianceMatrix         `json:"compliance"`
	Recommendations Recommendations          `json:"recommendations"`
	Errors          []runner.RunError        `json:"errors,omitempty"`
}

// suggestedGuidance is the static best-practice tier, emitted on every run.
var suggestedGuidance = []string{
	"Test with real assistive-technology users in addition to automation.",
	"Verify keyboard-only operation for every interactive element.",
	"Prefer native HTML semantics over ARIA where an equivalent element exists.",
	"Re-run the matrix after every significant markup change.",
}

// Build assembles the MasterReport from the orchestrator's result set, the
// consistency comparisons and the compliance matrix. The returned value is
// never mutated afterwards.
func Build(run *runner.RunResult, comparisons []types.ComparisonRecord, cells []types.ComplianceCell, level string) *MasterReport {
	recs := recommend(comparisons)

	return &MasterReport{
		RunID:       run.RunID,
		GeneratedAt: time.Now().UTC(),
		Summary: Summary{
			TotalTests:         run.Stats.Total,
			Passed:             run.Stats.Passed,
			Failed:             run.Stats.Failed,
			OverallSuccessRate: run.SuccessRate(),
			Backends:           run.Backends,
			Suites:             run.Suites,
			DurationMs:         run.Duration.Milliseconds(),
			CriticalIssues:     len(recs.Critical),
			ComplianceLevel:    level,
		},
		Results:         run.Results,
		Comparisons:     comparisons,
		Compliance:      ComplianceMatrix{Level: level, Cells: cells},
		Recommendations: recs,
		Errors:          run.Errors,
	}
}

// recommend derives the tiered recommendation list: unanimous failures are
// critical, split verdicts are important, and the suggested tier is static.
func recommend(comparisons []types.ComparisonRecord) Recommendations {
	recs := Recommendations{Suggested: suggestedGuidance}
	for _, c := range comparisons {
		switch {
		case c.Consistency == types.Consistent && !c.Consensus:
			recs.Critical = append(recs.Critical,
				fmt.Sprintf("%s fails on every backend; fix the underlying markup", c.TestName))
		case c.Consistency == types.PartiallyConsistent || c.Consistency == types.Inconsistent:
			recs.Important = append(recs.Important,
				fmt.Sprintf("%s behaves differently across backends; verify per-backend output", c.TestName))
		}
	}
	return recs
}

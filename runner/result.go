package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/a11y-infra/at-acceptor/types"
)

// Stages at which a run error can occur.
const (
	StageInitialize = "initialize"
	StageRun        = "run"
)

// RunError is a recovered per-backend failure surfaced in the report instead
// of aborting the run.
type RunError struct {
	Backend types.BackendID `json:"backend"`
	Suite   string          `json:"suite,omitempty"`
	Stage   string          `json:"stage"`
	Message string          `json:"message"`
}

// Stats tracks pass/fail counts for a result set.
type Stats struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// BatchSummary is the per-(backend, suite) execution summary.
type BatchSummary struct {
	Backend  types.BackendID `json:"backend"`
	Suite    string          `json:"suite"`
	Stats    Stats           `json:"stats"`
	Duration time.Duration   `json:"duration"`
}

// RunResult is the complete outcome of one orchestration run: the flat,
// append-only collection of normalized results plus per-batch summaries and
// recovered errors. It is immutable once returned.
type RunResult struct {
	RunID    string             `json:"runId"`
	Backends []types.BackendID  `json:"backends"`
	Suites   []string           `json:"suites"`
	Results  []types.TestResult `json:"results"`
	Batches  []BatchSummary     `json:"batches"`
	Errors   []RunError         `json:"errors,omitempty"`
	Stats    Stats              `json:"stats"`
	Passed   bool               `json:"passed"`
	Duration time.Duration      `json:"duration"`
}

// ResultsFor returns the results recorded for one backend, in run order.
func (r *RunResult) ResultsFor(b types.BackendID) []types.TestResult {
	var out []types.TestResult
	for _, res := range r.Results {
		if res.Backend == b {
			out = append(out, res)
		}
	}
	return out
}

// SuccessRate returns the fraction of cases that passed, in [0, 1].
func (r *RunResult) SuccessRate() float64 {
	if r.Stats.Total == 0 {
		return 0
	}
	return float64(r.Stats.Passed) / float64(r.Stats.Total)
}

// String returns a one-look summary of the run.
func (r *RunResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Conformance Run %s (%.1fs):\n", r.RunID, r.Duration.Seconds())
	fmt.Fprintf(&b, "Total: %d, Passed: %d, Failed: %d, Errors: %d\n",
		r.Stats.Total, r.Stats.Passed, r.Stats.Failed, len(r.Errors))
	for _, batch := range r.Batches {
		fmt.Fprintf(&b, "├── %s/%s: %d passed, %d failed (%.1fs)\n",
			batch.Backend, batch.Suite, batch.Stats.Passed, batch.Stats.Failed, batch.Duration.Seconds())
	}
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "└── Error [%s] %s: %s\n", e.Stage, e.Backend, e.Message)
	}
	return b.String()
}

func statsFor(results []types.TestResult) Stats {
	s := Stats{Total: len(results)}
	for _, r := range results {
		if r.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

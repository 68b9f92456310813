package acceptor

import (
	"github.com/a11y-infra/at-acceptor/metrics"
	"github.com/a11y-infra/at-acceptor/runner"
)

// MetricsReporter is responsible for reporting metrics from run results.
type MetricsReporter interface {
	ReportResults(out *RunOutput)
}

// DefaultMetricsReporter implements the MetricsReporter interface.
type DefaultMetricsReporter struct{}

// NewDefaultMetricsReporter creates a new DefaultMetricsReporter.
func NewDefaultMetricsReporter() *DefaultMetricsReporter {
	return &DefaultMetricsReporter{}
}

// ReportResults reports the run results to metrics systems.
func (r *DefaultMetricsReporter) ReportResults(out *RunOutput) {
	run := out.Run

	result := "fail"
	if run.Passed {
		result = "pass"
	}
	metrics.RecordRun(
		run.RunID,
		result,
		run.Stats.Total,
		run.Stats.Passed,
		run.Stats.Failed,
		out.Report.Summary.CriticalIssues,
		run.Duration,
	)

	for _, res := range run.Results {
		metrics.RecordCaseResult(run.RunID, res.Backend, res.Passed)
	}
	for _, e := range run.Errors {
		if e.Stage == runner.StageInitialize {
			metrics.RecordBackendInitError(e.Backend)
		}
	}
}

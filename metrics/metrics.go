package metrics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/a11y-infra/at-acceptor/types"
)

const (
	MetricsNamespace = "atacceptor"
)

var (
	Debug                bool = false
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	caseResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "case_results_total",
		Help:      "Count of normalized test case results",
	}, []string{
		"run_id",
		"backend",
		"result",
	})

	backendInitErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "backend_init_errors_total",
		Help:      "Count of backend sessions that failed to initialize",
	}, []string{
		"backend",
	})

	runResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_results",
		Help:      "Result of conformance runs",
	}, []string{
		"run_id",
		"result",
	})

	runTestTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_test_total",
		Help:      "Total number of test cases in a run",
	}, []string{
		"run_id",
	})

	runTestPassed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_test_passed",
		Help:      "Number of passed test cases in a run",
	}, []string{
		"run_id",
	})

	runTestFailed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_test_failed",
		Help:      "Number of failed test cases in a run",
	}, []string{
		"run_id",
	})

	runDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of conformance runs",
	}, []string{
		"run_id",
	})

	runCriticalIssues = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_critical_issues",
		Help:      "Number of issues failing on every backend in a run",
	}, []string{
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

// RecordCaseResult counts one normalized test case outcome.
func RecordCaseResult(runID string, backend types.BackendID, passed bool) {
	result := "fail"
	if passed {
		result = "pass"
	}
	if Debug {
		log.Debug("metric inc",
			"m", "case_results_total",
			"run_id", runID,
			"backend", backend,
			"result", result)
	}
	caseResultsTotal.WithLabelValues(runID, string(backend), result).Inc()
}

// RecordBackendInitError counts a backend excluded from a run at session
// initialization.
func RecordBackendInitError(backend types.BackendID) {
	backendInitErrorsTotal.WithLabelValues(string(backend)).Inc()
}

// RecordRun emits the per-run gauges.
func RecordRun(
	runID string,
	result string,
	total int,
	passed int,
	failed int,
	criticalIssues int,
	duration time.Duration,
) {
	runResults.WithLabelValues(runID, result).Set(1)
	runTestTotal.WithLabelValues(runID).Set(float64(total))
	runTestPassed.WithLabelValues(runID).Set(float64(passed))
	runTestFailed.WithLabelValues(runID).Set(float64(failed))
	runCriticalIssues.WithLabelValues(runID).Set(float64(criticalIssues))
	runDuration.WithLabelValues(runID).Set(duration.Seconds())
}

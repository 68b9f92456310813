// Package acceptor wires the conformance pipeline into a long-lived service:
// it schedules runs, executes the backend/suite matrix, prints and persists
// reports and emits metrics.
package acceptor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/a11y-infra/at-acceptor/exitcodes"
	"github.com/a11y-infra/at-acceptor/reporting"
)

// acceptor is an Assistive Technology conformance tester that runs the
// backend/suite matrix and reports the outcome.
type acceptor struct {
	ctx     context.Context
	config  *Config
	version string

	executor  RunExecutor
	formatter ResultFormatter
	reporter  MetricsReporter
	scheduler RunScheduler

	result *RunOutput

	shutdownCallback func(error) // Callback to signal application shutdown
}

func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*acceptor, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating acceptor with config",
		"backends", config.Backends,
		"suites", config.Suites,
		"parallel", config.Parallel,
		"runInterval", config.RunInterval,
		"runOnce", config.RunOnce,
		"outputDir", config.OutputDir)

	a := &acceptor{
		ctx:              ctx,
		config:           config,
		version:          version,
		executor:         NewDefaultRunExecutor(config, config.Log),
		formatter:        NewConsoleResultFormatter(config.Log),
		reporter:         NewDefaultMetricsReporter(),
		scheduler:        NewDefaultRunScheduler(config.RunInterval, config.RunOnce, config.Log),
		shutdownCallback: shutdownCallback,
	}
	a.scheduler.RegisterCallback(a.runConformance)
	return a, nil
}

// Start runs the conformance matrix, periodically when an interval is
// configured.
func (a *acceptor) Start(ctx context.Context) error {
	// Set up panic recovery to ensure we exit with code 2 for runtime errors
	defer func() {
		if r := recover(); r != nil {
			a.config.Log.Error("Runtime error occurred", "error", r)
			os.Exit(exitcodes.RuntimeErr)
		}
	}()

	a.ctx = ctx

	if a.config.RunOnce {
		a.config.Log.Info("Starting at-acceptor in run-once mode")
	} else {
		a.config.Log.Info("Starting at-acceptor in continuous mode", "interval", a.config.RunInterval)
	}

	if err := a.scheduler.Start(ctx); err != nil {
		a.config.Log.Error("Runtime error running conformance matrix", "error", err)
		return NewRuntimeError(err)
	}

	// If in run-once mode, trigger shutdown and return
	if a.config.RunOnce {
		a.config.Log.Info("Run completed, exiting (run-once mode)")

		// Check if any cases failed and return appropriate exit code
		if a.result != nil && !a.result.Run.Passed {
			a.config.Log.Warn("Run-once conformance run completed with failures, returning exit code 1")
			return NewTestFailureError(a.result.Run.String())
		}

		// Only need to call this when we're in run-once mode and everything passed
		go func() {
			a.shutdownCallback(nil)
		}()
		return nil // Success (exit code 0)
	}

	a.config.Log.Debug("at-acceptor started successfully")
	return nil
}

// runConformance runs the full pipeline once and processes the results.
func (a *acceptor) runConformance() error {
	out, err := a.executor.Execute(a.ctx)
	if err != nil {
		// This is a runtime error (not a test failure)
		a.config.Log.Error("Runtime error running conformance matrix", "error", err)
		return NewRuntimeError(err)
	}
	a.result = out

	if err := a.formatter.FormatResults(out); err != nil {
		a.config.Log.Error("Error formatting results", "error", err)
	}
	fmt.Println(out.Run.String())

	a.writeArtifacts(out)
	a.reporter.ReportResults(out)

	a.config.Log.Info("Conformance run completed",
		"run_id", out.Run.RunID,
		"passed", out.Run.Passed,
		"level", out.Level)
	return nil
}

// writeArtifacts persists the configured report files. Artifact write
// failures are logged, not fatal; the run outcome stands regardless.
func (a *acceptor) writeArtifacts(out *RunOutput) {
	if a.config.GenerateComparisonReport {
		if path, err := reporting.WriteJSON(a.config.OutputDir, out.Report); err != nil {
			a.config.Log.Error("Failed to write master report", "error", err)
		} else {
			a.config.Log.Info("Wrote master report", "path", path)
		}
		if path, err := reporting.WriteMarkdown(a.config.OutputDir, out.Report); err != nil {
			a.config.Log.Error("Failed to write markdown summary", "error", err)
		} else {
			a.config.Log.Info("Wrote markdown summary", "path", path)
		}
	}
	if a.config.SaveIndividualReports {
		if path, err := reporting.WriteResults(a.config.OutputDir, out.Report); err != nil {
			a.config.Log.Error("Failed to write results artifact", "error", err)
		} else {
			a.config.Log.Info("Wrote results artifact", "path", path)
		}
	}
}

// Stop stops the at-acceptor service.
func (a *acceptor) Stop(ctx context.Context) error {
	a.config.Log.Info("Stopping at-acceptor")

	if a.scheduler.Stopped() {
		a.config.Log.Debug("Service already stopped, nothing to do")
		return nil
	}

	if err := a.scheduler.Stop(); err != nil {
		return err
	}

	a.config.Log.Info("at-acceptor stopped successfully")
	return nil
}

// Stopped returns true if the at-acceptor service is stopped.
func (a *acceptor) Stopped() bool {
	return a.scheduler.Stopped()
}

// WaitForShutdown blocks until all goroutines have terminated.
// This is useful in tests to ensure complete cleanup before moving to the next test.
func (a *acceptor) WaitForShutdown(ctx context.Context) error {
	return a.scheduler.WaitForShutdown(ctx)
}

package acceptor

import (
	"context"

	"github.com/ethereum/go-ethereum/log"

	"github.com/a11y-infra/at-acceptor/analysis"
	"github.com/a11y-infra/at-acceptor/compliance"
	"github.com/a11y-infra/at-acceptor/reporting"
	"github.com/a11y-infra/at-acceptor/runner"
	"github.com/a11y-infra/at-acceptor/types"
)

// RunOutput bundles everything one conformance run produces: the raw result
// set plus the derived analysis, compliance matrix and master report.
type RunOutput struct {
	Run         *runner.RunResult
	Comparisons []types.ComparisonRecord
	Compliance  []types.ComplianceCell
	Level       string
	Report      *reporting.MasterReport
}

// RunExecutor is responsible for executing one full conformance run.
type RunExecutor interface {
	Execute(ctx context.Context) (*RunOutput, error)
}

// DefaultRunExecutor implements the RunExecutor interface.
type DefaultRunExecutor struct {
	config *Config
	logger log.Logger
}

// NewDefaultRunExecutor creates a new DefaultRunExecutor.
func NewDefaultRunExecutor(config *Config, logger log.Logger) *DefaultRunExecutor {
	return &DefaultRunExecutor{
		config: config,
		logger: logger,
	}
}

// Execute runs the backend/suite matrix and derives the analysis and report.
// A fresh orchestrator is built per run; nothing survives between runs.
func (e *DefaultRunExecutor) Execute(ctx context.Context) (*RunOutput, error) {
	orch, err := runner.NewOrchestrator(runner.Config{
		Backends:          e.config.Backends,
		Suites:            e.config.Suites,
		Parallel:          e.config.Parallel,
		ContinueOnFailure: e.config.ContinueOnFailure,
		CaseTimeout:       e.config.CaseTimeout,
		BackendOptions:    e.config.BackendOptions,
		Log:               e.logger,
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Running conformance matrix",
		"backends", len(e.config.Backends),
		"suites", len(e.config.Suites),
		"parallel", e.config.Parallel)
	run, err := orch.Run(ctx)
	if err != nil {
		return nil, err
	}

	analysisCfg := analysis.DefaultConfig()
	if e.config.PartialAgreement > 0 {
		analysisCfg.PartialAgreement = e.config.PartialAgreement
	}
	comparisons := analysis.AnalyzeWithConfig(analysisCfg, run.Results)
	cells := compliance.Aggregate(run.Results, run.Backends)
	level := compliance.Level(cells)
	report := reporting.Build(run, comparisons, cells, level)

	e.logger.Info("Run completed",
		"run_id", run.RunID,
		"total", run.Stats.Total,
		"passed", run.Stats.Passed,
		"failed", run.Stats.Failed,
		"level", level)

	return &RunOutput{
		Run:         run,
		Comparisons: comparisons,
		Compliance:  cells,
		Level:       level,
		Report:      report,
	}, nil
}

// Package runner drives the backend × suite execution matrix and collects
// the normalized result set for a single orchestration run.
//
// Each (backend, suite) pair runs in its own adapter session: initialize,
// run every case in the suite, cleanup on every exit path. In sequential
// mode pairs execute in configuration order; in parallel mode each pair is
// one concurrent task producing an isolated result batch, and batches are
// merged by the owning goroutine after all tasks join. No result collection
// is ever written to concurrently.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"

	"github.com/a11y-infra/at-acceptor/backend"
	"github.com/a11y-infra/at-acceptor/catalog"
	"github.com/a11y-infra/at-acceptor/types"
)

// Configuration errors. These fail the run before any backend work starts.
var (
	ErrUnsupportedSuite   = errors.New("unsupported suite")
	ErrUnsupportedBackend = errors.New("unsupported backend")
)

// DefaultCaseTimeout bounds a single test case when no timeout is configured.
const DefaultCaseTimeout = 30 * time.Second

// Config controls one orchestration run.
type Config struct {
	Backends          []types.BackendID
	Suites            []string
	Parallel          bool
	ContinueOnFailure bool
	CaseTimeout       time.Duration

	// BackendOptions carries per-backend session options passed to the
	// adapter at Initialize.
	BackendOptions map[types.BackendID]map[string]string

	Log log.Logger

	// NewAdapter constructs adapter instances; defaults to backend.New.
	// Overridable in tests.
	NewAdapter func(types.BackendID) (backend.Adapter, error)
}

// Orchestrator owns all mutable state for one run. Construct a fresh one per
// run; nothing survives between runs.
type Orchestrator struct {
	cfg   Config
	log   log.Logger
	cases map[string][]types.TestCase
}

// NewOrchestrator validates the configuration and resolves the suite catalog.
// Invalid backends or suites are caller errors and fail fast, before any
// adapter is touched.
func NewOrchestrator(cfg Config) (*Orchestrator, error) {
	if len(cfg.Backends) == 0 {
		return nil, errors.New("at least one backend is required")
	}
	if len(cfg.Suites) == 0 {
		return nil, errors.New("at least one test suite is required")
	}
	for _, b := range cfg.Backends {
		if !b.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, b)
		}
	}
	cases := make(map[string][]types.TestCase, len(cfg.Suites))
	for _, suite := range cfg.Suites {
		tcs, err := catalog.BuildSuite(suite)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedSuite, suite)
		}
		cases[suite] = tcs
	}
	if cfg.CaseTimeout <= 0 {
		cfg.CaseTimeout = DefaultCaseTimeout
	}
	if cfg.NewAdapter == nil {
		cfg.NewAdapter = backend.New
	}
	if cfg.Log == nil {
		cfg.Log = log.Root()
	}

	return &Orchestrator{
		cfg:   cfg,
		log:   cfg.Log.New("component", "orchestrator"),
		cases: cases,
	}, nil
}

// Run executes the full backend × suite matrix and returns the collected
// result set. Per-backend and per-case failures are represented as data in
// the result; the returned error is non-nil only when the run itself was
// cancelled.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	runID := uuid.New().String()
	o.log.Info("Starting conformance run",
		"run_id", runID,
		"backends", len(o.cfg.Backends),
		"suites", len(o.cfg.Suites),
		"parallel", o.cfg.Parallel)

	var batches []batchResult
	if o.cfg.Parallel {
		batches = o.runParallel(ctx)
	} else {
		batches = o.runSequential(ctx)
	}

	result := o.merge(runID, batches)
	result.Duration = time.Since(start)

	o.log.Info("Conformance run finished",
		"run_id", runID,
		"total", result.Stats.Total,
		"passed", result.Stats.Passed,
		"failed", result.Stats.Failed,
		"errors", len(result.Errors),
		"duration", result.Duration)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

// runSequential executes pairs in configuration order. A backend whose
// session fails to initialize is excluded from the rest of the run; with
// continue-on-failure disabled, an execution error likewise drops the
// backend's remaining work.
func (o *Orchestrator) runSequential(ctx context.Context) []batchResult {
	var batches []batchResult
	excluded := make(map[types.BackendID]bool)

	for _, b := range o.cfg.Backends {
		for _, suite := range o.cfg.Suites {
			if ctx.Err() != nil {
				return batches
			}
			if excluded[b] {
				break
			}
			batch := o.runBatch(ctx, b, suite)
			batches = append(batches, batch)
			if batch.initErr != nil || batch.aborted {
				excluded[b] = true
			}
		}
	}
	return batches
}

// merge folds per-pair batches into the flat run result. Batches arrive in
// deterministic (backend, suite) configuration order from both execution
// modes, so report ordering is reproducible.
func (o *Orchestrator) merge(runID string, batches []batchResult) *RunResult {
	result := &RunResult{
		RunID:    runID,
		Backends: o.cfg.Backends,
		Suites:   o.cfg.Suites,
	}

	initSeen := make(map[types.BackendID]bool)
	for _, batch := range batches {
		result.Results = append(result.Results, batch.results...)
		result.Batches = append(result.Batches, BatchSummary{
			Backend:  batch.backend,
			Suite:    batch.suite,
			Stats:    statsFor(batch.results),
			Duration: batch.duration,
		})

		if batch.initErr != nil {
			// In parallel mode every pair of a failed backend reports the
			// same session error; keep one per backend.
			if !initSeen[batch.backend] {
				initSeen[batch.backend] = true
				result.Errors = append(result.Errors, RunError{
					Backend: batch.backend,
					Suite:   batch.suite,
					Stage:   StageInitialize,
					Message: batch.initErr.Error(),
				})
			}
			continue
		}
		result.Errors = append(result.Errors, batch.runErrors...)
	}

	result.Stats = statsFor(result.Results)
	result.Passed = result.Stats.Failed == 0 && len(result.Errors) == 0 && result.Stats.Total > 0
	return result
}

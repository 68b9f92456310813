package runner

import (
	"context"
	"errors"
	"time"

	"github.com/a11y-infra/at-acceptor/backend"
	"github.com/a11y-infra/at-acceptor/normalize"
	"github.com/a11y-infra/at-acceptor/types"
)

// batchResult is the isolated outcome of one (backend, suite) task. Batches
// are owned by the task that produced them until the merge point.
type batchResult struct {
	backend   types.BackendID
	suite     string
	results   []types.TestResult
	initErr   error
	runErrors []RunError
	aborted   bool
	duration  time.Duration
}

// runBatch executes one suite against one backend in a dedicated adapter
// session: initialize, run every case, cleanup on every exit path.
func (o *Orchestrator) runBatch(ctx context.Context, b types.BackendID, suite string) batchResult {
	start := time.Now()
	batch := batchResult{backend: b, suite: suite}
	blog := o.log.New("backend", b, "suite", suite)

	ad, err := o.cfg.NewAdapter(b)
	if err != nil {
		blog.Error("No adapter available", "err", err)
		batch.initErr = err
		batch.duration = time.Since(start)
		return batch
	}

	if err := ad.Initialize(ctx, backend.Config{
		Log:     blog,
		Options: o.cfg.BackendOptions[b],
	}); err != nil {
		blog.Error("Backend session failed to initialize", "err", err)
		batch.initErr = err
		batch.duration = time.Since(start)
		return batch
	}

	// Cleanup must run even when the run context is already cancelled.
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := ad.Cleanup(cleanupCtx); err != nil {
			blog.Warn("Backend cleanup failed", "err", err)
		}
	}()

	for _, tc := range o.cases[suite] {
		if ctx.Err() != nil {
			blog.Debug("Run cancelled, abandoning remaining cases")
			break
		}

		caseStart := time.Now()
		native, err := o.runCase(ctx, ad, tc)
		elapsed := time.Since(caseStart)

		switch {
		case err == nil:
			res := normalize.Normalize(b, tc, native)
			res.TimeTakenMs = elapsed.Milliseconds()
			batch.results = append(batch.results, res)

		case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
			// A timeout fails the case, not the backend.
			blog.Warn("Test case timed out", "case", tc.Name, "timeout", o.cfg.CaseTimeout)
			batch.results = append(batch.results, o.timeoutResult(b, tc, elapsed))

		case ctx.Err() != nil:
			// Run-level cancellation; nothing to record for this case.

		default:
			blog.Error("Test case execution failed", "case", tc.Name, "err", err)
			if o.cfg.ContinueOnFailure {
				batch.results = append(batch.results, o.errorResult(b, tc, err, elapsed))
				continue
			}
			batch.runErrors = append(batch.runErrors, RunError{
				Backend: b,
				Suite:   suite,
				Stage:   StageRun,
				Message: err.Error(),
			})
			batch.aborted = true
		}
		if batch.aborted {
			break
		}
	}

	// Stamp the owning suite so downstream consumers can group results
	// without carrying the batch alongside.
	for i := range batch.results {
		if batch.results[i].Metadata == nil {
			batch.results[i].Metadata = make(map[string]string, 1)
		}
		batch.results[i].Metadata["suite"] = suite
	}

	batch.duration = time.Since(start)
	return batch
}

// runCase applies the per-case timeout around a single adapter call. The
// adapter runs in its own goroutine so a backend that ignores ctx cannot
// stall the run past the deadline.
func (o *Orchestrator) runCase(ctx context.Context, ad backend.Adapter, tc types.TestCase) (types.NativeResult, error) {
	cctx, cancel := context.WithTimeout(ctx, o.cfg.CaseTimeout)
	defer cancel()

	type outcome struct {
		native types.NativeResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		native, err := ad.RunTestCase(cctx, tc)
		done <- outcome{native: native, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil && errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return types.NativeResult{}, context.DeadlineExceeded
		}
		return out.native, out.err
	case <-cctx.Done():
		return types.NativeResult{}, cctx.Err()
	}
}

// timeoutResult synthesizes the canonical failed result for a timed-out case.
func (o *Orchestrator) timeoutResult(b types.BackendID, tc types.TestCase, elapsed time.Duration) types.TestResult {
	return types.TestResult{
		TestName:       tc.Name,
		Backend:        b,
		Passed:         false,
		ActualOutput:   "<no output: timed out>",
		ExpectedOutput: tc.ExpectedOutcome,
		TimeTakenMs:    elapsed.Milliseconds(),
		Violations: []types.Violation{{
			Rule:        "timeout",
			Severity:    types.SeveritySerious,
			Description: "test case did not complete within " + o.cfg.CaseTimeout.String(),
			Suggestion:  "check whether the backend session is responsive",
		}},
		Metadata: cloneMeta(tc.Metadata),
	}
}

// errorResult synthesizes the canonical failed result for a case the backend
// could not execute, used when continue-on-failure is enabled.
func (o *Orchestrator) errorResult(b types.BackendID, tc types.TestCase, err error, elapsed time.Duration) types.TestResult {
	return types.TestResult{
		TestName:       tc.Name,
		Backend:        b,
		Passed:         false,
		ActualOutput:   "<no output: execution error>",
		ExpectedOutput: tc.ExpectedOutcome,
		TimeTakenMs:    elapsed.Milliseconds(),
		Violations: []types.Violation{{
			Rule:        "execution-error",
			Severity:    types.SeveritySerious,
			Description: err.Error(),
		}},
		Metadata: cloneMeta(tc.Metadata),
	}
}

func cloneMeta(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

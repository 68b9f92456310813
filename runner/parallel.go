package runner

import (
	"context"
	"sort"
	"sync"

	"github.com/a11y-infra/at-acceptor/types"
)

// pairWork identifies one (backend, suite) task and its position in the
// configuration order.
type pairWork struct {
	index   int
	backend types.BackendID
	suite   string
}

// runParallel fans out one task per (backend, suite) pair and collects the
// isolated batches after all tasks join. Tasks never share adapter sessions
// or result slices; the merge happens on the single owning goroutine, so no
// synchronization is needed on the result path.
func (o *Orchestrator) runParallel(ctx context.Context) []batchResult {
	var work []pairWork
	for _, b := range o.cfg.Backends {
		for _, suite := range o.cfg.Suites {
			work = append(work, pairWork{index: len(work), backend: b, suite: suite})
		}
	}

	type indexedBatch struct {
		index int
		batch batchResult
	}
	results := make(chan indexedBatch, len(work))

	var wg sync.WaitGroup
	for _, w := range work {
		wg.Add(1)
		go func(w pairWork) {
			defer wg.Done()
			results <- indexedBatch{index: w.index, batch: o.runBatch(ctx, w.backend, w.suite)}
		}(w)
	}
	wg.Wait()
	close(results)

	batches := make([]indexedBatch, 0, len(work))
	for ib := range results {
		batches = append(batches, ib)
	}
	// Restore configuration order so reports stay deterministic regardless
	// of task completion order.
	sort.Slice(batches, func(i, j int) bool { return batches[i].index < batches[j].index })

	out := make([]batchResult, 0, len(batches))
	for _, ib := range batches {
		out = append(out, ib.batch)
	}
	return out
}

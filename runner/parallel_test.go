package runner

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a11y-infra/at-acceptor/backend"
	"github.com/a11y-infra/at-acceptor/catalog"
	"github.com/a11y-infra/at-acceptor/types"
)

// jitterAdapter wraps a stub with a random per-case delay so task completion
// order varies across runs.
type jitterAdapter struct {
	*stubAdapter
	rng *rand.Rand
}

func (a *jitterAdapter) RunTestCase(ctx context.Context, tc types.TestCase) (types.NativeResult, error) {
	delay := time.Duration(a.rng.Intn(5)) * time.Millisecond
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return types.NativeResult{}, ctx.Err()
	}
	return a.stubAdapter.RunTestCase(ctx, tc)
}

func parallelConfig(tracker *lifecycleTracker, behaviors map[types.BackendID]*stubBehavior) Config {
	cfg := baseConfig(tracker, behaviors)
	cfg.Backends = types.KnownBackends()
	cfg.Suites = []string{catalog.SuiteARIA, catalog.SuiteForms, catalog.SuiteNavigation}
	cfg.Parallel = true
	return cfg
}

func TestRunParallelNoResultLossOrDuplication(t *testing.T) {
	// Randomized completion ordering must never lose or duplicate results.
	for i := 0; i < 20; i++ {
		tracker := newTracker()
		cfg := parallelConfig(tracker, nil)
		seed := int64(i)
		base := cfg.NewAdapter
		cfg.NewAdapter = func(id types.BackendID) (backend.Adapter, error) {
			ad, err := base(id)
			if err != nil {
				return nil, err
			}
			return &jitterAdapter{
				stubAdapter: ad.(*stubAdapter),
				rng:         rand.New(rand.NewSource(seed + int64(len(id)))),
			}, nil
		}

		o, err := NewOrchestrator(cfg)
		require.NoError(t, err)
		result, err := o.Run(context.Background())
		require.NoError(t, err)

		expected := 0
		for _, suite := range cfg.Suites {
			cases, err := catalog.BuildSuite(suite)
			require.NoError(t, err)
			expected += len(cases) * len(cfg.Backends)
		}
		require.Len(t, result.Results, expected)

		// Merged length equals the sum of per-batch lengths.
		batchTotal := 0
		for _, b := range result.Batches {
			batchTotal += b.Stats.Total
		}
		assert.Equal(t, expected, batchTotal)

		// No (backend, test) key appears twice.
		seen := make(map[string]bool, expected)
		for _, r := range result.Results {
			key := string(r.Backend) + "/" + r.TestName
			assert.False(t, seen[key], "duplicate result %s", key)
			seen[key] = true
		}
	}
}

func TestRunParallelMatchesSequential(t *testing.T) {
	collect := func(parallel bool) []string {
		cfg := parallelConfig(newTracker(), nil)
		cfg.Parallel = parallel
		o, err := NewOrchestrator(cfg)
		require.NoError(t, err)
		result, err := o.Run(context.Background())
		require.NoError(t, err)

		keys := make([]string, 0, len(result.Results))
		for _, r := range result.Results {
			keys = append(keys, string(r.Backend)+"/"+r.TestName)
		}
		return keys
	}

	seq := collect(false)
	par := collect(true)

	// Batches are merged back into configuration order, so even the
	// sequence matches the sequential mode.
	assert.Equal(t, seq, par)

	sort.Strings(seq)
	sort.Strings(par)
	assert.Equal(t, seq, par)
}

func TestRunParallelInitErrorRecordedOncePerBackend(t *testing.T) {
	behaviors := map[types.BackendID]*stubBehavior{
		types.BackendVoiceOver: {initErr: errors.New("no session")},
	}
	cfg := parallelConfig(newTracker(), behaviors)
	o, err := NewOrchestrator(cfg)
	require.NoError(t, err)

	result, err := o.Run(context.Background())
	require.NoError(t, err)

	initErrs := 0
	for _, e := range result.Errors {
		if e.Stage == StageInitialize {
			initErrs++
			assert.Equal(t, types.BackendVoiceOver, e.Backend)
		}
	}
	assert.Equal(t, 1, initErrs, "a failed backend reports one init error, not one per suite")
	assert.Empty(t, result.ResultsFor(types.BackendVoiceOver))
	assert.NotEmpty(t, result.ResultsFor(types.BackendNVDA))
}

func TestRunParallelSessionsNeverShared(t *testing.T) {
	tracker := newTracker()
	cfg := parallelConfig(tracker, nil)
	o, err := NewOrchestrator(cfg)
	require.NoError(t, err)

	_, err = o.Run(context.Background())
	require.NoError(t, err)

	// One session per (backend, suite) pair.
	for _, b := range cfg.Backends {
		assert.Equal(t, len(cfg.Suites), tracker.count(tracker.inits, b))
		assert.Equal(t, len(cfg.Suites), tracker.count(tracker.cleanups, b))
	}
}

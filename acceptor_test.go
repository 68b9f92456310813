package acceptor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a11y-infra/at-acceptor/types"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Backends:                 []types.BackendID{types.BackendNVDA, types.BackendJAWS},
		Suites:                   []string{"aria"},
		ContinueOnFailure:        true,
		RunOnce:                  true,
		GenerateComparisonReport: true,
		SaveIndividualReports:    true,
		OutputDir:                t.TempDir(),
		Log:                      log.New(),
	}
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(context.Background(), nil, "test", func(error) {})
	require.Error(t, err)
}

func TestRunOnceAllPassing(t *testing.T) {
	cfg := testConfig(t)

	shutdownCalled := make(chan struct{})
	a, err := New(context.Background(), cfg, "test", func(error) { close(shutdownCalled) })
	require.NoError(t, err)

	require.NoError(t, a.Start(context.Background()))

	require.NotNil(t, a.result)
	assert.True(t, a.result.Run.Passed)
	assert.NotEmpty(t, a.result.Comparisons)
	assert.NotEmpty(t, a.result.Level)

	select {
	case <-shutdownCalled:
	case <-time.After(time.Second):
		t.Fatal("shutdown callback was not invoked")
	}
}

func TestRunOnceWithFailuresReturnsTestFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.BackendOptions = map[types.BackendID]map[string]string{
		types.BackendNVDA: {"fail-cases": "aria-button-role"},
	}

	a, err := New(context.Background(), cfg, "test", func(error) {})
	require.NoError(t, err)

	err = a.Start(context.Background())
	require.Error(t, err)
	assert.True(t, IsTestFailureError(err))
	assert.False(t, IsRuntimeError(err))
}

func TestRunOnceWritesArtifacts(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(context.Background(), cfg, "test", func(error) {})
	require.NoError(t, err)
	require.NoError(t, a.Start(context.Background()))

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Len(t, names, 3)
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "master-report-")
	assert.Contains(t, joined, "summary-")
	assert.Contains(t, joined, "results-")
}

func TestArtifactsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.GenerateComparisonReport = false
	cfg.SaveIndividualReports = false

	a, err := New(context.Background(), cfg, "test", func(error) {})
	require.NoError(t, err)
	require.NoError(t, a.Start(context.Background()))

	// The sinks create the directory lazily, so nothing should exist.
	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStopIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	cfg.RunOnce = false
	cfg.RunInterval = time.Hour

	a, err := New(context.Background(), cfg, "test", func(error) {})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, a.Start(ctx))
	require.False(t, a.Stopped())

	require.NoError(t, a.Stop(ctx))
	require.True(t, a.Stopped())
	require.NoError(t, a.Stop(ctx))

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	require.NoError(t, a.WaitForShutdown(waitCtx))
}

func TestExecutorFailsFastOnBadSuite(t *testing.T) {
	cfg := testConfig(t)
	cfg.Suites = []string{"buttons"}

	a, err := New(context.Background(), cfg, "test", func(error) {})
	require.NoError(t, err)

	err = a.Start(context.Background())
	require.Error(t, err)
	assert.True(t, IsRuntimeError(err))
}

func TestKeyIssuePicksMostSevereViolation(t *testing.T) {
	res := types.TestResult{
		Passed: false,
		Violations: []types.Violation{
			{Rule: "aria-hidden-focus", Severity: types.SeverityModerate, Description: "hidden element is focusable"},
			{Rule: "button-name", Severity: types.SeverityCritical, Description: "button has no accessible name"},
		},
	}
	issue := keyIssue(res)
	assert.Contains(t, issue, "button-name")
	assert.Contains(t, issue, "critical")

	assert.Empty(t, keyIssue(types.TestResult{Passed: true}))
}

func TestWriteArtifactsKeepsFilesDistinct(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(context.Background(), cfg, "test", func(error) {})
	require.NoError(t, err)
	require.NoError(t, a.Start(context.Background()))

	matches, err := filepath.Glob(filepath.Join(cfg.OutputDir, "*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

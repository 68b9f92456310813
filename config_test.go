package acceptor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/a11y-infra/at-acceptor/backend"
	"github.com/a11y-infra/at-acceptor/catalog"
	"github.com/a11y-infra/at-acceptor/flags"
	"github.com/a11y-infra/at-acceptor/types"
)

func parseConfig(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	var cfg *Config
	var cfgErr error
	app := &cli.App{
		Name:  "at-acceptor",
		Flags: flags.Flags,
		Action: func(ctx *cli.Context) error {
			cfg, cfgErr = NewConfig(ctx, log.New())
			return nil
		},
	}
	require.NoError(t, app.Run(append([]string{"at-acceptor"}, args...)))
	return cfg, cfgErr
}

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(t)
	require.NoError(t, err)

	assert.Equal(t, backend.Registered(), cfg.Backends)
	assert.Equal(t, catalog.SuiteNames(), cfg.Suites)
	assert.False(t, cfg.Parallel)
	assert.True(t, cfg.ContinueOnFailure)
	assert.True(t, cfg.RunOnce)
	assert.True(t, cfg.GenerateComparisonReport)
	assert.True(t, cfg.SaveIndividualReports)
	assert.True(t, filepath.IsAbs(cfg.OutputDir))
}

func TestNewConfigFromFlags(t *testing.T) {
	cfg, err := parseConfig(t,
		"--backends", "nvda",
		"--suites", "aria,forms",
		"--parallel",
		"--case-timeout", "15s",
		"--run-interval", "1h")
	require.NoError(t, err)

	assert.Equal(t, []types.BackendID{types.BackendNVDA}, cfg.Backends)
	assert.Equal(t, []string{"aria", "forms"}, cfg.Suites)
	assert.True(t, cfg.Parallel)
	assert.Equal(t, 15*time.Second, cfg.CaseTimeout)
	assert.Equal(t, time.Hour, cfg.RunInterval)
	assert.False(t, cfg.RunOnce)
}

func TestNewConfigRejectsUnknownNames(t *testing.T) {
	_, err := parseConfig(t, "--backends", "orca")
	require.Error(t, err)

	_, err = parseConfig(t, "--suites", "buttons")
	require.Error(t, err)
}

func TestNewConfigFileAndFlagMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	doc := `
backends:
  - voiceover
suites:
  - tables
parallel: true
continueOnFailure: false
outputDirectory: from-file
backendOptions:
  voiceover:
    case-delay: 1ms
policy:
  partialAgreement: 0.75
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	// Explicit flags win; everything else comes from the file.
	cfg, err := parseConfig(t, "--run-config", path, "--suites", "aria")
	require.NoError(t, err)

	assert.Equal(t, []types.BackendID{types.BackendVoiceOver}, cfg.Backends)
	assert.Equal(t, []string{"aria"}, cfg.Suites)
	assert.True(t, cfg.Parallel)
	assert.False(t, cfg.ContinueOnFailure)
	assert.Equal(t, 0.75, cfg.PartialAgreement)
	assert.Equal(t, "1ms", cfg.BackendOptions[types.BackendVoiceOver]["case-delay"])
	assert.True(t, filepath.IsAbs(cfg.OutputDir))
	assert.Equal(t, "from-file", filepath.Base(cfg.OutputDir))
}

func TestNewConfigMissingFile(t *testing.T) {
	_, err := parseConfig(t, "--run-config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

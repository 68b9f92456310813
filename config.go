package acceptor

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/a11y-infra/at-acceptor/backend"
	"github.com/a11y-infra/at-acceptor/catalog"
	"github.com/a11y-infra/at-acceptor/flags"
	"github.com/a11y-infra/at-acceptor/registry"
	"github.com/a11y-infra/at-acceptor/types"
	"github.com/ethereum/go-ethereum/log"
)

// Config holds the application configuration
type Config struct {
	Backends          []types.BackendID // Backends to exercise; defaults to all registered adapters
	Suites            []string          // Suites from the catalog to run; defaults to all
	Parallel          bool              // Run backend/suite pairs concurrently
	ContinueOnFailure bool              // Keep running remaining cases after an execution error
	CaseTimeout       time.Duration     // Timeout for a single test case (0 = runner default)
	RunInterval       time.Duration     // Interval between conformance runs
	RunOnce           bool              // Indicates if the service should exit after one run
	PartialAgreement  float64           // Consistency policy knob (0 = analysis default)

	GenerateComparisonReport bool   // Write the master report (JSON + markdown)
	SaveIndividualReports    bool   // Write the raw results artifact
	OutputDir                string // Directory for report artifacts

	// BackendOptions carries opaque adapter session options keyed by backend.
	BackendOptions map[types.BackendID]map[string]string

	Log log.Logger
}

// NewConfig creates a new Config from cli context. When a run config file is
// given its values apply first and explicitly-set flags override them.
func NewConfig(ctx *cli.Context, log log.Logger) (*Config, error) {
	cfg := &Config{
		Parallel:                 ctx.Bool(flags.Parallel.Name),
		ContinueOnFailure:        ctx.Bool(flags.ContinueOnFailure.Name),
		CaseTimeout:              ctx.Duration(flags.CaseTimeout.Name),
		RunInterval:              ctx.Duration(flags.RunInterval.Name),
		PartialAgreement:         ctx.Float64(flags.PartialAgreement.Name),
		GenerateComparisonReport: ctx.Bool(flags.ComparisonReport.Name),
		SaveIndividualReports:    ctx.Bool(flags.IndividualReports.Name),
		OutputDir:                ctx.String(flags.OutputDir.Name),
		Log:                      log,
	}

	backends, err := flags.ParseBackends(ctx.StringSlice(flags.Backends.Name))
	if err != nil {
		return nil, err
	}
	cfg.Backends = backends
	cfg.Suites = ctx.StringSlice(flags.Suites.Name)

	if path := ctx.String(flags.RunConfig.Name); path != "" {
		file, err := registry.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load run config %q: %w", path, err)
		}
		cfg.applyFile(ctx, file)
	}

	// Defaults for anything still unset.
	if len(cfg.Backends) == 0 {
		cfg.Backends = backend.Registered()
	}
	if len(cfg.Suites) == 0 {
		cfg.Suites = catalog.SuiteNames()
	}
	for _, suite := range cfg.Suites {
		if !catalog.ValidSuite(suite) {
			return nil, fmt.Errorf("unknown test suite %q, known suites: %v", suite, catalog.SuiteNames())
		}
	}
	cfg.RunOnce = cfg.RunInterval == 0

	absOutputDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for output directory '%s': %w", cfg.OutputDir, err)
	}
	cfg.OutputDir = absOutputDir

	return cfg, nil
}

// applyFile merges values from the run config file. Flags the user set
// explicitly keep their value; everything else defers to the file.
func (c *Config) applyFile(ctx *cli.Context, file *registry.RunConfig) {
	if len(file.Backends) > 0 && !ctx.IsSet(flags.Backends.Name) {
		c.Backends = file.BackendIDs()
	}
	if len(file.Suites) > 0 && !ctx.IsSet(flags.Suites.Name) {
		c.Suites = append([]string(nil), file.Suites...)
	}
	if file.Parallel != nil && !ctx.IsSet(flags.Parallel.Name) {
		c.Parallel = *file.Parallel
	}
	if file.ContinueOnFailure != nil && !ctx.IsSet(flags.ContinueOnFailure.Name) {
		c.ContinueOnFailure = *file.ContinueOnFailure
	}
	if file.GenerateComparisonReport != nil && !ctx.IsSet(flags.ComparisonReport.Name) {
		c.GenerateComparisonReport = *file.GenerateComparisonReport
	}
	if file.SaveIndividualReports != nil && !ctx.IsSet(flags.IndividualReports.Name) {
		c.SaveIndividualReports = *file.SaveIndividualReports
	}
	if file.CaseTimeout > 0 && !ctx.IsSet(flags.CaseTimeout.Name) {
		c.CaseTimeout = file.CaseTimeout
	}
	if file.OutputDirectory != "" && !ctx.IsSet(flags.OutputDir.Name) {
		c.OutputDir = file.OutputDirectory
	}
	if file.Policy.PartialAgreement > 0 && !ctx.IsSet(flags.PartialAgreement.Name) {
		c.PartialAgreement = file.Policy.PartialAgreement
	}
	if len(file.BackendOptions) > 0 {
		c.BackendOptions = make(map[types.BackendID]map[string]string, len(file.BackendOptions))
		for name, opts := range file.BackendOptions {
			id, _ := types.ParseBackendID(name)
			c.BackendOptions[id] = opts
		}
	}
}

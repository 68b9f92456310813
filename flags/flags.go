package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/a11y-infra/at-acceptor/catalog"
	"github.com/a11y-infra/at-acceptor/types"
)

const EnvVarPrefix = "AT_ACCEPTOR"

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	Backends = &cli.StringSliceFlag{
		Name:    "backends",
		EnvVars: prefixEnvVars("BACKENDS"),
		Usage:   "Backends to run against (eg. 'nvda,jaws'). Defaults to all registered backends.",
	}
	Suites = &cli.StringSliceFlag{
		Name:    "suites",
		EnvVars: prefixEnvVars("SUITES"),
		Usage:   fmt.Sprintf("Test suites to run (eg. 'aria,forms'). Known suites: %v. Defaults to all.", catalog.SuiteNames()),
	}
	RunConfig = &cli.StringFlag{
		Name:    "run-config",
		Value:   "",
		EnvVars: prefixEnvVars("RUN_CONFIG"),
		Usage:   "Path to a run config file (eg. 'run.yaml'). Flags override file values.",
	}
	Parallel = &cli.BoolFlag{
		Name:    "parallel",
		Value:   false,
		EnvVars: prefixEnvVars("PARALLEL"),
		Usage:   "Run backend/suite pairs concurrently instead of sequentially",
	}
	ContinueOnFailure = &cli.BoolFlag{
		Name:    "continue-on-failure",
		Value:   true,
		EnvVars: prefixEnvVars("CONTINUE_ON_FAILURE"),
		Usage:   "Keep running remaining cases after a backend execution error",
	}
	CaseTimeout = &cli.DurationFlag{
		Name:    "case-timeout",
		Value:   0,
		EnvVars: prefixEnvVars("CASE_TIMEOUT"),
		Usage:   "Timeout for a single test case (e.g. '30s'). Set to 0 for the built-in default.",
	}
	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: prefixEnvVars("RUN_INTERVAL"),
		Usage:   "Interval between conformance runs (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
	OutputDir = &cli.StringFlag{
		Name:    "output-dir",
		Value:   "reports",
		EnvVars: prefixEnvVars("OUTPUT_DIR"),
		Usage:   "Directory to write report artifacts to",
	}
	ComparisonReport = &cli.BoolFlag{
		Name:    "comparison-report",
		Value:   true,
		EnvVars: prefixEnvVars("COMPARISON_REPORT"),
		Usage:   "Generate the cross-backend comparison report",
	}
	IndividualReports = &cli.BoolFlag{
		Name:    "individual-reports",
		Value:   true,
		EnvVars: prefixEnvVars("INDIVIDUAL_REPORTS"),
		Usage:   "Save the raw per-backend results artifact",
	}
	PartialAgreement = &cli.Float64Flag{
		Name:    "partial-agreement",
		Value:   0,
		EnvVars: prefixEnvVars("PARTIAL_AGREEMENT"),
		Usage:   "Fraction of backends that must agree for partial consistency. Set to 0 for the built-in default.",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Log level (trace, debug, info, warn, error, crit)",
	}
	LogColor = &cli.BoolFlag{
		Name:    "log-color",
		Value:   false,
		EnvVars: prefixEnvVars("LOG_COLOR"),
		Usage:   "Colorize terminal log output",
	}
)

var Flags = []cli.Flag{
	Backends,
	Suites,
	RunConfig,
	Parallel,
	ContinueOnFailure,
	CaseTimeout,
	RunInterval,
	OutputDir,
	ComparisonReport,
	IndividualReports,
	PartialAgreement,
	LogLevel,
	LogColor,
}

// ParseBackends parses and validates the --backends flag value.
func ParseBackends(names []string) ([]types.BackendID, error) {
	ids := make([]types.BackendID, 0, len(names))
	for _, name := range names {
		id, err := types.ParseBackendID(name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

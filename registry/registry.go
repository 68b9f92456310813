// Package registry loads and validates run configuration files.
//
// A run config is a YAML document that selects backends and suites and
// tunes execution policy for a single run. Command line flags override
// the values loaded here.
package registry

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/a11y-infra/at-acceptor/backend"
	"github.com/a11y-infra/at-acceptor/catalog"
	"github.com/a11y-infra/at-acceptor/types"
)

// Policy holds the analysis tuning knobs.
type Policy struct {
	// PartialAgreement is the fraction of backends that must agree on
	// a verdict for the comparison to be classified as partially
	// consistent. Zero means use the built-in default.
	PartialAgreement float64 `yaml:"partialAgreement"`
}

// RunConfig is the parsed contents of a run configuration file.
// Pointer fields distinguish "absent" from an explicit false so that
// defaults can be applied by the caller.
type RunConfig struct {
	Backends []string `yaml:"backends"`
	Suites   []string `yaml:"suites"`

	Parallel                 *bool `yaml:"parallel"`
	ContinueOnFailure        *bool `yaml:"continueOnFailure"`
	GenerateComparisonReport *bool `yaml:"generateComparisonReport"`
	SaveIndividualReports    *bool `yaml:"saveIndividualReports"`

	CaseTimeout     time.Duration `yaml:"caseTimeout"`
	OutputDirectory string        `yaml:"outputDirectory"`

	// BackendOptions carries opaque adapter options keyed by backend id.
	BackendOptions map[string]map[string]string `yaml:"backendOptions"`

	Policy Policy `yaml:"policy"`
}

// Load reads and validates the run config at path.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read run config")
	}
	return Parse(data)
}

// Parse decodes a run config document and validates its contents.
func Parse(data []byte) (*RunConfig, error) {
	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse run config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *RunConfig) validate() error {
	for _, name := range c.Backends {
		id, err := types.ParseBackendID(name)
		if err != nil {
			return err
		}
		if !backend.Has(id) {
			return errors.Errorf("no adapter registered for backend %q", name)
		}
	}
	for _, suite := range c.Suites {
		if !catalog.ValidSuite(suite) {
			return errors.Errorf("unknown test suite %q, known suites: %v", suite, catalog.SuiteNames())
		}
	}
	for name := range c.BackendOptions {
		if _, err := types.ParseBackendID(name); err != nil {
			return errors.Wrap(err, "backendOptions")
		}
	}
	if c.Policy.PartialAgreement < 0 || c.Policy.PartialAgreement > 1 {
		return errors.Errorf("policy.partialAgreement must be in [0,1], got %v", c.Policy.PartialAgreement)
	}
	if c.CaseTimeout < 0 {
		return errors.Errorf("caseTimeout must not be negative, got %v", c.CaseTimeout)
	}
	return nil
}

// BackendIDs returns the configured backends as typed ids. Validation
// has already guaranteed the names parse.
func (c *RunConfig) BackendIDs() []types.BackendID {
	ids := make([]types.BackendID, 0, len(c.Backends))
	for _, name := range c.Backends {
		id, _ := types.ParseBackendID(name)
		ids = append(ids, id)
	}
	return ids
}

// Package backend defines the contract every assistive-technology automation
// backend must implement, and a registry of adapter factories keyed by
// backend identity.
//
// Adapters own their external session (screen-reader process, OS
// accessibility API handles) and must not share mutable state with other
// adapters or call back into the orchestrator. All blocking operations take a
// context; callers apply per-case timeouts.
package backend

import (
	"context"

	"github.com/ethereum/go-ethereum/log"

	"github.com/a11y-infra/at-acceptor/types"
)

// Config carries per-session adapter configuration.
type Config struct {
	// Log receives adapter lifecycle events.
	Log log.Logger

	// Options holds backend-specific session options (binary paths, ports,
	// simulation knobs for the reference adapters).
	Options map[string]string
}

// Adapter is the uniform lifecycle contract for one automation backend.
//
// Initialize is called once per session before any test case runs; a failure
// excludes the backend from the run but never aborts the orchestrator.
// RunTestCase may take arbitrarily long and must honor ctx cancellation.
// Cleanup is best-effort and runs on every exit path after a successful
// Initialize.
type Adapter interface {
	ID() types.BackendID
	Initialize(ctx context.Context, cfg Config) error
	RunTestCase(ctx context.Context, tc types.TestCase) (types.NativeResult, error)
	Cleanup(ctx context.Context) error
}

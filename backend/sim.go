package backend

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/a11y-infra/at-acceptor/types"
)

// session is the shared state machine behind the reference adapters. The
// reference adapters emulate each vendor's native result dialect without
// driving a real screen reader; real integrations replace them by
// registering their own factories.
//
// Recognized options:
//
//	init-error   "true" makes Initialize fail (session never established)
//	fail-cases   comma-separated test case names that produce a failing result
//	drift-cases  comma-separated test case names whose wording drifts while
//	             still containing the expected outcome
//	case-delay   duration each case takes (for timeout behavior)
type session struct {
	id          types.BackendID
	cfg         Config
	initialized bool
	failCases   map[string]bool
	driftCases  map[string]bool
	delay       time.Duration
}

func (s *session) init(ctx context.Context, id types.BackendID, cfg Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cfg.Options["init-error"] == "true" {
		return errors.Errorf("%s session refused to start", id)
	}
	s.id = id
	s.cfg = cfg
	s.failCases = splitSet(cfg.Options["fail-cases"])
	s.driftCases = splitSet(cfg.Options["drift-cases"])
	if d, err := time.ParseDuration(cfg.Options["case-delay"]); err == nil {
		s.delay = d
	}
	s.initialized = true
	if cfg.Log != nil {
		cfg.Log.Debug("backend session established", "backend", id)
	}
	return nil
}

// wait blocks for the configured per-case delay, honoring ctx.
func (s *session) wait(ctx context.Context) error {
	if !s.initialized {
		return errors.Errorf("%s session not initialized", s.id)
	}
	if s.delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shouldFail reports whether the case is configured to fail in this session.
func (s *session) shouldFail(tc types.TestCase) bool {
	return s.failCases[tc.Name]
}

// speak renders the output a vendor would produce for the case: the expected
// outcome in the vendor's phrasing, mangled when the case is set to fail.
func (s *session) speak(tc types.TestCase, prefix, suffix string) string {
	if s.shouldFail(tc) {
		return prefix + "unlabelled element" + suffix
	}
	out := tc.ExpectedOutcome
	if s.driftCases[tc.Name] {
		out = out + ", " + string(s.id) + " detected"
	}
	return prefix + out + suffix
}

func (s *session) cleanup(ctx context.Context) error {
	s.initialized = false
	if s.cfg.Log != nil {
		s.cfg.Log.Debug("backend session released", "backend", s.id)
	}
	return nil
}

func splitSet(csv string) map[string]bool {
	set := make(map[string]bool)
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			set[part] = true
		}
	}
	return set
}

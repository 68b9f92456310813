package backend

import (
	"context"

	"github.com/a11y-infra/at-acceptor/types"
)

func init() {
	Register(types.BackendNVDA, func() Adapter { return &nvdaAdapter{} })
}

// nvdaAdapter emulates the NVDA automation dialect: a flat payload with an
// explicit success flag and an "issues" list keyed by rule/impact/wcag.
type nvdaAdapter struct {
	session
}

func (a *nvdaAdapter) ID() types.BackendID { return types.BackendNVDA }

func (a *nvdaAdapter) Initialize(ctx context.Context, cfg Config) error {
	return a.init(ctx, types.BackendNVDA, cfg)
}

func (a *nvdaAdapter) RunTestCase(ctx context.Context, tc types.TestCase) (types.NativeResult, error) {
	if err := a.wait(ctx); err != nil {
		return types.NativeResult{}, err
	}

	fields := map[string]any{
		"speech":      a.speak(tc, "", ""),
		"success":     !a.shouldFail(tc),
		"synthVoice":  "espeak-ng",
		"browseMode":  true,
		"focusTarget": tc.TargetSelector,
	}
	if a.shouldFail(tc) {
		fields["issues"] = []any{
			map[string]any{
				"rule":    "missing-accessible-name",
				"impact":  "critical",
				"wcag":    tc.Metadata["wcag"],
				"message": "element is exposed without an accessible name",
				"fix":     "provide an aria-label or visible label",
			},
		}
	}
	return types.NativeResult{Backend: types.BackendNVDA, Fields: fields}, nil
}

func (a *nvdaAdapter) Cleanup(ctx context.Context) error {
	return a.cleanup(ctx)
}

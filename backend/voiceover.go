package backend

import (
	"context"

	"github.com/a11y-infra/at-acceptor/types"
)

func init() {
	Register(types.BackendVoiceOver, func() Adapter { return &voiceOverAdapter{} })
}

// voiceOverAdapter emulates the VoiceOver automation dialect: no explicit
// verdict (callers derive pass/fail from the announcement) and a flat
// violation list without severities.
type voiceOverAdapter struct {
	session
}

func (a *voiceOverAdapter) ID() types.BackendID { return types.BackendVoiceOver }

func (a *voiceOverAdapter) Initialize(ctx context.Context, cfg Config) error {
	return a.init(ctx, types.BackendVoiceOver, cfg)
}

func (a *voiceOverAdapter) RunTestCase(ctx context.Context, tc types.TestCase) (types.NativeResult, error) {
	if err := a.wait(ctx); err != nil {
		return types.NativeResult{}, err
	}

	fields := map[string]any{
		"announcement": a.speak(tc, "VoiceOver: ", ""),
		"platform":     "macos",
		"quickNav":     false,
	}
	if a.shouldFail(tc) {
		fields["violations"] = []any{
			map[string]any{
				"rule":          "accessible-name",
				"wcagCriterion": tc.Metadata["wcag"],
				"description":   "VoiceOver read the element with no label",
			},
		}
	}
	return types.NativeResult{Backend: types.BackendVoiceOver, Fields: fields}, nil
}

func (a *voiceOverAdapter) Cleanup(ctx context.Context) error {
	return a.cleanup(ctx)
}

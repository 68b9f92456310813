package backend

import (
	"context"

	"github.com/a11y-infra/at-acceptor/types"
)

func init() {
	Register(types.BackendJAWS, func() Adapter { return &jawsAdapter{} })
}

// jawsAdapter emulates the JAWS automation dialect: a textual pass/fail
// status and a nested "problems" envelope holding the issue items.
type jawsAdapter struct {
	session
}

func (a *jawsAdapter) ID() types.BackendID { return types.BackendJAWS }

func (a *jawsAdapter) Initialize(ctx context.Context, cfg Config) error {
	return a.init(ctx, types.BackendJAWS, cfg)
}

func (a *jawsAdapter) RunTestCase(ctx context.Context, tc types.TestCase) (types.NativeResult, error) {
	if err := a.wait(ctx); err != nil {
		return types.NativeResult{}, err
	}

	status := "pass"
	if a.shouldFail(tc) {
		status = "fail"
	}
	fields := map[string]any{
		"spokenText":  a.speak(tc, "", "."),
		"status":      status,
		"jawsVersion": "2024.2403.3",
		"cursorMode":  "virtual",
	}
	if a.shouldFail(tc) {
		fields["problems"] = map[string]any{
			"items": []any{
				map[string]any{
					"code":      "name-missing",
					"level":     "moderate",
					"criterion": tc.Metadata["wcag"],
					"detail":    "JAWS announced the element without a name",
					"advice":    "add a programmatic label",
				},
			},
		}
	}
	return types.NativeResult{Backend: types.BackendJAWS, Fields: fields}, nil
}

func (a *jawsAdapter) Cleanup(ctx context.Context) error {
	return a.cleanup(ctx)
}

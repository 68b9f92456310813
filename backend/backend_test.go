package backend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a11y-infra/at-acceptor/types"
)

var sampleCase = types.TestCase{
	Name:            "aria-button-role",
	TargetSelector:  "[data-test='primary-action']",
	ExpectedOutcome: "Submit order, button",
	Metadata:        map[string]string{"wcag": "4.1.2"},
}

func TestRegistryHasAllKnownBackends(t *testing.T) {
	for _, id := range types.KnownBackends() {
		a, err := New(id)
		require.NoError(t, err, "backend %s should be registered", id)
		assert.Equal(t, id, a.ID())
	}
	assert.Equal(t, types.KnownBackends(), Registered())
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(types.BackendID("narrator"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no adapter registered")
}

func TestNewReturnsFreshInstances(t *testing.T) {
	a, err := New(types.BackendNVDA)
	require.NoError(t, err)
	b, err := New(types.BackendNVDA)
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

func TestAdapterLifecycle(t *testing.T) {
	ctx := context.Background()
	for _, id := range types.KnownBackends() {
		t.Run(string(id), func(t *testing.T) {
			a, err := New(id)
			require.NoError(t, err)

			// Running before Initialize is a session error.
			_, err = a.RunTestCase(ctx, sampleCase)
			require.Error(t, err)

			require.NoError(t, a.Initialize(ctx, Config{}))

			native, err := a.RunTestCase(ctx, sampleCase)
			require.NoError(t, err)
			assert.Equal(t, id, native.Backend)
			assert.NotEmpty(t, native.Fields)

			require.NoError(t, a.Cleanup(ctx))
		})
	}
}

func TestAdapterInitError(t *testing.T) {
	a, err := New(types.BackendJAWS)
	require.NoError(t, err)

	err = a.Initialize(context.Background(), Config{Options: map[string]string{"init-error": "true"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused to start")
}

func TestAdapterFailCases(t *testing.T) {
	ctx := context.Background()
	a, err := New(types.BackendNVDA)
	require.NoError(t, err)
	require.NoError(t, a.Initialize(ctx, Config{Options: map[string]string{"fail-cases": "aria-button-role"}}))

	native, err := a.RunTestCase(ctx, sampleCase)
	require.NoError(t, err)
	assert.Equal(t, false, native.Fields["success"])
	assert.NotEmpty(t, native.Fields["issues"])
}

func TestAdapterHonorsContextCancellation(t *testing.T) {
	a, err := New(types.BackendVoiceOver)
	require.NoError(t, err)
	require.NoError(t, a.Initialize(context.Background(), Config{Options: map[string]string{"case-delay": "5s"}}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = a.RunTestCase(ctx, sampleCase)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second, "cancellation should interrupt the case promptly")
}

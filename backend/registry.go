package backend

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/a11y-infra/at-acceptor/types"
)

// Factory creates a fresh, uninitialized adapter instance. Each orchestrator
// task gets its own instance so sessions are never shared across tasks.
type Factory func() Adapter

// registry holds the registered adapter factories. Writes happen during
// package init only; the map is read-only after startup.
var registry = make(map[types.BackendID]Factory)

// Register registers an adapter factory for the given backend identity.
// It should be called from package init.
func Register(id types.BackendID, factory Factory) {
	registry[id] = factory
}

// New returns a fresh adapter instance for the given backend identity.
func New(id types.BackendID) (Adapter, error) {
	factory, ok := registry[id]
	if !ok {
		return nil, errors.Errorf("no adapter registered for backend %q", id)
	}
	return factory(), nil
}

// Has reports whether an adapter factory is registered for id.
func Has(id types.BackendID) bool {
	_, ok := registry[id]
	return ok
}

// Registered returns the identities of all registered adapters, sorted.
func Registered() []types.BackendID {
	ids := make([]types.BackendID, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

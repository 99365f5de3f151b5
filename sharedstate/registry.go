// Package sharedstate implements the skill-level container that wraps
// an abci.Period together with the handful of mutable facts an
// embedding application keeps outside the period's own consensus
// state, plus a TypeRegistry resolving round names to factories
// through an explicit name -> factory map rather than dynamic lookup.
package sharedstate

import (
	"fmt"
	"sort"

	"github.com/valory-xyz/abci-round-engine/abci"
)

// TypeRegistry resolves round names to the factories that build them.
// It is populated explicitly by the embedding application before
// SharedState.Setup runs.
type TypeRegistry struct {
	rounds map[string]abci.RoundFactory
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{rounds: make(map[string]abci.RoundFactory)}
}

// RegisterRound associates name with factory. Registering the same
// name twice panics: two factories claiming the same name is always a
// wiring mistake in the embedding application and must fail loudly at
// setup, not silently pick one.
func (r *TypeRegistry) RegisterRound(name string, factory abci.RoundFactory) {
	if _, exists := r.rounds[name]; exists {
		panic(fmt.Sprintf("sharedstate: round name already registered: %q", name))
	}
	r.rounds[name] = factory
}

// Resolve looks up the factory registered under name.
func (r *TypeRegistry) Resolve(name string) (abci.RoundFactory, error) {
	factory, ok := r.rounds[name]
	if !ok {
		return nil, fmt.Errorf("sharedstate: no round registered under name %q (registered: %s)", name, r.registeredNames())
	}
	return factory, nil
}

func (r *TypeRegistry) registeredNames() string {
	names := make([]string, 0, len(r.rounds))
	for name := range r.rounds {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprint(names)
}

// Package registry provides the shared name-to-component lookup consulted
// by the render pipeline and the component template tag. Registration
// happens at wiring time; during renders the registry is read-only, so a
// single instance can serve concurrent renders.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-components/pkg/component"
)

// Registry stores component definitions by name, with duplication
// safeguards. Callers can embed or wrap it for dependency injection.
type Registry struct {
	mu         sync.RWMutex
	components map[string]component.Definition
}

// New creates an empty registry instance.
func New() *Registry {
	return &Registry{
		components: make(map[string]component.Definition),
	}
}

// Register adds a definition under its Name(). Duplicate names return an
// error.
func (r *Registry) Register(def component.Definition) error {
	if def == nil {
		return fmt.Errorf("registry: component is required")
	}
	name := def.Name()
	if name == "" {
		return fmt.Errorf("registry: component name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.components[name]; exists {
		return fmt.Errorf("registry: component %q already registered", name)
	}

	r.components[name] = def
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(def component.Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Get retrieves a definition by name.
func (r *Registry) Get(name string) (component.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.components[name]
	if !ok {
		return nil, fmt.Errorf("registry: component %q not found", name)
	}
	return def, nil
}

// List returns the sorted names of every registered component.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a component is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.components[name]
	return ok
}

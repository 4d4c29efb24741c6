package schema

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"mapforge/internal/suggest"
)

// ErrEntityNotFound marks lookups of entities the registry does not know.
var ErrEntityNotFound = errors.New("entity not found")

// Registry resolves entity descriptors by name. It is safe for concurrent
// use; descriptors handed out are shared and must be treated as read-only.
type Registry struct {
	mu       sync.RWMutex
	entities map[string]*Entity
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entities: make(map[string]*Entity)}
}

// Register adds an entity. Names must be non-empty and unique.
func (r *Registry) Register(e *Entity) error {
	if e == nil {
		return errors.New("entity is nil")
	}

	if e.Name == "" {
		return errors.New("entity name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entities[e.Name]; ok {
		return fmt.Errorf("entity %q is already registered", e.Name)
	}

	r.entities[e.Name] = e

	return nil
}

// Entity resolves a descriptor by name. A near-miss names the closest
// registered entity in the error.
func (r *Registry) Entity(name string) (*Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entities[name]
	if !ok {
		if hint, found := suggest.Closest(name, r.namesLocked()); found {
			return nil, fmt.Errorf("%s (did you mean %q?): %w", name, hint, ErrEntityNotFound)
		}

		return nil, fmt.Errorf("%s: %w", name, ErrEntityNotFound)
	}

	return e, nil
}

// Names returns the registered entity names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.entities))
	for name := range r.entities {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Len returns the number of registered entities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entities)
}

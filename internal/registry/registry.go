// Package registry holds the process-wide mapping from aggregate type names
// to their finalized schemas.
//
// Registration is the write phase: every type is inserted exactly once,
// under a lock, at program startup. Registering a name twice is an error, as
// is registering a type whose fields reference an aggregate that has not
// been registered yet; the declare-before-use rule keeps the type graph
// acyclic by construction. After the write phase the registry is effectively
// frozen and lookups are safe from any goroutine.
package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/vk/typedconf/internal/schema"
)

// Registry maps aggregate type names to their frozen schemas.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*schema.Type
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{types: make(map[string]*schema.Type)}
}

// Register finalizes a type schema and inserts it. It fails if the schema
// itself is invalid, if the name is already taken, or if any field
// references an aggregate type that is not registered here.
func (r *Registry) Register(t *schema.Type) error {
	if t == nil {
		return fmt.Errorf("cannot register a nil type")
	}
	if err := t.Finalize(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[t.Name()]; exists {
		return fmt.Errorf("type '%s' is already registered", t.Name())
	}

	for _, f := range t.Fields() {
		for _, ref := range f.Descriptor().Refs() {
			registered, ok := r.types[ref.Name()]
			if !ok {
				return fmt.Errorf("type '%s', field '%s': referenced type '%s' is not registered; declare aggregate types before they are used", t.Name(), f.Name(), ref.Name())
			}
			if registered != ref {
				return fmt.Errorf("type '%s', field '%s': referenced type '%s' is a different schema than the registered one", t.Name(), f.Name(), ref.Name())
			}
		}
	}

	slog.Debug("Registering type schema.", "name", t.Name(), "fields", len(t.Fields()))
	r.types[t.Name()] = t
	return nil
}

// MustRegister registers a type and panics on failure. Intended for the
// startup phase, where a schema mistake is a programmer error.
func (r *Registry) MustRegister(t *schema.Type) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Lookup returns the schema registered under the given name.
func (r *Registry) Lookup(name string) (*schema.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

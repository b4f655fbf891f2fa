package container

import (
	"context"
	"sort"
	"sync"
)

// Factory builds the value for a binding. params holds the binding's own
// parameter overrides.
type Factory func(ctx context.Context, c *Container, params *ParameterCollection) (any, error)

// ── Binding ───────────────────────────────────────────────────────────────────

// Binding is one registered recipe: an id, the factory producing its value,
// whether the value is shared and the parameter overrides handed to the
// factory.
type Binding struct {
	id         string
	factory    Factory
	shared     bool
	parameters *ParameterCollection
}

// NewBinding creates a binding. A nil params gets an empty collection.
func NewBinding(id string, factory Factory, shared bool, params *ParameterCollection) *Binding {
	if params == nil {
		params = NewParameterCollection()
	}
	return &Binding{id: id, factory: factory, shared: shared, parameters: params}
}

// ID returns the id the binding is registered under.
func (b *Binding) ID() string { return b.id }

// IsShared reports whether the produced value is cached after first use.
func (b *Binding) IsShared() bool { return b.shared }

// Parameters returns the binding's parameter overrides.
func (b *Binding) Parameters() *ParameterCollection { return b.parameters }

// Instance invokes the factory with c and the binding's parameters.
func (b *Binding) Instance(ctx context.Context, c *Container) (any, error) {
	return b.factory(ctx, c, b.parameters)
}

// Share marks the binding as shared.
//
//	c.Bind("cache", nil, nil).Share()
func (b *Binding) Share() *Binding {
	b.shared = true
	return b
}

// BindParameter adds an override for the named constructor parameter.
//
//	c.Bind("Mailer", nil, nil).BindParameter("port", 2525)
func (b *Binding) BindParameter(name string, value any) *Binding {
	b.parameters.Add(NewParameter(name, value))
	return b
}

// ── BindingRegistry ───────────────────────────────────────────────────────────

// BindingRegistry keeps bindings keyed by id plus the full history of
// everything added, with the same Delete semantics as ParameterCollection.
type BindingRegistry struct {
	mu   sync.RWMutex
	byID map[string]*Binding
	all  []*Binding
}

// NewBindingRegistry creates a registry seeded with bindings.
func NewBindingRegistry(bindings ...*Binding) *BindingRegistry {
	r := &BindingRegistry{byID: make(map[string]*Binding, len(bindings))}
	for _, b := range bindings {
		r.Add(b)
	}
	return r
}

// Add appends b to the history and makes it the active binding for its id.
func (r *BindingRegistry) Add(b *Binding) *Binding {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, b)
	r.byID[b.ID()] = b
	return b
}

// All returns every binding ever added, in insertion order.
func (r *BindingRegistry) All() []*Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Binding, len(r.all))
	copy(out, r.all)
	return out
}

// Has reports whether an active binding exists for id.
func (r *BindingRegistry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok
}

// Get returns the active binding for id, or nil.
func (r *BindingRegistry) Get(id string) *Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id]
}

// Delete removes the active binding for id. The history is untouched.
func (r *BindingRegistry) Delete(id string) *BindingRegistry {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return r
}

// Len returns the number of active bindings.
func (r *BindingRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// IDs returns the active ids, sorted.
func (r *BindingRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// clone returns a copy of b with its own parameter collection.
func (b *Binding) clone() *Binding {
	return &Binding{id: b.id, factory: b.factory, shared: b.shared, parameters: b.parameters.clone()}
}

// clone returns a registry with the same history and active view, made of
// copied bindings.
func (r *BindingRegistry) clone() *BindingRegistry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := &BindingRegistry{
		byID: make(map[string]*Binding, len(r.byID)),
		all:  make([]*Binding, len(r.all)),
	}
	copies := make(map[*Binding]*Binding, len(r.all))
	for i, b := range r.all {
		cp, ok := copies[b]
		if !ok {
			cp = b.clone()
			copies[b] = cp
		}
		out.all[i] = cp
	}
	for id, b := range r.byID {
		cp, ok := copies[b]
		if !ok {
			cp = b.clone()
		}
		out.byID[id] = cp
	}
	return out
}

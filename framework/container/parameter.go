package container

import (
	"context"
	"sort"
)

// Lazy is a parameter value computed from the container at resolution time.
//
//	c.Bind("mailer", nil, container.Params{
//	    "from": container.Lazy(func(ctx context.Context, c *container.Container) (any, error) {
//	        return c.Get(ctx, "mail.from")
//	    }),
//	})
type Lazy func(ctx context.Context, c *Container) (any, error)

// Params is the name → value form accepted by Bind and Make.
type Params map[string]any

// Parameter is a named override for a constructor argument.
type Parameter struct {
	name  string
	value any
}

// NewParameter creates a parameter. value may be a Lazy, a func() any or a
// func(*Container) any, in which case it is evaluated on every Value call.
func NewParameter(name string, value any) *Parameter {
	return &Parameter{name: name, value: value}
}

// Name returns the parameter name.
func (p *Parameter) Name() string { return p.name }

// Raw returns the value as given to NewParameter, unevaluated.
func (p *Parameter) Raw() any { return p.value }

// Value returns the parameter value, invoking it first if it is lazy. During a
// resolution, container-taking callables receive a handle on c that keeps the
// resolution chain, so c.Get(context.Background(), ...) inside them still
// detects cycles. A func() any has no such handle and must not resolve from
// the container.
func (p *Parameter) Value(ctx context.Context, c *Container) (any, error) {
	switch fn := p.value.(type) {
	case Lazy:
		h, release := c.scoped(ctx)
		defer release()
		return fn(ctx, h)
	case func(context.Context, *Container) (any, error):
		h, release := c.scoped(ctx)
		defer release()
		return fn(ctx, h)
	case func(*Container) any:
		h, release := c.scoped(ctx)
		defer release()
		return fn(h), nil
	case func() any:
		return fn(), nil
	default:
		return p.value, nil
	}
}

// ── ParameterCollection ──────────────────────────────────────────────────────

// ParameterCollection keeps parameters keyed by name plus the full history of
// everything added. Delete only hides a name from Has/Get; All still returns
// the deleted parameter.
type ParameterCollection struct {
	byName map[string]*Parameter
	all    []*Parameter
}

// NewParameterCollection creates a collection seeded with params.
func NewParameterCollection(params ...*Parameter) *ParameterCollection {
	pc := &ParameterCollection{byName: make(map[string]*Parameter, len(params))}
	for _, p := range params {
		pc.Add(p)
	}
	return pc
}

// collectParams converts Params into a collection, in name order so the
// history is deterministic.
func collectParams(params Params) *ParameterCollection {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	pc := NewParameterCollection()
	for _, name := range names {
		pc.Add(NewParameter(name, params[name]))
	}
	return pc
}

// Add appends p to the history and makes it the active entry for its name.
func (pc *ParameterCollection) Add(p *Parameter) *Parameter {
	pc.all = append(pc.all, p)
	pc.byName[p.Name()] = p
	return p
}

// All returns every parameter ever added, in insertion order.
func (pc *ParameterCollection) All() []*Parameter {
	out := make([]*Parameter, len(pc.all))
	copy(out, pc.all)
	return out
}

// Has reports whether an active parameter exists for name.
func (pc *ParameterCollection) Has(name string) bool {
	_, ok := pc.byName[name]
	return ok
}

// Get returns the active parameter for name, or nil.
func (pc *ParameterCollection) Get(name string) *Parameter {
	return pc.byName[name]
}

// Delete removes the active entry for name. The history is untouched.
func (pc *ParameterCollection) Delete(name string) *ParameterCollection {
	delete(pc.byName, name)
	return pc
}

// Len returns the number of active parameters.
func (pc *ParameterCollection) Len() int { return len(pc.byName) }

// clone copies the collection; the parameters themselves are immutable and
// shared.
func (pc *ParameterCollection) clone() *ParameterCollection {
	out := &ParameterCollection{
		byName: make(map[string]*Parameter, len(pc.byName)),
		all:    make([]*Parameter, len(pc.all)),
	}
	copy(out.all, pc.all)
	for name, p := range pc.byName {
		out.byName[name] = p
	}
	return out
}

package container

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// SelfID is the id under which every container registers itself. It is also
// the type name of *Container and is reserved in the container's Types.
const SelfID = "container"

// ── Container ─────────────────────────────────────────────────────────────────

// Container maps string ids to bindings and shared instances, and builds
// anything it is asked for through its Resolver.
//
// It supports:
//   - Bind / Share / Instance
//   - Make (binds unknown ids to themselves) / Get (unknown ids fail)
//   - Constructor auto-wiring through a TypeIntrospector
//   - Per-binding and per-call parameter overrides
//   - Cycle detection along the resolution chain
type Container struct {
	*state

	// scope is set on the handles given to lazy parameters; it carries the
	// resolution chain for calls made without a chain in their context.
	scope *lazyScope
}

type state struct {
	mu sync.RWMutex

	resolver Resolver
	bindings *BindingRegistry
	types    *Types
	logger   *zap.Logger

	// id → shared instance
	instances map[string]any
}

// Option configures a Container in New.
type Option func(*Container)

// WithResolver replaces the default ConstructorResolver.
func WithResolver(r Resolver) Option {
	return func(c *Container) { c.resolver = r }
}

// WithBindings uses an existing registry instead of an empty one.
func WithBindings(b *BindingRegistry) Option {
	return func(c *Container) { c.bindings = b }
}

// WithTypes uses an existing type registry instead of an empty one.
func WithTypes(t *Types) Option {
	return func(c *Container) { c.types = t }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) { c.logger = l }
}

// New creates a container. It is bound to itself under SelfID, so
// constructors taking a *Container receive it.
func New(opts ...Option) *Container {
	c := &Container{state: &state{instances: make(map[string]any)}}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.types == nil {
		c.types = NewTypes()
	}
	if c.bindings == nil {
		c.bindings = NewBindingRegistry()
	}
	if c.resolver == nil {
		c.resolver = NewConstructorResolver(c.types, c.logger)
	}

	if prev, ok := c.types.typeFor(SelfID); ok && prev != selfType {
		c.logger.Warn("container: type name is reserved, replacing registration",
			zap.String("name", SelfID), zap.Stringer("type", prev))
	}
	c.types.register(&typeEntry{name: SelfID, kind: kindAbstract, typ: selfType})
	c.Instance(c, SelfID)
	return c
}

// Clone returns a container with copies of the bindings (including their
// parameter overrides) and instances, sharing the resolver, types and logger.
// Later registrations on either side do not affect the other; the shared
// instances themselves are the same values.
func (c *Container) Clone() *Container {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := &Container{state: &state{
		resolver:  c.resolver,
		bindings:  c.bindings.clone(),
		types:     c.types,
		logger:    c.logger,
		instances: make(map[string]any, len(c.instances)),
	}}
	for id, inst := range c.instances {
		out.instances[id] = inst
	}
	out.instances[SelfID] = out
	return out
}

// ── Accessors ─────────────────────────────────────────────────────────────────

// Resolver returns the resolver used for type bindings.
func (c *Container) Resolver() Resolver { return c.resolver }

// Bindings returns the binding registry.
func (c *Container) Bindings() *BindingRegistry { return c.bindings }

// Types returns the type registry.
func (c *Container) Types() *Types { return c.types }

// Logger returns the container logger.
func (c *Container) Logger() *zap.Logger { return c.logger }

// Instances returns a copy of the cached shared instances.
func (c *Container) Instances() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]any, len(c.instances))
	for id, inst := range c.instances {
		out[id] = inst
	}
	return out
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers target under id, replacing any previous binding and dropping
// any cached instance for id. A nil target builds the type named id.
//
//	c.Bind("Logger", container.ByType("ConsoleLogger"), nil)
//	c.Bind("Mailer", nil, container.Params{"port": 2525})
func (c *Container) Bind(id string, target Target, params Params) *Binding {
	return c.bind(id, target, params, false)
}

// Share is Bind with the produced value cached after first resolution.
//
//	c.Share("db", container.FromFactory(openDB), nil)
func (c *Container) Share(id string, target Target, params Params) *Binding {
	return c.bind(id, target, params, true)
}

func (c *Container) bind(id string, target Target, params Params, shared bool) *Binding {
	c.mu.Lock()
	delete(c.instances, id)
	c.mu.Unlock()

	if target == nil {
		target = ByType(id)
	}

	c.logger.Debug("container: bind", zap.String("id", id), zap.Bool("shared", shared), zap.Int("params", len(params)))
	return c.bindings.Add(NewBinding(id, target.factory(id), shared, collectParams(params)))
}

// Instance registers a pre-built value under id, removing any binding for id.
// An empty id defaults to the registered type name of instance.
//
//	c.Instance(cfg, "config")
func (c *Container) Instance(instance any, id string) {
	if id == "" {
		id = c.types.TypeOf(instance)
	}
	c.bindings.Delete(id)

	c.mu.Lock()
	c.instances[id] = instance
	c.mu.Unlock()
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Has reports whether id has a cached instance or a binding.
func (c *Container) Has(id string) bool {
	c.mu.RLock()
	_, ok := c.instances[id]
	c.mu.RUnlock()
	return ok || c.bindings.Has(id)
}

// Get resolves id, failing with a NotFoundError when it is unknown.
func (c *Container) Get(ctx context.Context, id string) (any, error) {
	if !c.Has(id) {
		return nil, &NotFoundError{ID: id}
	}
	return c.Make(ctx, id, nil)
}

// Make resolves id. An unknown id is first bound to the type of the same name
// with params as its overrides; params are ignored for known ids.
//
//	svc, err := c.Make(ctx, "UserService", container.Params{"pageSize": 50})
func (c *Container) Make(ctx context.Context, id string, params Params) (any, error) {
	ch := c.chainFor(ctx)
	if ch.contains(id) {
		err := &ResolutionError{
			ID:     id,
			Reason: "dependency chain " + ch.path(id),
			Cause:  ErrCyclicDependency,
		}
		c.logger.Debug("container: cycle", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	ctx = withChain(ctx, ch.push(id))

	if !c.Has(id) {
		c.bind(id, nil, params, false)
	}

	return c.build(ctx, id)
}

// build returns the cached instance for id or invokes its binding, caching
// the result when the binding is shared. It does not check the chain.
func (c *Container) build(ctx context.Context, id string) (any, error) {
	c.mu.RLock()
	inst, ok := c.instances[id]
	c.mu.RUnlock()
	if ok {
		c.logger.Debug("container: cached", zap.String("id", id))
		return inst, nil
	}

	b := c.bindings.Get(id)
	if b == nil {
		return nil, &NotFoundError{ID: id}
	}

	inst, err := b.Instance(ctx, c)
	if err != nil {
		return nil, err
	}

	if b.IsShared() {
		c.mu.Lock()
		c.instances[id] = inst
		c.mu.Unlock()
	}
	c.logger.Debug("container: resolved", zap.String("id", id), zap.Bool("shared", b.IsShared()))
	return inst, nil
}

// ── Resolution chain ──────────────────────────────────────────────────────────

type chainKey struct{}

var selfType = reflect.TypeOf((*Container)(nil))

// lazyScope is live only while a lazy parameter is being evaluated.
type lazyScope struct {
	chain *chain
	done  atomic.Bool
}

// chainFor returns the chain in ctx, falling back to the chain of a live
// lazy scope so calls made with a fresh context still see it.
func (c *Container) chainFor(ctx context.Context) *chain {
	if ch := chainFrom(ctx); ch != nil {
		return ch
	}
	if c.scope != nil && !c.scope.done.Load() {
		return c.scope.chain
	}
	return nil
}

// scoped returns a handle on c that carries the current chain until release
// is called. Outside a resolution it returns c itself.
func (c *Container) scoped(ctx context.Context) (handle *Container, release func()) {
	ch := c.chainFor(ctx)
	if ch == nil {
		return c, func() {}
	}
	s := &lazyScope{chain: ch}
	return &Container{state: c.state, scope: s}, func() { s.done.Store(true) }
}

// chain is the set of ids being built on the current call path, innermost
// first. It is immutable, so leaving a Make call drops the entry on every
// path without cleanup.
type chain struct {
	id     string
	depth  int
	parent *chain
}

func chainFrom(ctx context.Context) *chain {
	ch, _ := ctx.Value(chainKey{}).(*chain)
	return ch
}

func withChain(ctx context.Context, ch *chain) context.Context {
	return context.WithValue(ctx, chainKey{}, ch)
}

func (ch *chain) contains(id string) bool {
	for n := ch; n != nil; n = n.parent {
		if n.id == id {
			return true
		}
	}
	return false
}

func (ch *chain) push(id string) *chain {
	depth := 0
	if ch != nil {
		depth = ch.depth + 1
	}
	return &chain{id: id, depth: depth, parent: ch}
}

// path renders the chain outermost first, followed by next.
func (ch *chain) path(next string) string {
	var ids []string
	for n := ch; n != nil; n = n.parent {
		ids = append(ids, n.id)
	}
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return strings.Join(append(ids, next), " -> ")
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls Make and type-asserts the result.
//
//	db, err := container.Resolve[*sql.DB](ctx, c, "db")
func Resolve[T any](ctx context.Context, c *Container, id string) (T, error) {
	var zero T
	instance, err := c.Make(ctx, id, nil)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: [%s] resolved to %T, not %v", id, instance, reflect.TypeOf((*T)(nil)).Elem())
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on failure. Meant for bootstrap code.
func MustResolve[T any](ctx context.Context, c *Container, id string) T {
	typed, err := Resolve[T](ctx, c, id)
	if err != nil {
		panic(err)
	}
	return typed
}

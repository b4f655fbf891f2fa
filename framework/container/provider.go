package container

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related registrations.
//
// Register binds services into the container; it must not resolve anything.
// Boot runs once all providers are registered and may resolve freely.
//
//	type MailProvider struct{ container.BaseProvider }
//
//	func (p *MailProvider) Register(c *container.Container) error {
//	    if err := c.Types().Constructor("Mailer", NewMailer, container.Arg("host")); err != nil {
//	        return err
//	    }
//	    c.Share("Mailer", nil, container.Params{"host": "localhost"})
//	    return nil
//	}
type ServiceProvider interface {
	Register(c *Container) error

	Boot(ctx context.Context, c *Container) error

	// Provides lists the ids a deferred provider registers.
	Provides() []string

	// IsDeferred defers Register until one of Provides is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable no-op implementation of everything but
// Register.
type BaseProvider struct{}

func (p *BaseProvider) Boot(context.Context, *Container) error { return nil }
func (p *BaseProvider) Provides() []string                     { return nil }
func (p *BaseProvider) IsDeferred() bool                       { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots providers against one container.
type ProviderRegistry struct {
	app        *Container
	loaded     []ServiceProvider
	deferred   map[string]ServiceProvider // id → provider
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]ServiceProvider),
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider. Eager providers are registered immediately, and
// booted too if the registry already booted.
func (r *ProviderRegistry) Register(ctx context.Context, provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, id := range provider.Provides() {
			r.deferred[id] = provider
			r.interceptDeferred(id, provider)
		}
		return nil
	}

	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("register %T: %w", provider, err)
	}
	r.loaded = append(r.loaded, provider)
	r.app.Logger().Debug("container: provider registered", zap.String("provider", fmt.Sprintf("%T", provider)))

	if r.booted {
		if err := provider.Boot(ctx, r.app); err != nil {
			return fmt.Errorf("boot %T: %w", provider, err)
		}
	}
	return nil
}

// interceptDeferred binds id to a stub that registers the provider on first
// resolution and then builds the binding the provider put in its place.
func (r *ProviderRegistry) interceptDeferred(id string, provider ServiceProvider) {
	var stub *Binding
	stub = r.app.Bind(id, FromFactory(func(ctx context.Context, c *Container, _ *ParameterCollection) (any, error) {
		if err := r.loadDeferred(ctx, provider); err != nil {
			return nil, err
		}
		if c.Bindings().Get(id) == stub {
			return nil, &ResolutionError{ID: id, Reason: fmt.Sprintf("deferred provider %T did not register it", provider)}
		}
		return c.build(ctx, id)
	}), nil)
}

func (r *ProviderRegistry) loadDeferred(ctx context.Context, provider ServiceProvider) error {
	pending := false
	for id, p := range r.deferred {
		if p == provider {
			pending = true
			delete(r.deferred, id)
		}
	}
	if !pending {
		return nil
	}

	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("register %T: %w", provider, err)
	}
	r.loaded = append(r.loaded, provider)
	if r.booted {
		if err := provider.Boot(ctx, r.app); err != nil {
			return fmt.Errorf("boot %T: %w", provider, err)
		}
	}
	return nil
}

// Boot boots every registered provider, once. Deferred providers loaded
// later are booted as they load.
func (r *ProviderRegistry) Boot(ctx context.Context) error {
	if r.booted {
		return nil
	}
	r.booted = true
	for _, provider := range r.loaded {
		if err := provider.Boot(ctx, r.app); err != nil {
			return fmt.Errorf("boot %T: %w", provider, err)
		}
	}
	return nil
}

// Booted reports whether Boot has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns the registered providers: eager ones plus deferred ones
// that have been loaded.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.loaded }

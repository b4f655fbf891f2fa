package providers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/inspect"
	"github.com/km-arc/go-container/framework/logging"
	"github.com/km-arc/go-container/framework/routing"
)

// Ids bound by the framework providers.
const (
	ConfigID    = "config"
	LoggerID    = "logger"
	RouterID    = "router"
	InspectorID = "inspector"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the application configuration as "config".
// A preloaded Config is bound as an instance; otherwise EnvFiles are read on
// first resolution.
//
// Bound ids:
//   - "config"  → *config.Config
type ConfigServiceProvider struct {
	container.BaseProvider
	Config   *config.Config
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	if err := app.Types().Abstract(ConfigID, (*config.Config)(nil)); err != nil {
		return err
	}
	if p.Config != nil {
		app.Instance(p.Config, ConfigID)
		return nil
	}

	envFiles := p.EnvFiles
	app.Share(ConfigID, container.FromFactory(func(context.Context, *container.Container, *container.ParameterCollection) (any, error) {
		return config.Load(envFiles...), nil
	}), nil)
	return nil
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the zap logger as "logger". Without a Logger it
// is built by logging.New from the resolved "config".
//
// Bound ids:
//   - "logger"  → *zap.Logger
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	if err := app.Types().Constructor(LoggerID, logging.New, container.Arg("cfg")); err != nil {
		return err
	}
	if p.Logger != nil {
		app.Instance(p.Logger, LoggerID)
		return nil
	}
	app.Share(LoggerID, nil, nil)
	return nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router, wired to "logger".
//
// Bound ids:
//   - "router"  → *routing.Router
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	if err := app.Types().Constructor(RouterID, routing.New, container.Arg("logger")); err != nil {
		return err
	}
	app.Share(RouterID, nil, nil)
	return nil
}

// ── InspectServiceProvider ────────────────────────────────────────────────────

// InspectServiceProvider mounts the container inspector on the router at
// Prefix (default "/_container") during Boot.
//
// Bound ids:
//   - "inspector"  → *inspect.Handler
type InspectServiceProvider struct {
	container.BaseProvider
	Prefix string
}

func (p *InspectServiceProvider) Register(app *container.Container) error {
	if err := app.Types().Constructor(InspectorID, inspect.NewHandler, container.Arg("c")); err != nil {
		return err
	}
	app.Share(InspectorID, nil, nil)
	return nil
}

func (p *InspectServiceProvider) Boot(ctx context.Context, app *container.Container) error {
	prefix := p.Prefix
	if prefix == "" {
		prefix = "/_container"
	}

	router, err := container.Resolve[*routing.Router](ctx, app, RouterID)
	if err != nil {
		return fmt.Errorf("inspector: %w", err)
	}
	handler, err := container.Resolve[*inspect.Handler](ctx, app, InspectorID)
	if err != nil {
		return fmt.Errorf("inspector: %w", err)
	}
	handler.Routes(router, prefix)
	return nil
}

// Package container provides a string-keyed dependency injection container
// that wires constructor arguments automatically.
//
// # Overview
//
// Ids map to bindings. A binding builds a value from a type name, a literal
// or an explicit factory; shared bindings cache the value after the first
// resolution. Types are described to the container through a
// TypeIntrospector; the default one, Types, is a registration table backed
// by reflect, since Go cannot look types up by name.
//
// # Registering types
//
//	types := c.Types()
//	types.Abstract("Logger", (*Logger)(nil))
//	types.Struct("ConsoleLogger", (*ConsoleLogger)(nil))
//	types.Constructor("UserService", NewUserService,
//	    container.Arg("logger"),
//	    container.Arg("pageSize").Default(20),
//	)
//
// # Bindings
//
//	// Interface to implementation
//	c.Bind("Logger", container.ByType("ConsoleLogger"), nil)
//
//	// Self-binding with overrides, shared
//	c.Share("UserService", nil, container.Params{"pageSize": 50})
//
//	// Literal value
//	c.Bind("app.name", container.Literal("GoContainer"), nil)
//
//	// Pre-built value
//	c.Instance(cfg, "config")
//
// # Resolving
//
//	// Get fails with a NotFoundError for unknown ids
//	svc, err := c.Get(ctx, "UserService")
//
//	// Make binds unknown ids to the type of the same name
//	svc, err := c.Make(ctx, "UserService", container.Params{"pageSize": 10})
//
//	// Generic
//	svc, err := container.Resolve[*UserService](ctx, c, "UserService")
//
// # Parameter resolution
//
// Each constructor parameter is filled in this order:
//
//  1. A parameter whose type is a registered, non-builtin type is resolved
//     through the container by that type's name. For a union (Arg.OneOf) the
//     first non-builtin type the container has wins.
//  2. Otherwise an override with the parameter's name is used. Lazy values
//     are evaluated against the container.
//  3. Otherwise the declared default.
//  4. Otherwise nil for optional and variadic parameters.
//  5. Otherwise a ResolutionError naming the parameter.
//
// # Cycles
//
// The ids under construction travel in the context passed to Make and Get.
// Requesting an id that is already being built fails with a ResolutionError
// wrapping ErrCyclicDependency.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(c *container.Container) error {
//	    c.Share("mailer", container.FromFactory(newMailer), nil)
//	    return nil
//	}
//
//	registry := container.NewProviderRegistry(c)
//	_ = registry.Register(ctx, &AppServiceProvider{})
//	_ = registry.Boot(ctx)
//
// Deferred providers (IsDeferred returns true) are registered on the first
// resolution of one of the ids they list in Provides.
package container

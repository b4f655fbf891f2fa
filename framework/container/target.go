package container

import "context"

// Target describes what a binding produces. Build one with ByType, Literal or
// FromFactory; a nil Target binds the id to the type of the same name.
type Target interface {
	factory(id string) Factory
}

type typeTarget string

type literalTarget struct{ value any }

type factoryTarget Factory

// ByType resolves the binding by constructing the named type through the
// container's Resolver. An empty name means the binding id itself.
//
//	c.Bind("Logger", container.ByType("ConsoleLogger"), nil)
func ByType(name string) Target { return typeTarget(name) }

// Literal binds a value that is returned verbatim on every resolution.
//
//	c.Bind("app.name", container.Literal("GoContainer"), nil)
func Literal(v any) Target { return literalTarget{value: v} }

// FromFactory binds an explicit factory.
//
//	c.Bind("clock", container.FromFactory(func(ctx context.Context, c *container.Container, _ *container.ParameterCollection) (any, error) {
//	    return time.Now, nil
//	}), nil)
func FromFactory(f Factory) Target { return factoryTarget(f) }

func (t typeTarget) factory(id string) Factory {
	name := string(t)
	if name == "" {
		name = id
	}
	return func(ctx context.Context, c *Container, params *ParameterCollection) (any, error) {
		return c.Resolver().Resolve(ctx, c, name, params)
	}
}

func (t literalTarget) factory(string) Factory {
	return func(context.Context, *Container, *ParameterCollection) (any, error) {
		return t.value, nil
	}
}

func (t factoryTarget) factory(string) Factory { return Factory(t) }

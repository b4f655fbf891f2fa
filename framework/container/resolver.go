package container

import (
	"context"

	"go.uber.org/zap"
)

// Resolver builds an instance of a named type.
type Resolver interface {
	Resolve(ctx context.Context, c *Container, typeName string, params *ParameterCollection) (any, error)
}

// ConstructorResolver resolves a type by calling its constructor, filling
// each parameter from, in order: the container (class-typed parameters),
// params, the declared default, or nil for optional parameters.
type ConstructorResolver struct {
	types  TypeIntrospector
	logger *zap.Logger
}

// NewConstructorResolver creates a resolver over types. A nil logger
// disables logging.
func NewConstructorResolver(types TypeIntrospector, logger *zap.Logger) *ConstructorResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConstructorResolver{types: types, logger: logger}
}

// Types returns the introspector used to look types up.
func (r *ConstructorResolver) Types() TypeIntrospector { return r.types }

// Resolve implements Resolver.
func (r *ConstructorResolver) Resolve(ctx context.Context, c *Container, typeName string, params *ParameterCollection) (any, error) {
	info, err := r.types.Introspect(typeName)
	if err != nil {
		return nil, &ResolutionError{ID: typeName, Cause: err}
	}
	if !info.Instantiable {
		return nil, &ResolutionError{ID: typeName, Reason: "type is not instantiable"}
	}

	if !info.HasConstructor {
		instance, err := info.Allocate()
		if err != nil {
			return nil, &ResolutionError{ID: typeName, Cause: err}
		}
		return instance, nil
	}

	args := make([]any, len(info.Params))
	for i, p := range info.Params {
		v, err := r.resolveParameter(ctx, c, typeName, p, params)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	instance, err := info.Construct(args)
	if err != nil {
		return nil, &ResolutionError{ID: typeName, Reason: "construction failed", Cause: err}
	}
	r.logger.Debug("container: constructed", zap.String("type", typeName), zap.Int("params", len(args)))
	return instance, nil
}

func (r *ConstructorResolver) resolveParameter(
	ctx context.Context,
	c *Container,
	typeName string,
	p ParamInfo,
	params *ParameterCollection,
) (any, error) {
	if className := classCandidate(c, p); className != "" {
		v, err := c.Get(ctx, className)
		if err != nil {
			return nil, err
		}
		if p.Variadic {
			return []any{v}, nil
		}
		return v, nil
	}

	if params != nil {
		if override := params.Get(p.Name); override != nil {
			v, err := override.Value(ctx, c)
			if err != nil {
				return nil, &ResolutionError{ID: typeName, Parameter: p.Name, Cause: err}
			}
			return v, nil
		}
	}

	if p.HasDefault {
		return p.Default, nil
	}

	// Variadic parameters land here and receive an empty sequence.
	if p.Optional {
		return nil, nil
	}

	return nil, &ResolutionError{ID: typeName, Parameter: p.Name, Reason: "parameter is not bound"}
}

// classCandidate returns the type to resolve through the container, or "" for
// plain-value parameters. For unions the first non-builtin type the container
// knows about wins; this is not overload resolution.
func classCandidate(c *Container, p ParamInfo) string {
	switch len(p.Types) {
	case 0:
		return ""
	case 1:
		if p.Types[0].Builtin {
			return ""
		}
		return p.Types[0].Name
	}
	for _, t := range p.Types {
		if !t.Builtin && c.Has(t.Name) {
			return t.Name
		}
	}
	return ""
}

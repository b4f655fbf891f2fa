package container_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-container/framework/container"
)

// ── Registration ─────────────────────────────────────────────────────────────

func TestTypes_ConstructorValidation(t *testing.T) {
	types := container.NewTypes()

	tests := []struct {
		name string
		id   string
		fn   any
		args []*container.ArgSpec
	}{
		{"empty name", "", NewCounter, nil},
		{"not a function", "X", 42, nil},
		{"nil", "X", nil, nil},
		{"no results", "X", func() {}, nil},
		{"three results", "X", func() (int, int, error) { return 0, 0, nil }, nil},
		{"second result not error", "X", func() (int, int) { return 0, 0 }, nil},
		{"too many args", "X", NewCounter, []*container.ArgSpec{container.Arg("a"), container.Arg("b")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, types.Constructor(tt.id, tt.fn, tt.args...))
		})
	}
}

func TestTypes_StructValidation(t *testing.T) {
	types := container.NewTypes()

	assert.Error(t, types.Struct("", (*Counter)(nil)))
	assert.Error(t, types.Struct("X", Counter{}))
	assert.Error(t, types.Struct("X", new(int)))
	assert.Error(t, types.Struct("X", nil))
	assert.NoError(t, types.Struct("Counter", (*Counter)(nil)))
}

func TestTypes_AbstractValidation(t *testing.T) {
	types := container.NewTypes()

	assert.Error(t, types.Abstract("", (*Greeter)(nil)))
	assert.Error(t, types.Abstract("X", nil))
	require.NoError(t, types.Abstract("Greeter", (*Greeter)(nil)))

	name, ok := types.NameOf(reflect.TypeOf((*Greeter)(nil)).Elem())
	assert.True(t, ok)
	assert.Equal(t, "Greeter", name)
	assert.True(t, types.Has("Greeter"))
}

func TestTypes_FirstNameSticks(t *testing.T) {
	types := container.NewTypes()
	require.NoError(t, types.Struct("EnglishGreeter", (*EnglishGreeter)(nil)))
	require.NoError(t, types.Struct("Alias", (*EnglishGreeter)(nil)))

	assert.Equal(t, "EnglishGreeter", types.TypeOf(&EnglishGreeter{}))
	assert.True(t, types.Has("Alias"))
}

func TestTypes_TypeOf(t *testing.T) {
	types := container.NewTypes()

	assert.Equal(t, "", types.TypeOf(nil))
	assert.Equal(t, "int", types.TypeOf(3))
	assert.Equal(t, "*container_test.Counter", types.TypeOf(&Counter{}))
}

// ── Introspection ────────────────────────────────────────────────────────────

func TestTypes_IntrospectUnknown(t *testing.T) {
	_, err := container.NewTypes().Introspect("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[missing] does not exist")
}

func TestTypes_IntrospectKinds(t *testing.T) {
	types := container.NewTypes()
	registerFixtures(t, types)

	abstract, err := types.Introspect("Greeter")
	require.NoError(t, err)
	assert.False(t, abstract.Instantiable)

	plain, err := types.Introspect("EnglishGreeter")
	require.NoError(t, err)
	assert.True(t, plain.Instantiable)
	assert.False(t, plain.HasConstructor)
	v, err := plain.Allocate()
	require.NoError(t, err)
	assert.IsType(t, &EnglishGreeter{}, v)
	_, err = plain.Construct(nil)
	assert.Error(t, err)

	ctor, err := types.Introspect("Counter")
	require.NoError(t, err)
	assert.True(t, ctor.HasConstructor)
	_, err = ctor.Allocate()
	assert.Error(t, err)
}

func TestTypes_IntrospectParams(t *testing.T) {
	types := container.New().Types()
	registerFixtures(t, types)

	tests := []struct {
		typeName string
		want     container.ParamInfo
	}{
		{"Counter", container.ParamInfo{
			Name:  "value",
			Types: []container.TypeRef{{Name: "int", Builtin: true}},
		}},
		{"Defaulted", container.ParamInfo{
			Name:       "a",
			Types:      []container.TypeRef{{Name: "int", Builtin: true}},
			HasDefault: true,
			Default:    50,
		}},
		{"Welcome", container.ParamInfo{
			Name:  "greeter",
			Types: []container.TypeRef{{Name: "Greeter"}},
		}},
		{"Bag", container.ParamInfo{
			Name:     "items",
			Types:    []container.TypeRef{{Name: "string", Builtin: true}},
			Optional: true,
			Variadic: true,
		}},
		{"Store", container.ParamInfo{
			Name:  "backend",
			Types: []container.TypeRef{{Name: "RedisBackend"}, {Name: "MemoryBackend"}},
		}},
		{"Conn", container.ParamInfo{
			Name:     "opts",
			Types:    []container.TypeRef{{Name: "map[string]string", Builtin: true}},
			Optional: true,
		}},
		{"Aware", container.ParamInfo{
			Name:  "c",
			Types: []container.TypeRef{{Name: container.SelfID}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			info, err := types.Introspect(tt.typeName)
			require.NoError(t, err)
			require.Len(t, info.Params, 1)
			assert.Equal(t, tt.want, info.Params[0])
		})
	}
}

func TestTypes_UnnamedParamsAndUnregisteredStructs(t *testing.T) {
	types := container.NewTypes()
	require.NoError(t, types.Constructor("Welcome", NewWelcome))

	info, err := types.Introspect("Welcome")
	require.NoError(t, err)
	require.Len(t, info.Params, 1)
	assert.Equal(t, "arg0", info.Params[0].Name)
	assert.Equal(t, []container.TypeRef{{Name: "container_test.Greeter"}}, info.Params[0].Types)
}

func TestTypes_UnionBuiltinNames(t *testing.T) {
	types := container.NewTypes()
	require.NoError(t, types.Constructor("Store", NewStore, container.Arg("backend").OneOf("string", "Unknown")))

	info, err := types.Introspect("Store")
	require.NoError(t, err)
	assert.Equal(t, []container.TypeRef{{Name: "string", Builtin: true}, {Name: "Unknown"}}, info.Params[0].Types)
}

func TestTypes_RegistrationFlushesCache(t *testing.T) {
	types := container.NewTypes()
	require.NoError(t, types.Constructor("Welcome", NewWelcome, container.Arg("greeter")))

	before, err := types.Introspect("Welcome")
	require.NoError(t, err)
	assert.Equal(t, "container_test.Greeter", before.Params[0].Types[0].Name)

	require.NoError(t, types.Abstract("Greeter", (*Greeter)(nil)))

	after, err := types.Introspect("Welcome")
	require.NoError(t, err)
	assert.Equal(t, "Greeter", after.Params[0].Types[0].Name)
}

// ── Construct ────────────────────────────────────────────────────────────────

func TestTypes_ConstructCoercion(t *testing.T) {
	types := container.NewTypes()
	registerFixtures(t, types)

	wide, err := types.Introspect("Wide")
	require.NoError(t, err)

	v, err := wide.Construct([]any{int32(2), 0.25})
	require.NoError(t, err)
	assert.Equal(t, &Wide{N: 2, F: 0.25}, v)

	v, err = wide.Construct([]any{nil, nil})
	require.NoError(t, err)
	assert.Equal(t, &Wide{}, v)

	_, err = wide.Construct([]any{"2", 0})
	assert.ErrorContains(t, err, "argument [n]")

	_, err = wide.Construct([]any{1})
	assert.Error(t, err)
}

func TestTypes_ConstructVariadic(t *testing.T) {
	types := container.NewTypes()
	registerFixtures(t, types)

	bag, err := types.Introspect("Bag")
	require.NoError(t, err)

	v, err := bag.Construct([]any{[]any{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v.(*Bag).Items)

	_, err = bag.Construct([]any{[]any{"a", 1}})
	assert.ErrorContains(t, err, "element 1")
}

func TestTypes_ConstructErrorAndPanic(t *testing.T) {
	types := container.NewTypes()
	registerFixtures(t, types)

	failing, err := types.Introspect("Failing")
	require.NoError(t, err)
	_, err = failing.Construct(nil)
	assert.ErrorIs(t, err, errBoom)

	panicking, err := types.Introspect("Panicking")
	require.NoError(t, err)
	_, err = panicking.Construct(nil)
	assert.ErrorContains(t, err, "constructor panicked")
}

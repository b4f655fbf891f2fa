package container_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-container/framework/container"
)

func echoFactory(_ context.Context, _ *container.Container, params *container.ParameterCollection) (any, error) {
	return params, nil
}

// ── Binding ──────────────────────────────────────────────────────────────────

func TestBinding_Defaults(t *testing.T) {
	b := container.NewBinding("foo", echoFactory, false, nil)

	assert.Equal(t, "foo", b.ID())
	assert.False(t, b.IsShared())
	require.NotNil(t, b.Parameters())
	assert.Equal(t, 0, b.Parameters().Len())
}

func TestBinding_InstancePassesParameters(t *testing.T) {
	params := container.NewParameterCollection(container.NewParameter("a", 1))
	b := container.NewBinding("foo", echoFactory, false, params)

	got, err := b.Instance(context.Background(), container.New())
	require.NoError(t, err)
	assert.Same(t, params, got)
}

func TestBinding_ShareAndBindParameterChain(t *testing.T) {
	b := container.NewBinding("foo", echoFactory, false, nil)

	assert.Same(t, b, b.Share())
	assert.True(t, b.IsShared())

	assert.Same(t, b, b.BindParameter("a", 1).BindParameter("b", 2))
	assert.True(t, b.Parameters().Has("a"))
	assert.True(t, b.Parameters().Has("b"))
}

// ── BindingRegistry ──────────────────────────────────────────────────────────

func TestBindingRegistry_AddGetHas(t *testing.T) {
	foo := container.NewBinding("foo", echoFactory, false, nil)
	r := container.NewBindingRegistry(foo)

	assert.True(t, r.Has("foo"))
	assert.Same(t, foo, r.Get("foo"))
	assert.Nil(t, r.Get("bar"))
	assert.Equal(t, 1, r.Len())
}

func TestBindingRegistry_DeleteKeepsHistory(t *testing.T) {
	r := container.NewBindingRegistry()
	r.Add(container.NewBinding("foo", echoFactory, false, nil))
	r.Add(container.NewBinding("bar", echoFactory, true, nil))

	assert.Same(t, r, r.Delete("foo"))
	assert.False(t, r.Has("foo"))
	assert.Len(t, r.All(), 2)
	assert.Equal(t, []string{"bar"}, r.IDs())
}

func TestBindingRegistry_ReplaceSameID(t *testing.T) {
	r := container.NewBindingRegistry()
	r.Add(container.NewBinding("foo", echoFactory, false, nil))
	second := r.Add(container.NewBinding("foo", echoFactory, true, nil))

	assert.Same(t, second, r.Get("foo"))
	assert.Len(t, r.All(), 2)
	assert.Equal(t, 1, r.Len())
}

func TestBindingRegistry_IDsSorted(t *testing.T) {
	r := container.NewBindingRegistry()
	for _, id := range []string{"zeta", "alpha", "mid"} {
		r.Add(container.NewBinding(id, echoFactory, false, nil))
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.IDs())
}

// ── Container wiring ─────────────────────────────────────────────────────────

func TestContainer_BindParamsAreSortedIntoHistory(t *testing.T) {
	c := container.New()
	b := c.Bind("foo", container.Literal(nil), container.Params{"b": 2, "a": 1})

	all := b.Parameters().All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Name())
	assert.Equal(t, "b", all[1].Name())
}

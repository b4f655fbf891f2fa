package container_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-container/framework/container"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

type Greeter interface{ Greet() string }

type EnglishGreeter struct{ Name string }

func (g *EnglishGreeter) Greet() string { return "hello " + g.Name }

type FrenchGreeter struct{ Name string }

func (g *FrenchGreeter) Greet() string { return "bonjour " + g.Name }

type Welcome struct{ Greeter Greeter }

func NewWelcome(g Greeter) *Welcome { return &Welcome{Greeter: g} }

type Counter struct{ Value int }

func NewCounter(value int) *Counter { return &Counter{Value: value} }

type Defaulted struct{ A int }

func NewDefaulted(a int) *Defaulted { return &Defaulted{A: a} }

type Bag struct{ Items []string }

func NewBag(items ...string) *Bag { return &Bag{Items: items} }

type Crowd struct{ Greeters []Greeter }

func NewCrowd(greeters ...Greeter) *Crowd { return &Crowd{Greeters: greeters} }

type CyclicA struct{ B *CyclicB }

type CyclicB struct{ A *CyclicA }

func NewCyclicA(b *CyclicB) *CyclicA { return &CyclicA{B: b} }

func NewCyclicB(a *CyclicA) *CyclicB { return &CyclicB{A: a} }

var errBoom = errors.New("boom")

type Failing struct{}

func NewFailing() (*Failing, error) { return nil, errBoom }

type Panicking struct{}

func NewPanicking() *Panicking { panic("constructor exploded") }

type RedisBackend struct{ Addr string }

type MemoryBackend struct{ Size int }

type Store struct{ Backend any }

func NewStore(backend any) *Store { return &Store{Backend: backend} }

type Conn struct{ Opts map[string]string }

func NewConn(opts map[string]string) *Conn { return &Conn{Opts: opts} }

type Aware struct{ C *container.Container }

func NewAware(c *container.Container) *Aware { return &Aware{C: c} }

type Wide struct {
	N int64
	F float32
}

func NewWide(n int64, f float32) *Wide { return &Wide{N: n, F: f} }

type Narrow struct {
	Small int8
	Count uint
	Whole int
	Tiny  float32
}

func NewNarrow(small int8, count uint, whole int, tiny float32) *Narrow {
	return &Narrow{Small: small, Count: count, Whole: whole, Tiny: tiny}
}

// codeError is a value-typed error.
type codeError struct{ code int }

func (e codeError) Error() string { return fmt.Sprintf("code %d", e.code) }

type Coded struct{}

func NewCoded() (*Coded, codeError) { return nil, codeError{code: 7} }

// ── helpers ───────────────────────────────────────────────────────────────────

// newTestContainer returns a container with every fixture type registered.
func newTestContainer(t *testing.T) *container.Container {
	t.Helper()
	c := container.New()
	registerFixtures(t, c.Types())
	return c
}

func registerFixtures(t *testing.T, types *container.Types) {
	t.Helper()
	require.NoError(t, types.Abstract("Greeter", (*Greeter)(nil)))
	require.NoError(t, types.Struct("EnglishGreeter", (*EnglishGreeter)(nil)))
	require.NoError(t, types.Struct("FrenchGreeter", (*FrenchGreeter)(nil)))
	require.NoError(t, types.Struct("RedisBackend", (*RedisBackend)(nil)))
	require.NoError(t, types.Struct("MemoryBackend", (*MemoryBackend)(nil)))
	require.NoError(t, types.Constructor("Welcome", NewWelcome, container.Arg("greeter")))
	require.NoError(t, types.Constructor("Counter", NewCounter, container.Arg("value")))
	require.NoError(t, types.Constructor("Defaulted", NewDefaulted, container.Arg("a").Default(50)))
	require.NoError(t, types.Constructor("Bag", NewBag, container.Arg("items")))
	require.NoError(t, types.Constructor("Crowd", NewCrowd, container.Arg("greeters")))
	require.NoError(t, types.Constructor("CyclicA", NewCyclicA, container.Arg("b")))
	require.NoError(t, types.Constructor("CyclicB", NewCyclicB, container.Arg("a")))
	require.NoError(t, types.Constructor("Failing", NewFailing))
	require.NoError(t, types.Constructor("Panicking", NewPanicking))
	require.NoError(t, types.Constructor("Store", NewStore,
		container.Arg("backend").OneOf("RedisBackend", "MemoryBackend")))
	require.NoError(t, types.Constructor("Conn", NewConn, container.Arg("opts").Optional()))
	require.NoError(t, types.Constructor("Aware", NewAware, container.Arg("c")))
	require.NoError(t, types.Constructor("Wide", NewWide, container.Arg("n"), container.Arg("f")))
	require.NoError(t, types.Constructor("Narrow", NewNarrow,
		container.Arg("small").Default(0),
		container.Arg("count").Default(0),
		container.Arg("whole").Default(0),
		container.Arg("tiny").Default(0),
	))
	require.NoError(t, types.Constructor("Coded", NewCoded))
}

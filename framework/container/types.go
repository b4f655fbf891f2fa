package container

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync"

	gocache "github.com/patrickmn/go-cache"
)

// ── Introspection model ───────────────────────────────────────────────────────

// TypeRef is one declared type of a constructor parameter.
type TypeRef struct {
	Name    string
	Builtin bool
}

// ParamInfo describes one constructor parameter.
type ParamInfo struct {
	Name       string
	Types      []TypeRef // several entries for a union
	HasDefault bool
	Default    any
	Optional   bool
	Variadic   bool
}

// TypeInfo is what a TypeIntrospector knows about a named type.
type TypeInfo struct {
	Name           string
	Instantiable   bool
	HasConstructor bool
	Params         []ParamInfo

	// ConstructFunc calls the constructor with one argument per Params
	// entry. A variadic parameter receives its whole sequence as one value.
	ConstructFunc func(args []any) (any, error)

	// AllocateFunc creates a zero instance without calling a constructor.
	AllocateFunc func() (any, error)
}

// Construct invokes the constructor with args.
func (t *TypeInfo) Construct(args []any) (any, error) {
	if t.ConstructFunc == nil {
		return nil, fmt.Errorf("type [%s] has no constructor", t.Name)
	}
	return t.ConstructFunc(args)
}

// Allocate creates the instance without running a constructor.
func (t *TypeInfo) Allocate() (any, error) {
	if t.AllocateFunc == nil {
		return nil, fmt.Errorf("type [%s] cannot be allocated", t.Name)
	}
	return t.AllocateFunc()
}

// TypeIntrospector looks up constructor metadata by type name.
type TypeIntrospector interface {
	Introspect(typeName string) (*TypeInfo, error)
}

// ── Arg ───────────────────────────────────────────────────────────────────────

// ArgSpec supplies what reflection cannot see about a constructor parameter.
type ArgSpec struct {
	name       string
	def        any
	hasDefault bool
	optional   bool
	types      []string
}

// Arg names a constructor parameter.
//
//	types.Constructor("Mailer", NewMailer, container.Arg("host"), container.Arg("port").Default(25))
func Arg(name string) *ArgSpec { return &ArgSpec{name: name} }

// Default sets the value used when no override is supplied.
func (a *ArgSpec) Default(v any) *ArgSpec {
	a.def = v
	a.hasDefault = true
	return a
}

// Optional lets the parameter resolve to its zero value when unbound.
func (a *ArgSpec) Optional() *ArgSpec {
	a.optional = true
	return a
}

// OneOf declares the parameter as a union of named types, scanned in order.
func (a *ArgSpec) OneOf(types ...string) *ArgSpec {
	a.types = append(a.types, types...)
	return a
}

// ── Types ─────────────────────────────────────────────────────────────────────

type typeKind int

const (
	kindConstructor typeKind = iota
	kindStruct
	kindAbstract
)

type typeEntry struct {
	name string
	kind typeKind
	typ  reflect.Type
	fn   reflect.Value
	args []*ArgSpec
}

// Types is the reflection-backed TypeIntrospector. Go cannot look a type up
// by name nor read parameter names, so types are registered explicitly:
//
//	types := container.NewTypes()
//	types.Abstract("Logger", (*Logger)(nil))
//	types.Struct("ConsoleLogger", (*ConsoleLogger)(nil))
//	types.Constructor("UserService", NewUserService, container.Arg("logger"), container.Arg("pageSize").Default(20))
type Types struct {
	mu      sync.RWMutex
	entries map[string]*typeEntry
	names   map[reflect.Type]string
	infos   *gocache.Cache
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// NewTypes creates an empty registry.
func NewTypes() *Types {
	return &Types{
		entries: make(map[string]*typeEntry),
		names:   make(map[reflect.Type]string),
		infos:   gocache.New(gocache.NoExpiration, 0),
	}
}

// Constructor registers name as a type built by fn. fn must return (T) or
// (T, error). args name fn's parameters in order; parameters without an
// ArgSpec are called argN.
func (r *Types) Constructor(name string, fn any, args ...*ArgSpec) error {
	if name == "" {
		return errors.New("type name cannot be empty")
	}
	val := reflect.ValueOf(fn)
	if !val.IsValid() || val.Kind() != reflect.Func {
		return fmt.Errorf("constructor for [%s] must be a function", name)
	}
	typ := val.Type()
	if typ.NumOut() == 0 || typ.NumOut() > 2 {
		return fmt.Errorf("constructor for [%s] must return (T) or (T, error)", name)
	}
	if typ.NumOut() == 2 && !typ.Out(1).Implements(errorType) {
		return fmt.Errorf("constructor for [%s]: second return value must implement error", name)
	}
	if len(args) > typ.NumIn() {
		return fmt.Errorf("constructor for [%s] takes %d parameters, %d named", name, typ.NumIn(), len(args))
	}

	r.register(&typeEntry{name: name, kind: kindConstructor, typ: typ.Out(0), fn: val, args: args})
	return nil
}

// Struct registers name as a pointer-to-struct type with no constructor; it
// resolves to a zeroed value.
func (r *Types) Struct(name string, sample any) error {
	if name == "" {
		return errors.New("type name cannot be empty")
	}
	typ := reflect.TypeOf(sample)
	if typ == nil || typ.Kind() != reflect.Pointer || typ.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("struct type [%s] must be a pointer to a struct, got %v", name, typ)
	}
	r.register(&typeEntry{name: name, kind: kindStruct, typ: typ})
	return nil
}

// Abstract names a type that can be depended upon but never constructed:
// interfaces, given as (*I)(nil), or types only ever supplied as instances.
func (r *Types) Abstract(name string, sample any) error {
	if name == "" {
		return errors.New("type name cannot be empty")
	}
	typ := reflect.TypeOf(sample)
	if typ == nil {
		return fmt.Errorf("abstract type [%s] needs a typed sample", name)
	}
	if typ.Kind() == reflect.Pointer && typ.Elem().Kind() == reflect.Interface {
		typ = typ.Elem()
	}
	r.register(&typeEntry{name: name, kind: kindAbstract, typ: typ})
	return nil
}

func (r *Types) register(e *typeEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.entries[e.name]; ok && old.typ != e.typ && r.names[old.typ] == e.name {
		delete(r.names, old.typ)
	}
	r.entries[e.name] = e
	// The first name given to a Go type sticks.
	if _, ok := r.names[e.typ]; !ok {
		r.names[e.typ] = e.name
	}
	r.infos.Flush()
}

// NameOf returns the name registered for t.
func (r *Types) NameOf(t reflect.Type) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.names[t]
	return name, ok
}

// TypeOf returns the registered name of v's dynamic type, or its Go type
// string when unregistered.
func (r *Types) TypeOf(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	if name, ok := r.NameOf(t); ok {
		return name
	}
	return t.String()
}

// typeFor returns the Go type registered under name.
func (r *Types) typeFor(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return e.typ, true
}

// Has reports whether name is registered.
func (r *Types) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Introspect implements TypeIntrospector.
func (r *Types) Introspect(typeName string) (*TypeInfo, error) {
	if cached, ok := r.infos.Get(typeName); ok {
		return cached.(*TypeInfo), nil
	}

	r.mu.RLock()
	e, ok := r.entries[typeName]
	if !ok {
		r.mu.RUnlock()
		return nil, fmt.Errorf("type [%s] does not exist", typeName)
	}
	info := r.describe(e)
	r.infos.Set(typeName, info, gocache.DefaultExpiration)
	r.mu.RUnlock()

	return info, nil
}

// describe must be called with r.mu held.
func (r *Types) describe(e *typeEntry) *TypeInfo {
	info := &TypeInfo{Name: e.name}

	switch e.kind {
	case kindAbstract:
		return info
	case kindStruct:
		elem := e.typ.Elem()
		info.Instantiable = true
		info.AllocateFunc = func() (any, error) {
			return reflect.New(elem).Interface(), nil
		}
		return info
	}

	fnType := e.fn.Type()
	info.Instantiable = true
	info.HasConstructor = true
	info.Params = make([]ParamInfo, fnType.NumIn())

	for i := 0; i < fnType.NumIn(); i++ {
		pt := fnType.In(i)
		p := ParamInfo{
			Name:     fmt.Sprintf("arg%d", i),
			Variadic: fnType.IsVariadic() && i == fnType.NumIn()-1,
		}
		if p.Variadic {
			pt = pt.Elem()
			p.Optional = true
		}

		var spec *ArgSpec
		if i < len(e.args) && e.args[i] != nil {
			spec = e.args[i]
		}
		if spec != nil {
			if spec.name != "" {
				p.Name = spec.name
			}
			p.HasDefault = spec.hasDefault
			p.Default = spec.def
			p.Optional = p.Optional || spec.optional
		}

		if spec != nil && len(spec.types) > 0 {
			for _, name := range spec.types {
				_, registered := r.entries[name]
				p.Types = append(p.Types, TypeRef{
					Name:    name,
					Builtin: !registered && builtinNames[name],
				})
			}
		} else {
			p.Types = []TypeRef{r.refFor(pt)}
		}

		info.Params[i] = p
	}

	fn := e.fn
	params := info.Params
	info.ConstructFunc = func(args []any) (any, error) {
		return invoke(fn, params, args)
	}
	return info
}

// refFor must be called with r.mu held.
func (r *Types) refFor(t reflect.Type) TypeRef {
	if name, ok := r.names[t]; ok {
		return TypeRef{Name: name}
	}
	return TypeRef{Name: t.String(), Builtin: isBuiltinKind(t)}
}

func isBuiltinKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct, reflect.Pointer:
		return false
	case reflect.Interface:
		return t.NumMethod() == 0
	default:
		return true
	}
}

var builtinNames = map[string]bool{
	"bool": true, "string": true, "byte": true, "rune": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
	"any": true, "interface {}": true, "error": true,
}

// ── Invocation ────────────────────────────────────────────────────────────────

func invoke(fn reflect.Value, params []ParamInfo, args []any) (out any, err error) {
	fnType := fn.Type()
	if len(args) != fnType.NumIn() {
		return nil, fmt.Errorf("constructor takes %d arguments, got %d", fnType.NumIn(), len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		v, err := coerce(arg, fnType.In(i))
		if err != nil {
			return nil, fmt.Errorf("argument [%s]: %w", params[i].Name, err)
		}
		in[i] = v
	}

	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = fmt.Errorf("constructor panicked: %v", rec)
		}
	}()

	var results []reflect.Value
	if fnType.IsVariadic() {
		results = fn.CallSlice(in)
	} else {
		results = fn.Call(in)
	}

	if len(results) == 2 && !isNilValue(results[1]) {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// coerce converts v to t: nil becomes the zero value, numbers and strings
// convert within their kind family, and slices convert element-wise.
func coerce(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	switch {
	case t.Kind() == reflect.Slice && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array):
		out := reflect.MakeSlice(t, rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := coerce(rv.Index(i).Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(ev)
		}
		return out, nil
	case isNumber(rv.Kind()) && isNumber(t.Kind()):
		if err := checkNumber(rv, t); err != nil {
			return reflect.Value{}, err
		}
		return rv.Convert(t), nil
	case rv.Kind() == reflect.String && t.Kind() == reflect.String:
		return rv.Convert(t), nil
	}

	return reflect.Value{}, fmt.Errorf("cannot use value of type %s as %s", rv.Type(), t)
}

// checkNumber rejects conversions that would wrap, truncate or overflow.
func checkNumber(rv reflect.Value, t reflect.Type) error {
	target := reflect.New(t).Elem()
	switch {
	case isInt(rv.Kind()):
		n := rv.Int()
		switch {
		case isInt(t.Kind()) && target.OverflowInt(n),
			isUint(t.Kind()) && (n < 0 || target.OverflowUint(uint64(n))):
			return fmt.Errorf("%d overflows %s", n, t)
		}
	case isUint(rv.Kind()):
		n := rv.Uint()
		switch {
		case isUint(t.Kind()) && target.OverflowUint(n),
			isInt(t.Kind()) && (n > math.MaxInt64 || target.OverflowInt(int64(n))):
			return fmt.Errorf("%d overflows %s", n, t)
		}
	default:
		f := rv.Float()
		switch {
		case isInt(t.Kind()) || isUint(t.Kind()):
			if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
				return fmt.Errorf("%v is not a whole number for %s", f, t)
			}
			if isInt(t.Kind()) && (f < math.MinInt64 || f >= math.MaxInt64 || target.OverflowInt(int64(f))) ||
				isUint(t.Kind()) && (f < 0 || f >= math.MaxUint64 || target.OverflowUint(uint64(f))) {
				return fmt.Errorf("%v overflows %s", f, t)
			}
		case target.OverflowFloat(f):
			return fmt.Errorf("%v overflows %s", f, t)
		}
	}
	return nil
}

func isInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

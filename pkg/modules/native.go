package modules

import (
	"fmt"
	"plugin"
	"reflect"
	"sort"

	"hpl/interpreter-go/pkg/runtime"
)

const (
	// ModuleSymbol is an explicit registration: a *Module variable, a
	// func() *Module constructor, or a func(*Module) that registers members.
	ModuleSymbol = "HPLModule"
	// ExportsSymbol is a map[string]any whose functions and values are adapted
	// automatically.
	ExportsSymbol = "HPLExports"
)

// PluginOpener loads native modules built with `go build -buildmode=plugin`.
type PluginOpener struct{}

func (PluginOpener) Open(name, path string) (*Module, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plugin: %w", err)
	}
	if sym, err := p.Lookup(ModuleSymbol); err == nil {
		return moduleFromSymbol(name, sym)
	}
	sym, err := p.Lookup(ExportsSymbol)
	if err != nil {
		return nil, fmt.Errorf("plugin exports neither %s nor %s", ModuleSymbol, ExportsSymbol)
	}
	switch exports := sym.(type) {
	case *map[string]any:
		return AdaptExports(name, *exports)
	case map[string]any:
		return AdaptExports(name, exports)
	}
	return nil, fmt.Errorf("%s has unsupported type %T", ExportsSymbol, sym)
}

func moduleFromSymbol(name string, sym any) (*Module, error) {
	var m *Module
	switch v := sym.(type) {
	case **Module:
		m = *v
	case *Module:
		m = v
	case func() *Module:
		m = v()
	case func(*Module):
		m = New(name, "")
		v(m)
	default:
		return nil, fmt.Errorf("%s has unsupported type %T", ModuleSymbol, sym)
	}
	if m == nil {
		return nil, fmt.Errorf("%s is nil", ModuleSymbol)
	}
	if m.name == "" {
		m.name = name
	}
	return m, nil
}

// AdaptExports builds a module from a map of Go values. Functions become module
// functions with their parameter count as arity; everything else becomes a
// constant.
func AdaptExports(name string, exports map[string]any) (*Module, error) {
	m := New(name, "")
	keys := make([]string, 0, len(exports))
	for key := range exports {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		raw := exports[key]
		fn := reflect.ValueOf(raw)
		if fn.Kind() == reflect.Func && !fn.IsNil() {
			impl, arity := adaptFunc(name+"."+key, fn)
			m.RegisterFunction(key, impl, arity, "")
			continue
		}
		value, err := FromHost(raw)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", key, err)
		}
		m.RegisterConstant(key, value, "")
	}
	return m, nil
}

func adaptFunc(qualified string, fn reflect.Value) (runtime.NativeFunc, int) {
	fnType := fn.Type()
	arity := fnType.NumIn()
	if fnType.IsVariadic() {
		arity = Variadic
	}
	impl := func(_ *runtime.NativeCallContext, args []runtime.Value) (result runtime.Value, err error) {
		defer func() {
			if r := recover(); r != nil {
				result = nil
				err = runtime.NewTypeError("%s panicked: %v", qualified, r)
			}
		}()
		in, err := hostArguments(qualified, fnType, args)
		if err != nil {
			return nil, err
		}
		return fromHostResults(fn.Call(in))
	}
	return impl, arity
}

func hostArguments(qualified string, fnType reflect.Type, args []runtime.Value) ([]reflect.Value, error) {
	fixed := fnType.NumIn()
	if fnType.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, runtime.NewArityError(qualified, fixed, len(args))
		}
	}
	in := make([]reflect.Value, len(args))
	for idx, arg := range args {
		var target reflect.Type
		if fnType.IsVariadic() && idx >= fixed {
			target = fnType.In(fixed).Elem()
		} else {
			target = fnType.In(idx)
		}
		hostArg, err := ToHost(arg, target)
		if err != nil {
			return nil, runtime.NewTypeError("%s argument %d: %v", qualified, idx+1, err)
		}
		in[idx] = hostArg
	}
	return in, nil
}

func fromHostResults(results []reflect.Value) (runtime.Value, error) {
	if n := len(results); n > 0 && results[n-1].Type().Implements(errorType) {
		if errVal := results[n-1]; !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
		results = results[:n-1]
	}
	if len(results) == 0 {
		return runtime.NilValue{}, nil
	}
	return fromHostValue(results[0])
}

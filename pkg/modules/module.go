package modules

import (
	"sort"

	"hpl/interpreter-go/pkg/runtime"
)

// Variadic marks a function that accepts any number of arguments.
const Variadic = -1

// Function is a named callable registered on a module.
type Function struct {
	Name  string
	Arity int
	Doc   string
	Impl  runtime.NativeFunc
}

// Constant is a named value registered on a module.
type Constant struct {
	Name  string
	Value runtime.Value
	Doc   string
}

// Module is the capability every importable module exposes, whether it is a
// built-in, a Go plugin or an HPL source file.
type Module struct {
	name      string
	doc       string
	path      string
	functions map[string]*Function
	constants map[string]*Constant
}

// New creates an empty module.
func New(name, doc string) *Module {
	return &Module{
		name:      name,
		doc:       doc,
		functions: make(map[string]*Function),
		constants: make(map[string]*Constant),
	}
}

func (m *Module) ModuleName() string { return m.name }

func (m *Module) Doc() string { return m.doc }

// Path is the file the module was loaded from; empty for built-ins.
func (m *Module) Path() string { return m.path }

func (m *Module) setPath(path string) { m.path = path }

// RegisterFunction adds or replaces a function. Use Variadic for arity to
// skip the argument count check.
func (m *Module) RegisterFunction(name string, fn runtime.NativeFunc, arity int, doc string) {
	m.functions[name] = &Function{Name: name, Arity: arity, Doc: doc, Impl: fn}
}

// RegisterConstant adds or replaces a constant.
func (m *Module) RegisterConstant(name string, value runtime.Value, doc string) {
	m.constants[name] = &Constant{Name: name, Value: value, Doc: doc}
}

// CallFunction invokes a registered function after checking its arity.
func (m *Module) CallFunction(ctx *runtime.NativeCallContext, name string, args []runtime.Value) (runtime.Value, error) {
	fn, ok := m.functions[name]
	if !ok {
		return nil, runtime.NewNameError("module '%s' has no function '%s'", m.name, name)
	}
	if fn.Arity != Variadic && len(args) != fn.Arity {
		return nil, runtime.NewArityError(m.name+"."+name, fn.Arity, len(args))
	}
	if ctx == nil {
		ctx = &runtime.NativeCallContext{}
	}
	result, err := fn.Impl(ctx, args)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return runtime.NilValue{}, nil
	}
	return result, nil
}

// GetConstant returns a registered constant's value.
func (m *Module) GetConstant(name string) (runtime.Value, error) {
	c, ok := m.constants[name]
	if !ok {
		return nil, runtime.NewNameError("module '%s' has no constant '%s'", m.name, name)
	}
	return c.Value, nil
}

func (m *Module) HasFunction(name string) bool {
	_, ok := m.functions[name]
	return ok
}

func (m *Module) HasConstant(name string) bool {
	_, ok := m.constants[name]
	return ok
}

// Functions lists registered functions sorted by name.
func (m *Module) Functions() []*Function {
	out := make([]*Function, 0, len(m.functions))
	for _, fn := range m.functions {
		out = append(out, fn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Constants lists registered constants sorted by name.
func (m *Module) Constants() []*Constant {
	out := make([]*Constant, 0, len(m.constants))
	for _, c := range m.constants {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

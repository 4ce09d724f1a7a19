package interpreter

import (
	"path/filepath"
	"strings"

	"hpl/interpreter-go/pkg/ast"
	"hpl/interpreter-go/pkg/driver"
	"hpl/interpreter-go/pkg/modules"
	"hpl/interpreter-go/pkg/runtime"
)

// importModule binds a module in the current local store.
func (i *Interpreter) importModule(stmt *ast.ImportStatement, env *runtime.Environment) error {
	mod, err := i.resolver.Resolve(stmt.Module, i.currentDir())
	if err != nil {
		return err
	}
	binding := stmt.Alias
	if binding == "" {
		binding = stmt.Module
	}
	env.Define(binding, runtime.ModuleValue{Module: mod})
	return nil
}

func (i *Interpreter) currentDir() string {
	if path := i.currentPath(); path != "" {
		return filepath.Dir(path)
	}
	return i.program.Dir()
}

// loadSourceModule is the resolver's SourceLoader. The module runs in its own
// interpreter that shares the resolver, output and call stack with the
// importer; its call target runs once, then its functions, objects and
// constants are exported.
func (i *Interpreter) loadSourceModule(path string) (*modules.Module, error) {
	program, err := driver.NewLoader().Load(path)
	if err != nil {
		return nil, err
	}
	child := newInterpreter(program, Options{
		Output:   i.output,
		MaxDepth: i.opts.MaxDepth,
		Resolver: i.resolver,
	}, i.state)
	if err := child.initialize(); err != nil {
		return nil, err
	}
	if program.CallTarget != "" {
		if _, err := child.runCallTarget(); err != nil {
			return nil, err
		}
	}
	return child.exportModule(strings.TrimSuffix(filepath.Base(path), modules.SourceExtension)), nil
}

func (i *Interpreter) exportModule(name string) *modules.Module {
	mod := modules.New(name, "HPL source module "+i.program.Path)
	for _, fnName := range i.program.FunctionOrder {
		fn := i.program.Functions[fnName]
		label := name + "." + fnName + "()"
		mod.RegisterFunction(fnName, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return i.invoke(fn, nil, label, args)
		}, len(fn.Params), "")
	}
	for _, objName := range i.program.ObjectOrder {
		if obj, ok := i.global.Get(objName); ok {
			mod.RegisterConstant(objName, obj, "")
		}
	}
	for _, constName := range i.program.ConstantOrder {
		mod.RegisterConstant(constName, i.program.Constants[constName], "")
	}
	return mod
}

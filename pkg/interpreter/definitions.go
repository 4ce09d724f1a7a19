package interpreter

import (
	"hpl/interpreter-go/pkg/runtime"
)

const constructorName = "__init__"

// bindDefinitions populates the global store: imports, then constants, then
// objects, then each object's constructor in declaration order.
func (i *Interpreter) bindDefinitions() error {
	program := i.program
	for _, imp := range program.Imports {
		mod, err := i.resolver.Resolve(imp.Module, program.Dir())
		if err != nil {
			location := imp.Location
			if location.Path == "" {
				location.Path = program.Path
			}
			return i.attachLocation(err, location)
		}
		i.global.Define(imp.BindingName(), runtime.ModuleValue{Module: mod})
	}

	for _, name := range program.ConstantOrder {
		i.global.Define(name, program.Constants[name])
	}

	objects := make([]*runtime.ObjectValue, 0, len(program.ObjectOrder))
	for _, name := range program.ObjectOrder {
		declared := program.Objects[name]
		if declared == nil {
			continue
		}
		obj := runtime.NewObject(declared.Name, declared.Class)
		for _, attr := range declared.Order {
			obj.SetAttribute(attr, declared.Attributes[attr])
		}
		i.global.Define(name, obj)
		objects = append(objects, obj)
	}

	for _, obj := range objects {
		args, err := i.evaluateArguments(program.ObjectArgs[obj.Name], i.global)
		if err != nil {
			return err
		}
		if err := i.construct(obj, args); err != nil {
			return err
		}
	}
	return nil
}

// construct runs the first __init__ found along the object's class chain.
func (i *Interpreter) construct(obj *runtime.ObjectValue, args []runtime.Value) error {
	var init *runtime.Function
	if obj.Class != nil {
		init, _, _ = obj.Class.FindMethod(constructorName)
	}
	if init == nil {
		if len(args) > 0 {
			return runtime.NewArityError(obj.Name+"."+constructorName, 0, len(args))
		}
		return nil
	}
	_, err := i.invoke(init, obj, obj.Name+"."+constructorName+"()", args)
	return err
}

package interpreter

import (
	"hpl/interpreter-go/pkg/ast"
	"hpl/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateMemberAccess(expr *ast.MemberAccess, env *runtime.Environment) (runtime.Value, error) {
	receiver, err := i.evaluateExpression(expr.Receiver, env)
	if err != nil {
		return nil, err
	}
	return i.memberOf(receiver, expr.Member)
}

func (i *Interpreter) memberOf(receiver runtime.Value, member string) (runtime.Value, error) {
	switch r := receiver.(type) {
	case *runtime.ObjectValue:
		return objectAttribute(r, member)
	case runtime.ModuleValue:
		return i.moduleMember(r, member)
	case runtime.ErrorValue:
		switch member {
		case "message":
			return runtime.StringValue{Val: r.Message}, nil
		case "kind":
			return runtime.StringValue{Val: string(r.ErrorKind)}, nil
		}
		return nil, runtime.NewNameError("error has no member '%s'", member)
	}
	return nil, runtime.NewTypeError("cannot access member '%s' on %s", member, runtime.TypeName(receiver))
}

// moduleMember reads a constant. A zero-argument function reads like a
// constant too, so `time.now` and `time.now()` agree.
func (i *Interpreter) moduleMember(module runtime.ModuleValue, member string) (runtime.Value, error) {
	if val, err := module.Module.GetConstant(member); err == nil {
		return val, nil
	}
	if lister, ok := module.Module.(interface{ HasFunction(string) bool }); ok && !lister.HasFunction(member) {
		return nil, runtime.NewNameError("module '%s' has no member '%s'", module.Module.ModuleName(), member)
	}
	return i.callModuleFunction(module, member, nil)
}

func objectAttribute(obj *runtime.ObjectValue, name string) (runtime.Value, error) {
	if val, ok := obj.GetAttribute(name); ok {
		return val, nil
	}
	if obj.Name != "" {
		return nil, runtime.NewNameError("object '%s' has no attribute '%s'", obj.Name, name)
	}
	return nil, runtime.NewNameError("%s has no attribute '%s'", obj.ClassName(), name)
}

func (i *Interpreter) evaluateIndexExpression(expr *ast.IndexExpression, env *runtime.Environment) (runtime.Value, error) {
	container, err := i.evaluateExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}
	index, err := i.evaluateExpression(expr.Index, env)
	if err != nil {
		return nil, err
	}
	return indexValue(container, index)
}

func indexValue(container, index runtime.Value) (runtime.Value, error) {
	switch c := container.(type) {
	case *runtime.ArrayValue:
		pos, err := arrayIndex(index, len(c.Elements))
		if err != nil {
			return nil, err
		}
		return c.Elements[pos], nil
	case runtime.StringValue:
		runes := []rune(c.Val)
		pos, err := arrayIndex(index, len(runes))
		if err != nil {
			return nil, err
		}
		return runtime.StringValue{Val: string(runes[pos])}, nil
	case *runtime.ObjectValue:
		key, ok := index.(runtime.StringValue)
		if !ok {
			return nil, runtime.NewTypeError("object keys must be strings, got %s", runtime.TypeName(index))
		}
		return objectAttribute(c, key.Val)
	}
	return nil, runtime.NewTypeError("cannot index %s", runtime.TypeName(container))
}

func storeIndex(container, index, val runtime.Value) error {
	switch c := container.(type) {
	case *runtime.ArrayValue:
		pos, err := arrayIndex(index, len(c.Elements))
		if err != nil {
			return err
		}
		c.Elements[pos] = val
		return nil
	case *runtime.ObjectValue:
		key, ok := index.(runtime.StringValue)
		if !ok {
			return runtime.NewTypeError("object keys must be strings, got %s", runtime.TypeName(index))
		}
		c.SetAttribute(key.Val, val)
		return nil
	case runtime.StringValue:
		return runtime.NewTypeError("strings are immutable")
	}
	return runtime.NewTypeError("cannot assign by index into %s", runtime.TypeName(container))
}

func arrayIndex(index runtime.Value, length int) (int, error) {
	idx, ok := index.(runtime.IntegerValue)
	if !ok {
		return 0, runtime.NewTypeError("index must be int, got %s", runtime.TypeName(index))
	}
	if idx.Val < 0 || idx.Val >= int64(length) {
		return 0, newIndexError(idx.Val, length)
	}
	return int(idx.Val), nil
}

package interpreter

import (
	"hpl/interpreter-go/pkg/ast"
	"hpl/interpreter-go/pkg/runtime"
)

// place is a resolved assignment target. Receivers and indexes are evaluated
// once, when the place is resolved.
type place struct {
	get func() (runtime.Value, error)
	set func(runtime.Value) error
}

func (i *Interpreter) resolvePlace(target ast.AssignmentTarget, env *runtime.Environment) (place, error) {
	switch t := target.(type) {
	case *ast.Identifier:
		return place{
			get: func() (runtime.Value, error) { return i.lookup(t.Name, env) },
			set: func(val runtime.Value) error {
				env.Set(t.Name, val)
				return nil
			},
		}, nil
	case *ast.MemberAccess:
		receiver, err := i.evaluateExpression(t.Receiver, env)
		if err != nil {
			return place{}, err
		}
		obj, ok := receiver.(*runtime.ObjectValue)
		if !ok {
			return place{}, runtime.NewTypeError("cannot set attribute '%s' on %s", t.Member, runtime.TypeName(receiver))
		}
		return place{
			get: func() (runtime.Value, error) { return objectAttribute(obj, t.Member) },
			set: func(val runtime.Value) error {
				obj.SetAttribute(t.Member, val)
				return nil
			},
		}, nil
	case *ast.IndexExpression:
		container, err := i.evaluateExpression(t.Object, env)
		if err != nil {
			return place{}, err
		}
		index, err := i.evaluateExpression(t.Index, env)
		if err != nil {
			return place{}, err
		}
		return place{
			get: func() (runtime.Value, error) { return indexValue(container, index) },
			set: func(val runtime.Value) error { return storeIndex(container, index, val) },
		}, nil
	}
	return place{}, runtime.NewTypeError("cannot assign to %s", target.NodeType())
}

func (i *Interpreter) assignTarget(target ast.AssignmentTarget, value ast.Expression, env *runtime.Environment) error {
	dest, err := i.resolvePlace(target, env)
	if err != nil {
		return err
	}
	val, err := i.evaluateExpression(value, env)
	if err != nil {
		return err
	}
	return dest.set(val)
}

// increment adds one to a numeric target and returns the values before and
// after the update.
func (i *Interpreter) increment(target ast.AssignmentTarget, env *runtime.Environment) (runtime.Value, runtime.Value, error) {
	dest, err := i.resolvePlace(target, env)
	if err != nil {
		return nil, nil, err
	}
	current, err := dest.get()
	if err != nil {
		return nil, nil, err
	}
	var updated runtime.Value
	switch v := current.(type) {
	case runtime.IntegerValue:
		updated = runtime.IntegerValue{Val: v.Val + 1}
	case runtime.FloatValue:
		updated = runtime.FloatValue{Val: v.Val + 1}
	default:
		return nil, nil, runtime.NewTypeError("cannot increment %s", runtime.TypeName(current))
	}
	if err := dest.set(updated); err != nil {
		return nil, nil, err
	}
	return current, updated, nil
}

package interpreter

import (
	"hpl/interpreter-go/pkg/ast"
	"hpl/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (result runtime.Value, err error) {
	if node == nil {
		return runtime.NilValue{}, nil
	}
	defer func() {
		if err != nil {
			err = i.attachRuntimeContext(err, node)
		}
	}()

	switch n := node.(type) {
	case *ast.IntegerLiteral:
		return runtime.IntegerValue{Val: n.Value}, nil
	case *ast.FloatLiteral:
		return runtime.FloatValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.NullLiteral:
		return runtime.NilValue{}, nil
	case *ast.ArrayLiteral:
		elements, err := i.evaluateArguments(n.Elements, env)
		if err != nil {
			return nil, err
		}
		return runtime.NewArray(elements...), nil
	case *ast.Identifier:
		return i.lookup(n.Name, env)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env)
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n, env)
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n, env)
	case *ast.MethodCall:
		return i.evaluateMethodCall(n, env)
	case *ast.MemberAccess:
		return i.evaluateMemberAccess(n, env)
	case *ast.IndexExpression:
		return i.evaluateIndexExpression(n, env)
	case *ast.PostfixIncrement:
		previous, _, err := i.increment(n.Target, env)
		return previous, err
	}
	return nil, runtime.NewTypeError("unsupported expression %s", node.NodeType())
}

func (i *Interpreter) lookup(name string, env *runtime.Environment) (runtime.Value, error) {
	if val, ok := env.Get(name); ok {
		return val, nil
	}
	return nil, newUndefinedVariableError(name)
}

package interpreter

import (
	"strings"

	"hpl/interpreter-go/pkg/ast"
	"hpl/interpreter-go/pkg/runtime"
)

// evaluateLogical short-circuits: the right operand is only evaluated when the
// left one does not decide the result.
func (i *Interpreter) evaluateLogical(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	leftTruth := runtime.Truthy(left)
	if expr.Operator == "&&" && !leftTruth {
		return runtime.BoolValue{Val: false}, nil
	}
	if expr.Operator == "||" && leftTruth {
		return runtime.BoolValue{Val: true}, nil
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	return runtime.BoolValue{Val: runtime.Truthy(right)}, nil
}

func evaluateComparison(op string, left, right runtime.Value) (runtime.Value, error) {
	cmp, err := compareValues(op, left, right)
	if err != nil {
		return nil, err
	}
	var result bool
	switch op {
	case "<":
		result = cmp < 0
	case "<=":
		result = cmp <= 0
	case ">":
		result = cmp > 0
	case ">=":
		result = cmp >= 0
	}
	return runtime.BoolValue{Val: result}, nil
}

// compareValues orders two numbers or two strings.
func compareValues(op string, left, right runtime.Value) (int, error) {
	if ls, ok := left.(runtime.StringValue); ok {
		if rs, ok := right.(runtime.StringValue); ok {
			return strings.Compare(ls.Val, rs.Val), nil
		}
		return 0, operandTypeError(op, left, right)
	}
	return compareNumbers(op, left, right)
}

func compareNumbers(op string, left, right runtime.Value) (int, error) {
	li, leftInt := left.(runtime.IntegerValue)
	ri, rightInt := right.(runtime.IntegerValue)
	if leftInt && rightInt {
		switch {
		case li.Val < ri.Val:
			return -1, nil
		case li.Val > ri.Val:
			return 1, nil
		}
		return 0, nil
	}
	lf, leftNum := runtime.AsFloat(left)
	rf, rightNum := runtime.AsFloat(right)
	if !leftNum || !rightNum {
		return 0, operandTypeError(op, left, right)
	}
	switch {
	case lf < rf:
		return -1, nil
	case lf > rf:
		return 1, nil
	}
	return 0, nil
}

package interpreter

import (
	"math"

	"hpl/interpreter-go/pkg/ast"
	"hpl/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	switch expr.Operator {
	case "&&", "||":
		return i.evaluateLogical(expr, env)
	}
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	return applyBinaryOperator(expr.Operator, left, right)
}

func applyBinaryOperator(op string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "+", "-", "*", "/", "%":
		return evaluateArithmetic(op, left, right)
	case "==":
		return runtime.BoolValue{Val: runtime.Equal(left, right)}, nil
	case "!=":
		return runtime.BoolValue{Val: !runtime.Equal(left, right)}, nil
	case "<", "<=", ">", ">=":
		return evaluateComparison(op, left, right)
	}
	return nil, runtime.NewTypeError("unsupported operator %s", op)
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	if expr.Operator == "++" {
		target, ok := expr.Operand.(ast.AssignmentTarget)
		if !ok {
			return nil, runtime.NewTypeError("cannot increment %s", expr.Operand.NodeType())
		}
		_, updated, err := i.increment(target, env)
		return updated, err
	}
	operand, err := i.evaluateExpression(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case "!":
		b, ok := operand.(runtime.BoolValue)
		if !ok {
			return nil, runtime.NewTypeError("operator ! expects boolean, got %s", runtime.TypeName(operand))
		}
		return runtime.BoolValue{Val: !b.Val}, nil
	case "-":
		switch v := operand.(type) {
		case runtime.IntegerValue:
			return runtime.IntegerValue{Val: -v.Val}, nil
		case runtime.FloatValue:
			return runtime.FloatValue{Val: -v.Val}, nil
		}
		return nil, runtime.NewTypeError("unary - expects int or float, got %s", runtime.TypeName(operand))
	}
	return nil, runtime.NewTypeError("unsupported unary operator %s", expr.Operator)
}

func evaluateArithmetic(op string, left, right runtime.Value) (runtime.Value, error) {
	if op == "+" {
		if concatenated, ok := concatenate(left, right); ok {
			return concatenated, nil
		}
	}
	li, leftInt := left.(runtime.IntegerValue)
	ri, rightInt := right.(runtime.IntegerValue)
	if leftInt && rightInt && op != "/" {
		return integerArithmetic(op, li.Val, ri.Val)
	}
	lf, leftNum := runtime.AsFloat(left)
	rf, rightNum := runtime.AsFloat(right)
	if !leftNum || !rightNum {
		return nil, operandTypeError(op, left, right)
	}
	return floatArithmetic(op, lf, rf)
}

// concatenate handles string + anything and array + array.
func concatenate(left, right runtime.Value) (runtime.Value, bool) {
	_, leftStr := left.(runtime.StringValue)
	_, rightStr := right.(runtime.StringValue)
	if leftStr || rightStr {
		return runtime.StringValue{Val: runtime.Format(left) + runtime.Format(right)}, true
	}
	la, leftArr := left.(*runtime.ArrayValue)
	ra, rightArr := right.(*runtime.ArrayValue)
	if leftArr && rightArr {
		elements := make([]runtime.Value, 0, len(la.Elements)+len(ra.Elements))
		elements = append(elements, la.Elements...)
		elements = append(elements, ra.Elements...)
		return &runtime.ArrayValue{Elements: elements}, true
	}
	return nil, false
}

func integerArithmetic(op string, a, b int64) (runtime.Value, error) {
	switch op {
	case "+":
		return runtime.IntegerValue{Val: a + b}, nil
	case "-":
		return runtime.IntegerValue{Val: a - b}, nil
	case "*":
		return runtime.IntegerValue{Val: a * b}, nil
	case "%":
		if b == 0 {
			return nil, newModuloByZeroError()
		}
		r := a % b
		if r != 0 && (r < 0) != (b < 0) {
			r += b
		}
		return runtime.IntegerValue{Val: r}, nil
	}
	return nil, runtime.NewTypeError("unsupported operator %s", op)
}

func floatArithmetic(op string, a, b float64) (runtime.Value, error) {
	switch op {
	case "+":
		return runtime.FloatValue{Val: a + b}, nil
	case "-":
		return runtime.FloatValue{Val: a - b}, nil
	case "*":
		return runtime.FloatValue{Val: a * b}, nil
	case "/":
		if b == 0 {
			return nil, newDivisionByZeroError()
		}
		return runtime.FloatValue{Val: a / b}, nil
	case "%":
		if b == 0 {
			return nil, newModuloByZeroError()
		}
		r := math.Mod(a, b)
		if r != 0 && (r < 0) != (b < 0) {
			r += b
		}
		return runtime.FloatValue{Val: r}, nil
	}
	return nil, runtime.NewTypeError("unsupported operator %s", op)
}

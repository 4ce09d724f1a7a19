package interpreter

import "hpl/interpreter-go/pkg/runtime"

func newDivisionByZeroError() error {
	return runtime.NewError(runtime.ZeroDivisionError, "division by zero")
}

func newModuloByZeroError() error {
	return runtime.NewError(runtime.ZeroDivisionError, "modulo by zero")
}

func newIndexError(index int64, length int) error {
	return runtime.NewError(runtime.IndexError, "index %d out of range for length %d", index, length)
}

func newRecursionLimitError(limit int) error {
	return runtime.NewError(runtime.RecursionLimitExceeded, "maximum recursion depth of %d exceeded", limit)
}

func newUndefinedVariableError(name string) error {
	return runtime.NewNameError("undefined variable '%s'", name)
}

func operandTypeError(op string, left, right runtime.Value) error {
	return runtime.NewTypeError("unsupported operand types for %s: %s and %s", op, runtime.TypeName(left), runtime.TypeName(right))
}

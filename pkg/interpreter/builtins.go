package interpreter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"hpl/interpreter-go/pkg/runtime"
)

type builtinFunc func(i *Interpreter, args []runtime.Value) (runtime.Value, error)

var builtins = map[string]builtinFunc{
	"echo": builtinEcho,
	"len":  builtinLen,
	"int":  builtinInt,
	"str":  builtinStr,
	"type": builtinType,
	"abs":  builtinAbs,
	"max":  func(_ *Interpreter, args []runtime.Value) (runtime.Value, error) { return extremum("max", args, 1) },
	"min":  func(_ *Interpreter, args []runtime.Value) (runtime.Value, error) { return extremum("min", args, -1) },
}

// IsBuiltin reports whether name is a built-in function.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

func expectArgs(name string, args []runtime.Value, count int) error {
	if len(args) != count {
		return runtime.NewArityError(name, count, len(args))
	}
	return nil
}

func builtinEcho(i *Interpreter, args []runtime.Value) (runtime.Value, error) {
	if err := expectArgs("echo", args, 1); err != nil {
		return nil, err
	}
	fmt.Fprintln(i.output, runtime.Format(args[0]))
	return runtime.NilValue{}, nil
}

func builtinLen(_ *Interpreter, args []runtime.Value) (runtime.Value, error) {
	if err := expectArgs("len", args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case *runtime.ArrayValue:
		return runtime.IntegerValue{Val: int64(len(v.Elements))}, nil
	case runtime.StringValue:
		return runtime.IntegerValue{Val: int64(utf8.RuneCountInString(v.Val))}, nil
	}
	return nil, runtime.NewTypeError("len() expects array or string, got %s", runtime.TypeName(args[0]))
}

func builtinInt(_ *Interpreter, args []runtime.Value) (runtime.Value, error) {
	if err := expectArgs("int", args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case runtime.IntegerValue:
		return v, nil
	case runtime.FloatValue:
		n, ok := floatToInt(v.Val)
		if !ok {
			return nil, runtime.NewTypeError("int() cannot convert %s", runtime.FormatFloat(v.Val))
		}
		return runtime.IntegerValue{Val: n}, nil
	case runtime.BoolValue:
		if v.Val {
			return runtime.IntegerValue{Val: 1}, nil
		}
		return runtime.IntegerValue{Val: 0}, nil
	case runtime.StringValue:
		text := strings.TrimSpace(v.Val)
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return runtime.IntegerValue{Val: n}, nil
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			if n, ok := floatToInt(f); ok {
				return runtime.IntegerValue{Val: n}, nil
			}
		}
		return nil, runtime.NewTypeError("int() cannot convert string '%s'", v.Val)
	}
	return nil, runtime.NewTypeError("int() expects int, float, string or boolean, got %s", runtime.TypeName(args[0]))
}

// floatToInt truncates f toward zero when the result fits in an int64.
func floatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || f >= 1<<63 || f < -(1<<63) {
		return 0, false
	}
	return int64(f), true
}

func builtinStr(_ *Interpreter, args []runtime.Value) (runtime.Value, error) {
	if err := expectArgs("str", args, 1); err != nil {
		return nil, err
	}
	return runtime.StringValue{Val: runtime.Format(args[0])}, nil
}

func builtinType(_ *Interpreter, args []runtime.Value) (runtime.Value, error) {
	if err := expectArgs("type", args, 1); err != nil {
		return nil, err
	}
	return runtime.StringValue{Val: runtime.TypeName(args[0])}, nil
}

func builtinAbs(_ *Interpreter, args []runtime.Value) (runtime.Value, error) {
	if err := expectArgs("abs", args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case runtime.IntegerValue:
		if v.Val == math.MinInt64 {
			return nil, runtime.NewTypeError("abs() of %d overflows int", v.Val)
		}
		if v.Val < 0 {
			return runtime.IntegerValue{Val: -v.Val}, nil
		}
		return v, nil
	case runtime.FloatValue:
		return runtime.FloatValue{Val: math.Abs(v.Val)}, nil
	}
	return nil, runtime.NewTypeError("abs() expects int or float, got %s", runtime.TypeName(args[0]))
}

// extremum implements max (sign 1) and min (sign -1) over the arguments or
// over a single array argument.
func extremum(name string, args []runtime.Value, sign int) (runtime.Value, error) {
	if len(args) == 0 {
		return nil, runtime.NewError(runtime.ArityError, "%s expects at least 1 argument, got 0", name)
	}
	values := args
	if arr, ok := args[0].(*runtime.ArrayValue); ok && len(args) == 1 {
		if len(arr.Elements) == 0 {
			return nil, runtime.NewTypeError("%s() of an empty array", name)
		}
		values = arr.Elements
	}
	best := values[0]
	for _, candidate := range values {
		if _, ok := runtime.AsFloat(candidate); !ok {
			return nil, runtime.NewTypeError("%s() expects numbers, got %s", name, runtime.TypeName(candidate))
		}
		cmp, err := compareNumbers(name, candidate, best)
		if err != nil {
			return nil, err
		}
		if cmp*sign > 0 {
			best = candidate
		}
	}
	return best, nil
}

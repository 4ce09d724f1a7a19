package modules

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	goruntime "runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"hpl/interpreter-go/pkg/runtime"
)

// Builtins returns the standard registry of built-in module factories.
func Builtins() map[string]Factory {
	return map[string]Factory{
		"io":   newIOModule,
		"json": newJSONModule,
		"math": newMathModule,
		"os":   newOSModule,
		"time": newTimeModule,
		"yaml": newYAMLModule,
	}
}

func stringArg(fn string, args []runtime.Value, idx int) (string, error) {
	s, ok := args[idx].(runtime.StringValue)
	if !ok {
		return "", runtime.NewTypeError("%s expects a string argument, got %s", fn, runtime.TypeName(args[idx]))
	}
	return s.Val, nil
}

func numberArg(fn string, args []runtime.Value, idx int) (float64, error) {
	f, ok := runtime.AsFloat(args[idx])
	if !ok {
		return 0, runtime.NewTypeError("%s expects a number argument, got %s", fn, runtime.TypeName(args[idx]))
	}
	return f, nil
}

func output(ctx *runtime.NativeCallContext) io.Writer {
	if ctx == nil || ctx.Output == nil {
		return io.Discard
	}
	return ctx.Output
}

func newIOModule() *Module {
	m := New("io", "Console output and file access")
	m.RegisterFunction("print", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = runtime.Format(arg)
		}
		fmt.Fprint(output(ctx), strings.Join(parts, " "))
		return runtime.NilValue{}, nil
	}, Variadic, "Write values separated by spaces, without a trailing newline")
	m.RegisterFunction("println", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = runtime.Format(arg)
		}
		fmt.Fprintln(output(ctx), strings.Join(parts, " "))
		return runtime.NilValue{}, nil
	}, Variadic, "Write values separated by spaces, followed by a newline")
	m.RegisterFunction("read_file", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		path, err := stringArg("io.read_file", args, 0)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, runtime.NewError(runtime.UserError, "io.read_file: %v", err)
		}
		return runtime.StringValue{Val: string(data)}, nil
	}, 1, "Read a whole file as a string")
	m.RegisterFunction("write_file", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		path, err := stringArg("io.write_file", args, 0)
		if err != nil {
			return nil, err
		}
		content, err := stringArg("io.write_file", args, 1)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, runtime.NewError(runtime.UserError, "io.write_file: %v", err)
		}
		return runtime.BoolValue{Val: true}, nil
	}, 2, "Write a string to a file, replacing its contents")
	m.RegisterFunction("exists", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		path, err := stringArg("io.exists", args, 0)
		if err != nil {
			return nil, err
		}
		_, statErr := os.Stat(path)
		return runtime.BoolValue{Val: statErr == nil}, nil
	}, 1, "Report whether a path exists")
	return m
}

func newMathModule() *Module {
	m := New("math", "Numeric functions and constants")
	m.RegisterConstant("PI", runtime.FloatValue{Val: math.Pi}, "Ratio of a circle's circumference to its diameter")
	m.RegisterConstant("E", runtime.FloatValue{Val: math.E}, "Euler's number")
	m.RegisterConstant("INF", runtime.FloatValue{Val: math.Inf(1)}, "Positive infinity")
	unary := map[string]func(float64) float64{
		"sqrt":  math.Sqrt,
		"sin":   math.Sin,
		"cos":   math.Cos,
		"tan":   math.Tan,
		"log":   math.Log,
		"exp":   math.Exp,
		"log10": math.Log10,
	}
	for name, op := range unary {
		qualified, op := "math."+name, op
		m.RegisterFunction(name, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			x, err := numberArg(qualified, args, 0)
			if err != nil {
				return nil, err
			}
			return runtime.FloatValue{Val: op(x)}, nil
		}, 1, "")
	}
	rounding := map[string]func(float64) float64{
		"floor": math.Floor,
		"ceil":  math.Ceil,
		"round": math.Round,
	}
	for name, op := range rounding {
		qualified, op := "math."+name, op
		m.RegisterFunction(name, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if iv, ok := args[0].(runtime.IntegerValue); ok {
				return iv, nil
			}
			x, err := numberArg(qualified, args, 0)
			if err != nil {
				return nil, err
			}
			r := op(x)
			if math.IsInf(r, 0) || math.IsNaN(r) || math.Abs(r) >= math.MaxInt64 {
				return runtime.FloatValue{Val: r}, nil
			}
			return runtime.IntegerValue{Val: int64(r)}, nil
		}, 1, "")
	}
	m.RegisterFunction("pow", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		base, err := numberArg("math.pow", args, 0)
		if err != nil {
			return nil, err
		}
		exp, err := numberArg("math.pow", args, 1)
		if err != nil {
			return nil, err
		}
		return runtime.FloatValue{Val: math.Pow(base, exp)}, nil
	}, 2, "Raise base to exp")
	return m
}

func newJSONModule() *Module {
	m := New("json", "JSON encoding and decoding")
	m.RegisterFunction("stringify", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		data, err := ToAny(args[0])
		if err != nil {
			return nil, runtime.NewTypeError("json.stringify: %v", err)
		}
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, runtime.NewTypeError("json.stringify: %v", err)
		}
		return runtime.StringValue{Val: string(encoded)}, nil
	}, 1, "Encode a value as JSON text")
	m.RegisterFunction("parse", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		text, err := stringArg("json.parse", args, 0)
		if err != nil {
			return nil, err
		}
		dec := json.NewDecoder(strings.NewReader(text))
		dec.UseNumber()
		var data any
		if err := dec.Decode(&data); err != nil {
			return nil, runtime.NewError(runtime.UserError, "json.parse: %v", err)
		}
		return FromHost(normalizeJSONNumbers(data))
	}, 1, "Decode JSON text; objects become data objects")
	return m
}

func normalizeJSONNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		f, _ := val.Float64()
		return f
	case []any:
		for i := range val {
			val[i] = normalizeJSONNumbers(val[i])
		}
		return val
	case map[string]any:
		for k := range val {
			val[k] = normalizeJSONNumbers(val[k])
		}
		return val
	}
	return v
}

func newYAMLModule() *Module {
	m := New("yaml", "YAML encoding and decoding")
	m.RegisterFunction("stringify", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		data, err := ToAny(args[0])
		if err != nil {
			return nil, runtime.NewTypeError("yaml.stringify: %v", err)
		}
		encoded, err := yaml.Marshal(data)
		if err != nil {
			return nil, runtime.NewTypeError("yaml.stringify: %v", err)
		}
		return runtime.StringValue{Val: string(encoded)}, nil
	}, 1, "Encode a value as YAML text")
	m.RegisterFunction("parse", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		text, err := stringArg("yaml.parse", args, 0)
		if err != nil {
			return nil, err
		}
		var data any
		if err := yaml.Unmarshal([]byte(text), &data); err != nil {
			return nil, runtime.NewError(runtime.UserError, "yaml.parse: %v", err)
		}
		return FromHost(data)
	}, 1, "Decode YAML text; mappings become data objects")
	return m
}

func newOSModule() *Module {
	m := New("os", "Process environment")
	m.RegisterConstant("PLATFORM", runtime.StringValue{Val: goruntime.GOOS}, "Operating system name")
	m.RegisterConstant("ARCH", runtime.StringValue{Val: goruntime.GOARCH}, "CPU architecture")
	m.RegisterFunction("getenv", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		name, err := stringArg("os.getenv", args, 0)
		if err != nil {
			return nil, err
		}
		value, ok := os.LookupEnv(name)
		if !ok {
			return runtime.NilValue{}, nil
		}
		return runtime.StringValue{Val: value}, nil
	}, 1, "Read an environment variable, null when unset")
	m.RegisterFunction("cwd", func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, runtime.NewError(runtime.UserError, "os.cwd: %v", err)
		}
		return runtime.StringValue{Val: wd}, nil
	}, 0, "Current working directory")
	return m
}

func newTimeModule() *Module {
	m := New("time", "Clock access")
	m.RegisterFunction("now", func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
		return runtime.FloatValue{Val: float64(time.Now().UnixNano()) / 1e9}, nil
	}, 0, "Seconds since the Unix epoch")
	m.RegisterFunction("millis", func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
		return runtime.IntegerValue{Val: time.Now().UnixMilli()}, nil
	}, 0, "Milliseconds since the Unix epoch")
	m.RegisterFunction("sleep", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		seconds, err := numberArg("time.sleep", args, 0)
		if err != nil {
			return nil, err
		}
		if seconds > 0 {
			time.Sleep(time.Duration(seconds * float64(time.Second)))
		}
		return runtime.NilValue{}, nil
	}, 1, "Pause for the given number of seconds")
	m.RegisterFunction("format", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		seconds, err := numberArg("time.format", args, 0)
		if err != nil {
			return nil, err
		}
		sec, frac := math.Modf(seconds)
		return runtime.StringValue{Val: time.Unix(int64(sec), int64(frac*1e9)).UTC().Format(time.RFC3339)}, nil
	}, 1, "Format epoch seconds as an RFC 3339 UTC timestamp")
	return m
}

package runtime

import (
	"fmt"
	"io"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindArray
	KindObject
	KindModule
	KindError
)

// String returns the name HPL's type() builtin reports for the kind.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "null"
	case KindBool:
		return "boolean"
	case KindInteger:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindModule:
		return "module"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

//-----------------------------------------------------------------------------
// Aggregates
//-----------------------------------------------------------------------------

// ArrayValue is mutable and shared by reference.
type ArrayValue struct {
	Elements []Value
}

func (v *ArrayValue) Kind() Kind { return KindArray }

// NewArray wraps elements without copying.
func NewArray(elements ...Value) *ArrayValue {
	if elements == nil {
		elements = []Value{}
	}
	return &ArrayValue{Elements: elements}
}

//-----------------------------------------------------------------------------
// Modules & errors
//-----------------------------------------------------------------------------

// NativeCallContext is handed to native functions implemented in Go.
type NativeCallContext struct {
	Output io.Writer
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

// ModuleHandle is the surface of an imported module that HPL code can reach.
type ModuleHandle interface {
	ModuleName() string
	CallFunction(ctx *NativeCallContext, name string, args []Value) (Value, error)
	GetConstant(name string) (Value, error)
}

type ModuleValue struct {
	Module ModuleHandle
}

func (v ModuleValue) Kind() Kind { return KindModule }

// ErrorValue is what a catch clause binds: the kind and message of a caught error.
type ErrorValue struct {
	ErrorKind ErrorKind
	Message   string
}

func (v ErrorValue) Kind() Kind { return KindError }

func (v ErrorValue) String() string {
	return fmt.Sprintf("%s: %s", v.ErrorKind, v.Message)
}

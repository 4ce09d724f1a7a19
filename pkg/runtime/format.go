package runtime

import (
	"math"
	"strconv"
	"strings"
)

// TypeName is the name type() reports: the class name for objects, the kind
// name for everything else.
func TypeName(v Value) string {
	if v == nil {
		return KindNil.String()
	}
	if obj, ok := v.(*ObjectValue); ok {
		return obj.ClassName()
	}
	return v.Kind().String()
}

// Format renders a value the way echo and str() display it.
func Format(v Value) string {
	var sb strings.Builder
	writeValue(&sb, v, false, 0)
	return sb.String()
}

const maxFormatDepth = 32

func writeValue(sb *strings.Builder, v Value, quoted bool, depth int) {
	switch val := v.(type) {
	case nil, NilValue:
		sb.WriteString("null")
	case BoolValue:
		if val.Val {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case IntegerValue:
		sb.WriteString(strconv.FormatInt(val.Val, 10))
	case FloatValue:
		sb.WriteString(FormatFloat(val.Val))
	case StringValue:
		if quoted {
			sb.WriteString(strconv.Quote(val.Val))
		} else {
			sb.WriteString(val.Val)
		}
	case *ArrayValue:
		if depth > maxFormatDepth {
			sb.WriteString("[...]")
			return
		}
		sb.WriteByte('[')
		for i, el := range val.Elements {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeValue(sb, el, true, depth+1)
		}
		sb.WriteByte(']')
	case *ObjectValue:
		if val.Class == nil {
			writeDataObject(sb, val, depth)
			return
		}
		sb.WriteString(val.String())
	case ModuleValue:
		sb.WriteString("<module ")
		sb.WriteString(val.Module.ModuleName())
		sb.WriteByte('>')
	case ErrorValue:
		sb.WriteString(val.String())
	default:
		sb.WriteString("<" + v.Kind().String() + ">")
	}
}

func writeDataObject(sb *strings.Builder, obj *ObjectValue, depth int) {
	if depth > maxFormatDepth {
		sb.WriteString("{...}")
		return
	}
	sb.WriteByte('{')
	for i, key := range obj.Order {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(key))
		sb.WriteString(": ")
		writeValue(sb, obj.Attributes[key], true, depth+1)
	}
	sb.WriteByte('}')
}

// FormatFloat prints the shortest representation, keeping a ".0" suffix on
// integral values so floats stay distinguishable from ints.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	var s string
	if abs := math.Abs(f); abs == 0 || (abs >= 1e-4 && abs < 1e16) {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	} else {
		s = strconv.FormatFloat(f, 'g', -1, 64)
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// Truthy applies HPL truthiness: false, null, zero numbers, empty strings and
// empty arrays are false.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil, NilValue:
		return false
	case BoolValue:
		return val.Val
	case IntegerValue:
		return val.Val != 0
	case FloatValue:
		return val.Val != 0
	case StringValue:
		return val.Val != ""
	case *ArrayValue:
		return len(val.Elements) > 0
	}
	return true
}

// Equal compares values without failing. Numbers compare across int and
// float, arrays element-wise, objects by identity; different kinds are unequal.
// Arrays that contain themselves compare equal when their shapes match.
func Equal(a, b Value) bool {
	return equalValues(a, b, nil)
}

type arrayPair struct {
	a, b *ArrayValue
}

// equalValues tracks the array pairs under comparison; meeting one again is
// treated as equal so cyclic arrays terminate.
func equalValues(a, b Value, visiting map[arrayPair]bool) bool {
	if af, aNum := AsFloat(a); aNum {
		if bf, bNum := AsFloat(b); bNum {
			ai, aInt := a.(IntegerValue)
			bi, bInt := b.(IntegerValue)
			if aInt && bInt {
				return ai.Val == bi.Val
			}
			return af == bf
		}
		return false
	}
	switch av := a.(type) {
	case nil, NilValue:
		return b == nil || b.Kind() == KindNil
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av.Val == bv.Val
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av.Val == bv.Val
	case *ArrayValue:
		bv, ok := b.(*ArrayValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		if av == bv {
			return true
		}
		pair := arrayPair{av, bv}
		if visiting[pair] {
			return true
		}
		if visiting == nil {
			visiting = make(map[arrayPair]bool)
		}
		visiting[pair] = true
		defer delete(visiting, pair)
		for i := range av.Elements {
			if !equalValues(av.Elements[i], bv.Elements[i], visiting) {
				return false
			}
		}
		return true
	case *ObjectValue:
		bv, ok := b.(*ObjectValue)
		return ok && av == bv
	case ModuleValue:
		bv, ok := b.(ModuleValue)
		return ok && av.Module == bv.Module
	case ErrorValue:
		bv, ok := b.(ErrorValue)
		return ok && av == bv
	}
	return false
}

// AsFloat widens numeric values.
func AsFloat(v Value) (float64, bool) {
	switch val := v.(type) {
	case IntegerValue:
		return float64(val.Val), true
	case FloatValue:
		return val.Val, true
	}
	return 0, false
}

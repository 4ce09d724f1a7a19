package modules

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"hpl/interpreter-go/pkg/runtime"
)

var (
	runtimeValueType = reflect.TypeOf((*runtime.Value)(nil)).Elem()
	errorType        = reflect.TypeOf((*error)(nil)).Elem()
)

// FromHost converts a Go value into a runtime value. Maps with string keys
// become classless data objects with keys in sorted order.
func FromHost(v any) (runtime.Value, error) {
	if v == nil {
		return runtime.NilValue{}, nil
	}
	if rv, ok := v.(runtime.Value); ok {
		return rv, nil
	}
	return fromHostValue(reflect.ValueOf(v))
}

func fromHostValue(value reflect.Value) (runtime.Value, error) {
	for value.IsValid() && (value.Kind() == reflect.Interface || value.Kind() == reflect.Pointer) {
		if value.IsNil() {
			return runtime.NilValue{}, nil
		}
		if value.Type().Implements(runtimeValueType) {
			return value.Interface().(runtime.Value), nil
		}
		value = value.Elem()
	}
	if !value.IsValid() {
		return runtime.NilValue{}, nil
	}
	if value.CanInterface() {
		if rv, ok := value.Interface().(runtime.Value); ok {
			return rv, nil
		}
	}
	switch value.Kind() {
	case reflect.Bool:
		return runtime.BoolValue{Val: value.Bool()}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return runtime.IntegerValue{Val: value.Int()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := value.Uint()
		if u > math.MaxInt64 {
			return runtime.FloatValue{Val: float64(u)}, nil
		}
		return runtime.IntegerValue{Val: int64(u)}, nil
	case reflect.Float32, reflect.Float64:
		return runtime.FloatValue{Val: value.Float()}, nil
	case reflect.String:
		return runtime.StringValue{Val: value.String()}, nil
	case reflect.Slice, reflect.Array:
		elements := make([]runtime.Value, value.Len())
		for i := range elements {
			el, err := fromHostValue(value.Index(i))
			if err != nil {
				return nil, err
			}
			elements[i] = el
		}
		return runtime.NewArray(elements...), nil
	case reflect.Map:
		if value.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type %s", value.Type().Key())
		}
		keys := make([]string, 0, value.Len())
		for _, key := range value.MapKeys() {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		obj := runtime.NewObject("", nil)
		for _, key := range keys {
			el, err := fromHostValue(value.MapIndex(reflect.ValueOf(key).Convert(value.Type().Key())))
			if err != nil {
				return nil, err
			}
			obj.SetAttribute(key, el)
		}
		return obj, nil
	}
	return nil, fmt.Errorf("unsupported host value of type %s", value.Type())
}

// ToAny converts a runtime value into plain Go data: nil, bool, int64, float64,
// string, []any and map[string]any.
func ToAny(v runtime.Value) (any, error) {
	return toAny(v, 0)
}

func toAny(v runtime.Value, depth int) (any, error) {
	if depth > 64 {
		return nil, fmt.Errorf("value nested too deeply")
	}
	switch val := v.(type) {
	case nil, runtime.NilValue:
		return nil, nil
	case runtime.BoolValue:
		return val.Val, nil
	case runtime.IntegerValue:
		return val.Val, nil
	case runtime.FloatValue:
		return val.Val, nil
	case runtime.StringValue:
		return val.Val, nil
	case *runtime.ArrayValue:
		out := make([]any, len(val.Elements))
		for i, el := range val.Elements {
			conv, err := toAny(el, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case *runtime.ObjectValue:
		out := make(map[string]any, len(val.Attributes))
		for key, el := range val.Attributes {
			conv, err := toAny(el, depth+1)
			if err != nil {
				return nil, err
			}
			out[key] = conv
		}
		return out, nil
	case runtime.ErrorValue:
		return val.String(), nil
	}
	return nil, fmt.Errorf("cannot convert %s to host data", runtime.TypeName(v))
}

// ToHost converts a runtime value into a Go value of the target type.
func ToHost(v runtime.Value, target reflect.Type) (reflect.Value, error) {
	if target == runtimeValueType {
		if v == nil {
			v = runtime.NilValue{}
		}
		out := reflect.New(target).Elem()
		out.Set(reflect.ValueOf(v))
		return out, nil
	}
	switch target.Kind() {
	case reflect.Interface:
		plain, err := ToAny(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if plain == nil {
			return reflect.Zero(target), nil
		}
		pv := reflect.ValueOf(plain)
		if !pv.Type().AssignableTo(target) {
			return reflect.Value{}, fmt.Errorf("cannot use %s as %s", runtime.TypeName(v), target)
		}
		return pv, nil
	case reflect.String:
		if s, ok := v.(runtime.StringValue); ok {
			return reflect.ValueOf(s.Val).Convert(target), nil
		}
	case reflect.Bool:
		if b, ok := v.(runtime.BoolValue); ok {
			return reflect.ValueOf(b.Val).Convert(target), nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch num := v.(type) {
		case runtime.IntegerValue:
			return reflect.ValueOf(num.Val).Convert(target), nil
		case runtime.FloatValue:
			if num.Val == math.Trunc(num.Val) {
				return reflect.ValueOf(int64(num.Val)).Convert(target), nil
			}
		}
	case reflect.Float32, reflect.Float64:
		if f, ok := runtime.AsFloat(v); ok {
			return reflect.ValueOf(f).Convert(target), nil
		}
	case reflect.Slice:
		arr, ok := v.(*runtime.ArrayValue)
		if !ok {
			break
		}
		slice := reflect.MakeSlice(target, len(arr.Elements), len(arr.Elements))
		for idx, el := range arr.Elements {
			hostEl, err := ToHost(el, target.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			slice.Index(idx).Set(hostEl)
		}
		return slice, nil
	case reflect.Map:
		obj, ok := v.(*runtime.ObjectValue)
		if !ok || target.Key().Kind() != reflect.String {
			break
		}
		m := reflect.MakeMapWithSize(target, len(obj.Attributes))
		for key, el := range obj.Attributes {
			hostEl, err := ToHost(el, target.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			m.SetMapIndex(reflect.ValueOf(key).Convert(target.Key()), hostEl)
		}
		return m, nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", runtime.TypeName(v), target)
}

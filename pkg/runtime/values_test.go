package runtime

import "testing"

func TestArrayValueKind(t *testing.T) {
	arr := NewArray(StringValue{Val: "a"})
	if arr.Kind() != KindArray {
		t.Fatalf("expected KindArray, got %v", arr.Kind())
	}
	if empty := NewArray(); empty.Elements == nil {
		t.Fatalf("expected non-nil elements for empty array")
	}
}

func TestTypeName(t *testing.T) {
	cls := NewClass("Calculator")
	cases := []struct {
		value Value
		want  string
	}{
		{IntegerValue{Val: 1}, "int"},
		{FloatValue{Val: 1.5}, "float"},
		{StringValue{Val: "s"}, "string"},
		{BoolValue{Val: true}, "boolean"},
		{NewArray(), "array"},
		{NilValue{}, "null"},
		{NewObject("calc", cls), "Calculator"},
		{NewObject("data", nil), "object"},
		{ErrorValue{ErrorKind: UserError, Message: "x"}, "error"},
	}
	for _, tc := range cases {
		if got := TypeName(tc.value); got != tc.want {
			t.Fatalf("TypeName(%#v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestFormat(t *testing.T) {
	obj := NewObject("calc", NewClass("Calculator"))
	data := NewObject("", nil)
	data.SetAttribute("b", IntegerValue{Val: 1})
	data.SetAttribute("a", StringValue{Val: "x"})
	cases := []struct {
		value Value
		want  string
	}{
		{IntegerValue{Val: -42}, "-42"},
		{FloatValue{Val: 5}, "5.0"},
		{FloatValue{Val: 0.1}, "0.1"},
		{FloatValue{Val: 1234567}, "1234567.0"},
		{FloatValue{Val: 1e20}, "1e+20"},
		{StringValue{Val: "hi"}, "hi"},
		{BoolValue{Val: false}, "false"},
		{NilValue{}, "null"},
		{NewArray(IntegerValue{Val: 1}, StringValue{Val: "a"}, NewArray()), `[1, "a", []]`},
		{obj, "<Calculator object calc>"},
		{data, `{"b": 1, "a": "x"}`},
		{ErrorValue{ErrorKind: ZeroDivisionError, Message: "division by zero"}, "ZeroDivisionError: division by zero"},
	}
	for _, tc := range cases {
		if got := Format(tc.value); got != tc.want {
			t.Fatalf("Format(%#v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestTruthy(t *testing.T) {
	falsy := []Value{NilValue{}, BoolValue{}, IntegerValue{}, FloatValue{}, StringValue{}, NewArray()}
	for _, v := range falsy {
		if Truthy(v) {
			t.Fatalf("expected %#v to be falsy", v)
		}
	}
	truthy := []Value{BoolValue{Val: true}, IntegerValue{Val: 2}, StringValue{Val: "0"}, NewArray(NilValue{}), NewObject("o", nil)}
	for _, v := range truthy {
		if !Truthy(v) {
			t.Fatalf("expected %#v to be truthy", v)
		}
	}
}

func TestEqual(t *testing.T) {
	obj := NewObject("o", nil)
	cases := []struct {
		a, b Value
		want bool
	}{
		{IntegerValue{Val: 1}, FloatValue{Val: 1}, true},
		{IntegerValue{Val: 1}, StringValue{Val: "1"}, false},
		{StringValue{Val: "a"}, StringValue{Val: "a"}, true},
		{NilValue{}, NilValue{}, true},
		{NilValue{}, BoolValue{}, false},
		{NewArray(IntegerValue{Val: 1}), NewArray(FloatValue{Val: 1}), true},
		{obj, obj, true},
		{obj, NewObject("o", nil), false},
	}
	for i, tc := range cases {
		if got := Equal(tc.a, tc.b); got != tc.want {
			t.Fatalf("case %d: Equal(%#v, %#v) = %v, want %v", i, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestEqualSelfReferentialArrays(t *testing.T) {
	a := NewArray(IntegerValue{Val: 0})
	a.Elements[0] = a
	b := NewArray(IntegerValue{Val: 0})
	b.Elements[0] = b
	if !Equal(a, b) {
		t.Fatalf("expected arrays of the same shape to be equal")
	}

	c := NewArray(IntegerValue{Val: 0}, IntegerValue{Val: 1})
	c.Elements[0] = c
	d := NewArray(IntegerValue{Val: 0}, IntegerValue{Val: 2})
	d.Elements[0] = d
	if Equal(c, d) {
		t.Fatalf("expected arrays differing in a leaf to be unequal")
	}
	if Equal(a, c) {
		t.Fatalf("expected arrays of different lengths to be unequal")
	}
}

func TestFindMethodWalksParents(t *testing.T) {
	base := NewClass("Base")
	base.AddMethod(&Function{Name: "greet"})
	base.AddMethod(&Function{Name: "name"})
	child := NewClass("Child")
	child.Parent = base
	child.AddMethod(&Function{Name: "name"})

	fn, owner, ok := child.FindMethod("greet")
	if !ok || owner != base || fn.Name != "greet" {
		t.Fatalf("expected inherited greet from Base, got %v %v %v", fn, owner, ok)
	}
	_, owner, _ = child.FindMethod("name")
	if owner != child {
		t.Fatalf("expected override on Child, got %v", owner.Name)
	}
	if _, _, ok := child.FindMethod("missing"); ok {
		t.Fatalf("expected missing method lookup to fail")
	}
	if !child.IsSubclassOf(base) || base.IsSubclassOf(child) {
		t.Fatalf("unexpected subclass relation")
	}
}

func TestEnvironmentScoping(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("g", IntegerValue{Val: 1})
	local := NewEnvironment(global)

	local.Set("g", IntegerValue{Val: 2})
	if v, _ := global.Get("g"); v.(IntegerValue).Val != 2 {
		t.Fatalf("expected assignment to update global binding, got %v", v)
	}
	local.Set("l", IntegerValue{Val: 3})
	if global.Has("l") {
		t.Fatalf("new binding should be local")
	}
	if !local.HasInCurrentScope("l") || local.HasInCurrentScope("g") {
		t.Fatalf("unexpected local bindings: %v", local.Keys())
	}
	if _, ok := local.Get("missing"); ok {
		t.Fatalf("expected missing lookup to fail")
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(NewNameError("x")); got != NameError {
		t.Fatalf("expected NameError, got %s", got)
	}
	if got := KindOf(errPlain("boom")); got != TypeError {
		t.Fatalf("expected TypeError for plain errors, got %s", got)
	}
	if RecursionLimitExceeded.Catchable() || !UserError.Catchable() {
		t.Fatalf("unexpected catchability")
	}
}

type errPlain string

func (e errPlain) Error() string { return string(e) }

package modules

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hpl/interpreter-go/pkg/runtime"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func expectKind(t *testing.T, err error, kind runtime.ErrorKind) {
	t.Helper()
	var rtErr *runtime.Error
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected runtime error of kind %s, got %v", kind, err)
	}
	if rtErr.Kind != kind {
		t.Fatalf("expected %s, got %s (%s)", kind, rtErr.Kind, rtErr.Message)
	}
}

type stubOpener struct {
	opened []string
}

func (s *stubOpener) Open(name, path string) (*Module, error) {
	s.opened = append(s.opened, path)
	m := New(name, "native")
	m.RegisterConstant("ORIGIN", runtime.StringValue{Val: path}, "")
	return m, nil
}

func TestModuleCapability(t *testing.T) {
	m := New("calc", "")
	m.RegisterFunction("double", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return runtime.IntegerValue{Val: args[0].(runtime.IntegerValue).Val * 2}, nil
	}, 1, "")
	m.RegisterConstant("ANSWER", runtime.IntegerValue{Val: 42}, "")

	got, err := m.CallFunction(nil, "double", []runtime.Value{runtime.IntegerValue{Val: 21}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(runtime.IntegerValue).Val != 42 {
		t.Fatalf("expected 42, got %v", got)
	}
	_, err = m.CallFunction(nil, "double", nil)
	expectKind(t, err, runtime.ArityError)
	_, err = m.CallFunction(nil, "triple", nil)
	expectKind(t, err, runtime.NameError)

	c, err := m.GetConstant("ANSWER")
	if err != nil || c.(runtime.IntegerValue).Val != 42 {
		t.Fatalf("unexpected constant %v, %v", c, err)
	}
	_, err = m.GetConstant("QUESTION")
	expectKind(t, err, runtime.NameError)
	if len(m.Functions()) != 1 || len(m.Constants()) != 1 {
		t.Fatalf("unexpected listings")
	}
}

func TestResolveBuiltinsAreCached(t *testing.T) {
	r := NewResolver(Options{WorkingDir: t.TempDir()})
	first, err := r.Resolve("math", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Resolve("math", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected cached module instance")
	}
	pi, err := first.GetConstant("PI")
	if err != nil || pi.(runtime.FloatValue).Val != math.Pi {
		t.Fatalf("unexpected PI %v, %v", pi, err)
	}
}

func TestResolveBuiltinBeatsSourceFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "math.hpl"), "main: () => {}\n")
	r := NewResolver(Options{WorkingDir: dir, SourceLoader: func(path string) (*Module, error) {
		t.Fatalf("source loader should not run for built-ins")
		return nil, nil
	}})
	if _, err := r.Resolve("math", dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolveSourceModuleSearchOrder(t *testing.T) {
	importing := t.TempDir()
	cwd := t.TempDir()
	pkgDir := t.TempDir()
	writeFile(t, filepath.Join(cwd, "shared.hpl"), "")
	writeFile(t, filepath.Join(importing, "shared.hpl"), "")
	writeFile(t, filepath.Join(pkgDir, "pkgmod", "pkgmod.hpl"), "")

	var loaded []string
	r := NewResolver(Options{
		WorkingDir: cwd,
		PackageDir: pkgDir,
		SourceLoader: func(path string) (*Module, error) {
			loaded = append(loaded, path)
			return New(strings.TrimSuffix(filepath.Base(path), SourceExtension), ""), nil
		},
	})
	m, err := r.Resolve("shared", importing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(importing, "shared.hpl"); m.Path() != want {
		t.Fatalf("expected importing dir to win: got %s, want %s", m.Path(), want)
	}
	if _, err := r.Resolve("pkgmod", importing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Resolve("shared", importing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected each module loaded once, got %v", loaded)
	}
}

func TestResolveNativeTiers(t *testing.T) {
	pkgDir := t.TempDir()
	local := t.TempDir()
	writeFile(t, filepath.Join(pkgDir, "fast", "fast.so"), "")
	writeFile(t, filepath.Join(local, "fast.hpl"), "")
	writeFile(t, filepath.Join(local, "helper.so"), "")

	opener := &stubOpener{}
	r := NewResolver(Options{
		WorkingDir:   local,
		PackageDir:   pkgDir,
		NativeOpener: opener,
		SourceLoader: func(path string) (*Module, error) {
			t.Fatalf("installed native package should win over %s", path)
			return nil, nil
		},
	})
	m, err := r.Resolve("fast", local)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if origin, _ := m.GetConstant("ORIGIN"); origin.(runtime.StringValue).Val != filepath.Join(pkgDir, "fast", "fast.so") {
		t.Fatalf("unexpected origin %v", origin)
	}
	if _, err := r.Resolve("helper", local); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opener.opened) != 2 {
		t.Fatalf("expected two native opens, got %v", opener.opened)
	}
}

func TestResolveUnknownModule(t *testing.T) {
	r := NewResolver(Options{WorkingDir: t.TempDir()})
	_, err := r.Resolve("nowhere", "")
	expectKind(t, err, runtime.NameError)
	if !strings.Contains(err.Error(), "io, json, math, os, time, yaml") {
		t.Fatalf("expected built-in listing in %q", err.Error())
	}
	_, err = r.Resolve("../etc", "")
	expectKind(t, err, runtime.NameError)
}

func TestResolveDetectsCycles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "loop.hpl"), "")
	var r *Resolver
	r = NewResolver(Options{WorkingDir: dir, SourceLoader: func(path string) (*Module, error) {
		return r.Resolve("loop", dir)
	}})
	_, err := r.Resolve("loop", dir)
	expectKind(t, err, runtime.NameError)
	if !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestAdaptExports(t *testing.T) {
	m, err := AdaptExports("greeter", map[string]any{
		"VERSION": "1.0",
		"LIMITS":  []int{1, 2},
		"greet":   func(name string) string { return "hello " + name },
		"sum": func(nums ...float64) float64 {
			total := 0.0
			for _, n := range nums {
				total += n
			}
			return total
		},
		"fail": func() (int, error) { return 0, errors.New("nope") },
		"boom": func() int { panic("kaboom") },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := m.CallFunction(nil, "greet", []runtime.Value{runtime.StringValue{Val: "hpl"}})
	if err != nil || got.(runtime.StringValue).Val != "hello hpl" {
		t.Fatalf("unexpected greet result %v, %v", got, err)
	}
	got, err = m.CallFunction(nil, "sum", []runtime.Value{runtime.IntegerValue{Val: 1}, runtime.FloatValue{Val: 2.5}})
	if err != nil || got.(runtime.FloatValue).Val != 3.5 {
		t.Fatalf("unexpected sum result %v, %v", got, err)
	}
	_, err = m.CallFunction(nil, "greet", []runtime.Value{runtime.IntegerValue{Val: 1}})
	expectKind(t, err, runtime.TypeError)
	_, err = m.CallFunction(nil, "greet", nil)
	expectKind(t, err, runtime.ArityError)
	if _, err = m.CallFunction(nil, "fail", nil); err == nil || err.Error() != "nope" {
		t.Fatalf("expected host error, got %v", err)
	}
	_, err = m.CallFunction(nil, "boom", nil)
	expectKind(t, err, runtime.TypeError)

	version, _ := m.GetConstant("VERSION")
	if version.(runtime.StringValue).Val != "1.0" {
		t.Fatalf("unexpected VERSION %v", version)
	}
	limits, _ := m.GetConstant("LIMITS")
	if runtime.Format(limits) != "[1, 2]" {
		t.Fatalf("unexpected LIMITS %s", runtime.Format(limits))
	}
}

func TestModuleFromSymbol(t *testing.T) {
	register := func(m *Module) {
		m.RegisterConstant("X", runtime.IntegerValue{Val: 1}, "")
	}
	m, err := moduleFromSymbol("reg", register)
	if err != nil || !m.HasConstant("X") || m.ModuleName() != "reg" {
		t.Fatalf("unexpected module %v, %v", m, err)
	}
	if _, err := moduleFromSymbol("bad", 42); err == nil {
		t.Fatalf("expected unsupported symbol error")
	}
}

func TestStdlibModules(t *testing.T) {
	builtins := Builtins()
	var out bytes.Buffer
	ctx := &runtime.NativeCallContext{Output: &out}

	io := builtins["io"]()
	if _, err := io.CallFunction(ctx, "println", []runtime.Value{runtime.StringValue{Val: "a"}, runtime.IntegerValue{Val: 1}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "a 1\n" {
		t.Fatalf("unexpected output %q", out.String())
	}

	mathMod := builtins["math"]()
	got, _ := mathMod.CallFunction(ctx, "sqrt", []runtime.Value{runtime.IntegerValue{Val: 16}})
	if got.(runtime.FloatValue).Val != 4 {
		t.Fatalf("unexpected sqrt %v", got)
	}
	got, _ = mathMod.CallFunction(ctx, "floor", []runtime.Value{runtime.FloatValue{Val: 2.7}})
	if got.(runtime.IntegerValue).Val != 2 {
		t.Fatalf("unexpected floor %v", got)
	}
	got, _ = mathMod.CallFunction(ctx, "floor", []runtime.Value{runtime.FloatValue{Val: math.Exp2(63)}})
	if got.(runtime.FloatValue).Val != math.Exp2(63) {
		t.Fatalf("floor past the int range should stay float, got %#v", got)
	}
	got, _ = mathMod.CallFunction(ctx, "round", []runtime.Value{runtime.FloatValue{Val: -math.Exp2(62)}})
	if got.(runtime.IntegerValue).Val != -1<<62 {
		t.Fatalf("unexpected round %#v", got)
	}
	_, err := mathMod.CallFunction(ctx, "sqrt", []runtime.Value{runtime.StringValue{Val: "x"}})
	expectKind(t, err, runtime.TypeError)

	jsonMod := builtins["json"]()
	parsed, err := jsonMod.CallFunction(ctx, "parse", []runtime.Value{runtime.StringValue{Val: `{"b": [1, 2.5, "x"], "a": true}`}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := runtime.Format(parsed); got != `{"a": true, "b": [1, 2.5, "x"]}` {
		t.Fatalf("unexpected parse result %s", got)
	}
	encoded, err := jsonMod.CallFunction(ctx, "stringify", []runtime.Value{parsed})
	if err != nil || encoded.(runtime.StringValue).Val != `{"a":true,"b":[1,2.5,"x"]}` {
		t.Fatalf("unexpected stringify result %v, %v", encoded, err)
	}

	yamlMod := builtins["yaml"]()
	parsed, err = yamlMod.CallFunction(ctx, "parse", []runtime.Value{runtime.StringValue{Val: "name: hpl\ntags: [a, b]\n"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := runtime.Format(parsed); got != `{"name": "hpl", "tags": ["a", "b"]}` {
		t.Fatalf("unexpected yaml parse result %s", got)
	}

	osMod := builtins["os"]()
	t.Setenv("HPL_TEST_VALUE", "present")
	got, _ = osMod.CallFunction(ctx, "getenv", []runtime.Value{runtime.StringValue{Val: "HPL_TEST_VALUE"}})
	if got.(runtime.StringValue).Val != "present" {
		t.Fatalf("unexpected getenv %v", got)
	}

	timeMod := builtins["time"]()
	got, _ = timeMod.CallFunction(ctx, "format", []runtime.Value{runtime.IntegerValue{Val: 0}})
	if got.(runtime.StringValue).Val != "1970-01-01T00:00:00Z" {
		t.Fatalf("unexpected time format %v", got)
	}
}

func TestDefaultPackageDirHonoursEnv(t *testing.T) {
	t.Setenv("HPL_PACKAGES", "/opt/hpl/pkgs")
	if got := DefaultPackageDir(); got != "/opt/hpl/pkgs" {
		t.Fatalf("unexpected package dir %s", got)
	}
}

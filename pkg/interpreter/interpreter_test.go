package interpreter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hpl/interpreter-go/pkg/driver"
	"hpl/interpreter-go/pkg/runtime"
)

const calculatorSource = `classes:
  Calculator:
    add: (a, b) => {
      result = a + b
      return result
    }
objects:
  calc: Calculator()
main: () => {
  sum = calc.add(10, 20)
  echo("Result: " + sum)
}
call: main()
`

func loadProgram(t *testing.T, dir, source string) *driver.Program {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	prog, err := driver.NewLoader().LoadSource(filepath.Join(dir, "main.hpl"), source)
	if err != nil {
		t.Fatalf("LoadSource returned error: %v", err)
	}
	return prog
}

func testOptions(t *testing.T) Options {
	t.Helper()
	return Options{PackageDir: t.TempDir()}
}

func runSource(t *testing.T, source string) Outcome {
	t.Helper()
	return New(loadProgram(t, "", source), testOptions(t)).Run()
}

func expectSuccess(t *testing.T, outcome Outcome, wantOutput string) {
	t.Helper()
	if !outcome.Success {
		t.Fatalf("run failed: %s", DescribeRuntimeDiagnostic(outcome.Diagnostic()))
	}
	if outcome.Output != wantOutput {
		t.Fatalf("output = %q, want %q", outcome.Output, wantOutput)
	}
}

func expectFailure(t *testing.T, outcome Outcome, kind runtime.ErrorKind) {
	t.Helper()
	if outcome.Success {
		t.Fatalf("expected %s, run succeeded with output %q", kind, outcome.Output)
	}
	if outcome.ErrorKind != string(kind) {
		t.Fatalf("error kind = %s, want %s (%s)", outcome.ErrorKind, kind, outcome.Error)
	}
}

func writeModule(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestRunCalculator(t *testing.T) {
	expectSuccess(t, runSource(t, calculatorSource), "Result: 30\n")
}

func TestUndefinedVariableReportsPosition(t *testing.T) {
	dir := t.TempDir()
	prog := loadProgram(t, dir, "main: () => {\n  y = 1\n  echo(x)\n}\n")
	outcome := New(prog, testOptions(t)).Run()
	expectFailure(t, outcome, runtime.NameError)
	if outcome.Line == nil || outcome.Column == nil || *outcome.Line != 3 || *outcome.Column != 7 {
		t.Fatalf("position = %v:%v, want 3:7", outcome.Line, outcome.Column)
	}
	if outcome.Path != filepath.Join(dir, "main.hpl") {
		t.Fatalf("path = %q", outcome.Path)
	}
	if strings.Join(outcome.CallStack, CallStackSeparator) != "main()" {
		t.Fatalf("call stack = %v", outcome.CallStack)
	}
	if !strings.Contains(outcome.Error, "'x'") {
		t.Fatalf("message = %q", outcome.Error)
	}
}

func TestInheritanceAndThis(t *testing.T) {
	source := `classes:
  Base:
    describe: () => {
      return "I am " + this.name()
    }
    name: () => {
      return "base"
    }
  Derived:
    parent: Base
    name: () => {
      return "derived"
    }
objects:
  b: Base()
  d: Derived()
main: () => {
  echo(b.describe())
  echo(d.describe())
  d.missing()
}
`
	outcome := runSource(t, source)
	expectFailure(t, outcome, runtime.NameError)
	if outcome.Output != "I am base\nI am derived\n" {
		t.Fatalf("output = %q", outcome.Output)
	}
	if !strings.Contains(outcome.Error, "method 'missing' not found in class 'Derived'") {
		t.Fatalf("message = %q", outcome.Error)
	}
}

func TestLocalScoping(t *testing.T) {
	source := `constants:
  counter: 0
classes:
  Tmp:
    touch: () => {
      scratch = 5
      counter = counter + 1
    }
objects:
  t: Tmp()
main: () => {
  t.touch()
  t.touch()
  echo(counter)
  try {
    echo(scratch)
  } catch (e) {
    echo(e.kind)
  }
}
`
	expectSuccess(t, runSource(t, source), "2\nNameError\n")
}

func TestLoopControlFlow(t *testing.T) {
	source := `find: (items, target) => {
  for (i = 0; i < len(items); i++) {
    if (items[i] == target) {
      return i
    }
  }
  return -1
}
main: () => {
  for (i = 0; i < 10; i++) {
    if (i == 3) {
      if (true) {
        break
      }
    }
    if (i == 1) { continue }
    echo(i)
  }
  n = 0
  while (true) {
    n++
    if (n >= 4) { break }
  }
  echo(n)
  echo(find([5, 6, 7], 7))
  echo(find([5, 6, 7], 9))
}
`
	expectSuccess(t, runSource(t, source), "0\n2\n4\n2\n-1\n")
}

func TestIndentedBodiesSpanMultiLineBrackets(t *testing.T) {
	source := `main: () => {
  x = 0
  if (x == 1):
    echo(max(
      1,
      2))
    echo("inside")
  i = 0
  while (i < 2):
    xs = [
      i,
      i * 10
    ]
    i++
  echo(xs)
  echo("after")
}
`
	expectSuccess(t, runSource(t, source), "[1, 10]\nafter\n")
}

func TestCyclicArrayEquality(t *testing.T) {
	source := `main: () => {
  a = [0]
  a[0] = a
  b = [0]
  b[0] = b
  echo(a == b)
  echo(a != [1])
}
`
	expectSuccess(t, runSource(t, source), "true\ntrue\n")
}

func TestTryCatchBindsRuntimeErrors(t *testing.T) {
	source := `main: () => {
  try {
    x = [1, 2]
    echo(x[5])
  } catch (e) {
    echo(e.kind + ": " + e.message)
  }
  try {
    throw "custom"
  } catch (err) {
    echo(err)
  }
  try {
    try {
      y = 1 / 0
    } catch (inner) {
      throw inner
    }
  } catch (outer) {
    echo(outer.kind)
  }
  echo("after")
}
`
	expectSuccess(t, runSource(t, source), "IndexError: index 5 out of range for length 2\nUserError: custom\nZeroDivisionError\nafter\n")
}

func TestUncaughtThrowCarriesCallStack(t *testing.T) {
	source := `classes:
  Worker:
    run: (n) => {
      if (n > 1) {
        throw "too big: " + n
      }
      return n
    }
objects:
  w: Worker()
main: () => {
  echo(w.run(1))
  w.run(2)
}
`
	outcome := runSource(t, source)
	expectFailure(t, outcome, runtime.UserError)
	if outcome.Output != "1\n" || outcome.Error != "too big: 2" {
		t.Fatalf("outcome = %#v", outcome)
	}
	if got := strings.Join(outcome.CallStack, CallStackSeparator); got != "main() → w.run()" {
		t.Fatalf("call stack = %q", got)
	}
	if outcome.Line == nil || *outcome.Line != 5 {
		t.Fatalf("line = %v, want 5", outcome.Line)
	}
}

func TestRecursionLimitIsNotCatchable(t *testing.T) {
	source := `recurse: (n) => {
  return recurse(n + 1)
}
main: () => {
  try {
    recurse(0)
  } catch (e) {
    echo("caught")
  }
}
`
	opts := testOptions(t)
	opts.MaxDepth = 50
	outcome := New(loadProgram(t, "", source), opts).Run()
	expectFailure(t, outcome, runtime.RecursionLimitExceeded)
	if outcome.Output != "" {
		t.Fatalf("output = %q, want none", outcome.Output)
	}
	if len(outcome.CallStack) != 50 || outcome.CallStack[0] != "main()" || outcome.CallStack[1] != "recurse()" {
		t.Fatalf("call stack = %v", outcome.CallStack)
	}
}

func TestMaxDepthIsCapped(t *testing.T) {
	source := `recurse: (n) => {
  return recurse(n + 1)
}
call: recurse(0)
`
	opts := testOptions(t)
	opts.MaxDepth = 1 << 40
	interp := New(loadProgram(t, "", source), opts)
	if interp.opts.MaxDepth != MaxDepthLimit {
		t.Fatalf("max depth = %d, want %d", interp.opts.MaxDepth, MaxDepthLimit)
	}
	outcome := interp.Run()
	expectFailure(t, outcome, runtime.RecursionLimitExceeded)
	if !strings.Contains(outcome.Error, "maximum recursion depth of 10000 exceeded") {
		t.Fatalf("error = %q", outcome.Error)
	}
}

func TestConstructorsRunWithArguments(t *testing.T) {
	source := `constants:
  offset: 10
classes:
  Point:
    __init__: (x, y) => {
      this.x = x
      this.y = y
    }
    sum: () => {
      return this.x + this.y
    }
  Point3:
    parent: Point
objects:
  p: Point(3, 4)
  q: Point3(offset, 1)
main: () => {
  echo(p.sum())
  echo(q.sum())
  q.x = 100
  echo(q.x)
}
`
	expectSuccess(t, runSource(t, source), "7\n11\n100\n")
}

func TestCallTargetVariants(t *testing.T) {
	source := `classes:
  Greeter:
    greet: (name) => {
      echo("hi " + name)
      return 1
    }
objects:
  g: Greeter()
double: (n) => {
  return n * 2
}
call: g.greet("bob")
`
	prog := loadProgram(t, "", source)
	interp := New(prog, testOptions(t))
	outcome := interp.Run()
	expectSuccess(t, outcome, "hi bob\n")
	if !runtime.Equal(outcome.Value, runtime.IntegerValue{Val: 1}) {
		t.Fatalf("value = %#v", outcome.Value)
	}

	executed := interp.Execute(prog.Functions["double"], []runtime.Value{runtime.IntegerValue{Val: 21}})
	if !executed.Success || !runtime.Equal(executed.Value, runtime.IntegerValue{Val: 42}) {
		t.Fatalf("Execute outcome = %#v", executed)
	}

	if _, err := interp.CallFunction("double"); err == nil || errorKind(err) != runtime.ArityError {
		t.Fatalf("expected ArityError, got %v", err)
	} else if !strings.Contains(err.Error(), "double expects 1 argument, got 0") {
		t.Fatalf("arity message = %q", err.Error())
	}
	if _, err := interp.CallFunction("nope"); errorKind(err) != runtime.NameError {
		t.Fatalf("expected NameError, got %v", err)
	}
}

func TestNothingToRun(t *testing.T) {
	outcome := runSource(t, "constants:\n  a: 1\n")
	expectFailure(t, outcome, runtime.NameError)
}

func TestAssignmentsAndIncrements(t *testing.T) {
	source := `main: () => {
  arr = [1, 2, 3]
  arr[1] = 20
  arr[2]++
  i = 0
  j = i++
  k = ++i
  echo(arr)
  echo(str(j) + "," + str(k) + "," + str(i))
  s = "abc"
  echo(s[1])
  arr[3] = 1
}
`
	outcome := runSource(t, source)
	expectFailure(t, outcome, runtime.IndexError)
	if outcome.Output != "[1, 20, 4]\n0,2,2\nb\n" {
		t.Fatalf("output = %q", outcome.Output)
	}
}

func TestEchoOutputIsTeed(t *testing.T) {
	var sink strings.Builder
	opts := testOptions(t)
	opts.Output = &sink
	outcome := New(loadProgram(t, "", calculatorSource), opts).Run()
	expectSuccess(t, outcome, "Result: 30\n")
	if sink.String() != "Result: 30\n" {
		t.Fatalf("tee output = %q", sink.String())
	}
}

package checker

import (
	"path/filepath"
	"strings"
	"testing"

	"hpl/interpreter-go/pkg/driver"
	"hpl/interpreter-go/pkg/runtime"
)

func checkSource(t *testing.T, source string) CheckResult {
	t.Helper()
	prog, err := driver.NewLoader().LoadSource(filepath.Join(t.TempDir(), "main.hpl"), source)
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	result, err := NewProgramChecker().Check(prog)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	return result
}

func TestCleanProgramHasNoDiagnostics(t *testing.T) {
	result := checkSource(t, `classes:
  Counter:
    __init__: (start) => {
      this.n = start
    }
    bump: () => {
      this.n++
      return this.n
    }
objects:
  c: Counter(1)
twice: (x) => {
  return x * 2
}
main: () => {
  for (i = 0; i < 3; i++) {
    if (i == 1) {
      continue
    }
    echo(twice(c.bump()))
  }
  echo(len([1, 2]))
}
`)
	if len(result.Diagnostics) != 0 {
		t.Fatalf("diagnostics = %#v", result.Diagnostics)
	}
}

func TestCheckerFindsCertainFailures(t *testing.T) {
	result := checkSource(t, `classes:
  Greeter:
    greet: (name) => {
      return "hi " + name
    }
objects:
  g: Greeter("x")
helper: (a, b) => {
  return a + b
}
main: () => {
  helper(1)
  nothing()
  g.greet()
  g.wave()
}
call: helper(1, 2)
`)
	want := []struct {
		kind    runtime.ErrorKind
		message string
		line    int
	}{
		{runtime.ArityError, "Greeter() takes no arguments (class 'Greeter' has no __init__)", 7},
		{runtime.ArityError, "helper expects 2 arguments, got 1", 12},
		{runtime.NameError, "undefined function 'nothing'", 13},
		{runtime.ArityError, "g.greet expects 1 argument, got 0", 14},
		{runtime.NameError, "method 'wave' not found in class 'Greeter'", 15},
	}
	if len(result.Diagnostics) != len(want) {
		t.Fatalf("diagnostics = %#v", result.Diagnostics)
	}
	for idx, w := range want {
		got := result.Diagnostics[idx]
		if got.Severity != SeverityError || got.Kind != w.kind || got.Message != w.message || got.Location.Line != w.line {
			t.Fatalf("diagnostic %d = %#v, want %+v", idx, got, w)
		}
	}
	if !result.HasErrors() {
		t.Fatalf("HasErrors = false")
	}
}

func TestCheckerCallTarget(t *testing.T) {
	result := checkSource(t, "run: (n) => {\n  return n\n}\ncall: run()\n")
	if len(result.Diagnostics) != 1 || result.Diagnostics[0].Message != "run expects 1 argument, got 0" {
		t.Fatalf("diagnostics = %#v", result.Diagnostics)
	}
	if result.Diagnostics[0].Location.Line != 4 {
		t.Fatalf("location = %+v", result.Diagnostics[0].Location)
	}

	result = checkSource(t, "run: () => {\n}\ncall: ghost.run()\n")
	if len(result.Diagnostics) != 1 || result.Diagnostics[0].Message != "undefined object 'ghost'" {
		t.Fatalf("diagnostics = %#v", result.Diagnostics)
	}
}

func TestCheckerWarnings(t *testing.T) {
	result := checkSource(t, `classes:
  Shape:
    describe: () => {
      return "area " + this.area()
    }
  Square:
    parent: Shape
    area: () => {
      return 4
    }
objects:
  sq: Square()
main: () => {
  echo(sq.describe())
}
`)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %#v", result.Diagnostics)
	}
	if len(result.Diagnostics) != 1 || result.Diagnostics[0].Severity != SeverityWarning {
		t.Fatalf("diagnostics = %#v", result.Diagnostics)
	}
	described := DescribeDiagnostic(result.Diagnostics[0])
	if !strings.HasPrefix(described, "warning: checker: ") || !strings.Contains(described, "main.hpl:4:") || !strings.Contains(described, "class 'Shape' has no method 'area'") {
		t.Fatalf("described = %q", described)
	}
}

func TestReboundObjectNamesAreNotChecked(t *testing.T) {
	result := checkSource(t, `classes:
  Box:
    open: () => {
      return 1
    }
objects:
  box: Box()
main: () => {
  box = [1]
  box.anything()
}
`)
	if len(result.Diagnostics) != 0 {
		t.Fatalf("diagnostics = %#v", result.Diagnostics)
	}
}

func TestDescribeDiagnostic(t *testing.T) {
	diag := Diagnostic{
		Kind:     runtime.NameError,
		Message:  "undefined function 'f'",
		Location: driver.DiagnosticLocation{Path: "/w/main.hpl", Line: 3, Column: 2},
	}
	if got := DescribeDiagnostic(diag); got != "checker: /w/main.hpl:3:2 NameError: undefined function 'f'" {
		t.Fatalf("described = %q", got)
	}
}

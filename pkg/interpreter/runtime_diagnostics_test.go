package interpreter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"hpl/interpreter-go/pkg/ast"
	"hpl/interpreter-go/pkg/driver"
	"hpl/interpreter-go/pkg/runtime"
)

func TestRuntimeDiagnosticsFormatting(t *testing.T) {
	interp := New(nil, testOptions(t))
	path := filepath.Join(t.TempDir(), "main.hpl")

	errorNode := ast.ID("boom")
	ast.SetSpan(errorNode, ast.Span{
		Start: ast.Position{Line: 6, Column: 3},
		End:   ast.Position{Line: 6, Column: 7},
	})
	interp.pushFrame(callFrame{label: "main()", path: path})
	interp.pushFrame(callFrame{label: "calc.add()", path: path})

	err := interp.attachRuntimeContext(newUndefinedVariableError("boom"), errorNode)

	outer := ast.ID("outer")
	ast.SetSpan(outer, ast.Span{Start: ast.Position{Line: 10, Column: 2}})
	interp.popFrame()
	err = interp.attachRuntimeContext(err, outer)

	got := DescribeRuntimeDiagnostic(BuildRuntimeDiagnostic(err))
	want := path + ":6:3 NameError: undefined variable 'boom'\ncall stack: main() → calc.add()"
	if got != want {
		t.Fatalf("unexpected diagnostic output:\nexpected: %s\ngot: %s", want, got)
	}
}

func TestRuntimeDiagnosticsIgnoreUnpositionedNodes(t *testing.T) {
	interp := New(nil, testOptions(t))
	err := interp.attachRuntimeContext(runtime.NewTypeError("bad"), ast.ID("x"))
	if runtimeContextFromError(err) != nil {
		t.Fatalf("context attached for a node without a position")
	}
	if got := DescribeRuntimeDiagnostic(BuildRuntimeDiagnostic(err)); got != "TypeError: bad" {
		t.Fatalf("description = %q", got)
	}
}

func TestBuildRuntimeDiagnosticFromLoadError(t *testing.T) {
	_, err := driver.NewLoader().LoadSource("/work/main.hpl", "main: () => {\n  x = * 2\n}\n")
	diag := BuildRuntimeDiagnostic(err)
	if diag.Kind != runtime.SyntaxError || diag.Location.Line != 2 || diag.Location.Path != "/work/main.hpl" {
		t.Fatalf("diagnostic = %#v", diag)
	}
}

func TestPlainErrorsReportAsTypeErrors(t *testing.T) {
	diag := BuildRuntimeDiagnostic(errors.New("native failure"))
	if diag.Kind != runtime.TypeError || diag.Message != "native failure" {
		t.Fatalf("diagnostic = %#v", diag)
	}
}

func TestOutcomeJSON(t *testing.T) {
	outcome := runSource(t, "main: () => {\n  echo(1)\n  x = missing\n}\n")
	if outcome.Success {
		t.Fatalf("expected failure")
	}
	data, err := outcome.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"success", "output", "error", "error_kind", "line", "column", "path", "call_stack"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("key %q missing from %s", key, data)
		}
	}
	if decoded["column"].(float64) != 6 || decoded["output"] != "1\n" {
		t.Fatalf("unexpected JSON: %s", data)
	}

	success, err := runSource(t, calculatorSource).JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if strings.Contains(string(success), "error") || strings.Contains(string(success), "line") {
		t.Fatalf("success JSON carries failure fields: %s", success)
	}
}

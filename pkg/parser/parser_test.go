package parser

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"hpl/interpreter-go/pkg/ast"
)

func checkSpan(t testing.TB, label string, span ast.Span, startLine, startCol int) {
	t.Helper()
	if span.Start.Line != startLine || span.Start.Column != startCol {
		t.Fatalf("%s start span mismatch: got (%d,%d), want (%d,%d)", label, span.Start.Line, span.Start.Column, startLine, startCol)
	}
}

// assertNodesEqual compares structure only; spans are unexported and drop out
// of the JSON form.
func assertNodesEqual(t testing.TB, expected interface{}, actual interface{}) {
	t.Helper()
	wantJSON, _ := json.Marshal(expected)
	gotJSON, _ := json.Marshal(actual)
	var wantAny interface{}
	var gotAny interface{}
	_ = json.Unmarshal(wantJSON, &wantAny)
	_ = json.Unmarshal(gotJSON, &gotAny)
	if reflect.DeepEqual(wantAny, gotAny) {
		return
	}
	wantPretty, _ := json.MarshalIndent(wantAny, "", "  ")
	gotPretty, _ := json.MarshalIndent(gotAny, "", "  ")
	t.Fatalf("ast mismatch\nexpected: %s\n   actual: %s", wantPretty, gotPretty)
}

func mustParse(t *testing.T, src string) *ast.Block {
	t.Helper()
	block, err := ParseSource(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return block
}

func mustParseError(t *testing.T, src string) *ParseError {
	t.Helper()
	_, err := ParseSource(src)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected parse error for %q, got %v", src, err)
	}
	return parseErr
}

func TestParsePrecedence(t *testing.T) {
	block := mustParse(t, "x = 1 + 2 * 3 == 7 && !false || y < 2")
	want := ast.Blk(ast.Assign("x",
		ast.Bin("||",
			ast.Bin("&&",
				ast.Bin("==",
					ast.Bin("+", ast.Int(1), ast.Bin("*", ast.Int(2), ast.Int(3))),
					ast.Int(7)),
				ast.Un("!", ast.Bool(false))),
			ast.Bin("<", ast.ID("y"), ast.Int(2)))))
	assertNodesEqual(t, want, block)
}

func TestParseLeftAssociativity(t *testing.T) {
	block := mustParse(t, "r = 10 - 3 - 2")
	want := ast.Blk(ast.Assign("r", ast.Bin("-", ast.Bin("-", ast.Int(10), ast.Int(3)), ast.Int(2))))
	assertNodesEqual(t, want, block)
}

func TestParseUnaryAndGrouping(t *testing.T) {
	block := mustParse(t, "r = -(a + 1) * 2")
	want := ast.Blk(ast.Assign("r",
		ast.Bin("*", ast.Un("-", ast.Bin("+", ast.ID("a"), ast.Int(1))), ast.Int(2))))
	assertNodesEqual(t, want, block)
}

func TestParsePostfixChain(t *testing.T) {
	block := mustParse(t, "v = obj.items(1)[0].name\nthis.count = this.count + 1\narr[i][j] = 3")
	want := ast.Blk(
		ast.Assign("v", ast.Member(ast.Index(ast.CallMethod(ast.ID("obj"), "items", ast.Int(1)), ast.Int(0)), "name")),
		ast.AssignMember(ast.Member(ast.ID("this"), "count"), ast.Bin("+", ast.Member(ast.ID("this"), "count"), ast.Int(1))),
		ast.AssignIndex(ast.Index(ast.Index(ast.ID("arr"), ast.ID("i")), ast.ID("j")), ast.Int(3)),
	)
	assertNodesEqual(t, want, block)
}

func TestParseIncrements(t *testing.T) {
	block := mustParse(t, "i++\n++j\nk = i++")
	want := ast.Blk(
		ast.NewIncrementStatement(ast.ID("i"), false),
		ast.NewIncrementStatement(ast.ID("j"), true),
		ast.Assign("k", ast.PostInc(ast.ID("i"))),
	)
	assertNodesEqual(t, want, block)
}

func TestParseStatementsOnSeparateLines(t *testing.T) {
	block := mustParse(t, "a = b\n[1, 2]\nc = d\n(e)")
	if len(block.Body) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(block.Body))
	}
	if _, ok := block.Body[1].(*ast.ArrayLiteral); !ok {
		t.Fatalf("expected array literal statement, got %T", block.Body[1])
	}
}

func TestParseBlockForms(t *testing.T) {
	expected := ast.Blk(ast.If(ast.Bin(">", ast.ID("x"), ast.Int(0)), ast.Blk(ast.Echo(ast.Str("pos"))), ast.Blk(ast.Echo(ast.Str("neg")))))
	sources := map[string]string{
		"braces":      "if (x > 0) {\n  echo(\"pos\")\n} else {\n  echo(\"neg\")\n}",
		"inline":      "if (x > 0) { echo(\"pos\") } else { echo(\"neg\") }",
		"colon":       "if (x > 0): echo(\"pos\")\nelse: echo(\"neg\")",
		"indentation": "if (x > 0):\n    echo(\"pos\")\nelse:\n    echo(\"neg\")",
		"bare indent": "if (x > 0)\n    echo(\"pos\")\nelse\n    echo(\"neg\")",
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			assertNodesEqual(t, expected, mustParse(t, src))
		})
	}
}

func TestParseIndentedBlockWithMultiLineBrackets(t *testing.T) {
	block := mustParse(t, "if (x == 1):\n    echo(max(\n  1,\n        2))\n    echo(\"inside\")\necho(\"after\")")
	want := ast.Blk(
		ast.If(ast.Bin("==", ast.ID("x"), ast.Int(1)), ast.Blk(
			ast.Echo(ast.Call("max", ast.Int(1), ast.Int(2))),
			ast.Echo(ast.Str("inside")),
		), nil),
		ast.Echo(ast.Str("after")),
	)
	assertNodesEqual(t, want, block)

	block = mustParse(t, "while (i < 2):\n    xs = [\n1,\n  2\n    ]\n    i++\necho(i)")
	want = ast.Blk(
		ast.While(ast.Bin("<", ast.ID("i"), ast.Int(2)), ast.Blk(
			ast.Assign("xs", ast.Arr(ast.Int(1), ast.Int(2))),
			ast.NewIncrementStatement(ast.ID("i"), false),
		)),
		ast.Echo(ast.ID("i")),
	)
	assertNodesEqual(t, want, block)
}

func TestParseElseIfChain(t *testing.T) {
	block := mustParse(t, "if (a) { x = 1 } else if (b) { x = 2 } else { x = 3 }")
	want := ast.Blk(ast.If(ast.ID("a"), ast.Blk(ast.Assign("x", ast.Int(1))),
		ast.Blk(ast.If(ast.ID("b"), ast.Blk(ast.Assign("x", ast.Int(2))), ast.Blk(ast.Assign("x", ast.Int(3)))))))
	assertNodesEqual(t, want, block)
}

func TestParseLoops(t *testing.T) {
	src := `
for (i = 0; i < 3; i++) {
    if (i == 1) { continue }
    echo(i)
}
while (true) {
    break
}`
	block := mustParse(t, src)
	want := ast.Blk(
		ast.For(ast.Assign("i", ast.Int(0)), ast.Bin("<", ast.ID("i"), ast.Int(3)), ast.Inc(ast.ID("i")),
			ast.Blk(
				ast.If(ast.Bin("==", ast.ID("i"), ast.Int(1)), ast.Blk(ast.Cont()), nil),
				ast.Echo(ast.ID("i")),
			)),
		ast.While(ast.Bool(true), ast.Blk(ast.Brk())),
	)
	assertNodesEqual(t, want, block)
}

func TestParseSemicolonSeparatedStatements(t *testing.T) {
	block := mustParse(t, "a = 1; b = 2;")
	if len(block.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(block.Body))
	}
	block = mustParse(t, "while (x) { a = 1; b = 2; break; }")
	loop := block.Body[0].(*ast.WhileStatement)
	if len(loop.Body.Body) != 3 {
		t.Fatalf("expected 3 statements in loop body, got %d", len(loop.Body.Body))
	}
}

func TestParseTryCatchImportThrowReturn(t *testing.T) {
	src := `import math as m
import io
try {
    throw "boom"
} catch (err) {
    echo(err)
}
return m.PI`
	block := mustParse(t, src)
	want := ast.Blk(
		ast.Import("math", "m"),
		ast.Import("io", ""),
		ast.Try(ast.Blk(ast.Throw(ast.Str("boom"))), "err", ast.Blk(ast.Echo(ast.ID("err")))),
		ast.Ret(ast.Member(ast.ID("m"), "PI")),
	)
	assertNodesEqual(t, want, block)
}

func TestParseBareReturn(t *testing.T) {
	block := mustParse(t, "if (x) {\n  return\n}\ny = 1")
	ifStmt := block.Body[0].(*ast.IfStatement)
	ret := ifStmt.Then.Body[0].(*ast.ReturnStatement)
	if ret.Argument != nil {
		t.Fatalf("expected bare return, got %#v", ret.Argument)
	}
	if len(block.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(block.Body))
	}
}

func TestParseArraysAndCalls(t *testing.T) {
	block := mustParse(t, "a = [1, \"two\", [3.5, null],]\necho(len(a) + max(1, 2))")
	if len(block.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(block.Body))
	}
	block = mustParse(t, "a = [\n    1,\n    2\n]\nb = f(\n    a\n)")
	want := ast.Blk(
		ast.Assign("a", ast.Arr(ast.Int(1), ast.Int(2))),
		ast.Assign("b", ast.Call("f", ast.ID("a"))),
	)
	assertNodesEqual(t, want, block)
}

func TestParseIndentedBodyWithNestedBraces(t *testing.T) {
	src := "\n    x = 1\n    if (x > 0) {\n        echo(x)\n    }\n    echo(\"done\")\n"
	block := mustParse(t, src)
	if len(block.Body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(block.Body))
	}
}

func TestParseSpans(t *testing.T) {
	block := mustParse(t, "x = 1\n  y = x + 2")
	checkSpan(t, "assignment", block.Body[1].Span(), 2, 2)
	assign := block.Body[1].(*ast.Assignment)
	checkSpan(t, "binary", assign.Value.Span(), 2, 6)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src      string
		contains string
	}{
		{"x = ", "expected expression, got end of input"},
		{"x = (1 + 2", "expected RPAREN"},
		{"if (x) { y = 1", "expected RBRACE"},
		{"1 = 2", "invalid assignment target"},
		{"break", "'break' outside loop"},
		{"f() = 1", "invalid assignment target"},
		{"try { x = 1 } y = 2", "expected 'catch'"},
		{"x = else", "expected expression"},
	}
	for _, tc := range cases {
		err := mustParseError(t, tc.src)
		if !strings.Contains(err.Error(), tc.contains) {
			t.Fatalf("source %q: expected error containing %q, got %q", tc.src, tc.contains, err.Error())
		}
		if !strings.Contains(err.Error(), "at line ") {
			t.Fatalf("source %q: error should carry a position: %q", tc.src, err.Error())
		}
	}
}

func TestParseErrorIncomplete(t *testing.T) {
	if err := mustParseError(t, "while (x) {"); !err.Incomplete {
		t.Fatalf("expected incomplete error, got %v", err)
	}
	if err := mustParseError(t, "x = )"); err.Incomplete {
		t.Fatalf("did not expect incomplete error, got %v", err)
	}
}

func TestParseErrorLocation(t *testing.T) {
	err := mustParseError(t, "x = 1\ny = * 2")
	if err.Location.Line != 2 || err.Location.Column != 4 {
		t.Fatalf("expected 2:4, got %d:%d", err.Location.Line, err.Location.Column)
	}
}

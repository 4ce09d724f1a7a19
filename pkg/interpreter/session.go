package interpreter

import (
	"hpl/interpreter-go/pkg/ast"
	"hpl/interpreter-go/pkg/driver"
	"hpl/interpreter-go/pkg/lexer"
	"hpl/interpreter-go/pkg/parser"
	"hpl/interpreter-go/pkg/runtime"
)

const sessionLabel = "<repl>"

// Session evaluates statements one chunk at a time against a persistent local
// store, as an interactive prompt does.
type Session struct {
	interp *Interpreter
	locals *runtime.Environment
}

// NewSession starts a session with an empty program.
func NewSession(opts Options) *Session {
	return NewSessionForProgram(nil, opts)
}

// NewSessionForProgram starts a session whose global store holds program's
// imports, constants and objects, and whose calls reach its functions.
func NewSessionForProgram(program *driver.Program, opts Options) *Session {
	interp := New(program, opts)
	return &Session{interp: interp, locals: runtime.NewEnvironment(interp.global)}
}

// Interpreter exposes the session's interpreter.
func (s *Session) Interpreter() *Interpreter {
	return s.interp
}

// EvalSource runs source. The value of a trailing expression statement is
// returned so a prompt can print it; other statements yield null.
func (s *Session) EvalSource(source string) (runtime.Value, error) {
	if err := s.interp.initialize(); err != nil {
		return nil, err
	}
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	block, err := parser.ParseBlock(tokens)
	if err != nil {
		return nil, err
	}

	s.interp.pushFrame(callFrame{label: sessionLabel, locals: s.locals})
	defer s.interp.popFrame()

	var last runtime.Value = runtime.NilValue{}
	for _, stmt := range block.Body {
		if expr, ok := stmt.(ast.Expression); ok {
			last, err = s.interp.evaluateExpression(expr, s.locals)
			if err != nil {
				return nil, err
			}
			continue
		}
		ctl, err := s.interp.execStatement(stmt, s.locals)
		if err != nil {
			return nil, err
		}
		last = runtime.NilValue{}
		if ctl.kind == controlReturn {
			return ctl.value, nil
		}
	}
	return last, nil
}

// Lookup reads a name from the session's locals or globals.
func (s *Session) Lookup(name string) (runtime.Value, bool) {
	return s.locals.Get(name)
}

// Describe renders err the way the command line reports failures.
func (s *Session) Describe(err error) string {
	return DescribeRuntimeDiagnostic(BuildRuntimeDiagnostic(err))
}

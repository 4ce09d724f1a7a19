package checker

import (
	"fmt"
	"strings"

	"hpl/interpreter-go/pkg/ast"
	"hpl/interpreter-go/pkg/driver"
	"hpl/interpreter-go/pkg/interpreter"
	"hpl/interpreter-go/pkg/runtime"
)

const constructorName = "__init__"

// ProgramChecker checks one program at a time.
type ProgramChecker struct {
	program     *driver.Program
	diagnostics []Diagnostic
}

func NewProgramChecker() *ProgramChecker {
	return &ProgramChecker{}
}

// Check walks the call target, object constructors, top-level functions,
// main and every class method.
func (pc *ProgramChecker) Check(program *driver.Program) (CheckResult, error) {
	if program == nil {
		return CheckResult{}, fmt.Errorf("checker: program is nil")
	}
	pc.program = program
	pc.diagnostics = nil

	pc.checkCallTarget()
	for _, name := range program.ObjectOrder {
		pc.checkConstructor(name)
	}
	for _, name := range program.FunctionOrder {
		pc.checkFunction(program.Functions[name], nil)
	}
	if program.Main != nil {
		pc.checkFunction(program.Main, nil)
	}
	for _, className := range program.ClassOrder {
		cls := program.Classes[className]
		for _, method := range cls.MethodOrder {
			pc.checkFunction(cls.Methods[method], cls)
		}
	}
	return CheckResult{Diagnostics: pc.diagnostics}, nil
}

func (pc *ProgramChecker) report(severity Severity, kind runtime.ErrorKind, loc driver.DiagnosticLocation, format string, args ...any) {
	pc.diagnostics = append(pc.diagnostics, Diagnostic{
		Severity: severity,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	})
}

func (pc *ProgramChecker) checkCallTarget() {
	target := pc.program.CallTarget
	if target == "" {
		return
	}
	loc := pc.program.CallLocation
	if loc.Path == "" {
		loc.Path = pc.program.Path
	}
	argc := len(pc.program.CallArgs)
	if objName, method, ok := strings.Cut(target, "."); ok {
		obj, exists := pc.program.Objects[objName]
		if !exists {
			pc.report(SeverityError, runtime.NameError, loc, "undefined object '%s'", objName)
			return
		}
		pc.checkMethodArity(obj.Class, method, objName+"."+method, argc, loc)
		return
	}
	fn, ok := pc.program.LookupFunction(target)
	if !ok {
		pc.report(SeverityError, runtime.NameError, loc, "undefined function '%s'", target)
		return
	}
	pc.checkArity(fn, target, argc, loc)
}

func (pc *ProgramChecker) checkConstructor(objName string) {
	obj := pc.program.Objects[objName]
	if obj == nil || obj.Class == nil {
		return
	}
	args := pc.program.ObjectArgs[objName]
	loc := driver.DiagnosticLocation{Path: pc.program.Path}
	if len(args) > 0 {
		loc = pc.location(args[0], pc.program.Path)
	}
	for _, arg := range args {
		pc.walkExpression(arg, &scope{path: pc.program.Path})
	}
	init, _, ok := obj.Class.FindMethod(constructorName)
	if !ok {
		if len(args) > 0 {
			pc.report(SeverityError, runtime.ArityError, loc, "%s() takes no arguments (class '%s' has no %s)", obj.Class.Name, obj.Class.Name, constructorName)
		}
		return
	}
	pc.checkArity(init, obj.Class.Name+"."+constructorName, len(args), loc)
}

func (pc *ProgramChecker) checkArity(fn *runtime.Function, label string, argc int, loc driver.DiagnosticLocation) {
	if len(fn.Params) != argc {
		pc.report(SeverityError, runtime.ArityError, loc, "%s", runtime.NewArityError(label, len(fn.Params), argc).Message)
	}
}

func (pc *ProgramChecker) checkMethodArity(cls *runtime.Class, method, label string, argc int, loc driver.DiagnosticLocation) {
	if cls == nil {
		return
	}
	fn, _, ok := cls.FindMethod(method)
	if !ok {
		pc.report(SeverityError, runtime.NameError, loc, "method '%s' not found in class '%s'", method, cls.Name)
		return
	}
	pc.checkArity(fn, label, argc, loc)
}

func (pc *ProgramChecker) location(node ast.Node, path string) driver.DiagnosticLocation {
	loc := driver.DiagnosticLocation{Path: path}
	if node == nil {
		return loc
	}
	if span := node.Span(); !span.IsZero() {
		loc.Line = span.Start.Line
		loc.Column = span.Start.Column
	}
	return loc
}

// scope is what the walker knows about the function being checked.
type scope struct {
	path   string
	class  *runtime.Class
	locals map[string]bool
}

func (pc *ProgramChecker) checkFunction(fn *runtime.Function, cls *runtime.Class) {
	if fn == nil || fn.Body == nil {
		return
	}
	path := fn.Path
	if path == "" {
		path = pc.program.Path
	}
	sc := &scope{path: path, class: cls, locals: make(map[string]bool)}
	for _, param := range fn.Params {
		sc.locals[param] = true
	}
	collectLocals(fn.Body, sc.locals)
	pc.walkBlock(fn.Body, sc)
}

// collectLocals records every name a body binds. A declared object whose
// name is rebound anywhere in the body is not checked as that object.
func collectLocals(block *ast.Block, locals map[string]bool) {
	if block == nil {
		return
	}
	for _, stmt := range block.Body {
		collectStatementLocals(stmt, locals)
	}
}

func collectStatementLocals(stmt ast.Statement, locals map[string]bool) {
	switch s := stmt.(type) {
	case *ast.Assignment:
		locals[s.Name] = true
	case *ast.ImportStatement:
		locals[s.BindingName()] = true
	case *ast.Block:
		collectLocals(s, locals)
	case *ast.IfStatement:
		collectLocals(s.Then, locals)
		collectLocals(s.Else, locals)
	case *ast.ForStatement:
		if s.Init != nil {
			collectStatementLocals(s.Init, locals)
		}
		if s.Increment != nil {
			collectStatementLocals(s.Increment, locals)
		}
		collectLocals(s.Body, locals)
	case *ast.WhileStatement:
		collectLocals(s.Body, locals)
	case *ast.TryCatchStatement:
		if s.ErrorName != "" {
			locals[s.ErrorName] = true
		}
		collectLocals(s.Body, locals)
		collectLocals(s.Handler, locals)
	}
}

func (pc *ProgramChecker) walkBlock(block *ast.Block, sc *scope) {
	if block == nil {
		return
	}
	for _, stmt := range block.Body {
		pc.walkStatement(stmt, sc)
	}
}

func (pc *ProgramChecker) walkStatement(stmt ast.Statement, sc *scope) {
	switch s := stmt.(type) {
	case *ast.Block:
		pc.walkBlock(s, sc)
	case *ast.Assignment:
		pc.walkExpression(s.Value, sc)
	case *ast.IndexAssignment:
		pc.walkExpression(s.Target, sc)
		pc.walkExpression(s.Value, sc)
	case *ast.AttributeAssignment:
		pc.walkExpression(s.Target.Receiver, sc)
		pc.walkExpression(s.Value, sc)
	case *ast.ReturnStatement:
		pc.walkExpression(s.Argument, sc)
	case *ast.IncrementStatement:
		pc.walkExpression(s.Target, sc)
	case *ast.IfStatement:
		pc.walkExpression(s.Condition, sc)
		pc.walkBlock(s.Then, sc)
		pc.walkBlock(s.Else, sc)
	case *ast.ForStatement:
		if s.Init != nil {
			pc.walkStatement(s.Init, sc)
		}
		pc.walkExpression(s.Condition, sc)
		pc.walkBlock(s.Body, sc)
		if s.Increment != nil {
			pc.walkStatement(s.Increment, sc)
		}
	case *ast.WhileStatement:
		pc.walkExpression(s.Condition, sc)
		pc.walkBlock(s.Body, sc)
	case *ast.TryCatchStatement:
		pc.walkBlock(s.Body, sc)
		pc.walkBlock(s.Handler, sc)
	case *ast.EchoStatement:
		pc.walkExpression(s.Value, sc)
	case *ast.ThrowStatement:
		pc.walkExpression(s.Value, sc)
	case ast.Expression:
		pc.walkExpression(s, sc)
	}
}

func (pc *ProgramChecker) walkExpression(expr ast.Expression, sc *scope) {
	switch e := expr.(type) {
	case nil:
	case *ast.ArrayLiteral:
		for _, el := range e.Elements {
			pc.walkExpression(el, sc)
		}
	case *ast.BinaryExpression:
		pc.walkExpression(e.Left, sc)
		pc.walkExpression(e.Right, sc)
	case *ast.UnaryExpression:
		pc.walkExpression(e.Operand, sc)
	case *ast.PostfixIncrement:
		pc.walkExpression(e.Target, sc)
	case *ast.MemberAccess:
		pc.walkExpression(e.Receiver, sc)
	case *ast.IndexExpression:
		pc.walkExpression(e.Object, sc)
		pc.walkExpression(e.Index, sc)
	case *ast.FunctionCall:
		for _, arg := range e.Arguments {
			pc.walkExpression(arg, sc)
		}
		pc.checkFunctionCall(e, sc)
	case *ast.MethodCall:
		pc.walkExpression(e.Receiver, sc)
		for _, arg := range e.Arguments {
			pc.walkExpression(arg, sc)
		}
		pc.checkMethodCall(e, sc)
	}
}

func (pc *ProgramChecker) checkFunctionCall(call *ast.FunctionCall, sc *scope) {
	loc := pc.location(call, sc.path)
	if fn, ok := pc.program.LookupFunction(call.Name); ok {
		pc.checkArity(fn, call.Name, len(call.Arguments), loc)
		return
	}
	if !interpreter.IsBuiltin(call.Name) {
		pc.report(SeverityError, runtime.NameError, loc, "undefined function '%s'", call.Name)
	}
}

func (pc *ProgramChecker) checkMethodCall(call *ast.MethodCall, sc *scope) {
	id, ok := call.Receiver.(*ast.Identifier)
	if !ok {
		return
	}
	loc := pc.location(call, sc.path)
	if id.Name == "this" && sc.class != nil {
		fn, _, found := sc.class.FindMethod(call.Method)
		if !found {
			pc.report(SeverityWarning, "", loc, "class '%s' has no method '%s'; only a subclass can provide it", sc.class.Name, call.Method)
			return
		}
		pc.checkArity(fn, "this."+call.Method, len(call.Arguments), loc)
		return
	}
	if sc.locals[id.Name] {
		return
	}
	if obj, declared := pc.program.Objects[id.Name]; declared {
		pc.checkMethodArity(obj.Class, call.Method, id.Name+"."+call.Method, len(call.Arguments), loc)
	}
}

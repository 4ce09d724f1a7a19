package interpreter

import (
	"fmt"

	"hpl/interpreter-go/pkg/ast"
	"hpl/interpreter-go/pkg/runtime"
)

func (i *Interpreter) execBlock(block *ast.Block, env *runtime.Environment) (control, error) {
	if block == nil {
		return normalControl, nil
	}
	for _, stmt := range block.Body {
		ctl, err := i.execStatement(stmt, env)
		if err != nil || !ctl.isNormal() {
			return ctl, err
		}
	}
	return normalControl, nil
}

func (i *Interpreter) execStatement(stmt ast.Statement, env *runtime.Environment) (ctl control, err error) {
	defer func() {
		if err != nil {
			err = i.attachRuntimeContext(err, stmt)
		}
	}()

	switch n := stmt.(type) {
	case *ast.Assignment:
		val, err := i.evaluateExpression(n.Value, env)
		if err != nil {
			return normalControl, err
		}
		env.Set(n.Name, val)
		return normalControl, nil
	case *ast.IndexAssignment:
		return normalControl, i.assignTarget(n.Target, n.Value, env)
	case *ast.AttributeAssignment:
		return normalControl, i.assignTarget(n.Target, n.Value, env)
	case *ast.IncrementStatement:
		_, _, err := i.increment(n.Target, env)
		return normalControl, err
	case *ast.ReturnStatement:
		if n.Argument == nil {
			return returnControl(nil), nil
		}
		val, err := i.evaluateExpression(n.Argument, env)
		if err != nil {
			return normalControl, err
		}
		return returnControl(val), nil
	case *ast.IfStatement:
		cond, err := i.evaluateExpression(n.Condition, env)
		if err != nil {
			return normalControl, err
		}
		if runtime.Truthy(cond) {
			return i.execBlock(n.Then, env)
		}
		return i.execBlock(n.Else, env)
	case *ast.ForStatement:
		return i.execFor(n, env)
	case *ast.WhileStatement:
		return i.execWhile(n, env)
	case *ast.TryCatchStatement:
		return i.execTryCatch(n, env)
	case *ast.EchoStatement:
		val, err := i.evaluateExpression(n.Value, env)
		if err != nil {
			return normalControl, err
		}
		fmt.Fprintln(i.output, runtime.Format(val))
		return normalControl, nil
	case *ast.ImportStatement:
		return normalControl, i.importModule(n, env)
	case *ast.BreakStatement:
		return control{kind: controlBreak}, nil
	case *ast.ContinueStatement:
		return control{kind: controlContinue}, nil
	case *ast.ThrowStatement:
		val, err := i.evaluateExpression(n.Value, env)
		if err != nil {
			return normalControl, err
		}
		return normalControl, raise(val)
	case ast.Expression:
		_, err := i.evaluateExpression(n, env)
		return normalControl, err
	}
	return normalControl, runtime.NewTypeError("unsupported statement %s", stmt.NodeType())
}

func (i *Interpreter) execFor(loop *ast.ForStatement, env *runtime.Environment) (control, error) {
	if loop.Init != nil {
		if _, err := i.execStatement(loop.Init, env); err != nil {
			return normalControl, err
		}
	}
	for {
		if loop.Condition != nil {
			cond, err := i.evaluateExpression(loop.Condition, env)
			if err != nil {
				return normalControl, err
			}
			if !runtime.Truthy(cond) {
				return normalControl, nil
			}
		}
		ctl, err := i.execBlock(loop.Body, env)
		if err != nil {
			return normalControl, err
		}
		switch ctl.kind {
		case controlBreak:
			return normalControl, nil
		case controlReturn:
			return ctl, nil
		}
		if loop.Increment != nil {
			if _, err := i.execStatement(loop.Increment, env); err != nil {
				return normalControl, err
			}
		}
	}
}

func (i *Interpreter) execWhile(loop *ast.WhileStatement, env *runtime.Environment) (control, error) {
	for {
		cond, err := i.evaluateExpression(loop.Condition, env)
		if err != nil {
			return normalControl, err
		}
		if !runtime.Truthy(cond) {
			return normalControl, nil
		}
		ctl, err := i.execBlock(loop.Body, env)
		if err != nil {
			return normalControl, err
		}
		switch ctl.kind {
		case controlBreak:
			return normalControl, nil
		case controlReturn:
			return ctl, nil
		}
	}
}

// execTryCatch binds a caught error in the current local store and resumes
// in the handler. Uncatchable kinds pass through.
func (i *Interpreter) execTryCatch(stmt *ast.TryCatchStatement, env *runtime.Environment) (control, error) {
	ctl, err := i.execBlock(stmt.Body, env)
	if err == nil {
		return ctl, nil
	}
	kind := errorKind(err)
	if !kind.Catchable() {
		return normalControl, err
	}
	if stmt.ErrorName != "" {
		env.Define(stmt.ErrorName, runtime.ErrorValue{ErrorKind: kind, Message: errorMessage(err)})
	}
	return i.execBlock(stmt.Handler, env)
}

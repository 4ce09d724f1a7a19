package interpreter

import (
	"strings"

	"hpl/interpreter-go/pkg/ast"
	"hpl/interpreter-go/pkg/runtime"
)

const receiverName = "this"

// invoke runs fn in a fresh local store. The frame is popped on every exit
// path, including errors.
func (i *Interpreter) invoke(fn *runtime.Function, receiver *runtime.ObjectValue, label string, args []runtime.Value) (runtime.Value, error) {
	if len(args) != len(fn.Params) {
		return nil, runtime.NewArityError(strings.TrimSuffix(label, "()"), len(fn.Params), len(args))
	}
	if i.depth() >= i.opts.MaxDepth {
		return nil, newRecursionLimitError(i.opts.MaxDepth)
	}

	locals := runtime.NewEnvironment(i.global)
	for idx, param := range fn.Params {
		locals.Define(param, args[idx])
	}
	if receiver != nil {
		locals.Define(receiverName, receiver)
	}

	i.pushFrame(callFrame{label: label, receiver: receiver, locals: locals, path: fn.Path})
	defer i.popFrame()

	ctl, err := i.execBlock(fn.Body, locals)
	if err != nil {
		return nil, err
	}
	if ctl.kind == controlReturn {
		return ctl.value, nil
	}
	return runtime.NilValue{}, nil
}

// callMethod dispatches along the receiver's class chain.
func (i *Interpreter) callMethod(obj *runtime.ObjectValue, method string, args []runtime.Value) (runtime.Value, error) {
	if obj.Class == nil {
		return nil, runtime.NewTypeError("cannot call method '%s' on a data object", method)
	}
	fn, _, ok := obj.Class.FindMethod(method)
	if !ok {
		return nil, runtime.NewNameError("method '%s' not found in class '%s'", method, obj.Class.Name)
	}
	receiver := obj.Name
	if receiver == "" {
		receiver = obj.Class.Name
	}
	return i.ownerOf(obj.Class).invoke(fn, obj, receiver+"."+method+"()", args)
}

func (i *Interpreter) callModuleFunction(module runtime.ModuleValue, name string, args []runtime.Value) (runtime.Value, error) {
	return module.Module.CallFunction(i.nativeContext(), name, args)
}

func (i *Interpreter) nativeContext() *runtime.NativeCallContext {
	return &runtime.NativeCallContext{Output: i.output}
}

func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	fn, isFunction := i.program.LookupFunction(call.Name)
	builtin, isBuiltin := builtins[call.Name]
	if !isFunction && !isBuiltin {
		return nil, runtime.NewNameError("undefined function '%s'", call.Name)
	}
	args, err := i.evaluateArguments(call.Arguments, env)
	if err != nil {
		return nil, err
	}
	if isFunction {
		return i.invoke(fn, nil, call.Name+"()", args)
	}
	return builtin(i, args)
}

func (i *Interpreter) evaluateMethodCall(call *ast.MethodCall, env *runtime.Environment) (runtime.Value, error) {
	receiver, err := i.evaluateExpression(call.Receiver, env)
	if err != nil {
		return nil, err
	}
	args, err := i.evaluateArguments(call.Arguments, env)
	if err != nil {
		return nil, err
	}
	switch r := receiver.(type) {
	case *runtime.ObjectValue:
		return i.callMethod(r, call.Method, args)
	case runtime.ModuleValue:
		return i.callModuleFunction(r, call.Method, args)
	}
	return nil, runtime.NewTypeError("cannot call method '%s' on %s", call.Method, runtime.TypeName(receiver))
}

func (i *Interpreter) evaluateArguments(exprs []ast.Expression, env *runtime.Environment) ([]runtime.Value, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	values := make([]runtime.Value, 0, len(exprs))
	for _, expr := range exprs {
		val, err := i.evaluateExpression(expr, env)
		if err != nil {
			return nil, err
		}
		values = append(values, val)
	}
	return values, nil
}

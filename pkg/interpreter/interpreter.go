package interpreter

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"hpl/interpreter-go/pkg/driver"
	"hpl/interpreter-go/pkg/modules"
	"hpl/interpreter-go/pkg/runtime"
)

// DefaultMaxDepth bounds nested calls when Options.MaxDepth is unset.
const DefaultMaxDepth = 1000

// MaxDepthLimit caps Options.MaxDepth so the limit fires well before the Go
// stack is exhausted.
const MaxDepthLimit = 10000

// Options configures an Interpreter.
type Options struct {
	// Output receives a copy of everything the program writes. Output is
	// always captured into the Outcome as well.
	Output   io.Writer
	MaxDepth int
	// SearchPaths are extra directories searched for modules.
	SearchPaths []string
	// PackageDir defaults to modules.DefaultPackageDir().
	PackageDir   string
	PackagePaths []string
	// Resolver is shared by nested module loads; one is created when nil.
	Resolver     *modules.Resolver
	NativeOpener modules.NativeOpener
}

type callFrame struct {
	label    string
	receiver *runtime.ObjectValue
	locals   *runtime.Environment
	path     string
}

// executionState is shared by a program and every source module it loads, so
// the depth limit and call stack span module boundaries.
type executionState struct {
	frames []callFrame
	owners map[*runtime.Class]*Interpreter
}

// Interpreter runs one loaded program. It is not safe for concurrent use.
type Interpreter struct {
	program  *driver.Program
	opts     Options
	global   *runtime.Environment
	resolver *modules.Resolver
	state    *executionState
	captured bytes.Buffer
	output   io.Writer

	initialized bool
	initErr     error
}

// New prepares an interpreter for program. Nothing runs until Run, Execute or
// CallFunction is called.
func New(program *driver.Program, opts Options) *Interpreter {
	return newInterpreter(program, opts, &executionState{owners: make(map[*runtime.Class]*Interpreter)})
}

func newInterpreter(program *driver.Program, opts Options, state *executionState) *Interpreter {
	if program == nil {
		program = driver.NewProgram("")
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxDepth > MaxDepthLimit {
		opts.MaxDepth = MaxDepthLimit
	}
	i := &Interpreter{
		program: program,
		opts:    opts,
		global:  runtime.NewEnvironment(nil),
		state:   state,
	}
	if opts.Output != nil {
		i.output = io.MultiWriter(&i.captured, opts.Output)
	} else {
		i.output = &i.captured
	}

	resolver := opts.Resolver
	if resolver == nil {
		packageDir := opts.PackageDir
		if packageDir == "" {
			packageDir = modules.DefaultPackageDir()
		}
		resolver = modules.NewResolver(modules.Options{
			PackageDir:   packageDir,
			PackagePaths: opts.PackagePaths,
			SearchPaths:  opts.SearchPaths,
			NativeOpener: opts.NativeOpener,
		})
	}
	if !resolver.HasSourceLoader() {
		resolver.SetSourceLoader(i.loadSourceModule)
	}
	i.resolver = resolver

	for _, class := range program.Classes {
		state.owners[class] = i
	}
	return i
}

// Program returns the program being run.
func (i *Interpreter) Program() *driver.Program {
	return i.program
}

// Output returns everything written so far.
func (i *Interpreter) Output() string {
	return i.captured.String()
}

// Global returns the program's global store.
func (i *Interpreter) Global() *runtime.Environment {
	return i.global
}

// Run executes the program's call target (main by default).
func (i *Interpreter) Run() Outcome {
	value, err := i.runCallTarget()
	return i.outcome(value, err)
}

// Execute invokes fn with args as the entry point.
func (i *Interpreter) Execute(fn *runtime.Function, args []runtime.Value) Outcome {
	if err := i.initialize(); err != nil {
		return i.outcome(nil, err)
	}
	if fn == nil {
		return i.outcome(nil, runtime.NewNameError("no function to execute"))
	}
	value, err := i.invoke(fn, nil, fn.Name+"()", args)
	return i.outcome(value, err)
}

// CallFunction calls a top-level function, or an object method when name has
// the form object.method.
func (i *Interpreter) CallFunction(name string, args ...runtime.Value) (runtime.Value, error) {
	if err := i.initialize(); err != nil {
		return nil, err
	}
	return i.callTarget(name, args)
}

func (i *Interpreter) runCallTarget() (runtime.Value, error) {
	if err := i.initialize(); err != nil {
		return nil, err
	}
	location := i.program.CallLocation
	if location.Path == "" {
		location.Path = i.program.Path
	}
	target := i.program.CallTarget
	if target == "" {
		return nil, i.attachLocation(runtime.NewNameError("nothing to run: define main or set call"), location)
	}
	args, err := i.evaluateArguments(i.program.CallArgs, i.global)
	if err != nil {
		return nil, err
	}
	value, err := i.callTarget(target, args)
	if err != nil {
		return nil, i.attachLocation(err, location)
	}
	return value, nil
}

func (i *Interpreter) callTarget(target string, args []runtime.Value) (runtime.Value, error) {
	if objectName, method, ok := strings.Cut(target, "."); ok {
		value, found := i.global.Get(objectName)
		if !found {
			return nil, runtime.NewNameError("undefined object '%s'", objectName)
		}
		obj, isObject := value.(*runtime.ObjectValue)
		if !isObject {
			return nil, runtime.NewTypeError("'%s' is a %s, not an object", objectName, runtime.TypeName(value))
		}
		return i.callMethod(obj, method, args)
	}
	fn, ok := i.program.LookupFunction(target)
	if !ok {
		return nil, runtime.NewNameError("undefined function '%s'", target)
	}
	return i.invoke(fn, nil, target+"()", args)
}

func (i *Interpreter) initialize() error {
	if i.initialized {
		return i.initErr
	}
	i.initialized = true
	i.initErr = i.bindDefinitions()
	return i.initErr
}

func (i *Interpreter) outcome(value runtime.Value, err error) Outcome {
	if err != nil {
		return FailureOutcome(err, i.captured.String())
	}
	if value == nil {
		value = runtime.NilValue{}
	}
	return Outcome{Success: true, Output: i.captured.String(), Value: value}
}

func (i *Interpreter) pushFrame(frame callFrame) {
	i.state.frames = append(i.state.frames, frame)
}

func (i *Interpreter) popFrame() {
	if n := len(i.state.frames); n > 0 {
		i.state.frames = i.state.frames[:n-1]
	}
}

func (i *Interpreter) depth() int {
	return len(i.state.frames)
}

// currentPath is the source file of the innermost frame.
func (i *Interpreter) currentPath() string {
	if n := len(i.state.frames); n > 0 && i.state.frames[n-1].path != "" {
		return i.state.frames[n-1].path
	}
	return i.program.Path
}

const maxReportedFrames = 64

func (i *Interpreter) snapshotCallStack() []string {
	frames := i.state.frames
	labels := make([]string, 0, min(len(frames), maxReportedFrames+1))
	if len(frames) <= maxReportedFrames {
		for _, frame := range frames {
			labels = append(labels, frame.label)
		}
		return labels
	}
	half := maxReportedFrames / 2
	for _, frame := range frames[:half] {
		labels = append(labels, frame.label)
	}
	labels = append(labels, "... "+strconv.Itoa(len(frames)-maxReportedFrames)+" more ...")
	for _, frame := range frames[len(frames)-half:] {
		labels = append(labels, frame.label)
	}
	return labels
}

// ownerOf returns the interpreter whose program declared class. Objects
// exported by source modules run their methods in their own program.
func (i *Interpreter) ownerOf(class *runtime.Class) *Interpreter {
	for c := class; c != nil; c = c.Parent {
		if owner, ok := i.state.owners[c]; ok {
			return owner
		}
	}
	return i
}

package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"hpl/interpreter-go/pkg/ast"
	"hpl/interpreter-go/pkg/lexer"
	"hpl/interpreter-go/pkg/parser"
	"hpl/interpreter-go/pkg/runtime"
)

// Reserved top-level document keys. Any other key whose value is an arrow
// function declares a top-level function.
const (
	keyIncludes  = "includes"
	keyImports   = "imports"
	keyClasses   = "classes"
	keyObjects   = "objects"
	keyConstants = "constants"
	keyMain      = "main"
	keyCall      = "call"
	keyParent    = "parent"
)

// Import is a top-level `imports` entry.
type Import struct {
	Module   string
	Alias    string
	Location DiagnosticLocation
}

// BindingName is the name the module is bound to.
func (i Import) BindingName() string {
	if i.Alias != "" {
		return i.Alias
	}
	return i.Module
}

// Program is a loaded document: its classes, objects, functions and entry
// point, with every include already merged in.
type Program struct {
	Path          string
	Classes       map[string]*runtime.Class
	ClassOrder    []string
	Objects       map[string]*runtime.ObjectValue
	ObjectOrder   []string
	ObjectArgs    map[string][]ast.Expression
	Functions     map[string]*runtime.Function
	FunctionOrder []string
	Main          *runtime.Function
	CallTarget    string
	CallArgs      []ast.Expression
	CallLocation  DiagnosticLocation
	Imports       []Import
	Constants     map[string]runtime.Value
	ConstantOrder []string
}

// Dir is the directory imports are resolved against.
func (p *Program) Dir() string {
	if p == nil || p.Path == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
		return ""
	}
	return filepath.Dir(p.Path)
}

// LookupFunction returns a top-level function; "main" resolves to Main.
func (p *Program) LookupFunction(name string) (*runtime.Function, bool) {
	if name == keyMain && p.Main != nil {
		return p.Main, true
	}
	fn, ok := p.Functions[name]
	return fn, ok
}

// NewProgram returns an empty program, as used by interactive sessions.
func NewProgram(path string) *Program {
	return &Program{
		Path:       path,
		Classes:    make(map[string]*runtime.Class),
		Objects:    make(map[string]*runtime.ObjectValue),
		ObjectArgs: make(map[string][]ast.Expression),
		Functions:  make(map[string]*runtime.Function),
		Constants:  make(map[string]runtime.Value),
	}
}

type objectDecl struct {
	className string
	args      []ast.Expression
	location  DiagnosticLocation
}

// document is a single file's declarations before cross-file resolution.
type document struct {
	program    *Program
	parentLocs map[string]DiagnosticLocation
	objects    map[string]objectDecl
	smap       sourceMap
}

// Loader turns HPL documents into programs.
type Loader struct {
	loaded map[string]bool
}

func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and loads the document at path.
func (l *Loader) Load(path string) (*Program, error) {
	if path == "" {
		return nil, fmt.Errorf("loader: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("loader: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", abs, err)
	}
	return l.LoadSource(abs, string(data))
}

// LoadSource loads document text that claims to live at path. Includes are
// resolved relative to path's directory.
func (l *Loader) LoadSource(path, source string) (*Program, error) {
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	l.loaded = map[string]bool{path: true}
	doc, err := l.loadDocument(path, source)
	if err != nil {
		return nil, err
	}
	if err := doc.resolve(); err != nil {
		return nil, err
	}
	prog := doc.program
	if prog.CallTarget == "" && prog.Main != nil {
		prog.CallTarget = keyMain
	}
	return prog, nil
}

func (l *Loader) loadDocument(path, source string) (*document, error) {
	text, smap := preprocessArrows(source)
	doc := &document{
		program:    NewProgram(path),
		parentLocs: make(map[string]DiagnosticLocation),
		objects:    make(map[string]objectDecl),
		smap:       smap,
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, doc.yamlError(err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return doc, nil
	}
	body := root.Content[0]
	if body.Kind == yaml.ScalarNode && body.ShortTag() == "!!null" {
		return doc, nil
	}
	if body.Kind != yaml.MappingNode {
		return nil, doc.errorAt(runtime.SyntaxError, body, "document root must be a mapping")
	}

	var includes []*document
	for idx := 0; idx+1 < len(body.Content); idx += 2 {
		keyNode, valueNode := body.Content[idx], resolveAlias(body.Content[idx+1])
		var err error
		switch keyNode.Value {
		case keyIncludes:
			includes, err = l.loadIncludes(doc, valueNode)
		case keyImports:
			err = doc.parseImports(valueNode)
		case keyClasses:
			err = doc.parseClasses(valueNode)
		case keyObjects:
			err = doc.parseObjects(valueNode)
		case keyConstants:
			err = doc.parseConstants(valueNode)
		case keyMain:
			doc.program.Main, err = doc.parseFunction(keyMain, keyNode, valueNode)
		case keyCall:
			err = doc.parseCall(valueNode)
		default:
			if doc.isArrowFunction(keyNode, valueNode) {
				var fn *runtime.Function
				fn, err = doc.parseFunction(keyNode.Value, keyNode, valueNode)
				if err == nil {
					doc.program.addFunction(fn)
				}
			}
		}
		if err != nil {
			return nil, err
		}
	}
	for _, inc := range includes {
		doc.merge(inc)
	}
	return doc, nil
}

func (l *Loader) loadIncludes(doc *document, node *yaml.Node) ([]*document, error) {
	if isNull(node) {
		return nil, nil
	}
	items := sequenceItems(node)
	if items == nil {
		return nil, doc.errorAt(runtime.SyntaxError, node, "includes must be a list of file paths")
	}
	baseDir := doc.program.Dir()
	var out []*document
	for _, item := range items {
		if item.Kind != yaml.ScalarNode || strings.TrimSpace(item.Value) == "" {
			return nil, doc.errorAt(runtime.SyntaxError, item, "include entries must be file paths")
		}
		incPath := item.Value
		if !filepath.IsAbs(incPath) {
			incPath = filepath.Join(baseDir, incPath)
		}
		incPath = filepath.Clean(incPath)
		if l.loaded[incPath] {
			continue
		}
		data, err := os.ReadFile(incPath)
		if err != nil {
			return nil, doc.errorAt(runtime.SyntaxError, item, "include file '%s' not found", item.Value)
		}
		l.loaded[incPath] = true
		inc, err := l.loadDocument(incPath, string(data))
		if err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, nil
}

// merge adds an included document's declarations. Names the including
// document already declares are kept.
func (d *document) merge(inc *document) {
	p, other := d.program, inc.program
	for _, name := range other.ClassOrder {
		if _, exists := p.Classes[name]; exists {
			continue
		}
		p.Classes[name] = other.Classes[name]
		p.ClassOrder = append(p.ClassOrder, name)
		if loc, ok := inc.parentLocs[name]; ok {
			d.parentLocs[name] = loc
		}
	}
	for _, name := range other.ObjectOrder {
		if _, exists := d.objects[name]; exists {
			continue
		}
		d.objects[name] = inc.objects[name]
		p.ObjectOrder = append(p.ObjectOrder, name)
	}
	for _, name := range other.ConstantOrder {
		if _, exists := p.Constants[name]; exists {
			continue
		}
		p.Constants[name] = other.Constants[name]
		p.ConstantOrder = append(p.ConstantOrder, name)
	}
	for _, name := range other.FunctionOrder {
		if _, exists := p.Functions[name]; exists {
			continue
		}
		p.addFunction(other.Functions[name])
	}
	bound := make(map[string]bool, len(p.Imports))
	for _, imp := range p.Imports {
		bound[imp.BindingName()] = true
	}
	for _, imp := range other.Imports {
		if !bound[imp.BindingName()] {
			p.Imports = append(p.Imports, imp)
			bound[imp.BindingName()] = true
		}
	}
}

func (p *Program) addFunction(fn *runtime.Function) {
	if _, exists := p.Functions[fn.Name]; !exists {
		p.FunctionOrder = append(p.FunctionOrder, fn.Name)
	}
	p.Functions[fn.Name] = fn
}

// resolve links class parents and object classes once every include is merged.
func (d *document) resolve() error {
	p := d.program
	for _, name := range p.ClassOrder {
		cls := p.Classes[name]
		if cls.ParentName == "" {
			continue
		}
		parent, ok := p.Classes[cls.ParentName]
		if !ok {
			loc := d.parentLocs[name]
			return diagnosticf(runtime.NameError, loc.Path, loc.Line, loc.Column,
				"class '%s' has unknown parent class '%s'", name, cls.ParentName)
		}
		cls.Parent = parent
	}
	for _, name := range p.ClassOrder {
		cls := p.Classes[name]
		steps := 0
		for anc := cls.Parent; anc != nil; anc = anc.Parent {
			steps++
			if anc == cls || steps > len(p.Classes) {
				loc := d.parentLocs[name]
				return diagnosticf(runtime.SyntaxError, loc.Path, loc.Line, loc.Column,
					"class '%s' inherits from itself", name)
			}
		}
	}
	for _, name := range p.ObjectOrder {
		decl := d.objects[name]
		cls, ok := p.Classes[decl.className]
		if !ok {
			return diagnosticf(runtime.NameError, decl.location.Path, decl.location.Line, decl.location.Column,
				"object '%s' refers to unknown class '%s'", name, decl.className)
		}
		p.Objects[name] = runtime.NewObject(name, cls)
		p.ObjectArgs[name] = decl.args
	}
	return nil
}

func (d *document) parseImports(node *yaml.Node) error {
	if isNull(node) {
		return nil
	}
	items := sequenceItems(node)
	if items == nil {
		if node.Kind != yaml.ScalarNode {
			return d.errorAt(runtime.SyntaxError, node, "imports must be a list of module names")
		}
		items = []*yaml.Node{node}
	}
	for _, item := range items {
		switch item.Kind {
		case yaml.ScalarNode:
			if !isIdentifier(item.Value) {
				return d.errorAt(runtime.SyntaxError, item, "invalid module name '%s'", item.Value)
			}
			d.program.Imports = append(d.program.Imports, Import{Module: item.Value, Location: d.location(item)})
		case yaml.MappingNode:
			for idx := 0; idx+1 < len(item.Content); idx += 2 {
				modNode, aliasNode := item.Content[idx], resolveAlias(item.Content[idx+1])
				if !isIdentifier(modNode.Value) {
					return d.errorAt(runtime.SyntaxError, modNode, "invalid module name '%s'", modNode.Value)
				}
				alias := ""
				if aliasNode.ShortTag() != "!!null" {
					if !isIdentifier(aliasNode.Value) {
						return d.errorAt(runtime.SyntaxError, aliasNode, "invalid import alias '%s'", aliasNode.Value)
					}
					alias = aliasNode.Value
				}
				d.program.Imports = append(d.program.Imports, Import{Module: modNode.Value, Alias: alias, Location: d.location(modNode)})
			}
		default:
			return d.errorAt(runtime.SyntaxError, item, "unsupported import entry")
		}
	}
	return nil
}

func (d *document) parseClasses(node *yaml.Node) error {
	if isNull(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return d.errorAt(runtime.SyntaxError, node, "classes must be a mapping of class names to definitions")
	}
	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		nameNode, defNode := node.Content[idx], resolveAlias(node.Content[idx+1])
		if !isIdentifier(nameNode.Value) {
			return d.errorAt(runtime.SyntaxError, nameNode, "invalid class name '%s'", nameNode.Value)
		}
		cls := runtime.NewClass(nameNode.Value)
		if !isNull(defNode) {
			if defNode.Kind != yaml.MappingNode {
				return d.errorAt(runtime.SyntaxError, defNode, "class '%s' must be a mapping of methods", cls.Name)
			}
			for m := 0; m+1 < len(defNode.Content); m += 2 {
				memberKey, memberValue := defNode.Content[m], resolveAlias(defNode.Content[m+1])
				if memberKey.Value == keyParent {
					if memberValue.Kind != yaml.ScalarNode || !isIdentifier(memberValue.Value) {
						return d.errorAt(runtime.SyntaxError, memberValue, "class '%s' has an invalid parent", cls.Name)
					}
					cls.ParentName = memberValue.Value
					d.parentLocs[cls.Name] = d.location(memberValue)
					continue
				}
				fn, err := d.parseFunction(memberKey.Value, memberKey, memberValue)
				if err != nil {
					return err
				}
				cls.AddMethod(fn)
			}
		}
		if _, exists := d.program.Classes[cls.Name]; !exists {
			d.program.ClassOrder = append(d.program.ClassOrder, cls.Name)
		}
		d.program.Classes[cls.Name] = cls
	}
	return nil
}

func (d *document) parseObjects(node *yaml.Node) error {
	if isNull(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return d.errorAt(runtime.SyntaxError, node, "objects must be a mapping of object names to constructors")
	}
	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		nameNode, ctorNode := node.Content[idx], resolveAlias(node.Content[idx+1])
		if !isIdentifier(nameNode.Value) {
			return d.errorAt(runtime.SyntaxError, nameNode, "invalid object name '%s'", nameNode.Value)
		}
		if ctorNode.Kind != yaml.ScalarNode {
			return d.errorAt(runtime.SyntaxError, ctorNode, "object '%s' must be a constructor call like ClassName()", nameNode.Value)
		}
		className, args, err := d.parseInvocation(ctorNode)
		if err != nil {
			return err
		}
		if _, exists := d.objects[nameNode.Value]; !exists {
			d.program.ObjectOrder = append(d.program.ObjectOrder, nameNode.Value)
		}
		d.objects[nameNode.Value] = objectDecl{className: className, args: args, location: d.location(ctorNode)}
	}
	return nil
}

func (d *document) parseConstants(node *yaml.Node) error {
	if isNull(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return d.errorAt(runtime.SyntaxError, node, "constants must be a mapping")
	}
	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		nameNode := node.Content[idx]
		if !isIdentifier(nameNode.Value) {
			return d.errorAt(runtime.SyntaxError, nameNode, "invalid constant name '%s'", nameNode.Value)
		}
		value, err := d.constantValue(node.Content[idx+1], 0)
		if err != nil {
			return err
		}
		if _, exists := d.program.Constants[nameNode.Value]; !exists {
			d.program.ConstantOrder = append(d.program.ConstantOrder, nameNode.Value)
		}
		d.program.Constants[nameNode.Value] = value
	}
	return nil
}

func (d *document) constantValue(node *yaml.Node, depth int) (runtime.Value, error) {
	node = resolveAlias(node)
	if depth > 32 {
		return nil, d.errorAt(runtime.SyntaxError, node, "constant nested too deeply")
	}
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			return runtime.NilValue{}, nil
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err == nil {
				return runtime.BoolValue{Val: b}, nil
			}
		case "!!int":
			var i int64
			if err := node.Decode(&i); err == nil {
				return runtime.IntegerValue{Val: i}, nil
			}
			var f float64
			if err := node.Decode(&f); err == nil {
				return runtime.FloatValue{Val: f}, nil
			}
		case "!!float":
			var f float64
			if err := node.Decode(&f); err == nil {
				return runtime.FloatValue{Val: f}, nil
			}
		}
		return runtime.StringValue{Val: node.Value}, nil
	case yaml.SequenceNode:
		elements := make([]runtime.Value, 0, len(node.Content))
		for _, item := range node.Content {
			el, err := d.constantValue(item, depth+1)
			if err != nil {
				return nil, err
			}
			elements = append(elements, el)
		}
		return runtime.NewArray(elements...), nil
	case yaml.MappingNode:
		obj := runtime.NewObject("", nil)
		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			el, err := d.constantValue(node.Content[idx+1], depth+1)
			if err != nil {
				return nil, err
			}
			obj.SetAttribute(node.Content[idx].Value, el)
		}
		return obj, nil
	}
	return nil, d.errorAt(runtime.SyntaxError, node, "unsupported constant value")
}

func (d *document) parseCall(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode || strings.TrimSpace(node.Value) == "" {
		return d.errorAt(runtime.SyntaxError, node, "call must name a function, like main or main()")
	}
	target, args, err := d.parseInvocation(node)
	if err != nil {
		return err
	}
	d.program.CallTarget = target
	d.program.CallArgs = args
	d.program.CallLocation = d.location(node)
	return nil
}

// SetCall replaces the program's call target with invocation text such as
// `run`, `greeter.greet("bob")` or `add(1, 2)`. Errors are SyntaxErrors
// positioned within the text.
func (p *Program) SetCall(text string) error {
	d := &document{program: p}
	node := &yaml.Node{Kind: yaml.ScalarNode, Value: text, Line: 1, Column: 1}
	if err := d.parseCall(node); err != nil {
		return err
	}
	p.CallLocation = DiagnosticLocation{}
	return nil
}

var invocationTarget = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// parseInvocation splits `Name(args)` text into the name and parsed argument
// expressions. The parentheses are optional.
func (d *document) parseInvocation(node *yaml.Node) (string, []ast.Expression, error) {
	text := node.Value
	open := strings.Index(text, "(")
	if open < 0 {
		name := strings.TrimSpace(text)
		if !invocationTarget.MatchString(name) {
			return "", nil, d.errorAt(runtime.SyntaxError, node, "invalid name '%s'", name)
		}
		return name, nil, nil
	}
	name := strings.TrimSpace(text[:open])
	if !invocationTarget.MatchString(name) {
		return "", nil, d.errorAt(runtime.SyntaxError, node, "invalid name '%s'", name)
	}
	closing := strings.LastIndex(text, ")")
	if closing < open || strings.TrimSpace(text[closing+1:]) != "" {
		return "", nil, d.errorAt(runtime.SyntaxError, node, "expected ')' to close the argument list of '%s'", name)
	}
	loc := d.location(node)
	tokens, err := lexer.New(text[open+1:closing], lexer.Options{Line: loc.Line, Column: loc.Column + open + 1}).Tokenize()
	if err != nil {
		return "", nil, wrapBodyError(d.program.Path, err)
	}
	args, err := parser.ParseArguments(tokens)
	if err != nil {
		return "", nil, wrapBodyError(d.program.Path, err)
	}
	return name, args, nil
}

var arrowValue = regexp.MustCompile(`^\s*\([^)]*\)\s*=>`)

func (d *document) isArrowFunction(keyNode, valueNode *yaml.Node) bool {
	if valueNode.Kind != yaml.ScalarNode {
		return false
	}
	if _, ok := d.smap.arrows[keyNode.Line]; ok {
		return true
	}
	return arrowValue.MatchString(valueNode.Value)
}

// parseFunction turns `(params) => { body }` text into a Function. Body token
// positions are mapped back to the original document.
func (d *document) parseFunction(name string, keyNode, valueNode *yaml.Node) (*runtime.Function, error) {
	if valueNode.Kind != yaml.ScalarNode {
		return nil, d.errorAt(runtime.SyntaxError, valueNode, "'%s' must be an arrow function", name)
	}
	text := valueNode.Value
	origin, ok := d.smap.arrows[keyNode.Line]
	if !ok {
		loc := d.location(valueNode)
		origin = arrowOrigin{Line: loc.Line, Column: loc.Column}
		switch valueNode.Style {
		case yaml.LiteralStyle, yaml.FoldedStyle:
			origin = arrowOrigin{Line: loc.Line + 1}
		case yaml.DoubleQuotedStyle, yaml.SingleQuotedStyle:
			origin.Column++
		}
	}
	fail := func(format string, args ...any) error {
		return diagnosticf(runtime.SyntaxError, d.program.Path, origin.Line, origin.Column, format, args...)
	}

	open := strings.Index(text, "(")
	closing := strings.Index(text, ")")
	if open < 0 || closing < open || strings.TrimSpace(text[:open]) != "" {
		return nil, fail("arrow function '%s' must start with a parameter list", name)
	}
	var params []string
	if paramText := strings.TrimSpace(text[open+1 : closing]); paramText != "" {
		seen := make(map[string]bool)
		for _, raw := range strings.Split(paramText, ",") {
			param := strings.TrimSpace(raw)
			if !isIdentifier(param) || lexer.IsKeyword(param) {
				return nil, fail("invalid parameter name '%s' in '%s'", param, name)
			}
			if seen[param] {
				return nil, fail("duplicate parameter '%s' in '%s'", param, name)
			}
			seen[param] = true
			params = append(params, param)
		}
	}
	arrow := strings.Index(text[closing:], "=>")
	if arrow < 0 {
		return nil, fail("arrow function syntax error in '%s': => not found", name)
	}
	arrow += closing
	bodyStart := strings.Index(text[arrow:], "{")
	bodyEnd := strings.LastIndex(text, "}")
	if bodyStart < 0 || bodyEnd < arrow+bodyStart {
		return nil, fail("arrow function syntax error in '%s': braces not found", name)
	}
	bodyStart += arrow + 1

	prefix := text[:bodyStart]
	lineOffset := strings.Count(prefix, "\n")
	column := bodyStart - (strings.LastIndex(prefix, "\n") + 1)
	if lineOffset == 0 {
		column += origin.Column
	}
	tokens, err := lexer.New(text[bodyStart:bodyEnd], lexer.Options{Line: origin.Line + lineOffset, Column: column}).Tokenize()
	if err != nil {
		return nil, wrapBodyError(d.program.Path, err)
	}
	body, err := parser.ParseBlock(tokens)
	if err != nil {
		return nil, wrapBodyError(d.program.Path, err)
	}
	return &runtime.Function{Name: name, Params: params, Body: body, Path: d.program.Path}, nil
}

func (d *document) location(node *yaml.Node) DiagnosticLocation {
	column := node.Column - 1
	if column < 0 {
		column = 0
	}
	return DiagnosticLocation{Path: d.program.Path, Line: d.smap.originalLine(node.Line), Column: column}
}

func (d *document) errorAt(kind runtime.ErrorKind, node *yaml.Node, format string, args ...any) error {
	loc := d.location(node)
	return diagnosticf(kind, loc.Path, loc.Line, loc.Column, format, args...)
}

var yamlLine = regexp.MustCompile(`line (\d+): (.*)`)

func (d *document) yamlError(err error) error {
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	line := 0
	if m := yamlLine.FindStringSubmatch(msg); m != nil {
		if n, convErr := strconv.Atoi(m[1]); convErr == nil {
			line = d.smap.originalLine(n)
			msg = m[2]
		}
	}
	diag := diagnosticf(runtime.SyntaxError, d.program.Path, line, 0, "malformed document: %s", msg)
	diag.err = err
	return diag
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func sequenceItems(node *yaml.Node) []*yaml.Node {
	if node.Kind != yaml.SequenceNode {
		return nil
	}
	items := make([]*yaml.Node, len(node.Content))
	for i, item := range node.Content {
		items[i] = resolveAlias(item)
	}
	return items
}

func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null")
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

package runtime

import (
	"fmt"

	"hpl/interpreter-go/pkg/ast"
)

// Function is a parsed arrow function: a class method, a top-level function or main.
type Function struct {
	Name   string
	Params []string
	Body   *ast.Block
	Path   string
}

// Class holds methods in declaration order. Parent is resolved once at load time.
type Class struct {
	Name        string
	ParentName  string
	Parent      *Class
	Methods     map[string]*Function
	MethodOrder []string
}

func NewClass(name string) *Class {
	return &Class{Name: name, Methods: make(map[string]*Function)}
}

// AddMethod defines or replaces a method, keeping first-definition order.
func (c *Class) AddMethod(fn *Function) {
	if _, exists := c.Methods[fn.Name]; !exists {
		c.MethodOrder = append(c.MethodOrder, fn.Name)
	}
	c.Methods[fn.Name] = fn
}

// FindMethod walks the class chain self → parent → grandparent and returns the
// method together with the class that defines it.
func (c *Class) FindMethod(name string) (*Function, *Class, bool) {
	for cls := c; cls != nil; cls = cls.Parent {
		if fn, ok := cls.Methods[name]; ok {
			return fn, cls, true
		}
	}
	return nil, nil, false
}

// IsSubclassOf reports whether other appears in the receiver's ancestry (or is the receiver).
func (c *Class) IsSubclassOf(other *Class) bool {
	for cls := c; cls != nil; cls = cls.Parent {
		if cls == other {
			return true
		}
	}
	return false
}

// ObjectValue is an instance of a class. Attributes are created on first assignment.
// Objects built from JSON data have no class.
type ObjectValue struct {
	Name       string
	Class      *Class
	Attributes map[string]Value
	Order      []string
}

func (v *ObjectValue) Kind() Kind { return KindObject }

func NewObject(name string, class *Class) *ObjectValue {
	return &ObjectValue{Name: name, Class: class, Attributes: make(map[string]Value)}
}

// ClassName returns the class name, or "object" for classless data objects.
func (v *ObjectValue) ClassName() string {
	if v.Class == nil {
		return "object"
	}
	return v.Class.Name
}

func (v *ObjectValue) GetAttribute(name string) (Value, bool) {
	val, ok := v.Attributes[name]
	return val, ok
}

func (v *ObjectValue) SetAttribute(name string, value Value) {
	if _, exists := v.Attributes[name]; !exists {
		v.Order = append(v.Order, name)
	}
	v.Attributes[name] = value
}

func (v *ObjectValue) String() string {
	return fmt.Sprintf("<%s object %s>", v.ClassName(), v.Name)
}

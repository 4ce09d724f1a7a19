package interpreter

import "hpl/interpreter-go/pkg/runtime"

type controlKind int

const (
	controlNormal controlKind = iota
	controlReturn
	controlBreak
	controlContinue
)

func (k controlKind) String() string {
	switch k {
	case controlReturn:
		return "return"
	case controlBreak:
		return "break"
	case controlContinue:
		return "continue"
	}
	return "normal"
}

// control is the outcome of executing a statement. Blocks stop at the first
// non-normal outcome and hand it to their caller; loops consume break and
// continue.
type control struct {
	kind  controlKind
	value runtime.Value
}

var normalControl = control{kind: controlNormal}

func returnControl(value runtime.Value) control {
	if value == nil {
		value = runtime.NilValue{}
	}
	return control{kind: controlReturn, value: value}
}

func (c control) isNormal() bool {
	return c.kind == controlNormal
}

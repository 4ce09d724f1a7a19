package checker

import (
	"fmt"

	"hpl/interpreter-go/pkg/driver"
	"hpl/interpreter-go/pkg/runtime"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic is one finding, positioned at the node it concerns. Kind is the
// runtime error the code would raise, empty for warnings about likely mistakes.
type Diagnostic struct {
	Severity Severity
	Kind     runtime.ErrorKind
	Message  string
	Location driver.DiagnosticLocation
}

// CheckResult lists findings in source order per definition.
type CheckResult struct {
	Diagnostics []Diagnostic
}

// HasErrors reports whether any finding is an error.
func (r CheckResult) HasErrors() bool {
	for _, diag := range r.Diagnostics {
		if diag.Severity == SeverityError {
			return true
		}
	}
	return false
}

// DescribeDiagnostic renders "checker: path:line:col message", prefixed with
// "warning: " for warnings.
func DescribeDiagnostic(diag Diagnostic) string {
	prefix := "checker: "
	if diag.Severity == SeverityWarning {
		prefix = "warning: checker: "
	}
	message := diag.Message
	if diag.Kind != "" {
		message = fmt.Sprintf("%s: %s", diag.Kind, message)
	}
	loc := diag.Location
	switch {
	case loc.Path != "" && loc.Line > 0:
		return fmt.Sprintf("%s%s:%d:%d %s", prefix, loc.Path, loc.Line, loc.Column, message)
	case loc.Line > 0:
		return fmt.Sprintf("%s%d:%d %s", prefix, loc.Line, loc.Column, message)
	case loc.Path != "":
		return fmt.Sprintf("%s%s %s", prefix, loc.Path, message)
	}
	return prefix + message
}

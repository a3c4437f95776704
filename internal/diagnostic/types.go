package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"method-integrator/internal/common"
)

// Diagnostic codes.
const (
	CodeMethodNotFound     = "method_not_found"
	CodeMethodTransformed  = "method_transformed"
	CodeIntegrationFailed  = "integration_failed"
	CodeClassNotFound      = "class_not_found"
	CodeMissingField       = "missing_field"
	CodeUnknownStrategy    = "unknown_strategy"
	CodeInvalidStrategy    = "invalid_strategy"
	CodeInvalidSignature   = "invalid_signature"
	CodeDuplicateTarget    = "duplicate_target"
	CodeUnsupportedVersion = "unsupported_version"
	CodeEmptyPlan          = "empty_plan"
	CodeWriteFailed        = "write_failed"
)

// Diagnostics holds all diagnostic information from an operation.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Class is the dotted class name this relates to (if any).
	Class string
	// Method is the method name, optionally with its signature (if any).
	Method string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add appends d to the list matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case DiagnosticError:
		d.Errors = append(d.Errors, diag)
	case DiagnosticWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, class, method string) {
	d.Add(Diagnostic{Severity: DiagnosticError, Code: code, Message: message, Class: class, Method: method})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, class, method string) {
	d.Add(Diagnostic{Severity: DiagnosticWarning, Code: code, Message: message, Class: class, Method: method})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, class, method string) {
	d.Add(Diagnostic{Severity: DiagnosticInfo, Code: code, Message: message, Class: class, Method: method})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// HasCode reports whether any diagnostic of any severity carries code.
func (d *Diagnostics) HasCode(code string) bool {
	for _, list := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, diag := range list {
			if diag.Code == code {
				return true
			}
		}
	}
	return false
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// All returns every diagnostic, errors first.
func (d *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	out = append(out, d.Errors...)
	out = append(out, d.Warnings...)
	return append(out, d.Infos...)
}

// String returns a formatted diagnostic string, e.g.
// "[com.example.Widget] foo(I)V: [method_not_found] no such method (did you mean: foo()V)".
func (d Diagnostic) String() string {
	var prefix []string
	if d.Class != "" {
		prefix = append(prefix, "["+d.Class+"]")
	}

	if d.Method != "" {
		prefix = append(prefix, d.Method)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}
	if len(d.Suggestions) > 0 {
		msg += " (did you mean: " + strings.Join(d.Suggestions, ", ") + ")"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}

// Package loxerr provides the interpreter's error taxonomy and the
// source-line-and-caret rendering used to present errors to a user.
package loxerr

import (
	"fmt"
	"strings"
)

// Kind classifies an Error the way spec.md's error taxonomy does. Return
// is deliberately absent from this set: a function return is a
// control-flow signal, not a user-visible error, and is modeled
// separately (see internal/interp's signal type).
type Kind int

const (
	// Scanner marks a malformed token (unterminated string, bad number,
	// unexpected character).
	Scanner Kind = iota
	// Syntax marks a grammar violation caught by the parser.
	Syntax
	// Resolving marks a static scope or control-flow violation.
	Resolving
	// Name marks a read or assignment to an undefined identifier.
	Name
	// TypeMismatch marks operand types incompatible with an operator or call.
	TypeMismatch
	// Attribute marks a property access on a non-instance or a missing member.
	Attribute
	// Runtime is the catch-all for other runtime failures (e.g. a native
	// function's own precondition).
	Runtime
)

func (k Kind) String() string {
	switch k {
	case Scanner:
		return "ScannerError"
	case Syntax:
		return "SyntaxError"
	case Resolving:
		return "ResolvingError"
	case Name:
		return "NameError"
	case TypeMismatch:
		return "TypeError"
	case Attribute:
		return "AttributeError"
	case Runtime:
		return "RuntimeError"
	default:
		return "Error"
	}
}

// Error is the interpreter's single user-facing error type. Every kind in
// the taxonomy carries a line and a short message; Source and File are
// optional and, when present, let Format render a caret under the
// offending line the way go-dws's CompilerError does.
type Error struct {
	Kind    Kind
	Message string
	Line    int
	Source  string
	File    string
}

// New builds an Error with no source context. Callers that have the source
// text attach it afterwards with WithSource.
func New(kind Kind, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}

// WithSource attaches the source text and file name so Format can print a
// caret under the error's line. Returns e for chaining at the construction
// site.
func (e *Error) WithSource(source, file string) *Error {
	e.Source = source
	e.File = file
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("[line %d] %s in %s: %s", e.Line, e.Kind, e.File, e.Message)
	}
	return fmt.Sprintf("[line %d] %s: %s", e.Line, e.Kind, e.Message)
}

// Format renders the error with a source-line-and-caret, matching the
// presentation go-dws uses for compiler diagnostics. If no source text was
// attached, Format falls back to Error().
func (e *Error) Format() string {
	line := e.sourceLine(e.Line)
	if line == "" {
		return e.Error()
	}

	var sb strings.Builder
	if e.File != "" {
		fmt.Fprintf(&sb, "Error in %s, line %d:\n", e.File, e.Line)
	} else {
		fmt.Fprintf(&sb, "Error at line %d:\n", e.Line)
	}
	lineNumPrefix := fmt.Sprintf("%4d | ", e.Line)
	sb.WriteString(lineNumPrefix)
	sb.WriteString(line)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", len(lineNumPrefix)))
	sb.WriteString("^\n")
	sb.WriteString(e.Kind.String())
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	return sb.String()
}

func (e *Error) sourceLine(line int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// FormatAll renders a batch of errors one per line-group, separated by a
// blank line, matching go-dws's FormatErrors behavior for multi-error runs
// (all parser errors, or all resolver errors, reported together).
func FormatAll(errs []*Error) string {
	var sb strings.Builder
	for i, e := range errs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(e.Format())
	}
	return sb.String()
}

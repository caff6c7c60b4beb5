package errors

import (
	"fmt"
	"io"
	"strings"
)

// JackalError is the interface implemented by all Jackal compiler errors.
type JackalError interface {
	error // Embed the standard error interface
	Pos() Position
	Kind() string // e.g., "Syntax", "Type"
	// Message returns the specific error message without position info.
	// Useful if the caller wants to format the error differently.
	Message() string
	Unwrap() error // For error wrapping support (errors.Is/As)
}

// --- Concrete Error Types ---

// SyntaxError represents an error during lexing or parsing.
type SyntaxError struct {
	Position
	Msg   string
	Cause error // Underlying cause, if any
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *SyntaxError) Pos() Position   { return e.Position }
func (e *SyntaxError) Kind() string    { return "Syntax" }
func (e *SyntaxError) Message() string { return e.Msg }
func (e *SyntaxError) Unwrap() error   { return e.Cause }
func (e *SyntaxError) CausedBy(cause error) *SyntaxError {
	e.Cause = cause
	return e
}

// TypeError represents an error during static type checking.
// The parser never emits these; they belong to the semantic phase
// that consumes the AST.
type TypeError struct {
	Position
	Msg   string
	Cause error // Underlying cause, if any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("Type Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *TypeError) Pos() Position   { return e.Position }
func (e *TypeError) Kind() string    { return "Type" }
func (e *TypeError) Message() string { return e.Msg }
func (e *TypeError) Unwrap() error   { return e.Cause }
func (e *TypeError) CausedBy(cause error) *TypeError {
	e.Cause = cause
	return e
}

// --- Error Reporting ---

// DisplayErrors writes a list of Jackal errors to w in a user-friendly format,
// including the source line and a position marker.
func DisplayErrors(w io.Writer, src string, errors []JackalError) {
	if len(errors) == 0 {
		return
	}

	lines := strings.Split(src, "\n")

	for _, err := range errors {
		pos := err.Pos()
		kind := err.Kind()
		msg := err.Message()

		// Ensure line numbers are within bounds (1-based index)
		lineIdx := pos.Line - 1
		if lineIdx < 0 || lineIdx >= len(lines) {
			// Print a generic error if line info is invalid
			fmt.Fprintf(w, "%s Error: %s\n", kind, msg)
			continue
		}

		sourceLine := strings.TrimRight(lines[lineIdx], "\r\n\t ")

		// Format: <Kind> Error at <Line>:<Column>: <Message>
		fmt.Fprintf(w, "%s Error at %d:%d: %s\n", kind, pos.Line, pos.Column, msg)
		fmt.Fprintf(w, "  %s\n", sourceLine)

		// Marker line (^). Column is 1-based, relative to the original line start.
		marker := strings.Repeat(" ", pos.Column-1) + "^"
		fmt.Fprintf(w, "  %s\n", marker)
		fmt.Fprintln(w)
	}
}

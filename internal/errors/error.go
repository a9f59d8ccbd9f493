package errors

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryProtocol Category = "protocol"
	CategoryScenario Category = "scenario"
	CategoryCLI      Category = "cli"
)

// Location represents a position in a source file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as file:line[:column].
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// SortableError is a structured error with an optional source location and
// a fix suggestion.
type SortableError struct {
	// Code is a unique error identifier (e.g., "E100").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation.
	Detail string

	// Location is the source position the error refers to.
	Location *Location

	// Context contains the source lines around Location.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example shows the correct form.
	Example string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *SortableError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *SortableError) Unwrap() error {
	return e.Wrapped
}

// WithLocation points the error at file:line:column and reads the
// surrounding lines from disk.
func (e *SortableError) WithLocation(file string, line, column int) *SortableError {
	e.Location = &Location{File: file, Line: line, Column: column}
	if f, err := os.Open(file); err == nil {
		defer f.Close()
		e.Context = readContextLines(f, line, 5)
	}
	return e
}

// WithSource is like WithLocation for content that is already in memory,
// such as a scenario fetched from object storage.
func (e *SortableError) WithSource(name string, src []byte, line, column int) *SortableError {
	e.Location = &Location{File: name, Line: line, Column: column}
	e.Context = readContextLines(bytes.NewReader(src), line, 5)
	return e
}

// WithSuggestion adds a fix suggestion.
func (e *SortableError) WithSuggestion(s string) *SortableError {
	e.Suggestion = s
	return e
}

// WithExample adds an example of the correct form.
func (e *SortableError) WithExample(ex string) *SortableError {
	e.Example = ex
	return e
}

// WithDetail replaces the detailed explanation.
func (e *SortableError) WithDetail(d string) *SortableError {
	e.Detail = d
	return e
}

// WithDetailf is WithDetail with formatting.
func (e *SortableError) WithDetailf(format string, args ...any) *SortableError {
	return e.WithDetail(fmt.Sprintf(format, args...))
}

// Wrap wraps another error.
func (e *SortableError) Wrap(err error) *SortableError {
	e.Wrapped = err
	return e
}

// readContextLines returns up to contextSize lines centred on targetLine.
func readContextLines(r io.Reader, targetLine, contextSize int) []string {
	var lines []string
	scanner := bufio.NewScanner(r)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}
	return lines
}

// New creates a SortableError from a registered error code.
func New(code string) *SortableError {
	template, ok := registry[code]
	if !ok {
		return &SortableError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &SortableError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates an uncoded SortableError with a formatted message.
func Newf(category Category, format string, args ...any) *SortableError {
	return &SortableError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err under code unless it already is a SortableError.
func FromError(err error, code string) *SortableError {
	if err == nil {
		return nil
	}
	var se *SortableError
	if stderrors.As(err, &se) {
		return se
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err, or any error it wraps, is a SortableError
// with the given code.
func HasCode(err error, code string) bool {
	for err != nil {
		var se *SortableError
		if !stderrors.As(err, &se) {
			return false
		}
		if se.Code == code {
			return true
		}
		err = se.Wrapped
	}
	return false
}

package mysqlxml2csv

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error messages and error creation functions for consistency
var (
	// ErrInvalidSeparator is returned when the column separator is empty or a double quote
	ErrInvalidSeparator = errors.New("mysqlxml2csv: invalid separator")

	// ErrMissingAttribute indicates that a required attribute was not present on an element
	ErrMissingAttribute = errors.New("mysqlxml2csv: missing attribute")

	// ErrSyntax indicates malformed XML input
	ErrSyntax = errors.New("mysqlxml2csv: XML syntax error")

	// ErrUnsupportedCompression indicates a compression type that cannot serve the requested direction
	ErrUnsupportedCompression = errors.New("mysqlxml2csv: unsupported compression")

	// ErrFileNotFound indicates file not found
	ErrFileNotFound = errors.New("mysqlxml2csv: file not found")
)

// MissingAttributeError reports an element that lacks a required attribute.
// Row is the 1-based index of the <row> element being read.
type MissingAttributeError struct {
	Row       int
	Element   string
	Attribute string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("row %d: %q element is missing %q attribute", e.Row, e.Element, e.Attribute)
}

// Unwrap allows errors.Is(err, ErrMissingAttribute).
func (e *MissingAttributeError) Unwrap() error {
	return ErrMissingAttribute
}

// SyntaxError reports malformed XML together with the line it was detected on.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Unwrap allows errors.Is(err, ErrSyntax).
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	FilePath  string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, filePath string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		FilePath:  filePath,
	}
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error creates a formatted error with context
func (ec *ErrorContext) Error(baseErr error) error {
	var parts []string
	parts = append(parts, fmt.Sprintf("mysqlxml2csv: %s failed", ec.Operation))

	if ec.FilePath != "" {
		parts = append(parts, "file: "+ec.FilePath)
	}

	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	context := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", context, baseErr)
	}
	return fmt.Errorf("%s", context)
}

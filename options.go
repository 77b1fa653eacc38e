package mysqlxml2csv

import (
	"fmt"
)

// DefaultSeparator is the column separator used when none is configured
const DefaultSeparator = ","

// Options configures how a <resultset> document is rendered as CSV.
// Options is a value type; the With* methods return modified copies.
//
// Example:
//
//	options := NewOptions().
//		WithSeparator(";").
//		WithNullValue("NULL")
//
//	conv, err := NewConverter(options)
type Options struct {
	// Separator is written between fields of a line
	Separator string
	// NullValue is written for fields marked xsi:nil="true". nil means empty text.
	NullValue *string
	// EmitHeader outputs the column names as the first CSV line
	EmitHeader bool
	// EmptyResultLine is printed once, unquoted, when the document holds no rows.
	// nil means print nothing.
	EmptyResultLine *string
}

// NewOptions creates default options (comma separator, header line, empty nulls).
//
// Modify with:
//   - WithSeparator(): Change the column separator
//   - WithNullValue(): Substitute text for null fields
//   - WithoutHeader(): Omit the column name line
//   - WithEmptyResultLine(): Print a line when there are no rows
func NewOptions() Options {
	return Options{
		Separator:  DefaultSeparator,
		EmitHeader: true,
	}
}

// WithSeparator sets the column separator. It must be non-empty and must not contain a double quote.
func (o Options) WithSeparator(separator string) Options {
	o.Separator = separator
	return o
}

// WithNullValue sets the text written for null fields.
func (o Options) WithNullValue(value string) Options {
	o.NullValue = &value
	return o
}

// WithoutHeader disables the column name line.
func (o Options) WithoutHeader() Options {
	o.EmitHeader = false
	return o
}

// WithEmptyResultLine sets the line printed when the result has zero rows.
func (o Options) WithEmptyResultLine(line string) Options {
	o.EmptyResultLine = &line
	return o
}

// Validate reports configuration errors before any input is read.
func (o Options) Validate() error {
	return newValidator().validateOptions(o)
}

// nullSubstitute returns the configured null text and whether one is set.
func (o Options) nullSubstitute() (string, bool) {
	if o.NullValue == nil {
		return "", false
	}
	return *o.NullValue, true
}

// String returns a short description used in debug output
func (o Options) String() string {
	null := "<empty>"
	if o.NullValue != nil {
		null = fmt.Sprintf("%q", *o.NullValue)
	}
	empty := "<none>"
	if o.EmptyResultLine != nil {
		empty = fmt.Sprintf("%q", *o.EmptyResultLine)
	}
	return fmt.Sprintf("separator=%q null=%s header=%t empty=%s", o.Separator, null, o.EmitHeader, empty)
}

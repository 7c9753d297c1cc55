package dataprocessing

import (
	"errors"
	"fmt"
)

var (
	// ErrLoad marks workbooks that cannot be read as a table
	ErrLoad = errors.New("workbook load failed")

	// ErrParse marks cells that cannot be coerced to their column type
	ErrParse = errors.New("workbook parse failed")

	// ErrMissingColumn is returned alongside ErrLoad when a required column is absent
	ErrMissingColumn = errors.New("required column missing")
)

// ParseError describes the first cell that failed to parse
type ParseError struct {
	Column string
	Row    int // 1-based data row, header excluded
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: column %q row %d: cannot parse %q: %v", ErrParse, e.Column, e.Row, e.Value, e.Err)
}

// Unwrap exposes both ErrParse and the underlying cause
func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

func missingColumn(name string) error {
	return fmt.Errorf("%w: %w: %q", ErrLoad, ErrMissingColumn, name)
}

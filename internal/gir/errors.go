package gir

import (
	"fmt"
)

// SourceNotFoundError occurs when the introspection document cannot be
// read. This is fatal: no artifact is generated without an input.
type SourceNotFoundError struct {
	Name string
	Err  error
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("introspection source '%s' not found: %v", e.Name, e.Err)
}

func (e *SourceNotFoundError) Unwrap() error {
	return e.Err
}

// DocumentParseError occurs when the document cannot be read as XML.
type DocumentParseError struct {
	Name string
	Err  error
}

func (e *DocumentParseError) Error() string {
	return fmt.Sprintf("failed to parse introspection document '%s': %v", e.Name, e.Err)
}

func (e *DocumentParseError) Unwrap() error {
	return e.Err
}

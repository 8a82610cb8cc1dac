// Package codegen holds what the artifact generators share: a
// line-oriented emit buffer and the inheritance-aware member collection
// that keeps the host-facing layers consistent with each other.
package codegen

import (
	"fmt"
	"strings"
)

// Buffer accumulates generated source line by line.
type Buffer struct {
	sb strings.Builder
}

// Line appends one line.
func (b *Buffer) Line(s string) {
	b.sb.WriteString(s)
	b.sb.WriteByte('\n')
}

// Linef appends one formatted line.
func (b *Buffer) Linef(format string, args ...any) {
	fmt.Fprintf(&b.sb, format, args...)
	b.sb.WriteByte('\n')
}

// Blank appends an empty line.
func (b *Buffer) Blank() {
	b.sb.WriteByte('\n')
}

// String returns the accumulated source.
func (b *Buffer) String() string {
	return b.sb.String()
}

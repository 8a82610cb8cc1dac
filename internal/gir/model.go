// Package gir models a GObject-Introspection document and parses it
// into that model. The model is built once per run and not mutated
// afterwards; marshalling kinds are computed during parsing and carried
// on the entities so later stages never re-derive them from spellings.
package gir

import (
	"strings"

	"github.com/flatpak-node/girgen/internal/classify"
)

// TransferMode is the introspected ownership transfer of a value.
type TransferMode string

const (
	TransferNone      TransferMode = "none"
	TransferContainer TransferMode = "container"
	TransferFull      TransferMode = "full"
)

// Direction marks how a parameter flows across the foreign call.
type Direction string

const (
	DirectionIn    Direction = "in"
	DirectionOut   Direction = "out"
	DirectionInOut Direction = "inout"
)

// Namespace is the root of the parsed model.
type Namespace struct {
	Name      string
	Classes   []*Class
	Functions []*Function
}

// Class describes an introspected class.
type Class struct {
	Name string

	// CType is the foreign type spelling, back-filled from the profile
	// prefix when the document omits it.
	CType string

	// Parent names the parent class. A parent that does not resolve
	// within the namespace is an opaque root for inheritance walks.
	Parent string

	Functions  []*Function
	Properties []*Property
}

// Constructors returns the class's declared constructors in order.
func (c *Class) Constructors() []*Function {
	var ctors []*Function
	for _, fn := range c.Functions {
		if fn.IsConstructor {
			ctors = append(ctors, fn)
		}
	}
	return ctors
}

// Function describes a callable: a top-level function, a constructor,
// an instance method or a static method.
type Function struct {
	Name  string
	CName string

	Parameters  []*Parameter
	ReturnValue *ReturnValue

	IsMethod      bool
	IsConstructor bool
	IsStatic      bool

	// Throws marks callables that take a trailing error output in the
	// foreign convention, whether or not the document models the
	// parameter itself.
	Throws bool
}

// ErrorParam returns the modeled error-carrying parameter, or nil.
func (f *Function) ErrorParam() *Parameter {
	for _, p := range f.Parameters {
		if p.IsError() {
			return p
		}
	}
	return nil
}

// Parameter describes one parameter of a Function.
type Parameter struct {
	Name    string
	GirType string
	CType   string

	// Type is the marshalling classification, computed at parse time.
	Type classify.TypeInfo

	Transfer        TransferMode
	Nullable        bool
	Direction       Direction
	IsInstance      bool
	CallerAllocates bool
}

// IsPointer reports whether the foreign spelling is a pointer type.
func (p *Parameter) IsPointer() bool {
	return strings.Contains(p.CType, "*")
}

// IsError reports whether this is the foreign error output. Error
// parameters are never caller-facing; generated code synthesizes and
// consumes them internally.
func (p *Parameter) IsError() bool {
	return p.Name == "error" && p.GirType == "GLib.Error"
}

// ReturnValue describes what a Function returns.
type ReturnValue struct {
	GirType string
	CType   string

	Type classify.TypeInfo

	Transfer TransferMode
	Nullable bool

	// ElementType is the raw element name for array-shaped returns.
	ElementType string
}

// IsPointer reports whether the foreign spelling is a pointer type.
func (r *ReturnValue) IsPointer() bool {
	return strings.Contains(r.CType, "*")
}

// ReleasesOwnership reports whether the caller owns the returned value
// and must free it after conversion.
func (r *ReturnValue) ReleasesOwnership() bool {
	return r.Transfer == TransferFull || r.Transfer == TransferContainer
}

// Property describes an introspected object property.
type Property struct {
	Name    string
	GirType string
	CType   string

	Type classify.TypeInfo

	Readable      bool
	Writable      bool
	ConstructOnly bool
}

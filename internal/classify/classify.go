// Package classify decides how an introspected type is marshalled. Every
// type name resolves to exactly one Kind, computed once while the
// document is parsed and carried on the model afterwards, so the
// generators never re-derive it from spellings.
package classify

import (
	"strings"

	"github.com/flatpak-node/girgen/internal/profile"
)

// Kind is the marshalling class of an introspected type.
type Kind int

const (
	// KindUnknown marks shapes with no marshaller. Generators emit a
	// placeholder plus a diagnostic annotation, never an error.
	KindUnknown Kind = iota
	KindVoid
	KindScalar
	KindString
	KindEnum
	KindHandle
	KindContainer
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindScalar:
		return "scalar"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindHandle:
		return "handle"
	case KindContainer:
		return "container"
	default:
		return "unknown"
	}
}

// ScalarKind refines KindScalar into its numeric conversion path.
type ScalarKind int

const (
	ScalarNone ScalarKind = iota
	ScalarBool
	ScalarInt
	ScalarInt64
	ScalarDouble
)

// ContainerKind refines KindContainer.
type ContainerKind int

const (
	ContainerNone ContainerKind = iota
	ContainerStrv
	ContainerPtrArray
	ContainerList
	ContainerBytes
)

// TypeInfo is the computed classification of one type occurrence.
type TypeInfo struct {
	Kind      Kind
	Scalar    ScalarKind
	Container ContainerKind
}

// scalarKinds maps every recognised scalar name to its conversion path.
// Integer-named types take the 32-bit path, the 64-bit spellings the
// wide path; the remaining numerics go through double.
var scalarKinds = map[string]ScalarKind{
	"gboolean":   ScalarBool,
	"gint":       ScalarInt,
	"guint":      ScalarInt,
	"gint8":      ScalarInt,
	"guint8":     ScalarInt,
	"gint16":     ScalarInt,
	"guint16":    ScalarInt,
	"gint32":     ScalarInt,
	"guint32":    ScalarInt,
	"gint64":     ScalarInt64,
	"guint64":    ScalarInt64,
	"glong":      ScalarInt,
	"gshort":     ScalarInt,
	"gsize":      ScalarInt,
	"gssize":     ScalarInt,
	"gulong":     ScalarDouble,
	"gushort":    ScalarDouble,
	"gdouble":    ScalarDouble,
	"gfloat":     ScalarDouble,
	"GLib.Quark": ScalarInt,
}

var containerKinds = map[string]ContainerKind{
	"GLib.Strv":     ContainerStrv,
	"GLib.PtrArray": ContainerPtrArray,
	"GLib.List":     ContainerList,
	"GLib.Bytes":    ContainerBytes,
}

// IsEnumeration reports whether the type is a bounded-value type: the
// introspected name ends in a profile enum suffix, or the foreign
// spelling carries the library prefix and its lower-cased form ends in
// one.
func IsEnumeration(girType, cType string, p *profile.Profile) bool {
	for _, s := range p.EnumSuffixes {
		if strings.HasSuffix(girType, s) {
			return true
		}
	}

	if strings.Contains(cType, p.CPrefix) {
		lower := strings.ToLower(cType)
		for _, s := range p.EnumSuffixes {
			if strings.HasSuffix(lower, strings.ToLower(s)) {
				return true
			}
		}
	}

	return false
}

// IsOpaqueHandle reports whether the type is marshalled as an opaque
// boxed pointer: namespaced in the library, spelled with the library
// prefix, or in the external-handle allow-list. Always false for
// enumerations.
func IsOpaqueHandle(girType, cType string, p *profile.Profile) bool {
	if IsEnumeration(girType, cType, p) {
		return false
	}
	return strings.HasPrefix(girType, p.GirPrefix()) ||
		strings.Contains(cType, p.CPrefix) ||
		p.IsExternalHandle(girType)
}

// Classify computes the marshalling class of one type occurrence. The
// enum check runs before the handle check; this is the only place that
// ordering exists.
func Classify(girType, cType string, p *profile.Profile) TypeInfo {
	if girType == "" || girType == "none" {
		return TypeInfo{Kind: KindVoid}
	}

	if IsEnumeration(girType, cType, p) {
		return TypeInfo{Kind: KindEnum}
	}

	// Generic element-typed arrays have no marshaller regardless of
	// their foreign spelling.
	if strings.HasSuffix(girType, "[]") {
		return TypeInfo{Kind: KindUnknown}
	}

	if ck, ok := containerKinds[girType]; ok {
		return TypeInfo{Kind: KindContainer, Container: ck}
	}

	if IsOpaqueHandle(girType, cType, p) {
		return TypeInfo{Kind: KindHandle}
	}

	if girType == "utf8" || girType == "filename" {
		return TypeInfo{Kind: KindString}
	}

	if sk, ok := scalarKinds[girType]; ok {
		return TypeInfo{Kind: KindScalar, Scalar: sk}
	}

	return TypeInfo{Kind: KindUnknown}
}

package codegen

import (
	"github.com/flatpak-node/girgen/internal/gir"
	"github.com/flatpak-node/girgen/internal/nameres"
)

// ClassIndex resolves class names for parent-chain walks. A parent
// missing from the index is an opaque root: the walk stops there.
type ClassIndex map[string]*gir.Class

// NewClassIndex indexes the namespace's classes by name.
func NewClassIndex(ns *gir.Namespace) ClassIndex {
	idx := make(ClassIndex, len(ns.Classes))
	for _, cls := range ns.Classes {
		idx[cls.Name] = cls
	}
	return idx
}

// Member is one collected class member together with the class that
// defines it. Call sites need the defining class: the native layer
// registers each wrapper under the registration group of the class that
// declared it, so an inherited method must be dispatched through its
// owner's group, not the group of the class it was collected for.
type Member struct {
	Owner *gir.Class
	Fn    *gir.Function
}

// CollectMethods walks cls and its parent chain outward and returns the
// visible instance methods in encounter order. A definition nearer the
// leaf shadows a parent's definition under the same derived name; the
// result carries exactly one entry per name.
func (idx ClassIndex) CollectMethods(cls *gir.Class) []Member {
	var members []Member
	seen := make(map[string]bool)

	for current := cls; current != nil; current = idx.parent(current) {
		for _, fn := range current.Functions {
			if fn.IsConstructor || fn.IsStatic {
				continue
			}
			name := nameres.MethodName(fn)
			if seen[name] {
				continue
			}
			seen[name] = true
			members = append(members, Member{Owner: current, Fn: fn})
		}
	}

	return members
}

// CollectStatics is CollectMethods for static methods.
func (idx ClassIndex) CollectStatics(cls *gir.Class) []Member {
	var members []Member
	seen := make(map[string]bool)

	for current := cls; current != nil; current = idx.parent(current) {
		for _, fn := range current.Functions {
			if !fn.IsStatic {
				continue
			}
			name := nameres.MethodName(fn)
			if seen[name] {
				continue
			}
			seen[name] = true
			members = append(members, Member{Owner: current, Fn: fn})
		}
	}

	return members
}

// CollectProperties walks the parent chain and returns the visible
// properties, deduplicated by property name, leaf definitions first.
func (idx ClassIndex) CollectProperties(cls *gir.Class) []*gir.Property {
	var props []*gir.Property
	seen := make(map[string]bool)

	for current := cls; current != nil; current = idx.parent(current) {
		for _, prop := range current.Properties {
			if seen[prop.Name] {
				continue
			}
			seen[prop.Name] = true
			props = append(props, prop)
		}
	}

	return props
}

func (idx ClassIndex) parent(cls *gir.Class) *gir.Class {
	if cls.Parent == "" {
		return nil
	}
	return idx[cls.Parent]
}

package codegen

import (
	"testing"

	"github.com/flatpak-node/girgen/internal/gir"
)

func method(name string) *gir.Function {
	return &gir.Function{
		Name:        name,
		IsMethod:    true,
		ReturnValue: &gir.ReturnValue{GirType: "none", CType: "void"},
	}
}

func static(name string) *gir.Function {
	fn := method(name)
	fn.IsStatic = true
	return fn
}

func chain() (*gir.Namespace, *gir.Class) {
	root := &gir.Class{Name: "Root", Functions: []*gir.Function{method("reload"), method("close")}}
	middle := &gir.Class{Name: "Middle", Parent: "Root", Functions: []*gir.Function{method("reload")}}
	leaf := &gir.Class{Name: "Leaf", Parent: "Middle"}
	ns := &gir.Namespace{Classes: []*gir.Class{root, middle, leaf}}
	return ns, leaf
}

// A middle-class redefinition shadows the root's method: the leaf
// collects exactly one entry for that name, owned by the middle class.
func TestCollectMethods_Shadowing(t *testing.T) {
	ns, leaf := chain()
	idx := NewClassIndex(ns)

	members := idx.CollectMethods(leaf)

	if len(members) != 2 {
		t.Fatalf("expected 2 collected methods, got %d", len(members))
	}

	var reloads []Member
	for _, m := range members {
		if m.Fn.Name == "reload" {
			reloads = append(reloads, m)
		}
	}
	if len(reloads) != 1 {
		t.Fatalf("expected exactly one 'reload' entry, got %d", len(reloads))
	}
	if reloads[0].Owner.Name != "Middle" {
		t.Errorf("'reload' attributed to %s, want Middle", reloads[0].Owner.Name)
	}
}

func TestCollectMethods_UnresolvedParentIsRoot(t *testing.T) {
	orphan := &gir.Class{Name: "Orphan", Parent: "GObject.Object", Functions: []*gir.Function{method("ping")}}
	ns := &gir.Namespace{Classes: []*gir.Class{orphan}}
	idx := NewClassIndex(ns)

	members := idx.CollectMethods(orphan)
	if len(members) != 1 || members[0].Owner != orphan {
		t.Errorf("unresolved parent must stop the walk, got %+v", members)
	}
}

func TestCollectStatics(t *testing.T) {
	parent := &gir.Class{Name: "Parent", Functions: []*gir.Function{static("defaults")}}
	child := &gir.Class{Name: "Child", Parent: "Parent", Functions: []*gir.Function{method("run")}}
	ns := &gir.Namespace{Classes: []*gir.Class{parent, child}}
	idx := NewClassIndex(ns)

	statics := idx.CollectStatics(child)
	if len(statics) != 1 || statics[0].Owner.Name != "Parent" || statics[0].Fn.Name != "defaults" {
		t.Errorf("expected inherited static from Parent, got %+v", statics)
	}
}

func TestCollectProperties(t *testing.T) {
	parent := &gir.Class{Name: "Parent", Properties: []*gir.Property{{Name: "name"}, {Name: "kind"}}}
	child := &gir.Class{Name: "Child", Parent: "Parent", Properties: []*gir.Property{{Name: "name", Writable: true}}}
	ns := &gir.Namespace{Classes: []*gir.Class{parent, child}}
	idx := NewClassIndex(ns)

	props := idx.CollectProperties(child)
	if len(props) != 2 {
		t.Fatalf("expected 2 properties after dedup, got %d", len(props))
	}
	if props[0].Name != "name" || !props[0].Writable {
		t.Errorf("leaf property definition must win, got %+v", props[0])
	}
}

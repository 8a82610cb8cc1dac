package gir

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/flatpak-node/girgen/internal/classify"
	"github.com/flatpak-node/girgen/internal/profile"
)

func parseString(t *testing.T, doc string) (*Namespace, *Stats) {
	t.Helper()
	p := NewParser(profile.Default(), zap.NewNop())
	ns, stats, err := p.Parse(&MemorySource{DocName: "test.gir", Data: []byte(doc)})
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return ns, stats
}

func TestParse_Class(t *testing.T) {
	doc := `<repository>
  <namespace name="Flatpak">
    <class name="Installation" c:type="FlatpakInstallation" parent="Object">
      <constructor name="new_system" c:identifier="flatpak_installation_new_system" throws="1">
        <return-value transfer-ownership="full">
          <type name="Flatpak.Installation" c:type="FlatpakInstallation*"/>
        </return-value>
        <parameters>
          <parameter name="cancellable" transfer-ownership="none" nullable="1">
            <type name="Gio.Cancellable" c:type="GCancellable*"/>
          </parameter>
        </parameters>
      </constructor>
      <method name="get_is_user" c:identifier="flatpak_installation_get_is_user">
        <return-value transfer-ownership="none">
          <type name="gboolean" c:type="gboolean"/>
        </return-value>
        <parameters>
          <instance-parameter name="self" transfer-ownership="none">
            <type name="Flatpak.Installation" c:type="FlatpakInstallation*"/>
          </instance-parameter>
        </parameters>
      </method>
      <property name="no-interaction" writable="1">
        <type name="gboolean" c:type="gboolean"/>
      </property>
    </class>
  </namespace>
</repository>`

	ns, stats := parseString(t, doc)

	if ns.Name != "Flatpak" {
		t.Errorf("expected namespace 'Flatpak', got '%s'", ns.Name)
	}
	if stats.Classes != 1 {
		t.Fatalf("expected 1 class, got %d", stats.Classes)
	}

	cls := ns.Classes[0]
	if cls.Name != "Installation" || cls.CType != "FlatpakInstallation" || cls.Parent != "Object" {
		t.Errorf("unexpected class fields: %+v", cls)
	}
	if len(cls.Functions) != 2 {
		t.Fatalf("expected 2 class functions, got %d", len(cls.Functions))
	}

	ctor := cls.Functions[0]
	if !ctor.IsConstructor || !ctor.Throws {
		t.Errorf("constructor flags wrong: %+v", ctor)
	}
	if ctor.ReturnValue.Transfer != TransferFull {
		t.Errorf("expected full transfer on constructor return, got %s", ctor.ReturnValue.Transfer)
	}
	if len(ctor.Parameters) != 1 || !ctor.Parameters[0].Nullable {
		t.Errorf("constructor parameter extraction wrong: %+v", ctor.Parameters)
	}

	method := cls.Functions[1]
	if !method.IsMethod || method.IsStatic {
		t.Errorf("method flags wrong: %+v", method)
	}
	if len(method.Parameters) != 1 || !method.Parameters[0].IsInstance {
		t.Fatalf("expected receiver parameter first, got %+v", method.Parameters)
	}
	if method.ReturnValue.Type.Kind != classify.KindScalar {
		t.Errorf("expected scalar return classification, got %v", method.ReturnValue.Type.Kind)
	}

	if len(cls.Properties) != 1 {
		t.Fatalf("expected 1 property, got %d", len(cls.Properties))
	}
	prop := cls.Properties[0]
	if prop.Name != "no-interaction" || !prop.Readable || !prop.Writable {
		t.Errorf("property extraction wrong: %+v", prop)
	}
}

func TestParse_ClassCTypeBackfill(t *testing.T) {
	doc := `<repository><namespace name="Flatpak">
    <class name="Remote"/>
  </namespace></repository>`

	ns, _ := parseString(t, doc)

	if len(ns.Classes) != 1 || ns.Classes[0].CType != "FlatpakRemote" {
		t.Errorf("expected back-filled c type FlatpakRemote, got %+v", ns.Classes)
	}
}

func TestParse_NamelessNodesSkipped(t *testing.T) {
	doc := `<repository><namespace name="Flatpak">
    <class c:type="FlatpakAnonymous"/>
    <function c:identifier="flatpak_anonymous"/>
  </namespace></repository>`

	ns, stats := parseString(t, doc)

	if len(ns.Classes) != 0 || len(ns.Functions) != 0 {
		t.Errorf("nameless nodes must be skipped, got %d classes, %d functions", len(ns.Classes), len(ns.Functions))
	}
	if len(stats.Skipped) != 0 {
		t.Errorf("nameless skips are silent, got %+v", stats.Skipped)
	}
}

// Functions with callback- or array-typed parameters yield no Function
// at all, and the emitted count drops by exactly that many.
func TestParse_CallbackAndArrayExclusion(t *testing.T) {
	doc := `<repository><namespace name="Flatpak">
    <function name="get_default_arch" c:identifier="flatpak_get_default_arch">
      <return-value><type name="utf8" c:type="const char*"/></return-value>
    </function>
    <function name="with_callback" c:identifier="flatpak_with_callback">
      <parameters>
        <parameter name="progress"><type name="Flatpak.ProgressCallback" c:type="FlatpakProgressCallback"/></parameter>
      </parameters>
    </function>
    <function name="with_array" c:identifier="flatpak_with_array">
      <parameters>
        <parameter name="refs"><array c:type="char**"><type name="utf8"/></array><type name="utf8"/></parameter>
      </parameters>
    </function>
  </namespace></repository>`

	ns, stats := parseString(t, doc)

	if len(ns.Functions) != 1 {
		t.Fatalf("expected exactly 1 retained function, got %d", len(ns.Functions))
	}
	if ns.Functions[0].CName != "flatpak_get_default_arch" {
		t.Errorf("wrong function retained: %s", ns.Functions[0].CName)
	}

	if len(stats.Skipped) != 2 {
		t.Fatalf("expected 2 skip records, got %d", len(stats.Skipped))
	}
	reasons := map[string]SkipReason{}
	for _, s := range stats.Skipped {
		reasons[s.CName] = s.Reason
	}
	if reasons["flatpak_with_callback"] != SkipCallbackParameter {
		t.Errorf("expected callback skip reason, got %v", reasons["flatpak_with_callback"])
	}
	if reasons["flatpak_with_array"] != SkipArrayParameter {
		t.Errorf("expected array skip reason, got %v", reasons["flatpak_with_array"])
	}
}

func TestParse_DirectionResolution(t *testing.T) {
	doc := `<repository><namespace name="Flatpak">
    <function name="probe" c:identifier="flatpak_probe">
      <parameters>
        <parameter name="explicit" direction="out"><type name="gint" c:type="gint*"/></parameter>
        <parameter name="size_out"><type name="gint" c:type="gint"/></parameter>
        <parameter name="out_kind"><type name="Flatpak.RefKind" c:type="FlatpakRefKind"/></parameter>
        <parameter name="instance"><type name="Flatpak.Instance" c:type="FlatpakInstance**"/></parameter>
        <parameter name="plain"><type name="utf8" c:type="const char*"/></parameter>
      </parameters>
    </function>
  </namespace></repository>`

	ns, _ := parseString(t, doc)

	if len(ns.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(ns.Functions))
	}
	fn := ns.Functions[0]

	want := map[string]Direction{
		"explicit": DirectionOut,
		"size_out": DirectionOut,
		"out_kind": DirectionOut,
		"instance": DirectionOut,
		"plain":    DirectionIn,
	}
	for _, prm := range fn.Parameters {
		if prm.Direction != want[prm.Name] {
			t.Errorf("parameter %q direction = %s, want %s", prm.Name, prm.Direction, want[prm.Name])
		}
	}
}

func TestParse_ArrayReturns(t *testing.T) {
	doc := `<repository><namespace name="Flatpak">
    <function name="list_refs" c:identifier="flatpak_list_refs">
      <return-value transfer-ownership="container">
        <array name="GLib.PtrArray" c:type="GPtrArray*"><type name="InstalledRef"/></array>
      </return-value>
    </function>
    <function name="list_arches" c:identifier="flatpak_list_arches">
      <return-value transfer-ownership="full">
        <array><type name="utf8"/></array>
      </return-value>
    </function>
    <function name="list_things" c:identifier="flatpak_list_things">
      <return-value>
        <array><type name="Thing"/></array>
      </return-value>
    </function>
    <function name="list_opaque" c:identifier="flatpak_list_opaque">
      <return-value>
        <array c:type="gpointer*"/>
      </return-value>
    </function>
  </namespace></repository>`

	ns, _ := parseString(t, doc)

	byName := map[string]*Function{}
	for _, fn := range ns.Functions {
		byName[fn.CName] = fn
	}

	refs := byName["flatpak_list_refs"].ReturnValue
	if refs.GirType != "GLib.PtrArray" || refs.ElementType != "InstalledRef" {
		t.Errorf("ptr-array return wrong: %+v", refs)
	}
	if refs.Type.Container != classify.ContainerPtrArray {
		t.Errorf("expected ptr-array container kind, got %v", refs.Type.Container)
	}
	if refs.Transfer != TransferContainer {
		t.Errorf("expected container transfer, got %s", refs.Transfer)
	}

	arches := byName["flatpak_list_arches"].ReturnValue
	if arches.GirType != "GLib.Strv" || arches.CType != "char**" {
		t.Errorf("string-array return must collapse to Strv, got %+v", arches)
	}

	things := byName["flatpak_list_things"].ReturnValue
	if things.GirType != "Thing[]" {
		t.Errorf("generic array return wrong: %+v", things)
	}
	if things.Type.Kind != classify.KindUnknown {
		t.Errorf("generic arrays have no marshaller, got kind %v", things.Type.Kind)
	}

	opaque := byName["flatpak_list_opaque"].ReturnValue
	if opaque.GirType != "unknown[]" {
		t.Errorf("elementless array return wrong: %+v", opaque)
	}
}

func TestParse_ScalarReturnBackfill(t *testing.T) {
	doc := `<repository><namespace name="Flatpak">
    <function name="get_serial" c:identifier="flatpak_get_serial">
      <return-value><type name="gint64"/></return-value>
    </function>
    <function name="touch" c:identifier="flatpak_touch"/>
  </namespace></repository>`

	ns, _ := parseString(t, doc)

	serial := ns.Functions[0].ReturnValue
	if serial.CType != "int64_t" {
		t.Errorf("expected back-filled c type int64_t, got %q", serial.CType)
	}
	if serial.Type.Scalar != classify.ScalarInt64 {
		t.Errorf("expected wide scalar path, got %v", serial.Type.Scalar)
	}

	void := ns.Functions[1].ReturnValue
	if void.CType != "void" || void.Type.Kind != classify.KindVoid {
		t.Errorf("missing return node must default to void, got %+v", void)
	}
}

func TestParse_MissingSource(t *testing.T) {
	p := NewParser(profile.Default(), zap.NewNop())

	_, _, err := p.Parse(&FileSource{Path: filepath.Join("testdata", "nonexistent.gir")})
	if err == nil {
		t.Fatal("Parse() should fail for a missing source")
	}

	if _, ok := err.(*SourceNotFoundError); !ok {
		t.Errorf("expected SourceNotFoundError, got %T", err)
	}
}

func TestParse_MalformedDocument(t *testing.T) {
	p := NewParser(profile.Default(), zap.NewNop())

	_, _, err := p.Parse(&MemorySource{DocName: "bad.gir", Data: []byte("<repository><unclosed")})
	if err == nil {
		t.Fatal("Parse() should fail for malformed XML")
	}

	if _, ok := err.(*DocumentParseError); !ok {
		t.Errorf("expected DocumentParseError, got %T", err)
	}
}

// Package js generates the host-layer artifact: JavaScript classes and
// functions re-exposing the native module under the same resolved names
// the registration table carries. Inherited members are collected by
// walking the parent chain, so a subclass surfaces everything its
// ancestors define without duplicating shadowed definitions.
package js

import (
	"strings"

	"go.uber.org/zap"

	"github.com/flatpak-node/girgen/internal/classify"
	"github.com/flatpak-node/girgen/internal/codegen"
	"github.com/flatpak-node/girgen/internal/gir"
	"github.com/flatpak-node/girgen/internal/nameres"
	"github.com/flatpak-node/girgen/internal/profile"
)

// Generator emits the JavaScript wrapper source.
type Generator struct {
	prof      *profile.Profile
	table     *nameres.Table
	addonPath string
	logger    *zap.Logger
}

// New creates a host-layer generator. The table must be the same
// resolved instance the native-layer generator consumes; addonPath is
// the require path of the compiled native module.
func New(prof *profile.Profile, table *nameres.Table, addonPath string, logger *zap.Logger) *Generator {
	return &Generator{
		prof:      prof,
		table:     table,
		addonPath: addonPath,
		logger:    logger.With(zap.String("component", "js-generator")),
	}
}

// Generate emits the complete host layer for ns: one class per Class,
// one function per resolved top-level function, and the aggregate
// exports block.
func (g *Generator) Generate(ns *gir.Namespace) (string, error) {
	buf := &codegen.Buffer{}
	idx := codegen.NewClassIndex(ns)

	buf.Line("// Generated by girgen")
	buf.Line("// DO NOT EDIT THIS FILE DIRECTLY")
	buf.Blank()
	buf.Linef("const addon = require('%s');", g.addonPath)
	buf.Blank()

	for _, cls := range ns.Classes {
		g.emitClass(buf, idx, cls)
		buf.Blank()
	}

	for _, e := range g.table.Entries() {
		g.emitFunction(buf, idx, e)
		buf.Blank()
	}

	g.emitExports(buf, ns)

	g.logger.Debug("Host layer generated",
		zap.Int("classes", len(ns.Classes)),
		zap.Int("functions", g.table.Len()),
	)

	return buf.String(), nil
}

func (g *Generator) emitClass(buf *codegen.Buffer, idx codegen.ClassIndex, cls *gir.Class) {
	buf.Linef("class %s {", cls.Name)
	buf.Line("  constructor(handle) {")
	buf.Line("    this._handle = handle;")
	buf.Line("  }")
	buf.Blank()

	for _, m := range idx.CollectStatics(cls) {
		g.emitStatic(buf, idx, m)
	}
	for _, m := range idx.CollectMethods(cls) {
		if m.Fn.IsConstructor {
			continue
		}
		g.emitMethod(buf, idx, m)
	}
	for _, prop := range idx.CollectProperties(cls) {
		g.emitAccessors(buf, prop)
	}

	buf.Line("  get _native() {")
	buf.Line("    return this._handle;")
	buf.Line("  }")
	buf.Line("}")
	buf.Blank()

	g.emitFactory(buf, cls)
}

// emitMethod dispatches through the defining class's registration
// group, so methods collected from a parent keep resolving after the
// walk flattens them onto the subclass.
func (g *Generator) emitMethod(buf *codegen.Buffer, idx codegen.ClassIndex, m codegen.Member) {
	name := nameres.MethodName(m.Fn)
	params := callerParams(m.Fn)
	paramList := strings.Join(params, ", ")

	callArgs := "this._handle"
	if paramList != "" {
		callArgs += ", " + paramList
	}

	buf.Linef("  %s(%s) {", name, paramList)
	buf.Linef("    const result = addon.%s.%s(%s);", m.Owner.Name, name, callArgs)
	g.emitArrayWrapping(buf, idx, m.Fn.ReturnValue, "    ")
	buf.Line("    return result;")
	buf.Line("  }")
	buf.Blank()
}

func (g *Generator) emitStatic(buf *codegen.Buffer, idx codegen.ClassIndex, m codegen.Member) {
	name := nameres.MethodName(m.Fn)
	params := strings.Join(callerParams(m.Fn), ", ")

	buf.Linef("  static %s(%s) {", name, params)
	buf.Linef("    const result = addon.%s.%s(%s);", m.Owner.Name, name, params)
	g.emitArrayWrapping(buf, idx, m.Fn.ReturnValue, "    ")
	buf.Line("    return result;")
	buf.Line("  }")
	buf.Blank()
}

// emitAccessors writes the property accessor pair: a getter iff the
// property is readable, a setter iff writable. Field name and call
// targets share one separator-to-camel normalization.
func (g *Generator) emitAccessors(buf *codegen.Buffer, prop *gir.Property) {
	field := nameres.Derive(prop.Name)
	suffix := capitalizeFirst(field)

	if prop.Readable {
		buf.Linef("  get %s() {", field)
		buf.Linef("    return this.get%s();", suffix)
		buf.Line("  }")
		buf.Blank()
	}
	if prop.Writable {
		buf.Linef("  set %s(value) {", field)
		buf.Linef("    this.set%s(value);", suffix)
		buf.Line("  }")
		buf.Blank()
	}
}

// emitFactory wraps the first declared constructor as the public
// factory. Additional constructors are not separately exposed.
func (g *Generator) emitFactory(buf *codegen.Buffer, cls *gir.Class) {
	ctors := cls.Constructors()
	if len(ctors) == 0 {
		return
	}
	params := strings.Join(callerParams(ctors[0]), ", ")

	buf.Linef("%s.create = function(%s) {", cls.Name, params)
	buf.Linef("  const handle = addon.%s.new(%s);", cls.Name, params)
	buf.Linef("  return new %s(handle);", cls.Name)
	buf.Line("};")
}

func (g *Generator) emitFunction(buf *codegen.Buffer, idx codegen.ClassIndex, e nameres.Entry) {
	params := strings.Join(callerParams(e.Fn), ", ")

	buf.Linef("function %s(%s) {", e.Export, params)
	buf.Linef("  const result = addon.%s(%s);", e.Export, params)
	g.emitArrayWrapping(buf, idx, e.Fn.ReturnValue, "  ")
	buf.Line("  return result;")
	buf.Line("}")
}

// emitArrayWrapping re-boxes pointer-array elements of a recognized
// wrapper-bearing kind into their host class, idempotently: elements
// already carrying the wrapped marker pass through unchanged. Other
// element kinds stay opaque handles.
func (g *Generator) emitArrayWrapping(buf *codegen.Buffer, idx codegen.ClassIndex, ret *gir.ReturnValue, indent string) {
	if ret.Type.Container != classify.ContainerPtrArray || ret.ElementType == "" {
		return
	}
	if _, inNamespace := idx[ret.ElementType]; !inNamespace && !g.prof.IsKnownObject(ret.ElementType) {
		return
	}

	buf.Linef("%sif (Array.isArray(result)) {", indent)
	buf.Linef("%s  return result.map(item => {", indent)
	buf.Linef("%s    if (!item) return item;", indent)
	buf.Linef("%s    if (item._native !== undefined) return item;", indent)
	buf.Linef("%s    return new %s(item);", indent, ret.ElementType)
	buf.Linef("%s  });", indent)
	buf.Linef("%s}", indent)
}

func (g *Generator) emitExports(buf *codegen.Buffer, ns *gir.Namespace) {
	buf.Line("// Exports")
	buf.Line("module.exports = {")

	var names []string
	for _, cls := range ns.Classes {
		names = append(names, cls.Name)
	}
	for _, e := range g.table.Entries() {
		names = append(names, e.Export)
	}
	for i, name := range names {
		if i < len(names)-1 {
			buf.Linef("  %s,", name)
		} else {
			buf.Linef("  %s", name)
		}
	}

	buf.Line("};")
}

// callerParams lists the host-facing parameter names: the receiver, the
// error output and out-direction parameters never surface in call
// signatures.
func callerParams(fn *gir.Function) []string {
	var params []string
	for _, p := range fn.Parameters {
		if p.IsInstance || p.IsError() || p.Direction != gir.DirectionIn {
			continue
		}
		params = append(params, p.Name)
	}
	return params
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Package dts generates the TypeScript declaration file mirroring the
// host layer: the same collected members under the same resolved names,
// with types derived from each entity's marshalling kind.
package dts

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/flatpak-node/girgen/internal/classify"
	"github.com/flatpak-node/girgen/internal/codegen"
	"github.com/flatpak-node/girgen/internal/gir"
	"github.com/flatpak-node/girgen/internal/nameres"
	"github.com/flatpak-node/girgen/internal/profile"
)

// Generator emits the TypeScript declarations.
type Generator struct {
	prof   *profile.Profile
	table  *nameres.Table
	logger *zap.Logger
}

// New creates a declaration generator over the same resolved table the
// other generators consume.
func New(prof *profile.Profile, table *nameres.Table, logger *zap.Logger) *Generator {
	return &Generator{
		prof:   prof,
		table:  table,
		logger: logger.With(zap.String("component", "dts-generator")),
	}
}

// Generate emits index.d.ts for ns: the opaque External alias, one
// exported class per Class and one exported function per resolved
// top-level function.
func (g *Generator) Generate(ns *gir.Namespace) (string, error) {
	buf := &codegen.Buffer{}
	idx := codegen.NewClassIndex(ns)

	buf.Line("// Generated by girgen")
	buf.Line("// DO NOT EDIT THIS FILE DIRECTLY")
	buf.Blank()
	buf.Line("/** Opaque native handle. Never dereferenced on the host side. */")
	buf.Line("export type External = unknown;")
	buf.Blank()

	for _, cls := range ns.Classes {
		g.emitClass(buf, idx, cls)
		buf.Blank()
	}

	for _, e := range g.table.Entries() {
		buf.Linef("export function %s(%s): %s;", e.Export, g.paramList(idx, e.Fn), g.resultType(idx, e.Fn))
	}

	g.logger.Debug("Type declarations generated",
		zap.Int("classes", len(ns.Classes)),
		zap.Int("functions", g.table.Len()),
	)

	return buf.String(), nil
}

func (g *Generator) emitClass(buf *codegen.Buffer, idx codegen.ClassIndex, cls *gir.Class) {
	buf.Linef("export class %s {", cls.Name)
	buf.Line("  constructor(handle: External);")

	if ctors := cls.Constructors(); len(ctors) > 0 {
		buf.Linef("  static create(%s): %s;", g.paramList(idx, ctors[0]), cls.Name)
	}

	for _, m := range idx.CollectStatics(cls) {
		buf.Linef("  static %s(%s): %s;", nameres.MethodName(m.Fn), g.paramList(idx, m.Fn), g.resultType(idx, m.Fn))
	}
	for _, m := range idx.CollectMethods(cls) {
		if m.Fn.IsConstructor {
			continue
		}
		buf.Linef("  %s(%s): %s;", nameres.MethodName(m.Fn), g.paramList(idx, m.Fn), g.resultType(idx, m.Fn))
	}
	for _, prop := range idx.CollectProperties(cls) {
		field := nameres.Derive(prop.Name)
		t := g.valueType(idx, prop.GirType, prop.Type, "")
		if prop.Readable {
			buf.Linef("  get %s(): %s;", field, t)
		}
		if prop.Writable {
			buf.Linef("  set %s(value: %s);", field, t)
		}
	}

	buf.Line("  readonly _native: External;")
	buf.Line("}")
}

func (g *Generator) paramList(idx codegen.ClassIndex, fn *gir.Function) string {
	var parts []string
	for _, p := range fn.Parameters {
		if p.IsInstance || p.IsError() || p.Direction != gir.DirectionIn {
			continue
		}
		t := g.valueType(idx, p.GirType, p.Type, "")
		if p.Nullable {
			parts = append(parts, fmt.Sprintf("%s?: %s | null", p.Name, t))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", p.Name, t))
		}
	}
	return strings.Join(parts, ", ")
}

// resultType mirrors the native layer's output channels: void for none,
// the single channel's type alone, or the structured multi-field object
// when out parameters join the return value.
func (g *Generator) resultType(idx codegen.ClassIndex, fn *gir.Function) string {
	var outs []*gir.Parameter
	for _, p := range fn.Parameters {
		if !p.IsInstance && !p.IsError() && p.Direction == gir.DirectionOut {
			outs = append(outs, p)
		}
	}

	ret := fn.ReturnValue
	hasResult := ret.Type.Kind != classify.KindVoid

	switch {
	case !hasResult && len(outs) == 0:
		return "void"
	case hasResult && len(outs) == 0:
		return g.valueType(idx, ret.GirType, ret.Type, ret.ElementType)
	case !hasResult && len(outs) == 1:
		return g.valueType(idx, outs[0].GirType, outs[0].Type, "")
	}

	var fields []string
	if hasResult {
		fields = append(fields, "result: "+g.valueType(idx, ret.GirType, ret.Type, ret.ElementType))
	}
	for _, p := range outs {
		fields = append(fields, p.Name+": "+g.valueType(idx, p.GirType, p.Type, ""))
	}
	return "{ " + strings.Join(fields, "; ") + " }"
}

func (g *Generator) valueType(idx codegen.ClassIndex, girType string, info classify.TypeInfo, element string) string {
	switch info.Kind {
	case classify.KindVoid:
		return "void"
	case classify.KindString:
		return "string"
	case classify.KindEnum:
		return "number"
	case classify.KindScalar:
		if info.Scalar == classify.ScalarBool {
			return "boolean"
		}
		return "number"
	case classify.KindHandle:
		return "External"
	case classify.KindContainer:
		switch info.Container {
		case classify.ContainerStrv:
			return "string[]"
		case classify.ContainerPtrArray:
			if element != "" {
				if _, ok := idx[element]; ok || g.prof.IsKnownObject(element) {
					return element + "[]"
				}
			}
			return "External[]"
		case classify.ContainerBytes:
			return "Buffer"
		default:
			return "External"
		}
	default:
		return "any"
	}
}

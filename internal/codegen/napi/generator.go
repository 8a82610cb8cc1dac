// Package napi generates the native-layer artifact: one C++
// translation unit of N-API wrapper functions plus the registration
// function that exposes them. Wrapper bodies follow a fixed order,
// argument validation and conversion, the foreign call, the error
// check, then return conversion.
package napi

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/flatpak-node/girgen/internal/codegen"
	"github.com/flatpak-node/girgen/internal/gir"
	"github.com/flatpak-node/girgen/internal/nameres"
	"github.com/flatpak-node/girgen/internal/profile"
)

// Generator emits the C++ N-API wrapper source.
type Generator struct {
	prof   *profile.Profile
	table  *nameres.Table
	logger *zap.Logger
	diags  []string
}

// New creates a native-layer generator. The table must be the same
// resolved instance the host-layer generator consumes.
func New(prof *profile.Profile, table *nameres.Table, logger *zap.Logger) *Generator {
	return &Generator{
		prof:   prof,
		table:  table,
		logger: logger.With(zap.String("component", "napi-generator")),
	}
}

// Diagnostics returns the annotations recorded by the last Generate.
func (g *Generator) Diagnostics() []string {
	return g.diags
}

// Generate emits the complete translation unit for ns: forward
// declarations, one wrapper per class function and per resolved
// top-level function, then the registration function. Unrecognized
// shapes yield placeholder code plus a diagnostic, never an error.
func (g *Generator) Generate(ns *gir.Namespace) (string, error) {
	g.diags = nil
	buf := &codegen.Buffer{}

	buf.Line("// Generated by girgen")
	buf.Line("// DO NOT EDIT THIS FILE DIRECTLY")
	buf.Blank()
	for _, inc := range g.prof.Includes {
		buf.Linef("#include <%s>", inc)
	}
	buf.Line("#include <memory>")
	buf.Line("#include <napi.h>")
	buf.Line("#include <string>")
	buf.Line("#include <vector>")
	buf.Blank()

	g.emitForwardDecls(buf, ns)
	buf.Blank()
	g.emitWrappers(buf, ns)
	g.emitInit(buf, ns)

	g.logger.Debug("Native layer generated",
		zap.Int("classes", len(ns.Classes)),
		zap.Int("functions", g.table.Len()),
		zap.Int("diagnostics", len(g.diags)),
	)

	return buf.String(), nil
}

func (g *Generator) emitForwardDecls(buf *codegen.Buffer, ns *gir.Namespace) {
	for _, cls := range ns.Classes {
		for _, fn := range cls.Functions {
			buf.Linef("Napi::Value %s(const Napi::CallbackInfo& info);", wrapperName(cls, fn))
		}
	}
	for _, e := range g.table.Entries() {
		buf.Linef("Napi::Value Wrap_%s(const Napi::CallbackInfo& info);", e.Fn.CName)
	}
}

func (g *Generator) emitWrappers(buf *codegen.Buffer, ns *gir.Namespace) {
	for _, cls := range ns.Classes {
		for _, fn := range cls.Functions {
			if fn.IsConstructor || fn.IsStatic {
				g.emitWrapper(buf, wrapperName(cls, fn), nil, fn)
			} else {
				g.emitWrapper(buf, wrapperName(cls, fn), cls, fn)
			}
		}
	}
	for _, e := range g.table.Entries() {
		g.emitWrapper(buf, "Wrap_"+e.Fn.CName, nil, e.Fn)
	}
}

// emitWrapper writes one wrapper body. Methods take their receiver from
// the fixed boxed-handle slot info[0]; caller-facing arguments number
// from the next slot. Output-direction and error parameters never
// consume an argument slot.
func (g *Generator) emitWrapper(buf *codegen.Buffer, name string, receiver *gir.Class, fn *gir.Function) {
	buf.Linef("Napi::Value %s(const Napi::CallbackInfo& info) {", name)
	buf.Line("  Napi::Env env = info.Env();")
	buf.Blank()

	var args []string
	index := 0

	if receiver != nil {
		buf.Line("  if (info.Length() < 1 || !info[0].IsExternal()) {")
		buf.Linef("    Napi::TypeError::New(env, \"Expected %s instance\").ThrowAsJavaScriptException();", receiver.Name)
		buf.Line("    return env.Null();")
		buf.Line("  }")
		buf.Linef("  %s* self = info[0].As<Napi::External<%s>>().Data();", receiver.CType, receiver.CType)
		buf.Blank()
		args = append(args, "self")
		index = 1
	}

	var outs []*gir.Parameter
	for _, prm := range fn.Parameters {
		if prm.IsInstance || prm.IsError() {
			continue
		}
		switch prm.Direction {
		case gir.DirectionOut:
			g.emitOutLocal(buf, prm)
			args = append(args, prm.Name)
			outs = append(outs, prm)
		case gir.DirectionInOut:
			// Unsupported direction; the foreign call gets a null.
			args = append(args, "NULL")
		default:
			args = append(args, g.emitInParam(buf, prm, index, fn.CName))
			index++
		}
	}

	errName := ""
	if ep := fn.ErrorParam(); ep != nil {
		errName = ep.Name
	} else if fn.Throws {
		errName = "error"
	}
	if errName != "" {
		buf.Linef("  GError* %s = NULL;", errName)
	}

	callArgs := strings.Join(args, ", ")
	if errName != "" {
		if len(args) > 0 {
			callArgs += ", &" + errName
		} else {
			callArgs = "&" + errName
		}
	}

	hasResult := fn.ReturnValue.CType != "void" && fn.ReturnValue.CType != ""
	if hasResult {
		buf.Linef("  %s result = %s(%s);", fn.ReturnValue.CType, fn.CName, callArgs)
	} else {
		buf.Linef("  %s(%s);", fn.CName, callArgs)
	}
	buf.Blank()

	if errName != "" {
		buf.Linef("  if (%s) {", errName)
		buf.Linef("    Napi::Error::New(env, %s->message).ThrowAsJavaScriptException();", errName)
		buf.Linef("    g_error_free(%s);", errName)
		buf.Line("    return env.Null();")
		buf.Line("  }")
		buf.Blank()
	}

	g.emitResult(buf, fn, outs, hasResult)
	buf.Line("}")
	buf.Blank()
}

func (g *Generator) emitInit(buf *codegen.Buffer, ns *gir.Namespace) {
	buf.Line("Napi::Object Init(Napi::Env env, Napi::Object exports) {")

	for _, e := range g.table.Entries() {
		buf.Linef("  exports.Set(\"%s\", Napi::Function::New(env, Wrap_%s));", e.Export, e.Fn.CName)
	}

	for _, cls := range ns.Classes {
		varName := strings.ToLower(cls.Name) + "_class"
		buf.Linef("  // %s class", cls.Name)
		buf.Linef("  Napi::Object %s = Napi::Object::New(env);", varName)

		ctorSeen := false
		for _, fn := range cls.Functions {
			if fn.IsConstructor {
				// Only the first declared constructor occupies the
				// reserved "new" slot.
				if ctorSeen {
					continue
				}
				ctorSeen = true
				buf.Linef("  %s.Set(\"new\", Napi::Function::New(env, %s));", varName, wrapperName(cls, fn))
				continue
			}
			buf.Linef("  %s.Set(\"%s\", Napi::Function::New(env, %s));", varName, nameres.MethodName(fn), wrapperName(cls, fn))
		}

		buf.Linef("  exports.Set(\"%s\", %s);", cls.Name, varName)
	}

	buf.Line("  return exports;")
	buf.Line("}")
	buf.Blank()
	buf.Line("NODE_API_MODULE(NODE_GYP_MODULE_NAME, Init)")
}

func (g *Generator) diag(format string, args ...any) {
	g.diags = append(g.diags, fmt.Sprintf(format, args...))
}

func wrapperName(cls *gir.Class, fn *gir.Function) string {
	return "Wrap_" + cls.Name + "_" + fn.Name
}

// baseCType strips every pointer level from a foreign spelling.
func baseCType(cType string) string {
	return strings.TrimSpace(strings.TrimRight(cType, "*"))
}

// pointee strips one pointer level, the type an output local must have
// so its address matches the declared parameter type.
func pointee(cType string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(cType), "*"))
}

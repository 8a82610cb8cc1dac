package napi

import (
	"fmt"
	"strings"

	"github.com/flatpak-node/girgen/internal/classify"
	"github.com/flatpak-node/girgen/internal/codegen"
	"github.com/flatpak-node/girgen/internal/gir"
)

// emitInParam writes the validate-and-convert block for one in-direction
// parameter at the given argument slot and returns the expression the
// foreign call receives. Validation failures raise a parameter-named
// type error and return before any foreign call is made.
func (g *Generator) emitInParam(buf *codegen.Buffer, prm *gir.Parameter, index int, cName string) string {
	switch prm.Type.Kind {
	case classify.KindString:
		g.emitStringParam(buf, prm, index)
	case classify.KindScalar:
		g.emitScalarParam(buf, prm, index)
	case classify.KindEnum:
		g.emitEnumParam(buf, prm, index)
	case classify.KindHandle, classify.KindContainer:
		g.emitHandleParam(buf, prm, index)
	default:
		g.diag("%s: no marshaller for parameter '%s' of type '%s'", cName, prm.Name, prm.GirType)
		buf.Linef("  // Parameter '%s' of type '%s' has no marshaller", prm.Name, prm.GirType)
		buf.Blank()
		return fmt.Sprintf("/* %s: %s */", prm.Name, prm.GirType)
	}

	buf.Blank()
	return prm.Name
}

func (g *Generator) emitStringParam(buf *codegen.Buffer, prm *gir.Parameter, index int) {
	if prm.Nullable {
		// The backing std::string lives at function scope so the
		// pointer stays valid through the foreign call.
		buf.Linef("  const char* %s = NULL;", prm.Name)
		buf.Linef("  std::string %s_str;", prm.Name)
		buf.Linef("  if (info.Length() > %d && !info[%d].IsNull() && !info[%d].IsUndefined()) {", index, index, index)
		buf.Linef("    if (!info[%d].IsString()) {", index)
		buf.Linef("      Napi::TypeError::New(env, \"Expected string or null for parameter '%s'\").ThrowAsJavaScriptException();", prm.Name)
		buf.Line("      return env.Null();")
		buf.Line("    }")
		buf.Linef("    %s_str = info[%d].As<Napi::String>().Utf8Value();", prm.Name, index)
		buf.Linef("    %s = %s_str.c_str();", prm.Name, prm.Name)
		buf.Line("  }")
		return
	}

	buf.Linef("  if (info.Length() <= %d || !info[%d].IsString()) {", index, index)
	buf.Linef("    Napi::TypeError::New(env, \"Expected string for parameter '%s'\").ThrowAsJavaScriptException();", prm.Name)
	buf.Line("    return env.Null();")
	buf.Line("  }")
	buf.Linef("  std::string %s_str = info[%d].As<Napi::String>().Utf8Value();", prm.Name, index)
	buf.Linef("  const char* %s = %s_str.c_str();", prm.Name, prm.Name)
}

func (g *Generator) emitScalarParam(buf *codegen.Buffer, prm *gir.Parameter, index int) {
	if prm.Type.Scalar == classify.ScalarBool {
		buf.Linef("  if (info.Length() <= %d || !info[%d].IsBoolean()) {", index, index)
		buf.Linef("    Napi::TypeError::New(env, \"Expected boolean for parameter '%s'\").ThrowAsJavaScriptException();", prm.Name)
		buf.Line("    return env.Null();")
		buf.Line("  }")
		buf.Linef("  gboolean %s = info[%d].As<Napi::Boolean>().Value();", prm.Name, index)
		return
	}

	buf.Linef("  if (info.Length() <= %d || !info[%d].IsNumber()) {", index, index)
	buf.Linef("    Napi::TypeError::New(env, \"Expected number for parameter '%s'\").ThrowAsJavaScriptException();", prm.Name)
	buf.Line("    return env.Null();")
	buf.Line("  }")

	cType := g.scalarCType(prm.GirType, prm.CType)
	switch prm.Type.Scalar {
	case classify.ScalarInt64:
		buf.Linef("  %s %s = info[%d].As<Napi::Number>().Int64Value();", cType, prm.Name, index)
	case classify.ScalarInt:
		buf.Linef("  %s %s = info[%d].As<Napi::Number>().Int32Value();", cType, prm.Name, index)
	default:
		buf.Linef("  %s %s = info[%d].As<Napi::Number>().DoubleValue();", cType, prm.Name, index)
	}
}

// emitEnumParam accepts enumerations as plain numbers. The foreign
// spelling loses any pointer level so the value is cast by value even
// when the document models the parameter as a pointer.
func (g *Generator) emitEnumParam(buf *codegen.Buffer, prm *gir.Parameter, index int) {
	buf.Linef("  if (info.Length() <= %d || !info[%d].IsNumber()) {", index, index)
	buf.Linef("    Napi::TypeError::New(env, \"Expected number for enum parameter '%s'\").ThrowAsJavaScriptException();", prm.Name)
	buf.Line("    return env.Null();")
	buf.Line("  }")
	base := g.enumBase(prm.GirType, prm.CType)
	buf.Linef("  %s %s = static_cast<%s>(info[%d].As<Napi::Number>().Int32Value());", base, prm.Name, base, index)
}

func (g *Generator) emitHandleParam(buf *codegen.Buffer, prm *gir.Parameter, index int) {
	base := g.externalBase(prm.GirType, prm.CType)
	cType := prm.CType
	if cType == "" {
		cType = base + "*"
	}

	if prm.Nullable {
		buf.Linef("  %s %s = NULL;", cType, prm.Name)
		buf.Linef("  if (info.Length() > %d && !info[%d].IsNull() && !info[%d].IsUndefined()) {", index, index, index)
		buf.Linef("    if (!info[%d].IsExternal()) {", index)
		buf.Linef("      Napi::TypeError::New(env, \"Expected external object or null for parameter '%s'\").ThrowAsJavaScriptException();", prm.Name)
		buf.Line("      return env.Null();")
		buf.Line("    }")
		buf.Linef("    %s = info[%d].As<Napi::External<%s>>().Data();", prm.Name, index, base)
		buf.Line("  }")
		return
	}

	buf.Linef("  if (info.Length() <= %d || !info[%d].IsExternal()) {", index, index)
	buf.Linef("    Napi::TypeError::New(env, \"Expected external object for parameter '%s'\").ThrowAsJavaScriptException();", prm.Name)
	buf.Line("    return env.Null();")
	buf.Line("  }")
	buf.Linef("  %s %s = info[%d].As<Napi::External<%s>>().Data();", cType, prm.Name, index, base)
}

// emitOutLocal declares the same-scoped local an out-direction parameter
// writes through, plus the pointer alias the foreign call receives. The
// alias carries the parameter's name so the call site reads naturally.
func (g *Generator) emitOutLocal(buf *codegen.Buffer, prm *gir.Parameter) {
	switch {
	case prm.Type.Kind == classify.KindHandle || prm.Type.Kind == classify.KindContainer:
		base := g.externalBase(prm.GirType, prm.CType)
		cType := prm.CType
		if cType == "" {
			cType = base + "**"
		}
		buf.Linef("  %s* %s_local = NULL;", base, prm.Name)
		buf.Linef("  %s %s = &%s_local;", cType, prm.Name, prm.Name)
	case prm.Type.Kind == classify.KindEnum && !prm.IsPointer():
		cType := prm.CType
		if cType == "" {
			cType = g.enumBase(prm.GirType, prm.CType)
		}
		buf.Linef("  %s %s_local = 0;", cType, prm.Name)
		buf.Linef("  %s* %s = &%s_local;", cType, prm.Name, prm.Name)
	default:
		base := pointee(prm.CType)
		if base == "" {
			base = g.scalarCType(prm.GirType, "")
		}
		cType := prm.CType
		if cType == "" {
			cType = base + "*"
		}
		buf.Linef("  %s %s_local;", base, prm.Name)
		buf.Linef("  %s %s = &%s_local;", cType, prm.Name, prm.Name)
	}
	buf.Blank()
}

// scalarCType resolves the foreign spelling of a scalar, back-filling
// from the profile table when the document omits it.
func (g *Generator) scalarCType(girType, cType string) string {
	if cType != "" {
		return cType
	}
	if mapped := g.prof.ScalarCType(girType); mapped != "" {
		return mapped
	}
	return "int"
}

// enumBase is the by-value foreign spelling of an enumeration.
func (g *Generator) enumBase(girType, cType string) string {
	if base := baseCType(cType); base != "" {
		return base
	}
	return g.prof.CPrefix + girTail(girType)
}

// externalBase resolves the pointee type a boxed external carries. A
// missing foreign spelling is rebuilt from the introspected name: the
// GLib/Gio handle tails take the G prefix, everything else the library
// prefix.
func (g *Generator) externalBase(girType, cType string) string {
	if base := baseCType(cType); base != "" {
		return base
	}
	tail := girTail(girType)
	if g.prof.HandleTail(tail) {
		return "G" + tail
	}
	return g.prof.CPrefix + tail
}

func girTail(girType string) string {
	if i := strings.LastIndex(girType, "."); i >= 0 {
		return girType[i+1:]
	}
	return girType
}

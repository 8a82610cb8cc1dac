package napi

import (
	"strings"

	"github.com/flatpak-node/girgen/internal/classify"
	"github.com/flatpak-node/girgen/internal/codegen"
	"github.com/flatpak-node/girgen/internal/gir"
)

// outValue is one output channel of a wrapper: the function's return
// value or an out-direction parameter's local.
type outValue struct {
	field    string
	variable string
	girType  string
	cType    string
	typeInfo classify.TypeInfo
	transfer gir.TransferMode
	element  string
}

// emitResult converts and returns the wrapper's output channels. Zero
// channels yield undefined, a single channel is returned alone, two or
// more are grouped into an object keyed "result" plus one field per out
// parameter.
func (g *Generator) emitResult(buf *codegen.Buffer, fn *gir.Function, outs []*gir.Parameter, hasResult bool) {
	var channels []outValue

	if hasResult {
		rv := fn.ReturnValue
		channels = append(channels, outValue{
			field:    "result",
			variable: "result",
			girType:  rv.GirType,
			cType:    rv.CType,
			typeInfo: rv.Type,
			transfer: rv.Transfer,
			element:  rv.ElementType,
		})
	}
	for _, prm := range outs {
		channels = append(channels, outValue{
			field:    prm.Name,
			variable: prm.Name + "_local",
			girType:  prm.GirType,
			cType:    pointee(prm.CType),
			typeInfo: prm.Type,
			transfer: prm.Transfer,
		})
	}

	switch len(channels) {
	case 0:
		// A return shape with no marshaller and no spelling gets a
		// placeholder, never a generation failure.
		if fn.ReturnValue.Type.Kind == classify.KindUnknown {
			g.diag("%s: no marshaller for return type '%s'", fn.CName, fn.ReturnValue.GirType)
			buf.Linef("  // No marshaller for return type '%s'", fn.ReturnValue.GirType)
			buf.Line("  return env.Null();")
			return
		}
		buf.Line("  return env.Undefined();")
	case 1:
		target := g.emitConversion(buf, fn.CName, channels[0])
		buf.Linef("  return %s;", target)
	default:
		buf.Line("  Napi::Object out = Napi::Object::New(env);")
		for _, ch := range channels {
			target := g.emitConversion(buf, fn.CName, ch)
			buf.Linef("  out.Set(\"%s\", %s);", ch.field, target)
		}
		buf.Line("  return out;")
	}
}

// emitConversion writes the statements converting one foreign value into
// its boxed host representation and returns the Napi::Value variable
// holding it. Ownership follows the transfer mode: fully or container
// transferred values are released right after conversion. Unrecognized
// shapes produce a null placeholder and a diagnostic, never a failure.
func (g *Generator) emitConversion(buf *codegen.Buffer, cName string, ch outValue) string {
	target := "js_" + ch.field

	switch ch.typeInfo.Kind {
	case classify.KindVoid:
		buf.Linef("  Napi::Value %s = env.Undefined();", target)

	case classify.KindString:
		buf.Linef("  Napi::Value %s = Napi::String::New(env, %s ? %s : \"\");", target, ch.variable, ch.variable)
		if releases(ch.transfer) {
			buf.Linef("  g_free((gpointer)%s);", ch.variable)
		}

	case classify.KindScalar:
		if ch.typeInfo.Scalar == classify.ScalarBool {
			buf.Linef("  Napi::Value %s = Napi::Boolean::New(env, %s);", target, ch.variable)
		} else {
			buf.Linef("  Napi::Value %s = Napi::Number::New(env, %s);", target, ch.variable)
		}

	case classify.KindEnum:
		buf.Linef("  Napi::Value %s = Napi::Number::New(env, static_cast<int32_t>(%s));", target, ch.variable)

	case classify.KindContainer:
		g.emitContainerConversion(buf, cName, ch, target)

	case classify.KindHandle:
		g.emitHandleConversion(buf, cName, ch, target)

	default:
		g.diag("%s: no marshaller for return type '%s'", cName, ch.girType)
		buf.Linef("  // No marshaller for type '%s'", ch.girType)
		buf.Linef("  Napi::Value %s = env.Null();", target)
	}

	return target
}

func (g *Generator) emitContainerConversion(buf *codegen.Buffer, cName string, ch outValue, target string) {
	switch ch.typeInfo.Container {
	case classify.ContainerStrv:
		buf.Linef("  Napi::Array %s_array = Napi::Array::New(env);", target)
		buf.Linef("  if (%s) {", ch.variable)
		buf.Line("    int i = 0;")
		buf.Linef("    while (%s[i]) {", ch.variable)
		buf.Linef("      %s_array.Set(i, Napi::String::New(env, %s[i]));", target, ch.variable)
		buf.Line("      i++;")
		buf.Line("    }")
		buf.Line("  }")
		if releases(ch.transfer) {
			buf.Linef("  g_strfreev(%s);", ch.variable)
		}
		buf.Linef("  Napi::Value %s = %s_array;", target, target)

	case classify.ContainerPtrArray:
		buf.Linef("  Napi::Array %s_array = Napi::Array::New(env);", target)
		buf.Linef("  if (%s) {", ch.variable)
		buf.Linef("    for (guint i = 0; i < %s->len; i++) {", ch.variable)
		buf.Linef("      gpointer item = g_ptr_array_index(%s, i);", ch.variable)
		g.emitPtrArrayElement(buf, cName, ch, target)
		buf.Line("    }")
		buf.Line("  }")
		if releases(ch.transfer) {
			buf.Linef("  g_ptr_array_unref(%s);", ch.variable)
		}
		buf.Linef("  Napi::Value %s = %s_array;", target, target)

	case classify.ContainerBytes:
		buf.Linef("  gsize %s_size = 0;", target)
		buf.Linef("  gconstpointer %s_data = g_bytes_get_data(%s, &%s_size);", target, ch.variable, target)
		buf.Linef("  Napi::Value %s = Napi::Buffer<uint8_t>::Copy(env, static_cast<const uint8_t*>(%s_data), %s_size);", target, target, target)
		if releases(ch.transfer) {
			buf.Linef("  g_bytes_unref(%s);", ch.variable)
		}

	default:
		// Linked lists carry no element layout the generated code could
		// walk safely; the caller gets the container itself.
		g.diag("%s: container type '%s' boxed as untyped pointer", cName, ch.girType)
		buf.Linef("  // Container of type '%s' boxed as untyped pointer", ch.girType)
		buf.Linef("  Napi::Value %s = Napi::External<void>::New(env, %s);", target, ch.variable)
	}
}

// emitPtrArrayElement re-boxes one pointer-array element per its
// declared kind: known library objects and external-handle tails get a
// typed external, anything else an untyped pointer plus a diagnostic.
func (g *Generator) emitPtrArrayElement(buf *codegen.Buffer, cName string, ch outValue, target string) {
	elem := ch.element
	switch {
	case elem != "" && g.prof.IsKnownObject(elem):
		cType := g.prof.CPrefix + elem
		buf.Linef("      %s* typed_item = static_cast<%s*>(item);", cType, cType)
		buf.Linef("      %s_array.Set(i, Napi::External<%s>::New(env, typed_item));", target, cType)
	case elem != "" && g.prof.HandleTail(elem):
		cType := "G" + elem
		buf.Linef("      %s* typed_item = static_cast<%s*>(item);", cType, cType)
		buf.Linef("      %s_array.Set(i, Napi::External<%s>::New(env, typed_item));", target, cType)
	case elem != "":
		g.diag("%s: unknown pointer-array element type '%s'", cName, elem)
		buf.Linef("      // Unknown element type: %s", elem)
		buf.Linef("      %s_array.Set(i, Napi::External<void>::New(env, item));", target)
	default:
		buf.Linef("      %s_array.Set(i, Napi::External<void>::New(env, item));", target)
	}
}

func (g *Generator) emitHandleConversion(buf *codegen.Buffer, cName string, ch outValue, target string) {
	if base := baseCType(ch.cType); base != "" && base != "void" {
		buf.Linef("  Napi::Value %s = Napi::External<%s>::New(env, %s);", target, base, ch.variable)
		return
	}

	if strings.HasPrefix(ch.girType, g.prof.GirPrefix()) {
		base := g.prof.CPrefix + girTail(ch.girType)
		buf.Linef("  Napi::Value %s = Napi::External<%s>::New(env, (%s*)%s);", target, base, base, ch.variable)
		return
	}

	g.diag("%s: handle type '%s' boxed as untyped pointer", cName, ch.girType)
	buf.Linef("  // Handle of type '%s' boxed as untyped pointer", ch.girType)
	buf.Linef("  Napi::Value %s = Napi::External<void>::New(env, (void*)%s);", target, ch.variable)
}

func releases(t gir.TransferMode) bool {
	return t == gir.TransferFull || t == gir.TransferContainer
}

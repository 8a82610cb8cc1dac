package gir

import (
	"errors"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/flatpak-node/girgen/internal/classify"
	"github.com/flatpak-node/girgen/internal/profile"
)

// SkipReason explains why the parser dropped a function.
type SkipReason string

const (
	SkipCallbackParameter SkipReason = "callback-parameter"
	SkipArrayParameter    SkipReason = "array-parameter"
)

// SkippedFunction records one dropped function.
type SkippedFunction struct {
	Name   string
	CName  string
	Reason SkipReason
}

// Stats summarizes one parse run.
type Stats struct {
	Classes        int
	Functions      int
	ClassFunctions int
	Properties     int
	Skipped        []SkippedFunction
}

func (s *Stats) skip(name, cName string, reason SkipReason) {
	s.Skipped = append(s.Skipped, SkippedFunction{Name: name, CName: cName, Reason: reason})
}

// Parser extracts the introspection model from a GIR document.
type Parser struct {
	prof   *profile.Profile
	logger *zap.Logger
}

// NewParser creates a parser bound to a library profile.
func NewParser(prof *profile.Profile, logger *zap.Logger) *Parser {
	return &Parser{
		prof:   prof,
		logger: logger.With(zap.String("component", "gir-parser")),
	}
}

type functionRole int

const (
	roleFunction functionRole = iota
	roleConstructor
	roleMethod
	roleStatic
)

// Parse reads the document from src and builds the namespace model.
// Nameless classes and functions are skipped silently; functions with
// callback- or array-typed parameters are dropped and recorded in the
// returned Stats. Top-level functions are collected document-wide, so
// class-scoped function elements appear here too; duplicate foreign
// symbols are left in and resolved away during name resolution.
func (p *Parser) Parse(src Source) (*Namespace, *Stats, error) {
	data, err := src.Bytes()
	if err != nil {
		return nil, nil, &SourceNotFoundError{
			Name: src.Name(),
			Err:  err,
		}
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, nil, &DocumentParseError{
			Name: src.Name(),
			Err:  err,
		}
	}
	if doc.Root() == nil {
		return nil, nil, &DocumentParseError{
			Name: src.Name(),
			Err:  errors.New("document has no root element"),
		}
	}

	p.logger.Debug("Parsing introspection document",
		zap.String("source", src.Name()),
		zap.Int64("size_bytes", src.Size()),
	)

	ns := &Namespace{Name: p.prof.Namespace}
	if nsElem := doc.FindElement("//namespace"); nsElem != nil {
		if name := nsElem.SelectAttrValue("name", ""); name != "" {
			ns.Name = name
		}
	}

	stats := &Stats{}

	for _, el := range doc.FindElements("//class") {
		cls := p.parseClass(el, stats)
		if cls == nil {
			continue
		}
		ns.Classes = append(ns.Classes, cls)
		stats.Classes++
		stats.ClassFunctions += len(cls.Functions)
		stats.Properties += len(cls.Properties)
	}

	for _, el := range doc.FindElements("//function") {
		fn := p.parseFunction(el, roleFunction, stats)
		if fn == nil {
			continue
		}
		ns.Functions = append(ns.Functions, fn)
		stats.Functions++
	}

	p.logger.Info("Introspection document parsed",
		zap.String("namespace", ns.Name),
		zap.Int("classes", stats.Classes),
		zap.Int("functions", stats.Functions),
		zap.Int("skipped", len(stats.Skipped)),
	)

	return ns, stats, nil
}

func (p *Parser) parseClass(el *etree.Element, stats *Stats) *Class {
	name := el.SelectAttrValue("name", "")
	if name == "" {
		return nil
	}

	cType := el.SelectAttrValue("c:type", "")
	if cType == "" {
		cType = p.prof.CPrefix + name
	}

	cls := &Class{
		Name:   name,
		CType:  cType,
		Parent: el.SelectAttrValue("parent", ""),
	}

	for _, ce := range el.FindElements(".//constructor") {
		if fn := p.parseFunction(ce, roleConstructor, stats); fn != nil {
			cls.Functions = append(cls.Functions, fn)
		}
	}
	for _, me := range el.FindElements(".//method") {
		if fn := p.parseFunction(me, roleMethod, stats); fn != nil {
			cls.Functions = append(cls.Functions, fn)
		}
	}
	for _, se := range el.FindElements(".//static-method") {
		if fn := p.parseFunction(se, roleStatic, stats); fn != nil {
			cls.Functions = append(cls.Functions, fn)
		}
	}
	for _, pe := range el.FindElements(".//property") {
		if prop := p.parseProperty(pe); prop != nil {
			cls.Properties = append(cls.Properties, prop)
		}
	}

	return cls
}

func (p *Parser) parseFunction(el *etree.Element, role functionRole, stats *Stats) *Function {
	name := el.SelectAttrValue("name", "")
	if name == "" {
		return nil
	}

	cName := el.SelectAttrValue("c:identifier", "")
	if cName == "" {
		cName = name
	}

	throws := el.SelectAttrValue("throws", "0") == "1"

	var params []*Parameter
	hasCallback := false
	hasArray := false

	// Parameters live under a container element; fall back to a
	// descendant search when the container is absent.
	var paramEls []*etree.Element
	if container := el.FindElement("parameters"); container != nil {
		paramEls = container.FindElements("parameter")
	} else {
		paramEls = el.FindElements(".//parameter")
	}

	for _, pe := range paramEls {
		if pe.FindElement("array") != nil {
			hasArray = true
		}
		prm := p.parseParameter(pe, false)
		if prm == nil {
			continue
		}
		if strings.Contains(strings.ToLower(prm.GirType), "callback") {
			hasCallback = true
		}
		params = append(params, prm)
	}

	ret := p.parseReturnValue(el)

	if role == roleMethod {
		instEl := el.FindElement("instance-parameter")
		if instEl == nil {
			instEl = el.FindElement("parameters/instance-parameter")
		}
		if instEl != nil {
			if inst := p.parseParameter(instEl, true); inst != nil {
				params = append([]*Parameter{inst}, params...)
			}
		}
	}

	if hasCallback {
		stats.skip(name, cName, SkipCallbackParameter)
		p.logger.Debug("Skipping function with callback parameter", zap.String("function", cName))
		return nil
	}
	if hasArray {
		stats.skip(name, cName, SkipArrayParameter)
		p.logger.Debug("Skipping function with array parameter", zap.String("function", cName))
		return nil
	}

	return &Function{
		Name:          name,
		CName:         cName,
		Parameters:    params,
		ReturnValue:   ret,
		IsMethod:      role == roleMethod || role == roleStatic,
		IsConstructor: role == roleConstructor,
		IsStatic:      role == roleStatic,
		Throws:        throws,
	}
}

func (p *Parser) parseParameter(el *etree.Element, isInstance bool) *Parameter {
	name := el.SelectAttrValue("name", "")
	if name == "" {
		return nil
	}

	typeEl := el.FindElement("type")
	if typeEl == nil {
		return nil
	}

	girType := typeEl.SelectAttrValue("name", "")
	cType := typeEl.SelectAttrValue("c:type", "")

	transfer := TransferMode(el.SelectAttrValue("transfer-ownership", string(TransferNone)))
	nullable := el.SelectAttrValue("nullable", "0") == "1"
	direction := Direction(el.SelectAttrValue("direction", string(DirectionIn)))
	callerAllocates := el.SelectAttrValue("caller-allocates", "0") == "1"

	// Promote undeclared output parameters. An explicit attribute wins;
	// then the _out/_inout/out_ naming convention; then a
	// pointer-to-pointer foreign shape.
	if direction == DirectionIn {
		switch {
		case strings.HasSuffix(name, "_out") || strings.HasSuffix(name, "_inout") || strings.HasPrefix(name, "out_"):
			direction = DirectionOut
		case strings.Count(cType, "*") == 2:
			direction = DirectionOut
		}
	}

	return &Parameter{
		Name:            name,
		GirType:         girType,
		CType:           cType,
		Type:            classify.Classify(girType, cType, p.prof),
		Transfer:        transfer,
		Nullable:        nullable,
		Direction:       direction,
		IsInstance:      isInstance,
		CallerAllocates: callerAllocates,
	}
}

func (p *Parser) parseReturnValue(funcEl *etree.Element) *ReturnValue {
	retEl := funcEl.FindElement("return-value")
	if retEl == nil {
		return p.voidReturn()
	}

	if arrayEl := retEl.FindElement("array"); arrayEl != nil {
		return p.parseArrayReturn(retEl, arrayEl)
	}

	typeEl := retEl.FindElement("type")
	if typeEl == nil {
		return p.voidReturn()
	}

	girType := typeEl.SelectAttrValue("name", "none")
	cType := typeEl.SelectAttrValue("c:type", "")
	if cType == "" {
		if mapped := p.prof.ScalarCType(girType); mapped != "" {
			cType = mapped
		} else {
			cType = "void"
		}
	}

	return &ReturnValue{
		GirType:  girType,
		CType:    cType,
		Type:     classify.Classify(girType, cType, p.prof),
		Transfer: TransferMode(retEl.SelectAttrValue("transfer-ownership", string(TransferNone))),
		Nullable: retEl.SelectAttrValue("nullable", "0") == "1",
	}
}

// parseArrayReturn resolves array-shaped returns: the two well-known
// container spellings are recognized specifically, string elements
// collapse into the string-vector type, anything else falls back to a
// generic element-typed array.
func (p *Parser) parseArrayReturn(retEl, arrayEl *etree.Element) *ReturnValue {
	cType := arrayEl.SelectAttrValue("c:type", "")
	arrayName := arrayEl.SelectAttrValue("name", "")

	elementType := ""
	elemPresent := false
	if elemTypeEl := arrayEl.FindElement("type"); elemTypeEl != nil {
		elemPresent = true
		elementType = elemTypeEl.SelectAttrValue("name", "")
	}

	var girType string
	switch {
	case arrayName == "GLib.PtrArray" || strings.Contains(cType, "GPtrArray*"):
		girType = "GLib.PtrArray"
		if cType == "" {
			cType = "GPtrArray*"
		}
	case arrayName == "GLib.List":
		girType = "GLib.List"
		if cType == "" {
			cType = "GList*"
		}
	case elemPresent:
		girType = elementType
		if girType == "utf8" {
			girType = "GLib.Strv"
			if cType == "" {
				cType = "char**"
			}
		} else {
			girType += "[]"
		}
	default:
		girType = "unknown[]"
	}

	return &ReturnValue{
		GirType:     girType,
		CType:       cType,
		Type:        classify.Classify(girType, cType, p.prof),
		Transfer:    TransferMode(retEl.SelectAttrValue("transfer-ownership", string(TransferNone))),
		Nullable:    retEl.SelectAttrValue("nullable", "0") == "1",
		ElementType: elementType,
	}
}

func (p *Parser) parseProperty(el *etree.Element) *Property {
	name := el.SelectAttrValue("name", "")
	if name == "" {
		return nil
	}

	typeEl := el.FindElement("type")
	if typeEl == nil {
		return nil
	}

	girType := typeEl.SelectAttrValue("name", "")
	cType := typeEl.SelectAttrValue("c:type", "")

	return &Property{
		Name:          name,
		GirType:       girType,
		CType:         cType,
		Type:          classify.Classify(girType, cType, p.prof),
		Readable:      el.SelectAttrValue("readable", "1") == "1",
		Writable:      el.SelectAttrValue("writable", "0") == "1",
		ConstructOnly: el.SelectAttrValue("construct-only", "0") == "1",
	}
}

func (p *Parser) voidReturn() *ReturnValue {
	return &ReturnValue{
		GirType:  "none",
		CType:    "void",
		Type:     classify.TypeInfo{Kind: classify.KindVoid},
		Transfer: TransferNone,
	}
}

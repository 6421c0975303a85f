package wsdl

import (
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adrianliechti/wingman-soap/pkg/soap"
)

const (
	NamespaceSchema   = "http://www.w3.org/2001/XMLSchema"
	NamespaceEncoding = "http://schemas.xmlsoap.org/soap/encoding/"
)

var (
	ErrNoService = errors.New("no such service")
	ErrNoPort    = errors.New("no such port")
)

// Definitions is the parsed form of a WSDL 1.1 document.
type Definitions struct {
	Name            string
	TargetNamespace string

	Services []*Service

	// Types holds the named complex types of all embedded schemas by local
	// name.
	Types map[string]*Type
}

type Service struct {
	Name  string
	Ports []*Port
}

// Port is one SOAP endpoint with the operations of its binding, grouped into
// overload sets by operation name.
type Port struct {
	Name     string
	Location string
	Binding  string

	Operations map[string]*soap.OverloadSet
	Order      []string

	parts map[*soap.Operation]Signature
}

// Part describes a message part or a wrapped child element.
type Part struct {
	Name string
	Type string

	// Namespace qualifies Type.
	Namespace string

	Repeated bool
}

// Type is a named complex type: an ordered list of child elements, or a
// SOAP encoded array of Item.
type Type struct {
	Name      string
	Namespace string

	Fields []Part
	Item   *Part
}

// Field returns the child element called name.
func (t *Type) Field(name string) (Part, bool) {
	if t == nil {
		return Part{}, false
	}

	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return Part{}, false
}

// Kind maps the part type onto a JSON value kind: integer, number, boolean,
// string, array or object.
func (p Part) Kind() string {
	if p.Repeated {
		return "array"
	}

	return ItemKind(p.Type)
}

// ItemKind maps an XSD type name onto a JSON value kind, ignoring repetition.
func ItemKind(t string) string {
	switch t {
	case "int", "integer", "long", "short", "byte", "nonNegativeInteger", "positiveInteger", "negativeInteger", "nonPositiveInteger",
		"unsignedInt", "unsignedLong", "unsignedShort", "unsignedByte":
		return "integer"

	case "double", "float", "decimal":
		return "number"

	case "boolean":
		return "boolean"

	case "", "string", "normalizedString", "token", "anyURI", "QName", "NCName", "Name", "ID", "language",
		"date", "dateTime", "time", "duration", "gYear", "gYearMonth", "gMonth", "gMonthDay", "gDay",
		"base64Binary", "hexBinary", "anyType", "anySimpleType":
		return "string"
	}

	return "object"
}

type Signature struct {
	Input  []Part
	Output []Part

	// Encoded is set for use="encoded" request bodies.
	Encoded       bool
	EncodingStyle string
}

func Parse(data []byte) (*Definitions, error) {
	var raw definitions

	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid wsdl document: %w", err)
	}

	raw.scope = scope(nil).with(raw.Attrs)

	for i := range raw.Schemas {
		raw.Schemas[i].scope = raw.scope.with(raw.Schemas[i].Attrs)
	}

	d := &Definitions{
		Name:            raw.Name,
		TargetNamespace: raw.TargetNamespace,

		Types: raw.types(),
	}

	for _, s := range raw.Services {
		svc := &Service{
			Name: s.Name,
		}

		for _, p := range s.Ports {
			b := raw.binding(local(p.Binding))

			if b == nil || b.SOAP == nil {
				slog.Debug("skipping non soap 1.1 port", "service", s.Name, "port", p.Name)
				continue
			}

			port, err := raw.port(p, b, d.Types)

			if err != nil {
				return nil, err
			}

			svc.Ports = append(svc.Ports, port)
		}

		d.Services = append(d.Services, svc)
	}

	if len(d.Services) == 0 {
		return nil, fmt.Errorf("wsdl document declares no service")
	}

	return d, nil
}

// Type returns the complex type with the given local name.
func (d *Definitions) Type(name string) (*Type, bool) {
	t, ok := d.Types[name]
	return t, ok
}

// Service returns the named service, or the first one when name is empty.
func (d *Definitions) Service(name string) (*Service, error) {
	for _, s := range d.Services {
		if name == "" || s.Name == name {
			return s, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrNoService, name)
}

// Port returns the named port, or the first one when name is empty.
func (s *Service) Port(name string) (*Port, error) {
	for _, p := range s.Ports {
		if name == "" || p.Name == name {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: %q in service %q", ErrNoPort, name, s.Name)
}

func (p *Port) Operation(name string) (*soap.OverloadSet, bool) {
	set, ok := p.Operations[name]
	return set, ok
}

// Sets returns the overload sets in declaration order.
func (p *Port) Sets() []*soap.OverloadSet {
	result := make([]*soap.OverloadSet, 0, len(p.Order))

	for _, name := range p.Order {
		result = append(result, p.Operations[name])
	}

	return result
}

func (p *Port) Signature(op *soap.Operation) Signature {
	return p.parts[op]
}

func (d *definitions) binding(name string) *binding {
	for i := range d.Bindings {
		if d.Bindings[i].Name == name {
			return &d.Bindings[i]
		}
	}

	return nil
}

func (d *definitions) portType(name string) *portType {
	for i := range d.PortTypes {
		if d.PortTypes[i].Name == name {
			return &d.PortTypes[i]
		}
	}

	return nil
}

func (d *definitions) message(name string) *message {
	for i := range d.Messages {
		if d.Messages[i].Name == name {
			return &d.Messages[i]
		}
	}

	return nil
}

func (d *definitions) element(name string) (*element, *schema) {
	for i := range d.Schemas {
		s := &d.Schemas[i]

		for j := range s.Elements {
			if s.Elements[j].Name == name {
				return &s.Elements[j], s
			}
		}
	}

	return nil, nil
}

func (d *definitions) complexType(name string) (*complexType, *schema) {
	for i := range d.Schemas {
		s := &d.Schemas[i]

		for j := range s.ComplexTypes {
			if s.ComplexTypes[j].Name == name {
				return &s.ComplexTypes[j], s
			}
		}
	}

	return nil, nil
}

// types collects the named complex types. The first declaration of a local
// name wins.
func (d *definitions) types() map[string]*Type {
	result := map[string]*Type{}

	for _, s := range d.Schemas {
		for _, ct := range s.ComplexTypes {
			if _, ok := result[ct.Name]; ok {
				continue
			}

			t := &Type{
				Name:      ct.Name,
				Namespace: s.TargetNamespace,

				Fields: fields(&ct, s.scope),
			}

			if r := ct.Restriction; r != nil {
				t.Item = arrayItem(r, s.scope)
			}

			result[ct.Name] = t
		}
	}

	return result
}

func fields(ct *complexType, sc scope) []Part {
	var result []Part

	for _, c := range ct.children() {
		result = append(result, elementPart(c, sc))
	}

	return result
}

func elementPart(e element, sc scope) Part {
	namespace, name := sc.resolve(e.Type)

	return Part{
		Name: e.name(),
		Type: name,

		Namespace: namespace,

		Repeated: e.MaxOccurs != "" && e.MaxOccurs != "0" && e.MaxOccurs != "1",
	}
}

// arrayItem returns the member type of an array restriction, declared either
// by a wsdl:arrayType attribute or by a single repeated child element.
func arrayItem(r *restriction, sc scope) *Part {
	for _, a := range r.Attributes {
		if a.ArrayType == "" {
			continue
		}

		qname, _, _ := strings.Cut(a.ArrayType, "[")
		namespace, name := sc.resolve(qname)

		return &Part{Name: "item", Type: name, Namespace: namespace}
	}

	if len(r.Sequence) == 1 {
		p := elementPart(r.Sequence[0], sc)
		return &p
	}

	return nil
}

func (d *definitions) port(p port, b *binding, types map[string]*Type) (*Port, error) {
	pt := d.portType(local(b.Type))

	if pt == nil {
		return nil, fmt.Errorf("binding %q references unknown port type %q", b.Name, b.Type)
	}

	result := &Port{
		Name:    p.Name,
		Binding: b.Name,

		Operations: map[string]*soap.OverloadSet{},

		parts: map[*soap.Operation]Signature{},
	}

	if p.Address != nil {
		result.Location = p.Address.Location
	}

	seen := map[string]int{}
	members := map[string][]*soap.Operation{}

	for _, bo := range b.Operations {
		occurrence := seen[bo.Name]
		seen[bo.Name]++

		ptOp := pt.operation(bo, occurrence)

		if ptOp == nil {
			return nil, fmt.Errorf("binding operation %q has no matching port type operation", bo.Name)
		}

		op, sig, err := d.operation(b, bo, ptOp, types)

		if err != nil {
			return nil, err
		}

		if _, ok := members[op.Name]; !ok {
			result.Order = append(result.Order, op.Name)
		}

		members[op.Name] = append(members[op.Name], op)
		result.parts[op] = sig
	}

	for _, name := range result.Order {
		result.Operations[name] = soap.NewOverloadSet(name, members[name]...)
	}

	for _, name := range result.Order {
		if err := result.Operations[name].Validate(); err != nil {
			slog.Warn("overloaded operation cannot be resolved by keyword", "port", p.Name, "error", err)
		}
	}

	return result, nil
}

// operation pairs a binding operation with its port type declaration: by
// input name when both sides carry one, else by position among equally named
// operations.
func (pt *portType) operation(bo bindingOperation, occurrence int) *portTypeOperation {
	if bo.Input != nil && bo.Input.Name != "" {
		for i, o := range pt.Operations {
			if o.Name == bo.Name && o.Input != nil && o.Input.Name == bo.Input.Name {
				return &pt.Operations[i]
			}
		}
	}

	n := 0

	for i, o := range pt.Operations {
		if o.Name != bo.Name {
			continue
		}

		if n == occurrence {
			return &pt.Operations[i]
		}

		n++
	}

	return nil
}

func (d *definitions) operation(b *binding, bo bindingOperation, ptOp *portTypeOperation, types map[string]*Type) (*soap.Operation, Signature, error) {
	op := &soap.Operation{
		Name: bo.Name,

		Namespace: d.TargetNamespace,
		Style:     soap.StyleDocument,
	}

	if b.SOAP.Style != "" {
		op.Style = soap.Style(b.SOAP.Style)
	}

	if bo.SOAP != nil {
		op.Action = bo.SOAP.Action

		if bo.SOAP.Style != "" {
			op.Style = soap.Style(bo.SOAP.Style)
		}
	}

	var sig Signature

	if bo.Input != nil && bo.Input.Body != nil {
		body := bo.Input.Body

		if body.Namespace != "" {
			op.Namespace = body.Namespace
		}

		if body.Use == "encoded" {
			sig.Encoded = true
			sig.EncodingStyle = body.EncodingStyle

			if sig.EncodingStyle == "" {
				sig.EncodingStyle = NamespaceEncoding
			}
		}
	}

	if ptOp.Input != nil {
		op.Accepts = local(ptOp.Input.Message)

		m := d.message(op.Accepts)

		if m == nil {
			return nil, sig, fmt.Errorf("operation %q references unknown message %q", op.Name, ptOp.Input.Message)
		}

		parts, wrapper, namespace := d.parts(m, types)

		sig.Input = parts

		if op.Style == soap.StyleDocument && wrapper != "" {
			op.Element = wrapper

			if namespace != "" {
				op.Namespace = namespace
			}
		}
	}

	if ptOp.Output != nil {
		op.Returns = local(ptOp.Output.Message)

		m := d.message(op.Returns)

		if m == nil {
			return nil, sig, fmt.Errorf("operation %q references unknown message %q", op.Name, ptOp.Output.Message)
		}

		sig.Output, _, _ = d.parts(m, types)
	}

	for _, p := range sig.Input {
		op.Input = append(op.Input, p.Name)
	}

	for _, p := range sig.Output {
		op.Output = append(op.Output, p.Name)
	}

	return op, sig, nil
}

// parts lists the parts of a message. A single element part whose element is
// a declared complex type is unwrapped into its child elements, and the
// wrapper element name and namespace are returned alongside.
func (d *definitions) parts(m *message, types map[string]*Type) ([]Part, string, string) {
	if len(m.Parts) == 1 && m.Parts[0].Element != "" {
		name := local(m.Parts[0].Element)

		if e, s := d.element(name); e != nil {
			ct, sc := e.ComplexType, s.scope

			if ct == nil && e.Type != "" {
				if named, owner := d.complexType(local(e.Type)); named != nil {
					ct, sc = named, owner.scope
				}
			}

			if ct != nil {
				return fields(ct, sc), name, s.TargetNamespace
			}
		}
	}

	var result []Part

	for _, p := range m.Parts {
		qname := p.Type

		if qname == "" {
			qname = p.Element
		}

		namespace, name := d.scope.resolve(qname)

		repeated := strings.HasPrefix(name, "ArrayOf")

		if t, ok := types[name]; ok && t.Item != nil {
			repeated = true
		}

		result = append(result, Part{
			Name: p.Name,
			Type: name,

			Namespace: namespace,

			Repeated: repeated,
		})
	}

	return result, "", ""
}

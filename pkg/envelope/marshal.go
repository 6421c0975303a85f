package envelope

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/adrianliechti/wingman-soap/pkg/soap"
	"github.com/adrianliechti/wingman-soap/pkg/wsdl"
)

const (
	NamespaceEnvelope = "http://schemas.xmlsoap.org/soap/envelope/"
	NamespaceInstance = "http://www.w3.org/2001/XMLSchema-instance"
)

// Types looks up complex types by local name.
type Types interface {
	Type(name string) (*wsdl.Type, bool)
}

type encoder struct {
	pretty bool

	signature *wsdl.Signature
	types     Types

	enc      *xml.Encoder
	prefixes map[string]string
}

type Option func(*encoder)

func WithPretty() Option {
	return func(e *encoder) {
		e.pretty = true
	}
}

// WithSchema describes the parts of the call. Structured values follow the
// declared child order, and encoded signatures get xsi:type and
// soapenc:arrayType attributes.
func WithSchema(signature wsdl.Signature, types Types) Option {
	return func(e *encoder) {
		e.signature = &signature
		e.types = types
	}
}

// Marshal renders a resolved call as a SOAP 1.1 request envelope. The body
// wrapper is qualified by the operation namespace, parts are unqualified and
// follow the bound order.
func Marshal(call *soap.Call, options ...Option) ([]byte, error) {
	e := &encoder{}

	for _, o := range options {
		o(e)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	e.enc = xml.NewEncoder(&buf)

	if e.pretty {
		e.enc.Indent("", "  ")
	}

	envelope := xml.StartElement{
		Name: xml.Name{Local: "soap:Envelope"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns:soap"}, Value: NamespaceEnvelope},
			{Name: xml.Name{Local: "xmlns:xsi"}, Value: NamespaceInstance},
		},
	}

	if e.encoded() {
		envelope.Attr = append(envelope.Attr, e.declare(call.Operation.Namespace)...)
	}

	body := xml.StartElement{
		Name: xml.Name{Local: "soap:Body"},
	}

	wrapper := xml.StartElement{
		Name: xml.Name{Local: call.Operation.Wrapper()},
	}

	if ns := call.Operation.Namespace; ns != "" {
		wrapper.Name.Local = "ns0:" + wrapper.Name.Local
		wrapper.Attr = append(wrapper.Attr, xml.Attr{Name: xml.Name{Local: "xmlns:ns0"}, Value: ns})
	}

	if e.encoded() {
		wrapper.Attr = append(wrapper.Attr, xml.Attr{Name: xml.Name{Local: "soap:encodingStyle"}, Value: e.signature.EncodingStyle})
	}

	for _, start := range []xml.StartElement{envelope, body, wrapper} {
		if err := e.enc.EncodeToken(start); err != nil {
			return nil, err
		}
	}

	for _, p := range call.Args {
		if err := e.value(p.Name, e.part(p.Name), p.Value); err != nil {
			return nil, fmt.Errorf("part %q: %w", p.Name, err)
		}
	}

	for _, start := range []xml.StartElement{wrapper, body, envelope} {
		if err := e.enc.EncodeToken(start.End()); err != nil {
			return nil, err
		}
	}

	if err := e.enc.Flush(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *encoder) encoded() bool {
	return e.signature != nil && e.signature.Encoded
}

// part returns the declared input part called name.
func (e *encoder) part(name string) *wsdl.Part {
	if e.signature == nil {
		return nil
	}

	for i := range e.signature.Input {
		if e.signature.Input[i].Name == name {
			return &e.signature.Input[i]
		}
	}

	return nil
}

func (e *encoder) complexType(p *wsdl.Part) *wsdl.Type {
	if p == nil || e.types == nil {
		return nil
	}

	t, _ := e.types.Type(p.Type)
	return t
}

// declare assigns a prefix to every namespace the input parts can refer to
// and returns the matching xmlns attributes. The operation namespace keeps
// ns0, which the wrapper declares.
func (e *encoder) declare(operation string) []xml.Attr {
	e.prefixes = map[string]string{
		wsdl.NamespaceSchema:   "xsd",
		wsdl.NamespaceEncoding: "soapenc",
	}

	if operation != "" {
		e.prefixes[operation] = "ns0"
	}

	seen := map[string]bool{}
	var namespaces []string

	var walk func(p *wsdl.Part)

	walk = func(p *wsdl.Part) {
		if p == nil {
			return
		}

		if _, ok := e.prefixes[p.Namespace]; !ok && p.Namespace != "" && !slices.Contains(namespaces, p.Namespace) {
			namespaces = append(namespaces, p.Namespace)
		}

		t := e.complexType(p)

		if t == nil || seen[t.Name] {
			return
		}

		seen[t.Name] = true

		if _, ok := e.prefixes[t.Namespace]; !ok && t.Namespace != "" && !slices.Contains(namespaces, t.Namespace) {
			namespaces = append(namespaces, t.Namespace)
		}

		for i := range t.Fields {
			walk(&t.Fields[i])
		}

		walk(t.Item)
	}

	for i := range e.signature.Input {
		walk(&e.signature.Input[i])
	}

	slices.Sort(namespaces)

	for i, ns := range namespaces {
		e.prefixes[ns] = "ns" + strconv.Itoa(i+1)
	}

	attrs := []xml.Attr{
		{Name: xml.Name{Local: "xmlns:xsd"}, Value: wsdl.NamespaceSchema},
		{Name: xml.Name{Local: "xmlns:soapenc"}, Value: wsdl.NamespaceEncoding},
	}

	for _, ns := range namespaces {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "xmlns:" + e.prefixes[ns]}, Value: ns})
	}

	return attrs
}

func (e *encoder) qname(namespace, name string) string {
	if prefix, ok := e.prefixes[namespace]; ok {
		return prefix + ":" + name
	}

	return name
}

func (e *encoder) typeName(p *wsdl.Part) string {
	return e.qname(p.Namespace, p.Type)
}

func (e *encoder) setType(start *xml.StartElement, typ string) {
	if !e.encoded() || typ == "" {
		return
	}

	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "xsi:type"}, Value: typ})
}

func (e *encoder) value(name string, p *wsdl.Part, value any) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}

	if soap.IsAbsent(value) {
		return nil
	}

	if text, typ, ok := scalar(value); ok {
		if p != nil && p.Type != "" {
			typ = e.typeName(p)
		} else {
			typ = "xsd:" + typ
		}

		e.setType(&start, typ)

		return e.text(start, text)
	}

	v := reflect.ValueOf(value)

	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}

		return e.value(name, p, v.Elem().Interface())
	}

	if s, ok := value.(fmt.Stringer); ok {
		if p != nil && p.Type != "" {
			e.setType(&start, e.typeName(p))
		}

		return e.text(start, s.String())
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return e.array(start, p, v)

	case reflect.Map, reflect.Struct:
		children, err := members(v)

		if err != nil {
			return err
		}

		return e.structure(start, p, children)
	}

	return fmt.Errorf("unsupported value type %T", value)
}

func (e *encoder) array(start xml.StartElement, p *wsdl.Part, v reflect.Value) error {
	var item *wsdl.Part

	if t := e.complexType(p); t != nil && t.Item != nil {
		item = t.Item
	} else if p != nil && p.Repeated && p.Type != "" {
		item = &wsdl.Part{Name: "item", Type: p.Type, Namespace: p.Namespace}
	}

	if e.encoded() {
		arrayType := "xsd:anyType"

		if item != nil {
			arrayType = e.typeName(item)
		}

		typ := "soapenc:Array"

		if p != nil && p.Type != "" && (item == nil || item.Type != p.Type) {
			typ = e.typeName(p)
		}

		e.setType(&start, typ)

		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: "soapenc:arrayType"},
			Value: arrayType + "[" + strconv.Itoa(v.Len()) + "]",
		})
	}

	if err := e.enc.EncodeToken(start); err != nil {
		return err
	}

	for i := range v.Len() {
		if err := e.value("item", item, v.Index(i).Interface()); err != nil {
			return err
		}
	}

	return e.enc.EncodeToken(start.End())
}

// structure writes the children of a map or struct value. Children declared
// by the complex type come first in declaration order, the rest keep their
// own order.
func (e *encoder) structure(start xml.StartElement, p *wsdl.Part, children []member) error {
	t := e.complexType(p)

	if t != nil {
		e.setType(&start, e.qname(t.Namespace, t.Name))

		slices.SortStableFunc(children, func(a, b member) int {
			return position(t, a.name) - position(t, b.name)
		})
	}

	if err := e.enc.EncodeToken(start); err != nil {
		return err
	}

	for _, c := range children {
		var field *wsdl.Part

		if f, ok := t.Field(c.name); ok {
			field = &f
		}

		if err := e.value(c.name, field, c.value); err != nil {
			return err
		}
	}

	return e.enc.EncodeToken(start.End())
}

func position(t *wsdl.Type, name string) int {
	for i, f := range t.Fields {
		if f.Name == name {
			return i
		}
	}

	return len(t.Fields)
}

func (e *encoder) text(start xml.StartElement, text string) error {
	if err := e.enc.EncodeToken(start); err != nil {
		return err
	}

	if err := e.enc.EncodeToken(xml.CharData(text)); err != nil {
		return err
	}

	return e.enc.EncodeToken(start.End())
}

type member struct {
	name  string
	value any
}

// members lists map entries by key or exported struct fields in declaration
// order. Struct fields honour the name of their xml tag, "-" and omitempty.
func members(v reflect.Value) ([]member, error) {
	var result []member

	if v.Kind() == reflect.Map {
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type %s", v.Type().Key())
		}

		keys := make([]string, 0, v.Len())

		for _, k := range v.MapKeys() {
			keys = append(keys, k.String())
		}

		slices.Sort(keys)

		for _, k := range keys {
			item := v.MapIndex(reflect.ValueOf(k).Convert(v.Type().Key()))
			result = append(result, member{name: k, value: item.Interface()})
		}

		return result, nil
	}

	for i := range v.NumField() {
		f := v.Type().Field(i)

		if !f.IsExported() {
			continue
		}

		name, opts, _ := strings.Cut(f.Tag.Get("xml"), ",")

		if name == "-" || strings.Contains(opts, "attr") {
			continue
		}

		field := v.Field(i)

		if f.Anonymous && name == "" && field.Kind() == reflect.Struct {
			embedded, err := members(field)

			if err != nil {
				return nil, err
			}

			result = append(result, embedded...)
			continue
		}

		if strings.Contains(opts, "omitempty") && field.IsZero() {
			continue
		}

		if name == "" {
			name = f.Name
		}

		result = append(result, member{name: name, value: field.Interface()})
	}

	return result, nil
}

// scalar formats simple values and names their XML schema type.
func scalar(value any) (string, string, bool) {
	switch v := value.(type) {
	case string:
		return v, "string", true
	case bool:
		return strconv.FormatBool(v), "boolean", true
	case int:
		return strconv.FormatInt(int64(v), 10), "long", true
	case int8:
		return strconv.FormatInt(int64(v), 10), "byte", true
	case int16:
		return strconv.FormatInt(int64(v), 10), "short", true
	case int32:
		return strconv.FormatInt(int64(v), 10), "int", true
	case int64:
		return strconv.FormatInt(v, 10), "long", true
	case uint:
		return strconv.FormatUint(uint64(v), 10), "unsignedLong", true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), "unsignedByte", true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), "unsignedShort", true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), "unsignedInt", true
	case uint64:
		return strconv.FormatUint(v, 10), "unsignedLong", true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), "float", true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), "double", true
	case time.Time:
		return v.Format(time.RFC3339), "dateTime", true
	case []byte:
		return base64.StdEncoding.EncodeToString(v), "base64Binary", true
	}

	return "", "", false
}

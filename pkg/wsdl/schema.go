package wsdl

import (
	"encoding/xml"
	"maps"
	"strings"
)

type definitions struct {
	XMLName xml.Name `xml:"definitions"`

	Name            string `xml:"name,attr"`
	TargetNamespace string `xml:"targetNamespace,attr"`

	Schemas []schema `xml:"types>schema"`

	Messages  []message  `xml:"message"`
	PortTypes []portType `xml:"portType"`
	Bindings  []binding  `xml:"binding"`
	Services  []service  `xml:"service"`

	Attrs []xml.Attr `xml:",any,attr"`

	scope scope
}

type message struct {
	Name  string `xml:"name,attr"`
	Parts []part `xml:"part"`
}

type part struct {
	Name    string `xml:"name,attr"`
	Type    string `xml:"type,attr"`
	Element string `xml:"element,attr"`
}

type portType struct {
	Name       string              `xml:"name,attr"`
	Operations []portTypeOperation `xml:"operation"`
}

type portTypeOperation struct {
	Name string `xml:"name,attr"`

	Input  *messageRef `xml:"input"`
	Output *messageRef `xml:"output"`
}

type messageRef struct {
	Name    string `xml:"name,attr"`
	Message string `xml:"message,attr"`
}

type binding struct {
	Name string `xml:"name,attr"`
	Type string `xml:"type,attr"`

	SOAP *soapBinding `xml:"http://schemas.xmlsoap.org/wsdl/soap/ binding"`

	Operations []bindingOperation `xml:"operation"`
}

type soapBinding struct {
	Style     string `xml:"style,attr"`
	Transport string `xml:"transport,attr"`
}

type bindingOperation struct {
	Name string `xml:"name,attr"`

	SOAP *soapOperation `xml:"http://schemas.xmlsoap.org/wsdl/soap/ operation"`

	Input  *bindingMessage `xml:"input"`
	Output *bindingMessage `xml:"output"`
}

type soapOperation struct {
	Action string `xml:"soapAction,attr"`
	Style  string `xml:"style,attr"`
}

type bindingMessage struct {
	Name string `xml:"name,attr"`

	Body *soapBody `xml:"http://schemas.xmlsoap.org/wsdl/soap/ body"`
}

type soapBody struct {
	Use           string `xml:"use,attr"`
	Namespace     string `xml:"namespace,attr"`
	EncodingStyle string `xml:"encodingStyle,attr"`
}

type service struct {
	Name  string `xml:"name,attr"`
	Ports []port `xml:"port"`
}

type port struct {
	Name    string `xml:"name,attr"`
	Binding string `xml:"binding,attr"`

	Address *soapAddress `xml:"http://schemas.xmlsoap.org/wsdl/soap/ address"`
}

type soapAddress struct {
	Location string `xml:"location,attr"`
}

type schema struct {
	TargetNamespace string `xml:"targetNamespace,attr"`

	Elements     []element     `xml:"element"`
	ComplexTypes []complexType `xml:"complexType"`

	Attrs []xml.Attr `xml:",any,attr"`

	scope scope
}

type element struct {
	Name string `xml:"name,attr"`
	Type string `xml:"type,attr"`
	Ref  string `xml:"ref,attr"`

	MaxOccurs string `xml:"maxOccurs,attr"`

	ComplexType *complexType `xml:"complexType"`
}

type complexType struct {
	Name string `xml:"name,attr"`

	Sequence []element `xml:"sequence>element"`
	All      []element `xml:"all>element"`

	Restriction *restriction `xml:"complexContent>restriction"`
}

type restriction struct {
	Base string `xml:"base,attr"`

	Sequence   []element   `xml:"sequence>element"`
	Attributes []attribute `xml:"attribute"`
}

type attribute struct {
	Ref       string `xml:"ref,attr"`
	ArrayType string `xml:"http://schemas.xmlsoap.org/wsdl/ arrayType,attr"`
}

func (e element) name() string {
	if e.Name != "" {
		return e.Name
	}

	return local(e.Ref)
}

func (c *complexType) children() []element {
	if c == nil {
		return nil
	}

	return append(append([]element{}, c.Sequence...), c.All...)
}

// scope maps namespace prefixes to namespace names; "" is the default
// namespace.
type scope map[string]string

func (s scope) with(attrs []xml.Attr) scope {
	result := maps.Clone(s)

	if result == nil {
		result = scope{}
	}

	for _, a := range attrs {
		switch {
		case a.Name.Space == "xmlns":
			result[a.Name.Local] = a.Value
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			result[""] = a.Value
		}
	}

	return result
}

// resolve splits a qualified name into its namespace and local name.
func (s scope) resolve(qname string) (string, string) {
	if qname == "" {
		return "", ""
	}

	prefix, name, ok := strings.Cut(qname, ":")

	if !ok {
		return s[""], qname
	}

	return s[prefix], name
}

// local strips the namespace prefix of a qualified name.
func local(qname string) string {
	if i := strings.LastIndex(qname, ":"); i >= 0 {
		return qname[i+1:]
	}

	return qname
}

package envelope

import (
	"encoding/xml"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/adrianliechti/wingman-soap/pkg/soap"
)

var ErrNoBody = errors.New("envelope has no body")

// Fault is a SOAP 1.1 fault returned by the service.
type Fault struct {
	Code   string
	String string
	Actor  string

	Detail any
}

func (f *Fault) Error() string {
	return fmt.Sprintf("soap fault %s: %s", f.Code, f.String)
}

// Response carries the output parts of a reply, in output declaration order
// with undeclared parts appended in document order.
type Response struct {
	Operation *soap.Operation

	Parts soap.Bound
	Fault *Fault

	Raw []byte
}

// Value returns the sole part value, a map of all parts, or nil when the
// reply has none.
func (r *Response) Value() any {
	switch len(r.Parts) {
	case 0:
		return nil
	case 1:
		return r.Parts[0].Value
	default:
		return r.Parts.Map()
	}
}

type node struct {
	XMLName xml.Name

	Attrs []xml.Attr `xml:",any,attr"`
	Text  string     `xml:",chardata"`

	Children []node `xml:",any"`
}

type envelopeXML struct {
	XMLName xml.Name `xml:"Envelope"`

	Body struct {
		Content []node `xml:",any"`
	} `xml:"Body"`
}

// Unmarshal decodes a reply envelope for op. A fault in the body is returned
// as a *Fault error.
func Unmarshal(data []byte, op *soap.Operation) (*Response, error) {
	var env envelopeXML

	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("invalid soap envelope: %w", err)
	}

	if len(env.Body.Content) == 0 {
		if op != nil && len(op.Output) == 0 {
			return &Response{Operation: op, Raw: data}, nil
		}

		return nil, ErrNoBody
	}

	reply := env.Body.Content[0]

	if reply.XMLName.Local == "Fault" {
		return nil, fault(reply)
	}

	return &Response{
		Operation: op,

		Parts: parts(reply, op),

		Raw: data,
	}, nil
}

func fault(n node) *Fault {
	f := &Fault{}

	for _, c := range n.Children {
		switch c.XMLName.Local {
		case "faultcode":
			f.Code = strings.TrimSpace(c.Text)
		case "faultstring":
			f.String = strings.TrimSpace(c.Text)
		case "faultactor":
			f.Actor = strings.TrimSpace(c.Text)
		case "detail":
			f.Detail = value(c)
		}
	}

	return f
}

func parts(reply node, op *soap.Operation) soap.Bound {
	var result soap.Bound

	index := map[string]int{}
	repeated := map[string]bool{}

	for _, c := range reply.Children {
		name := c.XMLName.Local
		v := value(c)

		if i, ok := index[name]; ok {
			result[i].Value = appendValue(result[i].Value, v, repeated[name])
			repeated[name] = true
			continue
		}

		index[name] = len(result)
		result = append(result, soap.Part{Name: name, Value: v})
	}

	if op == nil {
		return result
	}

	rank := func(name string) int {
		if i := slices.Index(op.Output, name); i >= 0 {
			return i
		}

		return len(op.Output)
	}

	slices.SortStableFunc(result, func(a, b soap.Part) int {
		return rank(a.Name) - rank(b.Name)
	})

	return result
}

func appendValue(existing, v any, repeated bool) any {
	if repeated {
		return append(existing.([]any), v)
	}

	return []any{existing, v}
}

// value converts an element into a string, a nil for xsi:nil, a []any when
// all children share one name, or a map of child names.
func value(n node) any {
	for _, a := range n.Attrs {
		if a.Name.Local == "nil" && (a.Value == "true" || a.Value == "1") {
			return nil
		}
	}

	if len(n.Children) == 0 {
		return n.Text
	}

	if isList(n) {
		list := make([]any, 0, len(n.Children))

		for _, c := range n.Children {
			list = append(list, value(c))
		}

		return list
	}

	result := map[string]any{}
	repeated := map[string]bool{}

	for _, c := range n.Children {
		v := value(c)

		if existing, ok := result[c.XMLName.Local]; ok {
			result[c.XMLName.Local] = appendValue(existing, v, repeated[c.XMLName.Local])
			repeated[c.XMLName.Local] = true
			continue
		}

		result[c.XMLName.Local] = v
	}

	return result
}

func isList(n node) bool {
	if len(n.Children) < 2 && (len(n.Children) == 0 || n.Children[0].XMLName.Local != "item") {
		return false
	}

	name := n.Children[0].XMLName.Local

	for _, c := range n.Children[1:] {
		if c.XMLName.Local != name {
			return false
		}
	}

	return true
}

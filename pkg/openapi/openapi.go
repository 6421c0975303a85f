package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/invopop/yaml"

	"github.com/adrianliechti/wingman-soap/pkg/client"
	"github.com/adrianliechti/wingman-soap/pkg/soap"
	catalog "github.com/adrianliechti/wingman-soap/pkg/tool/soap"
	"github.com/adrianliechti/wingman-soap/pkg/wsdl"
)

var ErrUnknownFormat = errors.New("unknown format")

// Export describes every overload member of the bound port as a JSON
// operation: POST /{operation}, or /{operation}/{index} when overloaded.
func Export(c *client.Client, title string) *openapi3.T {
	port := c.Port()

	if title == "" {
		title = port.Name
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",

		Info: &openapi3.Info{
			Title:       title,
			Version:     "1.0.0",
			Description: fmt.Sprintf("JSON facade of the SOAP port %s.", port.Name),
		},

		Paths: openapi3.NewPaths(),
	}

	if url := c.URL(); url != "" {
		doc.Servers = openapi3.Servers{
			&openapi3.Server{URL: url},
		}
	}

	for _, o := range catalog.New(c).Operations() {
		set, ok := port.Operation(o.Operation)

		if !ok {
			continue
		}

		op := set.Members()[o.Index]
		sig := port.Signature(op)

		path := "/" + o.Operation

		if set.Overloaded() {
			path = fmt.Sprintf("/%s/%d", o.Operation, o.Index)
		}

		operation := openapi3.NewOperation()
		operation.OperationID = o.Name
		operation.Summary = op.String()
		operation.Description = o.Description

		operation.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithRequired(true).
				WithJSONSchema(requestSchema(sig.Input)),
		}

		operation.Responses = openapi3.NewResponses(
			openapi3.WithStatus(200, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription(responseDescription(op)).
					WithJSONSchema(responseSchema(sig.Output)),
			}),
		)

		doc.AddOperation(path, "POST", operation)
	}

	return doc
}

// Marshal encodes doc as json or yaml.
func Marshal(doc *openapi3.T, format string) ([]byte, error) {
	data, err := doc.MarshalJSON()

	if err != nil {
		return nil, err
	}

	switch strings.ToLower(format) {
	case "", "json":
		var val any

		if err := json.Unmarshal(data, &val); err != nil {
			return nil, err
		}

		return json.MarshalIndent(val, "", "  ")

	case "yaml", "yml":
		return yaml.JSONToYAML(data)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func requestSchema(parts []wsdl.Part) *openapi3.Schema {
	schema := openapi3.NewObjectSchema().WithoutAdditionalProperties()

	for _, p := range parts {
		schema.WithProperty(p.Name, partSchema(p))
	}

	return schema
}

// responseSchema follows envelope.Response.Value: a single part is
// returned bare, several as an object. Leaf values are decoded as text.
func responseSchema(parts []wsdl.Part) *openapi3.Schema {
	if len(parts) == 1 {
		return valueSchema(parts[0])
	}

	schema := openapi3.NewObjectSchema()

	for _, p := range parts {
		schema.WithProperty(p.Name, valueSchema(p))
	}

	return schema
}

func responseDescription(op *soap.Operation) string {
	if op.Returns == "" {
		return "OK"
	}

	return "Contents of " + op.Returns
}

func partSchema(p wsdl.Part) *openapi3.Schema {
	if p.Repeated {
		return openapi3.NewArraySchema().WithItems(kindSchema(wsdl.ItemKind(p.Type)))
	}

	schema := kindSchema(p.Kind())

	if p.Type != "" {
		schema.Description = "XML schema type " + p.Type
	}

	return schema
}

func valueSchema(p wsdl.Part) *openapi3.Schema {
	kind := p.Kind()

	if p.Repeated {
		kind = wsdl.ItemKind(p.Type)
	}

	item := openapi3.NewStringSchema()

	if kind == "object" {
		item = openapi3.NewObjectSchema().WithAnyAdditionalProperties()
	}

	if p.Repeated {
		return openapi3.NewArraySchema().WithItems(item)
	}

	return item
}

func kindSchema(kind string) *openapi3.Schema {
	switch kind {
	case "integer":
		return openapi3.NewIntegerSchema()
	case "number":
		return openapi3.NewFloat64Schema()
	case "boolean":
		return openapi3.NewBoolSchema()
	case "object":
		return openapi3.NewObjectSchema().WithAnyAdditionalProperties()
	default:
		return openapi3.NewStringSchema()
	}
}

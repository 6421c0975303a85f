package soap

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/adrianliechti/wingman-soap/pkg/client"
	"github.com/adrianliechti/wingman-soap/pkg/tool"
	"github.com/adrianliechti/wingman-soap/pkg/wsdl"
)

func New(client *client.Client) *Catalog {
	return &Catalog{
		client: client,

		operations: getOperations(client.Port()),
	}
}

var (
	_ tool.Provider = (*Catalog)(nil)
)

type Catalog struct {
	client *client.Client

	operations []Operation
}

func (c *Catalog) Operations() []Operation {
	return c.operations
}

func (c *Catalog) Tools(ctx context.Context) ([]tool.Tool, error) {
	var tools []tool.Tool

	for _, o := range c.operations {
		tool := tool.Tool{
			Name:        o.Name,
			Description: o.Description,

			Schema: o.Schema,

			Execute: func(ctx context.Context, args map[string]any) (any, error) {
				return o.Execute(ctx, c.client, args)
			},
		}

		tools = append(tools, tool)
	}

	return tools, nil
}

// getOperations lists one operation per overload member, in declaration order.
func getOperations(port *wsdl.Port) []Operation {
	var result []Operation

	for _, set := range port.Sets() {
		for i, op := range set.Members() {
			name := ToolName(set.Name())

			description := fmt.Sprintf("Calls the SOAP operation %s", set.Name())

			if set.Overloaded() {
				name = fmt.Sprintf("%s_%d", name, i)
				description += fmt.Sprintf(" (overload %d of %d, request message %s)", i+1, set.Len(), op.Accepts)
			}

			description += "."

			if len(op.Output) > 0 {
				description += " Returns " + strings.Join(op.Output, ", ") + "."
			}

			sig := port.Signature(op)

			properties := map[string]any{}

			for _, p := range sig.Input {
				properties[p.Name] = Schema(p)
			}

			schema := map[string]any{
				"type": "object",

				"properties": properties,

				"additionalProperties": false,
			}

			result = append(result, Operation{
				Name:        name,
				Description: description,

				Operation: set.Name(),
				Index:     i,

				Schema: schema,
			})
		}
	}

	return result
}

// Schema returns the JSON schema of a part.
func Schema(p wsdl.Part) map[string]any {
	if p.Repeated {
		return map[string]any{
			"type":  "array",
			"items": map[string]any{"type": wsdl.ItemKind(p.Type)},
		}
	}

	schema := map[string]any{
		"type": p.Kind(),
	}

	if p.Type != "" {
		schema["description"] = "XML schema type " + p.Type
	}

	return schema
}

var invalid = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// ToolName turns an operation name such as Disco.Submit into disco_submit.
func ToolName(s string) string {
	s = camelToSnake(invalid.ReplaceAllString(s, "_"))

	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}

	return strings.Trim(s, "_")
}

func camelToSnake(s string) string {
	var result strings.Builder

	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				result.WriteRune('_')
			}

			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}

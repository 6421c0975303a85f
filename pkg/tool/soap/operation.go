package soap

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/adrianliechti/wingman-soap/pkg/client"
	"github.com/adrianliechti/wingman-soap/pkg/config"
	"github.com/adrianliechti/wingman-soap/pkg/soap"
)

type Operation struct {
	Name        string
	Description string

	Operation string
	Index     int

	Schema map[string]any
}

// Execute pins the overload member and calls it with the tool arguments as
// keywords.
func (o *Operation) Execute(ctx context.Context, c *client.Client, args map[string]any) (string, error) {
	set, err := c.Service(o.Operation)

	if err != nil {
		return "", err
	}

	inv, err := set.ByIndex(o.Index)

	if err != nil {
		return "", err
	}

	resp, err := c.Call(ctx, inv, soap.Keywords(args))

	if err != nil {
		return "", err
	}

	if c.Options().Bool(config.OptionRetXML) {
		return string(resp.Raw), nil
	}

	var result any = resp.Value()

	if resp.Fault != nil {
		result = map[string]any{
			"fault": map[string]any{
				"code":   resp.Fault.Code,
				"string": resp.Fault.String,
				"detail": resp.Fault.Detail,
			},
		}
	}

	data, err := json.Marshal(result)

	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}

	return string(data), nil
}

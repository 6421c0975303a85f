package call

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/adrianliechti/wingman-soap/pkg/cli"
	"github.com/adrianliechti/wingman-soap/pkg/client"
	"github.com/adrianliechti/wingman-soap/pkg/config"
	"github.com/adrianliechti/wingman-soap/pkg/soap"
)

// Selection narrows an overload set before the call. Index is ignored when
// negative.
type Selection struct {
	Index int

	AcceptingMessage string
	ReturningMessage string

	Accepting []string
}

type Options struct {
	Selection

	Interactive bool
	DryRun      bool
}

func Run(ctx context.Context, c *client.Client, operation string, args []string, o Options) error {
	inv, err := c.Service(operation)

	if err != nil {
		return err
	}

	inv, err = Select(inv, o.Selection)

	if err != nil {
		return err
	}

	a := ParseArgs(args)

	if o.Interactive {
		if inv, a, err = prompt(c, inv, a); err != nil {
			return err
		}
	}

	if o.DryRun {
		_, data, err := c.Prepare(inv, a)

		if err != nil {
			return err
		}

		fmt.Println(string(data))
		return nil
	}

	resp, err := c.Call(ctx, inv, a)

	if err != nil {
		return err
	}

	if c.Options().Bool(config.OptionRetXML) {
		fmt.Println(string(resp.Raw))
		return nil
	}

	if resp.Fault != nil {
		cli.Warn(resp.Fault.Error())
	}

	return output(resp.Value())
}

// Select applies the narrowing steps of s in a fixed order: index, accepted
// message, returned message, accepted part names.
func Select(inv *soap.Invocation, s Selection) (*soap.Invocation, error) {
	var err error

	if s.Index >= 0 {
		if inv, err = inv.ByIndex(s.Index); err != nil {
			return nil, err
		}
	}

	if s.AcceptingMessage != "" {
		if inv, err = inv.AcceptingMessage(s.AcceptingMessage); err != nil {
			return nil, err
		}
	}

	if s.ReturningMessage != "" {
		if inv, err = inv.ReturningMessage(s.ReturningMessage); err != nil {
			return nil, err
		}
	}

	if len(s.Accepting) > 0 {
		if inv, err = inv.AcceptingArgs(s.Accepting...); err != nil {
			return nil, err
		}
	}

	return inv, nil
}

// ParseArgs splits command line arguments into keywords (name=value) and
// positional values. Values that look like JSON arrays or objects are
// decoded.
func ParseArgs(args []string) soap.Args {
	var result soap.Args

	for _, arg := range args {
		if name, value, ok := strings.Cut(arg, "="); ok && name != "" && !strings.ContainsAny(name, " {[") {
			if result.Keywords == nil {
				result.Keywords = map[string]any{}
			}

			result.Keywords[name] = parseValue(value)
			continue
		}

		result.Positional = append(result.Positional, parseValue(arg))
	}

	return result
}

func parseValue(s string) any {
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any

		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}

	return s
}

func prompt(c *client.Client, inv *soap.Invocation, a soap.Args) (*soap.Invocation, soap.Args, error) {
	if !inv.Resolved() {
		candidates := inv.Candidates()

		var labels []string

		for _, op := range candidates {
			labels = append(labels, fmt.Sprintf("%s (%s)", op.Accepts, strings.Join(op.Input, ", ")))
		}

		index, err := cli.Select(inv.Name(), labels)

		if err != nil {
			return nil, a, err
		}

		if inv, err = inv.ByIndex(index); err != nil {
			return nil, a, err
		}
	}

	op := inv.Method()
	sig := c.Port().Signature(op)

	for i, p := range sig.Input {
		if i < len(a.Positional) {
			continue
		}

		if _, ok := a.Keywords[p.Name]; ok {
			continue
		}

		value, err := cli.Prompt(fmt.Sprintf("%s (%s)", p.Name, p.Type), "leave empty to omit")

		if err != nil {
			return nil, a, err
		}

		if value == "" {
			continue
		}

		if a.Keywords == nil {
			a.Keywords = map[string]any{}
		}

		a.Keywords[p.Name] = parseValue(value)
	}

	return inv, a, nil
}

// Confirm shows the request about to be sent and asks before sending it.
func Confirm(url, action string, body []byte) error {
	cli.Infof("⚡️ POST %s", url)

	if action != "" {
		cli.Infof("SOAPAction: %s", action)
	}

	cli.Info(string(body))

	ok, err := cli.Confirm("Send request?", true)

	if err != nil {
		return err
	}

	if !ok {
		return errors.New("operation cancelled by user")
	}

	return nil
}

func output(v any) error {
	if s, ok := v.(string); ok {
		fmt.Println(s)
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

package client

import (
	"fmt"
	"strings"

	"github.com/adrianliechti/wingman-soap/pkg/wsdl"
)

// Describe renders the bound service as markdown: every operation with its
// overload members, their parts and messages.
func (c *Client) Describe() string {
	var b strings.Builder

	name := c.service.Name

	if c.definitions.Name != "" && c.definitions.Name != name {
		name = c.definitions.Name + " / " + name
	}

	fmt.Fprintf(&b, "# %s\n\n", name)

	if c.definitions.TargetNamespace != "" {
		fmt.Fprintf(&b, "Namespace: `%s`\n\n", c.definitions.TargetNamespace)
	}

	fmt.Fprintf(&b, "Port: `%s`  \n", c.port.Name)

	if c.url != "" {
		fmt.Fprintf(&b, "Endpoint: `%s`\n\n", c.url)
	} else {
		b.WriteString("\n")
	}

	for _, set := range c.port.Sets() {
		if set.Overloaded() {
			fmt.Fprintf(&b, "## %s (%d overloads)\n\n", set.Name(), set.Len())
		} else {
			fmt.Fprintf(&b, "## %s\n\n", set.Name())
		}

		b.WriteString("| # | input | output | accepts | returns |\n")
		b.WriteString("|---|---|---|---|---|\n")

		for i, op := range set.Members() {
			sig := c.port.Signature(op)

			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n", i, parts(sig.Input), parts(sig.Output), op.Accepts, op.Returns)
		}

		b.WriteString("\n")
	}

	return b.String()
}

func parts(parts []wsdl.Part) string {
	if len(parts) == 0 {
		return "-"
	}

	var result []string

	for _, p := range parts {
		s := p.Name

		if p.Type != "" {
			s += " " + p.Type
		}

		if p.Repeated {
			s += "[]"
		}

		result = append(result, s)
	}

	return strings.Join(result, ", ")
}

package app

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/adrianliechti/wingman-soap/pkg/client"
)

// ParseInstructions reads the MCP server instructions from the first
// instructions file in the working directory. The file is a text/template
// executed against the client; without one a short default is returned.
func ParseInstructions(c *client.Client) (string, error) {
	candidates := []string{
		".instructions.md",
		".instructions.txt",

		"instructions.md",
		"instructions.txt",
	}

	for _, name := range candidates {
		if _, err := os.Stat(name); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(name)

		if err != nil {
			return "", err
		}

		tmpl, err := template.New(name).Parse(strings.TrimSpace(string(data)))

		if err != nil {
			return "", err
		}

		var b strings.Builder

		if err := tmpl.Execute(&b, c); err != nil {
			return "", err
		}

		return b.String(), nil
	}

	return defaultInstructions(c), nil
}

func defaultInstructions(c *client.Client) string {
	var overloaded []string

	for _, set := range c.Operations() {
		if set.Overloaded() {
			overloaded = append(overloaded, set.Name())
		}
	}

	s := fmt.Sprintf("Tools call the SOAP port %s.", c.Port().Name)

	if len(overloaded) > 0 {
		s += fmt.Sprintf(" Overloaded operations (%s) have one tool per signature, suffixed with its index; pick the one whose parameters match.", strings.Join(overloaded, ", "))
	}

	return s
}

package app

import (
	"context"

	"github.com/adrianliechti/wingman-soap/pkg/client"
	"github.com/adrianliechti/wingman-soap/pkg/resource"
)

// ConnectResources publishes the WSDL document and the rendered service
// description.
func ConnectResources(c *client.Client) []resource.Resource {
	name := c.Port().Name

	return []resource.Resource{
		{
			URI:         "wsdl://" + name,
			Name:        name + ".wsdl",
			Description: "WSDL document of the " + name + " port",
			ContentType: "text/xml",

			Content: func(ctx context.Context) ([]byte, error) {
				return c.Document(), nil
			},
		},
		{
			URI:         "wsdl://" + name + "/description",
			Name:        name + ".md",
			Description: "Operations and overloads of the " + name + " port",
			ContentType: "text/markdown",

			Content: func(ctx context.Context) ([]byte, error) {
				return []byte(c.Describe()), nil
			},
		},
	}
}

package app

import (
	"context"

	"github.com/adrianliechti/wingman-soap/pkg/client"
	"github.com/adrianliechti/wingman-soap/pkg/tool"
	"github.com/adrianliechti/wingman-soap/pkg/tool/soap"
)

// ConnectTools lists one tool per overload member of the bound port.
func ConnectTools(ctx context.Context, c *client.Client) ([]tool.Tool, error) {
	return soap.New(c).Tools(ctx)
}

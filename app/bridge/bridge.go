package bridge

import (
	"context"

	"github.com/adrianliechti/wingman-soap/app"
	"github.com/adrianliechti/wingman-soap/pkg/bridge"
	"github.com/adrianliechti/wingman-soap/pkg/cli"
	"github.com/adrianliechti/wingman-soap/pkg/client"
)

// Run serves every operation of c as an MCP tool, over SSE on addr or over
// stdio when addr is empty.
func Run(ctx context.Context, c *client.Client, version, addr string) error {
	tools, err := app.ConnectTools(ctx, c)

	if err != nil {
		return err
	}

	instructions, err := app.ParseInstructions(c)

	if err != nil {
		return err
	}

	s, err := bridge.New(c.Port().Name, version, instructions, tools, app.ConnectResources(c))

	if err != nil {
		return err
	}

	if addr == "" {
		return s.ServeStdio()
	}

	cli.Info()
	cli.Info("🖥️ MCP Server " + c.Port().Name)
	cli.Info()

	for _, tool := range tools {
		cli.Info("🛠️ " + tool.Name)
	}

	cli.Info()
	cli.Infof("listening on http://%s/sse", addr)

	return s.Run(ctx, addr)
}

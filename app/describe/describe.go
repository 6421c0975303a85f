package describe

import (
	"context"
	"os"

	"github.com/adrianliechti/wingman-soap/pkg/client"
	"github.com/adrianliechti/wingman-soap/pkg/markdown"
)

func Run(ctx context.Context, c *client.Client) error {
	markdown.Render(os.Stdout, c.Describe())
	return nil
}

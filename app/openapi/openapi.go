package openapi

import (
	"context"
	"fmt"
	"os"

	"github.com/adrianliechti/wingman-soap/pkg/client"
	"github.com/adrianliechti/wingman-soap/pkg/openapi"
)

// Run writes the OpenAPI export of c to path, or to stdout when path is
// empty.
func Run(ctx context.Context, c *client.Client, title, format, path string) error {
	doc := openapi.Export(c, title)

	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("invalid export: %w", err)
	}

	data, err := openapi.Marshal(doc, format)

	if err != nil {
		return err
	}

	if path == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

package resource

import (
	"context"
	"fmt"
)

type ContentFn func(ctx context.Context) ([]byte, error)

type Resource struct {
	URI string

	Name        string
	Description string

	Content     ContentFn
	ContentType string
}

// Text reads the resource content as a string.
func (r Resource) Text(ctx context.Context) (string, error) {
	if r.Content == nil {
		return "", fmt.Errorf("resource %s has no content", r.URI)
	}

	data, err := r.Content(ctx)

	if err != nil {
		return "", fmt.Errorf("resource %s: %w", r.URI, err)
	}

	return string(data), nil
}

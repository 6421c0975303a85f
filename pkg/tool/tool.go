package tool

import (
	"context"
	"fmt"
)

type Provider interface {
	Tools(ctx context.Context) ([]Tool, error)
}

// Schema is the JSON schema of the tool arguments.
type Schema map[string]any

type ExecuteFn func(ctx context.Context, args map[string]any) (any, error)

type Tool struct {
	Name        string
	Description string

	Schema  Schema
	Execute ExecuteFn
}

// Index maps tools by name and rejects duplicates, which clients cannot
// tell apart.
func Index(tools []Tool) (map[string]Tool, error) {
	result := make(map[string]Tool, len(tools))

	for _, t := range tools {
		if t.Name == "" {
			return nil, fmt.Errorf("tool without name: %q", t.Description)
		}

		if _, ok := result[t.Name]; ok {
			return nil, fmt.Errorf("duplicate tool name %q", t.Name)
		}

		result[t.Name] = t
	}

	return result, nil
}

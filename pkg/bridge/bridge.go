package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/adrianliechti/wingman-soap/pkg/resource"
	"github.com/adrianliechti/wingman-soap/pkg/tool"
)

// Server exposes tools and resources over the Model Context Protocol.
type Server struct {
	name         string
	instructions string

	mcp *server.MCPServer
}

func New(name, version, instructions string, tools []tool.Tool, resources []resource.Resource) (*Server, error) {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(false),
		server.WithInstructions(instructions),
	)

	if _, err := tool.Index(tools); err != nil {
		return nil, err
	}

	for _, t := range tools {
		schema, err := json.Marshal(t.Schema)

		if err != nil {
			return nil, fmt.Errorf("tool %q: %w", t.Name, err)
		}

		tool := mcp.Tool{
			Name:           t.Name,
			Description:    t.Description,
			RawInputSchema: schema,
		}

		s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			if args == nil {
				args = map[string]any{}
			}

			result, err := t.Execute(ctx, args)

			if err != nil {
				slog.Debug("tool failed", "tool", t.Name, "error", err)
				return mcp.NewToolResultError(err.Error()), nil
			}

			var content string

			switch v := result.(type) {
			case string:
				content = v
			default:
				data, _ := json.Marshal(v)
				content = string(data)
			}

			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(content),
				},
			}, nil
		})
	}

	for _, r := range resources {
		res := mcp.NewResource(r.URI, r.Name,
			mcp.WithResourceDescription(r.Description),
			mcp.WithMIMEType(r.ContentType),
		)

		s.AddResource(res, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			text, err := r.Text(ctx)

			if err != nil {
				return nil, err
			}

			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      r.URI,
					MIMEType: r.ContentType,
					Text:     text,
				},
			}, nil
		})
	}

	return &Server{
		name:         name,
		instructions: instructions,

		mcp: s,
	}, nil
}

func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Handler serves the SSE transport and the discovery document.
func (s *Server) Handler(addr string) http.Handler {
	sse := server.NewSSEServer(s.mcp,
		server.WithBaseURL(fmt.Sprintf("http://%s", addr)),
	)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /.well-known/wingman", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{
			"name": s.name,
		}

		if s.instructions != "" {
			data["instructions"] = s.instructions
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(data)
	})

	mux.Handle("/sse", sse)
	mux.Handle("/message", sse)

	return mux
}

// Run serves SSE on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(addr),
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// ServeStdio serves the protocol over standard input and output.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// Package mcp exposes the demo host's editor over the Model Context Protocol.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/plugview/internal/host"
	"github.com/1broseidon/plugview/internal/render"
)

const (
	ServerName    = "plugview"
	ServerVersion = "0.1.0"

	// MaxSnapshotSide bounds render_snapshot dimensions.
	MaxSnapshotSide = 4096
)

// Controller drives the editor. *host.Host implements it.
type Controller interface {
	OpenEditor() error
	CloseEditor() error
	Status() host.Status
}

// Server is the MCP server for the plugview demo host.
type Server struct {
	mcpServer *mcpsdk.Server
	ctrl      Controller
	renderer  *render.Renderer
	logger    *slog.Logger
}

// NewServer creates a server whose tools drive ctrl. renderer is used for
// off-screen snapshots.
func NewServer(ctrl Controller, renderer *render.Renderer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		ctrl:     ctrl,
		renderer: renderer,
		logger:   logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "editor_open",
		Description: "Open the plugin editor inside a new host parent window. Fails if the editor is already open.",
	}, s.handleEditorOpen)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "editor_close",
		Description: "Close the plugin editor and its parent window. Closing a closed editor succeeds.",
	}, s.handleEditorClose)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "editor_status",
		Description: "Report whether the editor is open, its parent window id, its fixed size, and how many times it has been opened.",
	}, s.handleEditorStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "render_snapshot",
		Description: "Render one editor frame off-screen and write it to a PNG file.",
	}, s.handleRenderSnapshot)
}

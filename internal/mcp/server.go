// ABOUTME: MCP server setup for the personal health record.
// ABOUTME: Wraps the MCP server around the dashboard service.
package mcp

import (
	"context"
	"errors"

	"github.com/harperreed/phr/internal/dashboard"
	"github.com/harperreed/phr/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with dashboard access.
type Server struct {
	mcpServer   *mcp.Server
	svc         *dashboard.Service
	defaultUser string
}

// NewServer creates a new MCP server. Tools act on defaultUser unless a
// call names another user.
func NewServer(svc *dashboard.Service, defaultUser string) (*Server, error) {
	if svc == nil {
		return nil, errors.New("dashboard service is required")
	}
	if err := storage.ValidateUser(defaultUser); err != nil {
		return nil, err
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "phr",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer:   mcpServer,
		svc:         svc,
		defaultUser: defaultUser,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) user(name string) string {
	if name == "" {
		return s.defaultUser
	}
	return name
}

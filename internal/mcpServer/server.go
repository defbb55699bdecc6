package mcpServer

import (
	"context"
	"fmt"

	"github.com/akolanti/pdfchat/internal/rag"
	"github.com/akolanti/pdfchat/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const Version = "0.1.0"

// Server exposes the document service to MCP clients. Every call runs as one user.
type Server struct {
	rag    rag.Service
	owner  string
	server *mcp.Server
	logger *logger_i.Logger
}

func NewServer(ragService rag.Service, owner string) (*Server, error) {
	if ragService == nil {
		return nil, fmt.Errorf("document service is required")
	}
	if owner == "" {
		return nil, fmt.Errorf("user is required")
	}

	s := &Server{
		rag:    ragService,
		owner:  owner,
		server: mcp.NewServer(&mcp.Implementation{Name: "pdfchat", Version: Version}, nil),
		logger: logger_i.NewLogger("mcp").With("user", owner),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

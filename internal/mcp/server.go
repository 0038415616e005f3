package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/seqedit/internal/editor"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes diagram editing tools.
type Server struct {
	ctrl *editor.Controller
	mcp  *server.MCPServer
}

// NewServer creates a new MCP server editing documents through ctrl.
func NewServer(ctrl *editor.Controller) *Server {
	s := &Server{ctrl: ctrl}

	s.mcp = server.NewMCPServer(
		"seqedit",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listDocumentsTool, s.handleListDocuments)
	s.mcp.AddTool(getDocumentTool, s.handleGetDocument)
	s.mcp.AddTool(addParticipantTool, s.handleAddParticipant)
	s.mcp.AddTool(renameParticipantTool, s.handleRenameParticipant)
	s.mcp.AddTool(deleteParticipantTool, s.handleDeleteParticipant)
	s.mcp.AddTool(addActionTool, s.handleAddAction)
	s.mcp.AddTool(editActionTool, s.handleEditAction)
	s.mcp.AddTool(deleteActionTool, s.handleDeleteAction)
	s.mcp.AddTool(reorderActionsTool, s.handleReorderActions)
	s.mcp.AddTool(pruneParticipantsTool, s.handlePruneParticipants)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

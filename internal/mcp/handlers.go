package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/seqedit/internal/documents"
	"github.com/ziadkadry99/seqedit/internal/editor"
	"github.com/ziadkadry99/seqedit/internal/seqtext"
)

// handleListDocuments lists every stored document.
func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.ctrl.Store().State(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load documents: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d document(s):\n", len(st.Documents)))
	for _, d := range st.Documents {
		marker := " "
		if d.ID == st.ActiveID() {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%s %s  %s  (%d actions)\n", marker, d.ID, d.Name, len(seqtext.ListActions(d.Content))))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetDocument returns a document's source and its parsed structure.
func (s *Server) handleGetDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := s.document(ctx, request.GetString("document_id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatDocument(doc)), nil
}

func (s *Server) handleAddParticipant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: name"), nil
	}
	return s.apply(ctx, request, editor.Intent{Kind: editor.IntentAddParticipant, Name: name})
}

func (s *Server) handleRenameParticipant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := request.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: from"), nil
	}
	to, err := request.RequireString("to")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: to"), nil
	}
	return s.apply(ctx, request, editor.Intent{Kind: editor.IntentRenameParticipant, From: from, To: to})
}

func (s *Server) handleDeleteParticipant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: name"), nil
	}
	return s.apply(ctx, request, editor.Intent{Kind: editor.IntentDeleteParticipant, Name: name})
}

func (s *Server) handleAddAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in editor.Intent
	in.Kind = editor.IntentAddAction
	for param, dst := range map[string]*string{"from": &in.From, "to": &in.To, "message": &in.Message} {
		v, err := request.RequireString(param)
		if err != nil {
			return mcp.NewToolResultError("missing required parameter: " + param), nil
		}
		*dst = v
	}
	return s.apply(ctx, request, in)
}

func (s *Server) handleEditAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := request.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: index"), nil
	}
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: message"), nil
	}
	return s.apply(ctx, request, editor.Intent{Kind: editor.IntentEditAction, Index: index, Message: message})
}

func (s *Server) handleDeleteAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := request.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: index"), nil
	}
	return s.apply(ctx, request, editor.Intent{Kind: editor.IntentDeleteAction, Index: index})
}

func (s *Server) handleReorderActions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	order, err := request.RequireString("order")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: order"), nil
	}
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(order, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return s.apply(ctx, request, editor.Intent{Kind: editor.IntentReorderActions, Order: lines})
}

func (s *Server) handlePruneParticipants(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.apply(ctx, request, editor.Intent{Kind: editor.IntentPruneParticipants})
}

// apply runs an edit and reports the resulting document.
func (s *Server) apply(ctx context.Context, request mcp.CallToolRequest, in editor.Intent) (*mcp.CallToolResult, error) {
	in.DocumentID = request.GetString("document_id", "")
	doc, err := s.ctrl.Mutate(ctx, in)
	if err != nil {
		switch {
		case errors.Is(err, seqtext.ErrParticipantExists):
			return mcp.NewToolResultError(fmt.Sprintf("a participant named %q already exists", in.To)), nil
		case errors.Is(err, seqtext.ErrInvalidArgument):
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", in.Kind, err)), nil
	}
	return mcp.NewToolResultText(formatDocument(doc)), nil
}

// document returns the document with id, or the active one when id is empty.
func (s *Server) document(ctx context.Context, id string) (*documents.Document, error) {
	if id == "" {
		return s.ctrl.Store().Active(ctx)
	}
	doc, err := s.ctrl.Store().Get(ctx, id)
	if errors.Is(err, documents.ErrNotFound) {
		return nil, fmt.Errorf("no document with id %q; use list_documents to see the ids", id)
	}
	return doc, err
}

// formatDocument renders a document for agent consumption.
func formatDocument(doc *documents.Document) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Document %s (%s)\n\n", doc.Name, doc.ID))
	sb.WriteString("```mermaid\n")
	sb.WriteString(doc.Content)
	sb.WriteString("\n```\n")

	if ps := seqtext.Participants(doc.Content); len(ps) > 0 {
		sb.WriteString("\nDeclared participants: " + strings.Join(ps, ", ") + "\n")
	}
	if actions := seqtext.ListActions(doc.Content); len(actions) > 0 {
		sb.WriteString("\nActions:\n")
		for _, a := range actions {
			sb.WriteString(fmt.Sprintf("  [%d] %s\n", a.Index, a.Text))
		}
	}
	return sb.String()
}

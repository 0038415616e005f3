package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/seqedit/internal/db"
	"github.com/ziadkadry99/seqedit/internal/documents"
	"github.com/ziadkadry99/seqedit/internal/editor"
	"github.com/ziadkadry99/seqedit/internal/render"
)

func setupTest(t *testing.T) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	store, err := documents.Open(context.Background(), database)
	if err != nil {
		t.Fatalf("documents.Open: %v", err)
	}
	return NewServer(editor.New(store, render.NewAdapter(render.Disabled{}, 0)))
}

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sb strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String(), result.IsError
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool     mcp.Tool
		wantName string
	}{
		{listDocumentsTool, "list_documents"},
		{getDocumentTool, "get_document"},
		{addParticipantTool, "add_participant"},
		{renameParticipantTool, "rename_participant"},
		{deleteParticipantTool, "delete_participant"},
		{addActionTool, "add_action"},
		{editActionTool, "edit_action"},
		{deleteActionTool, "delete_action"},
		{reorderActionsTool, "reorder_actions"},
		{pruneParticipantsTool, "prune_participants"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := setupTest(t)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.ctrl == nil {
		t.Fatal("controller not set")
	}
}

func TestListAndGetDocument(t *testing.T) {
	srv := setupTest(t)

	out, isErr := call(t, srv.handleListDocuments, map[string]any{})
	if isErr || !strings.Contains(out, "* doc_") || !strings.Contains(out, "Untitled Diagram") {
		t.Errorf("list_documents = %q", out)
	}

	out, isErr = call(t, srv.handleGetDocument, map[string]any{})
	if isErr {
		t.Fatalf("get_document failed: %s", out)
	}
	if !strings.Contains(out, "[1] Bob-->>Alice: I am good thanks!") {
		t.Errorf("get_document = %q", out)
	}

	out, isErr = call(t, srv.handleGetDocument, map[string]any{"document_id": "doc_missing"})
	if !isErr || !strings.Contains(out, "list_documents") {
		t.Errorf("expected not found error, got %q", out)
	}
}

func TestEditTools(t *testing.T) {
	srv := setupTest(t)

	t.Run("add participant", func(t *testing.T) {
		out, isErr := call(t, srv.handleAddParticipant, map[string]any{"name": "Carol"})
		if isErr || !strings.Contains(out, "Declared participants: Alice, Bob, Carol") {
			t.Errorf("add_participant = %q", out)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		_, isErr := call(t, srv.handleAddParticipant, map[string]any{})
		if !isErr {
			t.Error("expected error for missing name")
		}
	})

	t.Run("add action", func(t *testing.T) {
		out, isErr := call(t, srv.handleAddAction, map[string]any{"from": "Carol", "to": "Alice", "message": "Hi"})
		if isErr || !strings.Contains(out, "[2] Carol->>Alice: Hi") {
			t.Errorf("add_action = %q", out)
		}
	})

	t.Run("edit action", func(t *testing.T) {
		out, isErr := call(t, srv.handleEditAction, map[string]any{"index": float64(2), "message": "Hello"})
		if isErr || !strings.Contains(out, "[2] Carol->>Alice: Hello") {
			t.Errorf("edit_action = %q", out)
		}
	})

	t.Run("rename conflict", func(t *testing.T) {
		out, isErr := call(t, srv.handleRenameParticipant, map[string]any{"from": "Carol", "to": "Bob"})
		if !isErr || !strings.Contains(out, "already exists") {
			t.Errorf("expected conflict, got %q", out)
		}
	})

	t.Run("reorder", func(t *testing.T) {
		order := "Carol->>Alice: Hello\nAlice->>Bob: Hello Bob, how are you?\nBob-->>Alice: I am good thanks!"
		out, isErr := call(t, srv.handleReorderActions, map[string]any{"order": order})
		if isErr || !strings.Contains(out, "[0] Carol->>Alice: Hello") {
			t.Errorf("reorder_actions = %q", out)
		}

		_, isErr = call(t, srv.handleReorderActions, map[string]any{"order": "Carol->>Alice: Hello"})
		if !isErr {
			t.Error("expected error for incomplete order")
		}
	})

	t.Run("delete action", func(t *testing.T) {
		out, isErr := call(t, srv.handleDeleteAction, map[string]any{"index": float64(0)})
		if isErr || strings.Contains(out, "Carol->>Alice") {
			t.Errorf("delete_action = %q", out)
		}
	})

	t.Run("delete participant", func(t *testing.T) {
		out, isErr := call(t, srv.handleDeleteParticipant, map[string]any{"name": "Bob"})
		if isErr || strings.Contains(out, "Bob") {
			t.Errorf("delete_participant = %q", out)
		}
	})

	t.Run("prune", func(t *testing.T) {
		_, isErr := call(t, srv.handlePruneParticipants, map[string]any{})
		if isErr {
			t.Error("prune_participants failed")
		}
	})
}

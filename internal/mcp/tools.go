package mcp

import "github.com/mark3labs/mcp-go/mcp"

// documentIDOption is shared by every tool that edits a document.
var documentIDOption = mcp.WithString("document_id",
	mcp.Description("Document to edit (default: the active document)"),
)

// listDocumentsTool defines the list_documents MCP tool.
var listDocumentsTool = mcp.NewTool("list_documents",
	mcp.WithDescription("List all stored sequence diagrams with their ids and which one is active."),
)

// getDocumentTool defines the get_document MCP tool.
var getDocumentTool = mcp.NewTool("get_document",
	mcp.WithDescription("Get the Mermaid source of a sequence diagram together with its participants and numbered actions."),
	documentIDOption,
)

// addParticipantTool defines the add_participant MCP tool.
var addParticipantTool = mcp.NewTool("add_participant",
	mcp.WithDescription("Declare a new participant after the existing declarations. Existing names are left alone."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Participant name"),
	),
	documentIDOption,
)

// renameParticipantTool defines the rename_participant MCP tool.
var renameParticipantTool = mcp.NewTool("rename_participant",
	mcp.WithDescription("Rename a participant everywhere it appears as a whole word."),
	mcp.WithString("from",
		mcp.Required(),
		mcp.Description("Current participant name"),
	),
	mcp.WithString("to",
		mcp.Required(),
		mcp.Description("New participant name; must not already exist"),
	),
	documentIDOption,
)

// deleteParticipantTool defines the delete_participant MCP tool.
var deleteParticipantTool = mcp.NewTool("delete_participant",
	mcp.WithDescription("Remove a participant's declaration and every action that mentions it."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Participant name"),
	),
	documentIDOption,
)

// addActionTool defines the add_action MCP tool.
var addActionTool = mcp.NewTool("add_action",
	mcp.WithDescription("Append a message from one participant to another."),
	mcp.WithString("from",
		mcp.Required(),
		mcp.Description("Sending participant"),
	),
	mcp.WithString("to",
		mcp.Required(),
		mcp.Description("Receiving participant"),
	),
	mcp.WithString("message",
		mcp.Required(),
		mcp.Description("Message text"),
	),
	documentIDOption,
)

// editActionTool defines the edit_action MCP tool.
var editActionTool = mcp.NewTool("edit_action",
	mcp.WithDescription("Replace the message text of an action. Actions are numbered from 0 as listed by get_document."),
	mcp.WithNumber("index",
		mcp.Required(),
		mcp.Description("Action number"),
	),
	mcp.WithString("message",
		mcp.Required(),
		mcp.Description("New message text"),
	),
	documentIDOption,
)

// deleteActionTool defines the delete_action MCP tool.
var deleteActionTool = mcp.NewTool("delete_action",
	mcp.WithDescription("Remove an action. Actions are numbered from 0 as listed by get_document."),
	mcp.WithNumber("index",
		mcp.Required(),
		mcp.Description("Action number"),
	),
	documentIDOption,
)

// reorderActionsTool defines the reorder_actions MCP tool.
var reorderActionsTool = mcp.NewTool("reorder_actions",
	mcp.WithDescription("Put the action lines in a new order. Every current action line must be given exactly once."),
	mcp.WithString("order",
		mcp.Required(),
		mcp.Description("Action lines in their new order, one per line"),
	),
	documentIDOption,
)

// pruneParticipantsTool defines the prune_participants MCP tool.
var pruneParticipantsTool = mcp.NewTool("prune_participants",
	mcp.WithDescription("Remove the declarations of participants that take part in actions. Mermaid still draws them from the actions."),
	documentIDOption,
)

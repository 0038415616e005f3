package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ziadkadry99/seqedit/internal/seqtext"
)

var (
	// ErrInvalidImport is returned when imported text is not a sequence diagram.
	ErrInvalidImport = errors.New(`content does not start with "sequenceDiagram"`)
	// ErrUnknownIntent is returned for intent kinds the controller does not handle.
	ErrUnknownIntent = errors.New("unknown intent")
)

// IntentKind names one edit a user can make.
type IntentKind string

const (
	IntentSetText           IntentKind = "set_text"
	IntentImport            IntentKind = "import"
	IntentAddParticipant    IntentKind = "add_participant"
	IntentRenameParticipant IntentKind = "rename_participant"
	IntentDeleteParticipant IntentKind = "delete_participant"
	IntentAddAction         IntentKind = "add_action"
	IntentEditAction        IntentKind = "edit_action"
	IntentDeleteAction      IntentKind = "delete_action"
	IntentReorderActions    IntentKind = "reorder_actions"
	IntentMoveAction        IntentKind = "move_action"
	IntentPruneParticipants IntentKind = "prune_participants"

	IntentCreateDocument IntentKind = "create_document"
	IntentSwitchDocument IntentKind = "switch_document"
	IntentRenameDocument IntentKind = "rename_document"
	IntentDeleteDocument IntentKind = "delete_document"
)

// Intent is a structured edit. Which fields matter depends on Kind.
type Intent struct {
	Kind       IntentKind `json:"kind"`
	Text       string     `json:"text,omitempty"`    // set_text, import, create_document
	Name       string     `json:"name,omitempty"`    // participant or document name
	From       string     `json:"from,omitempty"`    // action source, or the old name on rename
	To         string     `json:"to,omitempty"`      // action target, or the new name on rename
	Message    string     `json:"message,omitempty"` // action message
	Index      int        `json:"index,omitempty"`   // action index
	Target     int        `json:"target,omitempty"`  // move_action destination
	Order      []string   `json:"order,omitempty"`   // reorder_actions
	DocumentID string     `json:"document_id,omitempty"`
}

// ValidateImport checks that text can replace a document's source.
func ValidateImport(text string) error {
	if !seqtext.HasHeader(text) {
		return ErrInvalidImport
	}
	return nil
}

// textEdit returns the text transform for a text-level intent, or false if
// the intent is not one.
func textEdit(in Intent) (func(string) (string, error), bool) {
	switch in.Kind {
	case IntentSetText:
		return func(string) (string, error) { return in.Text, nil }, true
	case IntentImport:
		return func(string) (string, error) {
			if err := ValidateImport(in.Text); err != nil {
				return "", err
			}
			return in.Text, nil
		}, true
	case IntentAddParticipant:
		return func(t string) (string, error) { return seqtext.AddParticipant(t, in.Name), nil }, true
	case IntentRenameParticipant:
		return func(t string) (string, error) { return seqtext.RenameParticipant(t, in.From, in.To) }, true
	case IntentDeleteParticipant:
		return func(t string) (string, error) { return seqtext.DeleteParticipant(t, in.Name), nil }, true
	case IntentAddAction:
		return func(t string) (string, error) { return seqtext.AddAction(t, in.From, in.To, in.Message), nil }, true
	case IntentEditAction:
		return func(t string) (string, error) { return seqtext.EditActionMessage(t, in.Index, in.Message), nil }, true
	case IntentDeleteAction:
		return func(t string) (string, error) { return seqtext.DeleteAction(t, in.Index), nil }, true
	case IntentReorderActions:
		return func(t string) (string, error) { return seqtext.ReorderActions(t, in.Order) }, true
	case IntentMoveAction:
		return func(t string) (string, error) { return seqtext.MoveAction(t, in.Index, in.Target) }, true
	case IntentPruneParticipants:
		return func(t string) (string, error) { return seqtext.PruneUnusedParticipants(t), nil }, true
	}
	return nil, false
}

// ParseIntentKind accepts kinds with dashes or underscores in any case.
func ParseIntentKind(s string) (IntentKind, error) {
	k := IntentKind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if _, ok := textEdit(Intent{Kind: k}); ok {
		return k, nil
	}
	switch k {
	case IntentCreateDocument, IntentSwitchDocument, IntentRenameDocument, IntentDeleteDocument:
		return k, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownIntent)
}

package editor

import (
	"math"

	"github.com/ziadkadry99/seqedit/internal/config"
)

// Dialog names a modal dialog of the editor.
type Dialog string

const (
	DialogNone             Dialog = ""
	DialogAddParticipant   Dialog = "add_participant"
	DialogEditParticipant  Dialog = "edit_participant"
	DialogAddAction        Dialog = "add_action"
	DialogEditAction       Dialog = "edit_action"
	DialogReorder          Dialog = "reorder"
	DialogDocuments        Dialog = "documents"
	DialogNewDocument      Dialog = "new_document"
	DialogRenameDocument   Dialog = "rename_document"
	DialogConfirmPrune     Dialog = "confirm_prune"
	DialogConfirmDeleteDoc Dialog = "confirm_delete_document"
	DialogImport           Dialog = "import"
)

// Slot is the add-action field a participant click fills.
type Slot string

const (
	SlotFrom Slot = "from"
	SlotTo   Slot = "to"
)

// Editor width bounds, as a percentage of the window.
const (
	MinEditorWidth = 10
	MaxEditorWidth = 90
)

// TargetKind says what a click in the preview landed on.
type TargetKind string

const (
	TargetNone        TargetKind = ""
	TargetParticipant TargetKind = "participant"
	TargetAction      TargetKind = "action"
)

// Target is a resolved click in the rendered diagram.
type Target struct {
	Kind  TargetKind `json:"kind"`
	Name  string     `json:"name,omitempty"`
	Index int        `json:"index"`
	Text  string     `json:"text,omitempty"`
}

// UIState is the presentation state of one live editor. It is never
// persisted.
type UIState struct {
	Dialog      Dialog  `json:"dialog"`
	Zoom        float64 `json:"zoom"`
	EditorWidth float64 `json:"editorWidth"`

	// Add-action dialog.
	ActionFrom string `json:"actionFrom"`
	ActionTo   string `json:"actionTo"`
	ActiveSlot Slot   `json:"activeSlot"`

	// Edit dialogs.
	Participant   string `json:"participant,omitempty"`
	ActionIndex   int    `json:"actionIndex"`
	ActionMessage string `json:"actionMessage,omitempty"`

	// Notice is a one-shot message for the user, e.g. a rename conflict.
	Notice string `json:"notice,omitempty"`

	minZoom, maxZoom, zoomStep float64
}

// NewUIState returns the initial state for the given editor settings.
func NewUIState(cfg config.EditorConfig) *UIState {
	return &UIState{
		Zoom:        1,
		EditorWidth: cfg.DefaultEditorWidth,
		ActiveSlot:  SlotFrom,
		minZoom:     cfg.MinZoom,
		maxZoom:     cfg.MaxZoom,
		zoomStep:    cfg.ZoomStep,
	}
}

// Open shows a dialog. Opening the add-action dialog starts a new action.
func (u *UIState) Open(d Dialog) {
	u.Dialog = d
	u.Notice = ""
	if d == DialogAddAction {
		u.ActionFrom, u.ActionTo = "", ""
		u.ActiveSlot = SlotFrom
	}
}

// Close hides whichever dialog is open.
func (u *UIState) Close() {
	u.Dialog = DialogNone
	u.Participant = ""
	u.ActionMessage = ""
}

// Focus selects which add-action field the next participant click fills.
func (u *UIState) Focus(s Slot) {
	if s == SlotFrom || s == SlotTo {
		u.ActiveSlot = s
	}
}

// Click reacts to a click in the preview. While the add-action dialog is
// open a participant click fills the active slot; "from" hands over to
// "to". Otherwise participants and actions open their edit dialogs.
func (u *UIState) Click(t Target) {
	switch {
	case u.Dialog == DialogAddAction:
		if t.Kind != TargetParticipant {
			return
		}
		if u.ActiveSlot == SlotTo {
			u.ActionTo = t.Name
			return
		}
		u.ActionFrom = t.Name
		u.ActiveSlot = SlotTo

	case t.Kind == TargetParticipant:
		if u.Dialog == DialogAddParticipant || u.Dialog == DialogEditParticipant {
			return
		}
		u.Dialog = DialogEditParticipant
		u.Participant = t.Name

	case t.Kind == TargetAction:
		u.Dialog = DialogEditAction
		u.ActionIndex = t.Index
		u.ActionMessage = t.Text
	}
}

// ZoomIn steps the zoom level up.
func (u *UIState) ZoomIn() { u.setZoom(u.Zoom + u.zoomStep) }

// ZoomOut steps the zoom level down.
func (u *UIState) ZoomOut() { u.setZoom(u.Zoom - u.zoomStep) }

// ResetZoom returns to 100%.
func (u *UIState) ResetZoom() { u.setZoom(1) }

func (u *UIState) setZoom(z float64) {
	z = math.Max(u.minZoom, math.Min(u.maxZoom, z))
	// Keep repeated steps from drifting off the grid.
	u.Zoom = math.Round(z*1000) / 1000
}

// Resize sets the editor pane width, clamped to the allowed range.
func (u *UIState) Resize(percent float64) {
	u.EditorWidth = math.Max(MinEditorWidth, math.Min(MaxEditorWidth, percent))
}

// Settle updates the state after an intent succeeded. Dialogs that issued
// the intent are closed.
func (u *UIState) Settle(in Intent) {
	u.Notice = ""
	switch in.Kind {
	case IntentAddParticipant, IntentRenameParticipant, IntentDeleteParticipant,
		IntentAddAction, IntentEditAction, IntentDeleteAction,
		IntentReorderActions, IntentPruneParticipants, IntentImport,
		IntentCreateDocument, IntentRenameDocument, IntentDeleteDocument,
		IntentSwitchDocument:
		u.Close()
	}
}

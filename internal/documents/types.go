package documents

import (
	"errors"
	"time"
)

// StorageKey is the key the whole storage snapshot is kept under.
const StorageKey = "mermaid-sequence-diagrams"

// DefaultName is given to documents created without a name.
const DefaultName = "Untitled Diagram"

var (
	// ErrNotFound is returned for ids that do not name a stored document.
	ErrNotFound = errors.New("document not found")
	// ErrLastDocument is returned when deleting would leave the store empty.
	ErrLastDocument = errors.New("cannot remove the last document")
)

// Document is one named diagram source. Timestamps are Unix milliseconds.
type Document struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Created returns CreatedAt as a time.
func (d Document) Created() time.Time { return time.UnixMilli(d.CreatedAt) }

// Updated returns UpdatedAt as a time.
func (d Document) Updated() time.Time { return time.UnixMilli(d.UpdatedAt) }

// StorageState is the persisted snapshot: every document plus the active one.
type StorageState struct {
	Documents        []Document `json:"documents"`
	ActiveDocumentID *string    `json:"activeDocumentId"`
}

// ActiveID returns the active document id, or "" when none is set.
func (s StorageState) ActiveID() string {
	if s.ActiveDocumentID == nil {
		return ""
	}
	return *s.ActiveDocumentID
}

func (s StorageState) index(id string) int {
	for i, d := range s.Documents {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// activeIndex returns the index of the active document. A missing or
// stale active id falls back to the first document.
func (s StorageState) activeIndex() int {
	if i := s.index(s.ActiveID()); i >= 0 {
		return i
	}
	if len(s.Documents) > 0 {
		return 0
	}
	return -1
}

// EffectiveActiveID returns the id of the document treated as active:
// the stored active id when it names a document, otherwise the first one.
func (s StorageState) EffectiveActiveID() string {
	if i := s.activeIndex(); i >= 0 {
		return s.Documents[i].ID
	}
	return ""
}

// clone copies the snapshot so a failed mutation never leaks into the cache.
func (s StorageState) clone() StorageState {
	out := StorageState{Documents: make([]Document, len(s.Documents))}
	copy(out.Documents, s.Documents)
	if s.ActiveDocumentID != nil {
		id := *s.ActiveDocumentID
		out.ActiveDocumentID = &id
	}
	return out
}

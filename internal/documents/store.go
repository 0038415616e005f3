package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/seqedit/internal/seqtext"
)

// KV is the key-value medium the store snapshots into. *db.DB implements it.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
}

// Store manages the document list and the active document. Every mutation
// reads the whole snapshot, changes it and writes the whole snapshot back.
// Writers in other processes are not coordinated; the last write wins.
type Store struct {
	kv    KV
	mu    sync.Mutex
	state StorageState
	now   func() time.Time
}

// Open creates a store over kv. When nothing usable is stored yet, the
// store starts from a single default document and writes it back at once,
// so every process opening the same medium sees the same document ids.
func Open(ctx context.Context, kv KV) (*Store, error) {
	s := &Store{kv: kv, now: time.Now}
	s.state = s.defaultState()
	_, usable, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if !usable {
		if err := s.save(ctx, s.state); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func newID() string {
	return "doc_" + uuid.New().String()
}

func (s *Store) build(name, content string) Document {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	if content == "" {
		content = seqtext.DefaultDiagram
	}
	now := s.now().UnixMilli()
	return Document{ID: newID(), Name: name, Content: content, CreatedAt: now, UpdatedAt: now}
}

func (s *Store) defaultState() StorageState {
	doc := s.build(DefaultName, "")
	id := doc.ID
	return StorageState{Documents: []Document{doc}, ActiveDocumentID: &id}
}

// load refreshes the cached snapshot from kv and reports whether kv held
// a usable one. A missing key or a value without a documents array keeps
// the cached snapshot. Callers hold mu or are still constructing the store.
func (s *Store) load(ctx context.Context) (StorageState, bool, error) {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return StorageState{}, false, fmt.Errorf("loading documents: %w", err)
	}
	if !ok {
		return s.state, false, nil
	}

	var stored struct {
		Documents        *[]Document `json:"documents"`
		ActiveDocumentID *string     `json:"activeDocumentId"`
	}
	if err := json.Unmarshal([]byte(raw), &stored); err != nil || stored.Documents == nil {
		log.Printf("documents: ignoring unusable stored state (%d bytes)", len(raw))
		return s.state, false, nil
	}
	s.state = StorageState{Documents: *stored.Documents, ActiveDocumentID: stored.ActiveDocumentID}
	return s.state, true, nil
}

func (s *Store) save(ctx context.Context, state StorageState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding documents: %w", err)
	}
	if err := s.kv.Put(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("saving documents: %w", err)
	}
	s.state = state
	return nil
}

// mutate runs fn over a copy of the current snapshot and persists the
// result. Nothing is written when fn fails.
func (s *Store) mutate(ctx context.Context, fn func(*StorageState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, _, err := s.load(ctx)
	if err != nil {
		return err
	}
	next := current.clone()
	if err := fn(&next); err != nil {
		return err
	}
	return s.save(ctx, next)
}

// State returns a copy of the current snapshot.
func (s *Store) State(ctx context.Context) (StorageState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, _, err := s.load(ctx)
	if err != nil {
		return StorageState{}, err
	}
	return st.clone(), nil
}

// List returns all documents in creation order.
func (s *Store) List(ctx context.Context) ([]Document, error) {
	st, err := s.State(ctx)
	if err != nil {
		return nil, err
	}
	return st.Documents, nil
}

// Get returns the document with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Document, error) {
	st, err := s.State(ctx)
	if err != nil {
		return nil, err
	}
	i := st.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	doc := st.Documents[i]
	return &doc, nil
}

// Active returns the active document. If the stored active id is missing or
// stale, the first document stands in for it.
func (s *Store) Active(ctx context.Context) (*Document, error) {
	st, err := s.State(ctx)
	if err != nil {
		return nil, err
	}
	i := st.activeIndex()
	if i < 0 {
		return nil, fmt.Errorf("no active document: %w", ErrNotFound)
	}
	doc := st.Documents[i]
	return &doc, nil
}

// Create adds a document and makes it active. Empty content gets the
// example diagram.
func (s *Store) Create(ctx context.Context, name, content string) (*Document, error) {
	doc := s.build(name, content)
	err := s.mutate(ctx, func(st *StorageState) error {
		st.Documents = append(st.Documents, doc)
		id := doc.ID
		st.ActiveDocumentID = &id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateContent replaces the source text of a document.
func (s *Store) UpdateContent(ctx context.Context, id, content string) (*Document, error) {
	return s.update(ctx, id, func(d *Document) { d.Content = content })
}

// Rename changes a document's name. A blank name leaves it as it was.
func (s *Store) Rename(ctx context.Context, id, name string) (*Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.Get(ctx, id)
	}
	return s.update(ctx, id, func(d *Document) { d.Name = name })
}

// errUnchanged stops a mutation whose edit left the text as it was.
var errUnchanged = errors.New("content unchanged")

// Edit runs fn over the content of a document and stores the result, all
// under the store lock, so concurrent edits of one document never lose
// each other's changes. An empty id edits the active document. When fn
// returns the text unchanged nothing is written.
func (s *Store) Edit(ctx context.Context, id string, fn func(string) (string, error)) (*Document, error) {
	var out Document
	err := s.mutate(ctx, func(st *StorageState) error {
		i := st.activeIndex()
		if id != "" {
			i = st.index(id)
		}
		if i < 0 {
			return fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		out = st.Documents[i]
		text, err := fn(out.Content)
		if err != nil {
			return err
		}
		if text == out.Content {
			return errUnchanged
		}
		st.Documents[i].Content = text
		st.Documents[i].UpdatedAt = s.now().UnixMilli()
		out = st.Documents[i]
		return nil
	})
	if err != nil && !errors.Is(err, errUnchanged) {
		return nil, err
	}
	return &out, nil
}

func (s *Store) update(ctx context.Context, id string, fn func(*Document)) (*Document, error) {
	var out Document
	err := s.mutate(ctx, func(st *StorageState) error {
		i := st.index(id)
		if i < 0 {
			return fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		fn(&st.Documents[i])
		st.Documents[i].UpdatedAt = s.now().UnixMilli()
		out = st.Documents[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Switch makes the given document active.
func (s *Store) Switch(ctx context.Context, id string) error {
	return s.mutate(ctx, func(st *StorageState) error {
		if st.index(id) < 0 {
			return fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		st.ActiveDocumentID = &id
		return nil
	})
}

// Delete removes a document. The last remaining document cannot be
// removed. Deleting the active document activates the first one left.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, func(st *StorageState) error {
		i := st.index(id)
		if i < 0 {
			return fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		if len(st.Documents) == 1 {
			return ErrLastDocument
		}
		st.Documents = append(st.Documents[:i], st.Documents[i+1:]...)
		if st.ActiveID() == id {
			first := st.Documents[0].ID
			st.ActiveDocumentID = &first
		}
		return nil
	})
}

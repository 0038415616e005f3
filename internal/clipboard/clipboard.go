package clipboard

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/ziadkadry99/seqedit/internal/documents"
	"github.com/ziadkadry99/seqedit/internal/editor"
)

// Board is a text clipboard.
type Board interface {
	WriteAll(text string) error
	ReadAll() (string, error)
}

// System is the operating system clipboard.
type System struct{}

func (System) WriteAll(text string) error { return clipboard.WriteAll(text) }
func (System) ReadAll() (string, error)   { return clipboard.ReadAll() }

// Available reports whether the system clipboard can be used here.
func Available() bool { return !clipboard.Unsupported }

// Export copies the raw source of doc to the clipboard.
func Export(b Board, doc *documents.Document) error {
	if err := b.WriteAll(doc.Content); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}

// Import reads diagram source from the clipboard. Text that is not a
// sequence diagram is rejected with editor.ErrInvalidImport.
func Import(b Board) (string, error) {
	text, err := b.ReadAll()
	if err != nil {
		return "", fmt.Errorf("reading clipboard: %w", err)
	}
	if err := editor.ValidateImport(text); err != nil {
		return "", err
	}
	return text, nil
}

// Paste replaces the active document with the clipboard contents. Nothing
// is changed when the clipboard does not hold a sequence diagram.
func Paste(ctx context.Context, b Board, c *editor.Controller) (*documents.Document, error) {
	text, err := Import(b)
	if err != nil {
		return nil, err
	}
	return c.Mutate(ctx, editor.Intent{Kind: editor.IntentImport, Text: text})
}

// Copy puts the active document on the clipboard.
func Copy(ctx context.Context, b Board, store *documents.Store) (*documents.Document, error) {
	doc, err := store.Active(ctx)
	if err != nil {
		return nil, err
	}
	return doc, Export(b, doc)
}

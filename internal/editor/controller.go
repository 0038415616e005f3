package editor

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/seqedit/internal/documents"
	"github.com/ziadkadry99/seqedit/internal/patch"
	"github.com/ziadkadry99/seqedit/internal/render"
	"github.com/ziadkadry99/seqedit/internal/seqtext"
)

// SyntaxError is shown in place of the preview when rendering fails.
const SyntaxError = "Invalid Mermaid syntax"

// Summary is the document list entry shown in the document switcher.
type Summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UpdatedAt int64  `json:"updatedAt"`
	Active    bool   `json:"active"`
}

// View is everything a client needs to draw the editor for the active
// document.
type View struct {
	Document     documents.Document `json:"document"`
	Documents    []Summary          `json:"documents"`
	Participants []string           `json:"participants"`
	Actions      []seqtext.Action   `json:"actions"`
	OK           bool               `json:"ok"`
	Markup       string             `json:"markup,omitempty"`
	Error        string             `json:"error,omitempty"`
	Generation   uint64             `json:"generation"`
	// Pending is set on views sent before their render has completed.
	Pending bool `json:"pending,omitempty"`
	// Stale is set when a newer render was started while this one ran.
	Stale bool `json:"stale,omitempty"`
}

// Controller applies intents to the active document and renders it.
type Controller struct {
	store    *documents.Store
	renderer *render.Adapter
	seq      render.Sequencer
}

// New creates a Controller. A nil adapter leaves the preview in its
// error state.
func New(store *documents.Store, renderer *render.Adapter) *Controller {
	return &Controller{store: store, renderer: renderer}
}

// Store returns the document store behind the controller.
func (c *Controller) Store() *documents.Store { return c.store }

// Mutate applies an intent and returns the resulting active document
// without rendering it.
func (c *Controller) Mutate(ctx context.Context, in Intent) (*documents.Document, error) {
	if fn, ok := textEdit(in); ok {
		return c.edit(ctx, in.DocumentID, fn)
	}

	switch in.Kind {
	case IntentCreateDocument:
		return c.store.Create(ctx, in.Name, in.Text)
	case IntentSwitchDocument:
		if err := c.store.Switch(ctx, in.DocumentID); err != nil {
			return nil, err
		}
	case IntentRenameDocument:
		id, err := c.target(ctx, in.DocumentID)
		if err != nil {
			return nil, err
		}
		if _, err := c.store.Rename(ctx, id, in.Name); err != nil {
			return nil, err
		}
	case IntentDeleteDocument:
		id, err := c.target(ctx, in.DocumentID)
		if err != nil {
			return nil, err
		}
		if err := c.store.Delete(ctx, id); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%q: %w", in.Kind, ErrUnknownIntent)
	}
	return c.store.Active(ctx)
}

// Apply applies an intent, renders the active document and returns its view.
func (c *Controller) Apply(ctx context.Context, in Intent) (*View, error) {
	doc, err := c.Mutate(ctx, in)
	if err != nil {
		return nil, err
	}
	return c.render(ctx, doc)
}

// Current renders the active document as it is.
func (c *Controller) Current(ctx context.Context) (*View, error) {
	doc, err := c.store.Active(ctx)
	if err != nil {
		return nil, err
	}
	return c.render(ctx, doc)
}

func (c *Controller) render(ctx context.Context, doc *documents.Document) (*View, error) {
	gen := c.seq.Begin()
	res := c.Render(ctx, doc.Content)
	stale := !c.seq.Complete(gen, res)

	v, err := c.View(ctx, doc, res, gen)
	if err != nil {
		return nil, err
	}
	v.Stale = stale
	return v, nil
}

// Render renders source and patches the markup for interaction.
func (c *Controller) Render(ctx context.Context, source string) render.Result {
	res := c.renderer.Render(ctx, source)
	if res.OK {
		res.Markup = patch.Patch(res.Markup)
	}
	return res
}

// View assembles the view of doc around an already computed render.
func (c *Controller) View(ctx context.Context, doc *documents.Document, res render.Result, gen uint64) (*View, error) {
	st, err := c.store.State(ctx)
	if err != nil {
		return nil, err
	}
	activeID := st.EffectiveActiveID()
	summaries := make([]Summary, 0, len(st.Documents))
	for _, d := range st.Documents {
		summaries = append(summaries, Summary{
			ID:        d.ID,
			Name:      d.Name,
			UpdatedAt: d.UpdatedAt,
			Active:    d.ID == activeID,
		})
	}

	v := &View{
		Document:     *doc,
		Documents:    summaries,
		Participants: seqtext.Participants(doc.Content),
		Actions:      seqtext.ListActions(doc.Content),
		OK:           res.OK,
		Markup:       res.Markup,
		Generation:   gen,
	}
	if !res.OK {
		v.Error = SyntaxError
	}
	return v, nil
}

// target resolves an explicit document id, or the active document when
// id is empty.
func (c *Controller) target(ctx context.Context, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	doc, err := c.store.Active(ctx)
	if err != nil {
		return "", err
	}
	return doc.ID, nil
}

// edit runs fn over a document's text and stores the result in one store
// mutation. Unchanged text is not written back.
func (c *Controller) edit(ctx context.Context, id string, fn func(string) (string, error)) (*documents.Document, error) {
	return c.store.Edit(ctx, id, fn)
}

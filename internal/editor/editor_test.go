package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/seqedit/internal/config"
	"github.com/ziadkadry99/seqedit/internal/db"
	"github.com/ziadkadry99/seqedit/internal/documents"
	"github.com/ziadkadry99/seqedit/internal/patch"
	"github.com/ziadkadry99/seqedit/internal/render"
	"github.com/ziadkadry99/seqedit/internal/seqtext"
)

// fakeSVG draws a minimal Mermaid-shaped SVG: one label per participant
// and one message text per action, in source order.
func fakeSVG(_ context.Context, source string) (string, error) {
	if strings.Contains(source, "BROKEN") {
		return "", errors.New("Parse error on line 2")
	}
	var b strings.Builder
	b.WriteString(`<svg>`)
	for _, p := range seqtext.Participants(source) {
		fmt.Fprintf(&b, `<rect class="actor actor-top" name="%s"/><text data-id="actor-%s">%s</text>`, p, p, p)
	}
	for _, a := range seqtext.ListActions(source) {
		fmt.Fprintf(&b, `<text class="messageText" dy="1em">%s</text>`, a.Message)
	}
	b.WriteString(`</svg>`)
	return b.String(), nil
}

func setupTest(t *testing.T, r render.Renderer) *Controller {
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
	return New(store, render.NewAdapter(r, 0))
}

func TestApplyAddParticipant(t *testing.T) {
	c := setupTest(t, render.Func(fakeSVG))
	ctx := context.Background()

	v, err := c.Apply(ctx, Intent{Kind: IntentAddParticipant, Name: "Carol"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !v.OK || v.Error != "" {
		t.Fatalf("expected a rendered view, got ok=%v error=%q", v.OK, v.Error)
	}
	want := []string{"Alice", "Bob", "Carol"}
	if strings.Join(v.Participants, ",") != strings.Join(want, ",") {
		t.Errorf("participants = %v, want %v", v.Participants, want)
	}
	if !strings.Contains(v.Markup, patch.ParticipantLabelClass) {
		t.Errorf("markup was not patched: %s", v.Markup)
	}
	if len(v.Documents) != 1 || !v.Documents[0].Active {
		t.Errorf("unexpected document summaries: %+v", v.Documents)
	}

	stored, err := c.Store().Active(ctx)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if stored.Content != v.Document.Content {
		t.Error("view and store disagree on content")
	}
}

func TestMessageIndicesMatchActions(t *testing.T) {
	c := setupTest(t, render.Func(fakeSVG))
	ctx := context.Background()

	if _, err := c.Apply(ctx, Intent{Kind: IntentAddAction, From: "Bob", To: "Alice", Message: "Fine"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	v, err := c.Current(ctx)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}

	msgs := patch.Messages(v.Markup)
	if len(msgs) != len(v.Actions) {
		t.Fatalf("got %d tagged messages for %d actions", len(msgs), len(v.Actions))
	}
	for i, m := range msgs {
		if m.Index != v.Actions[i].Index || m.Text != v.Actions[i].Message {
			t.Errorf("message %d = %+v, action = %+v", i, m, v.Actions[i])
		}
	}

	// Clicking message 2 and editing it changes the third action line.
	v, err = c.Apply(ctx, Intent{Kind: IntentEditAction, Index: msgs[2].Index, Message: "Great"})
	if err != nil {
		t.Fatalf("Apply edit: %v", err)
	}
	if got := v.Actions[2].Message; got != "Great" {
		t.Errorf("edited message = %q", got)
	}
}

func TestApplyInvalidImport(t *testing.T) {
	c := setupTest(t, render.Func(fakeSVG))
	ctx := context.Background()

	before, _ := c.Store().Active(ctx)
	_, err := c.Apply(ctx, Intent{Kind: IntentImport, Text: "graph TD\n  A-->B"})
	if !errors.Is(err, ErrInvalidImport) {
		t.Fatalf("expected ErrInvalidImport, got %v", err)
	}
	after, _ := c.Store().Active(ctx)
	if before.Content != after.Content {
		t.Error("failed import changed the document")
	}

	text := "  sequenceDiagram\n    X->>Y: hi"
	v, err := c.Apply(ctx, Intent{Kind: IntentImport, Text: text})
	if err != nil {
		t.Fatalf("valid import: %v", err)
	}
	if v.Document.Content != text {
		t.Errorf("imported content = %q", v.Document.Content)
	}
}

func TestApplyRenameConflict(t *testing.T) {
	c := setupTest(t, render.Func(fakeSVG))
	_, err := c.Apply(context.Background(), Intent{Kind: IntentRenameParticipant, From: "Alice", To: "Bob"})
	if !errors.Is(err, seqtext.ErrParticipantExists) {
		t.Fatalf("expected ErrParticipantExists, got %v", err)
	}
}

func TestApplySyntaxError(t *testing.T) {
	c := setupTest(t, render.Func(fakeSVG))
	v, err := c.Apply(context.Background(), Intent{Kind: IntentSetText, Text: "sequenceDiagram\n    BROKEN"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if v.OK || v.Markup != "" || v.Error != SyntaxError {
		t.Errorf("expected syntax error view, got ok=%v error=%q", v.OK, v.Error)
	}
}

func TestApplyDocumentIntents(t *testing.T) {
	c := setupTest(t, render.Func(fakeSVG))
	ctx := context.Background()

	first, _ := c.Store().Active(ctx)
	v, err := c.Apply(ctx, Intent{Kind: IntentCreateDocument, Name: "Login flow"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.Document.Name != "Login flow" || v.Document.Content != seqtext.DefaultDiagram {
		t.Errorf("unexpected new document: %+v", v.Document)
	}
	if len(v.Documents) != 2 {
		t.Errorf("expected 2 documents, got %d", len(v.Documents))
	}

	v, err = c.Apply(ctx, Intent{Kind: IntentRenameDocument, Name: "Checkout"})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if v.Document.Name != "Checkout" {
		t.Errorf("renamed document = %q", v.Document.Name)
	}

	v, err = c.Apply(ctx, Intent{Kind: IntentDeleteDocument})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if v.Document.ID != first.ID {
		t.Errorf("expected fallback to first document")
	}

	_, err = c.Apply(ctx, Intent{Kind: IntentDeleteDocument})
	if !errors.Is(err, documents.ErrLastDocument) {
		t.Errorf("expected ErrLastDocument, got %v", err)
	}

	_, err = c.Apply(ctx, Intent{Kind: IntentSwitchDocument, DocumentID: "doc_missing"})
	if !errors.Is(err, documents.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestApplyUnknownIntent(t *testing.T) {
	c := setupTest(t, render.Func(fakeSVG))
	_, err := c.Apply(context.Background(), Intent{Kind: "explode"})
	if !errors.Is(err, ErrUnknownIntent) {
		t.Errorf("expected ErrUnknownIntent, got %v", err)
	}
}

func TestNoOpEditKeepsTimestamp(t *testing.T) {
	c := setupTest(t, render.Func(fakeSVG))
	ctx := context.Background()

	before, _ := c.Store().Active(ctx)
	// Empty message is ignored.
	if _, err := c.Apply(ctx, Intent{Kind: IntentEditAction, Index: 0, Message: "   "}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	after, _ := c.Store().Active(ctx)
	if after.UpdatedAt != before.UpdatedAt || after.Content != before.Content {
		t.Error("no-op edit touched the document")
	}
}

func TestParseIntentKind(t *testing.T) {
	tests := []struct {
		in   string
		want IntentKind
		err  bool
	}{
		{"add-participant", IntentAddParticipant, false},
		{"  Reorder_Actions ", IntentReorderActions, false},
		{"delete_document", IntentDeleteDocument, false},
		{"fly", "", true},
	}
	for _, tt := range tests {
		got, err := ParseIntentKind(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("ParseIntentKind(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestUIStateZoomAndResize(t *testing.T) {
	u := NewUIState(config.DefaultConfig().Editor)

	u.ZoomIn()
	if u.Zoom != 1.05 {
		t.Errorf("zoom after one step = %v", u.Zoom)
	}
	for i := 0; i < 100; i++ {
		u.ZoomIn()
	}
	if u.Zoom != 3 {
		t.Errorf("zoom should clamp at 3, got %v", u.Zoom)
	}
	for i := 0; i < 100; i++ {
		u.ZoomOut()
	}
	if u.Zoom != 0.25 {
		t.Errorf("zoom should clamp at 0.25, got %v", u.Zoom)
	}
	u.ResetZoom()
	if u.Zoom != 1 {
		t.Errorf("reset zoom = %v", u.Zoom)
	}

	u.Resize(2)
	if u.EditorWidth != MinEditorWidth {
		t.Errorf("width = %v, want %v", u.EditorWidth, MinEditorWidth)
	}
	u.Resize(95)
	if u.EditorWidth != MaxEditorWidth {
		t.Errorf("width = %v, want %v", u.EditorWidth, MaxEditorWidth)
	}
	u.Resize(42)
	if u.EditorWidth != 42 {
		t.Errorf("width = %v, want 42", u.EditorWidth)
	}
}

func TestUIStateClick(t *testing.T) {
	u := NewUIState(config.DefaultConfig().Editor)

	// Outside any dialog a participant click opens its edit dialog.
	u.Click(Target{Kind: TargetParticipant, Name: "Alice"})
	if u.Dialog != DialogEditParticipant || u.Participant != "Alice" {
		t.Fatalf("unexpected state: %+v", u)
	}
	// Further participant clicks do not replace it.
	u.Click(Target{Kind: TargetParticipant, Name: "Bob"})
	if u.Participant != "Alice" {
		t.Errorf("participant replaced by %q", u.Participant)
	}
	u.Close()

	// The add-action dialog fills from, then to.
	u.Open(DialogAddAction)
	u.Click(Target{Kind: TargetParticipant, Name: "Alice"})
	u.Click(Target{Kind: TargetParticipant, Name: "Bob"})
	if u.ActionFrom != "Alice" || u.ActionTo != "Bob" || u.ActiveSlot != SlotTo {
		t.Errorf("add action slots = %q -> %q (%s)", u.ActionFrom, u.ActionTo, u.ActiveSlot)
	}
	u.Click(Target{Kind: TargetAction, Index: 1})
	if u.Dialog != DialogAddAction {
		t.Error("action click should not leave the add-action dialog")
	}
	u.Focus(SlotFrom)
	u.Click(Target{Kind: TargetParticipant, Name: "Carol"})
	if u.ActionFrom != "Carol" || u.ActionTo != "Bob" {
		t.Errorf("refocused slots = %q -> %q", u.ActionFrom, u.ActionTo)
	}

	u.Settle(Intent{Kind: IntentAddAction})
	u.Click(Target{Kind: TargetAction, Index: 1, Text: "I am good thanks!"})
	if u.Dialog != DialogEditAction || u.ActionIndex != 1 || u.ActionMessage != "I am good thanks!" {
		t.Errorf("unexpected edit action state: %+v", u)
	}
}

func newTestRouter(c *Controller) chi.Router {
	r := chi.NewRouter()
	RegisterRoutes(r, c, config.DefaultConfig().Editor)
	return r
}

func TestRoutes(t *testing.T) {
	c := setupTest(t, render.Func(fakeSVG))
	r := newTestRouter(c)

	body := `{"kind":"add_action","from":"Alice","to":"Bob","message":"Ping"}`
	req := httptest.NewRequest("POST", "/api/editor/intents", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("intent: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var v View
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(v.Actions) != 3 || v.Actions[2].Message != "Ping" {
		t.Errorf("unexpected actions: %+v", v.Actions)
	}

	req = httptest.NewRequest("GET", "/api/editor/export", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if !strings.HasSuffix(w.Body.String(), "Alice->>Bob: Ping") {
		t.Errorf("export = %q", w.Body.String())
	}

	req = httptest.NewRequest("POST", "/api/editor/import", strings.NewReader("flowchart LR"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad import: expected 400, got %d", w.Code)
	}

	req = httptest.NewRequest("POST", "/api/editor/intents", strings.NewReader(`{"kind":"rename_participant","from":"Bob","to":"Alice"}`))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("rename conflict: expected 409, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/editor/", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("view: expected 200, got %d", w.Code)
	}
}

func dial(t *testing.T, c *Controller) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(newTestRouter(c))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/editor"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads messages until match accepts one.
func readUntil(t *testing.T, conn *websocket.Conn, match func(serverMessage) bool) serverMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var m serverMessage
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("read: %v", err)
		}
		if match(m) {
			return m
		}
	}
}

func finalView(m serverMessage) bool { return m.Type == "view" && !m.View.Pending }

func TestWebSocketSession(t *testing.T) {
	c := setupTest(t, render.Func(fakeSVG))
	conn := dial(t, c)

	conn.WriteJSON(clientMessage{Type: "hello"})
	m := readUntil(t, conn, finalView)
	if !m.View.OK || len(m.View.Actions) != 2 {
		t.Fatalf("unexpected initial view: %+v", m.View)
	}

	conn.WriteJSON(clientMessage{Type: "ui", Event: &UIEvent{Kind: "open", Dialog: DialogAddAction}})
	m = readUntil(t, conn, func(m serverMessage) bool { return m.Type == "ui" })
	if m.UI.Dialog != DialogAddAction {
		t.Errorf("dialog = %q", m.UI.Dialog)
	}

	conn.WriteJSON(clientMessage{Type: "intent", Intent: &Intent{Kind: IntentAddAction, From: "Bob", To: "Alice", Message: "Bye"}})
	m = readUntil(t, conn, func(m serverMessage) bool { return m.Type == "ui" })
	if m.UI.Dialog != DialogNone {
		t.Errorf("dialog should close after adding, got %q", m.UI.Dialog)
	}
	m = readUntil(t, conn, finalView)
	if len(m.View.Actions) != 3 || len(patch.Messages(m.View.Markup)) != 3 {
		t.Errorf("expected 3 actions in the new view")
	}

	conn.WriteJSON(clientMessage{Type: "intent", Intent: &Intent{Kind: IntentRenameParticipant, From: "Alice", To: "Bob"}})
	m = readUntil(t, conn, func(m serverMessage) bool { return m.Type == "ui" })
	if m.UI.Notice == "" {
		t.Error("expected a notice for the rename conflict")
	}
}

func TestWebSocketDropsStaleRenders(t *testing.T) {
	release := make(chan struct{})
	slow := render.Func(func(ctx context.Context, source string) (string, error) {
		if strings.Contains(source, "Slow") {
			select {
			case <-release:
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		return fakeSVG(ctx, source)
	})
	c := setupTest(t, slow)
	conn := dial(t, c)

	conn.WriteJSON(clientMessage{Type: "intent", Intent: &Intent{Kind: IntentSetText, Text: "sequenceDiagram\n    participant Slow"}})
	readUntil(t, conn, func(m serverMessage) bool { return m.Type == "view" && m.View.Pending })

	conn.WriteJSON(clientMessage{Type: "intent", Intent: &Intent{Kind: IntentSetText, Text: "sequenceDiagram\n    participant Fast"}})
	m := readUntil(t, conn, finalView)
	if !strings.Contains(m.View.Markup, "Fast") {
		t.Fatalf("expected the newest render, got %q", m.View.Markup)
	}
	close(release)

	// The slow render finishes now but must never be delivered.
	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	for {
		var late serverMessage
		if err := conn.ReadJSON(&late); err != nil {
			break
		}
		if late.Type == "view" && strings.Contains(late.View.Document.Content, "Slow") {
			t.Fatal("stale render was delivered")
		}
	}
}

// slowKV widens the window between reading and writing the snapshot.
type slowKV struct{ *db.DB }

func (s slowKV) Get(ctx context.Context, key string) (string, bool, error) {
	time.Sleep(time.Millisecond)
	return s.DB.Get(ctx, key)
}

func TestConcurrentIntentsKeepEveryEdit(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	ctx := context.Background()
	store, err := documents.Open(ctx, slowKV{database})
	if err != nil {
		t.Fatalf("documents.Open: %v", err)
	}
	c := New(store, render.NewAdapter(render.Disabled{}, 0))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := c.Mutate(ctx, Intent{Kind: IntentAddParticipant, Name: fmt.Sprintf("P%d", i)}); err != nil {
				t.Errorf("Mutate: %v", err)
			}
		}(i)
	}
	wg.Wait()

	doc, _ := store.Active(ctx)
	if n := len(seqtext.Participants(doc.Content)); n != 12 {
		t.Errorf("participants after 10 concurrent adds: %d, want 12", n)
	}
}

func TestViewMarksStoredActiveDocument(t *testing.T) {
	c := setupTest(t, render.Func(fakeSVG))
	ctx := context.Background()

	first, _ := c.Store().Active(ctx)
	second, err := c.Store().Create(ctx, "second", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Editing a document other than the active one leaves the active one marked.
	v, err := c.Apply(ctx, Intent{Kind: IntentAddParticipant, Name: "Carol", DocumentID: first.ID})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if v.Document.ID != first.ID {
		t.Errorf("view shows %q, want the edited %q", v.Document.ID, first.ID)
	}
	for _, s := range v.Documents {
		if want := s.ID == second.ID; s.Active != want {
			t.Errorf("document %q Active=%v, want %v", s.Name, s.Active, want)
		}
	}
}

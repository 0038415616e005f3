package editor

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/seqedit/internal/config"
	"github.com/ziadkadry99/seqedit/internal/documents"
	"github.com/ziadkadry99/seqedit/internal/render"
	"github.com/ziadkadry99/seqedit/internal/seqtext"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientMessage is the incoming WebSocket message format.
type clientMessage struct {
	Type   string   `json:"type"` // "hello", "intent" or "ui"
	Intent *Intent  `json:"intent,omitempty"`
	Event  *UIEvent `json:"event,omitempty"`
}

// UIEvent is a presentation change sent by the browser.
type UIEvent struct {
	Kind    string  `json:"kind"` // open, close, focus, click, zoom_in, zoom_out, zoom_reset, resize
	Dialog  Dialog  `json:"dialog,omitempty"`
	Slot    Slot    `json:"slot,omitempty"`
	Target  *Target `json:"target,omitempty"`
	Percent float64 `json:"percent,omitempty"`
}

// serverMessage is the outgoing WebSocket message format.
type serverMessage struct {
	Type  string   `json:"type"` // "view", "ui" or "error"
	View  *View    `json:"view,omitempty"`
	UI    *UIState `json:"ui,omitempty"`
	Error string   `json:"error,omitempty"`
}

// session is one live editor connection. Renders run in the background;
// only the newest one ever reaches the client.
type session struct {
	ctrl *Controller
	conn *websocket.Conn
	ui   *UIState
	seq  render.Sequencer
	wg   sync.WaitGroup

	mu sync.Mutex // serializes writes and guards ui
}

func (c *Controller) handleWebSocket(cfg config.EditorConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("editor: websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(context.Background())
		s := &session{ctrl: c, conn: conn, ui: NewUIState(cfg)}
		defer func() {
			cancel()
			s.wg.Wait()
		}()
		s.run(ctx)
	}
}

func (s *session) run(ctx context.Context) {
	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("editor: websocket read: %v", err)
			}
			return
		}

		var req clientMessage
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendError("invalid message format")
			continue
		}

		switch req.Type {
		case "hello":
			doc, err := s.ctrl.store.Active(ctx)
			if err != nil {
				s.sendError(err.Error())
				continue
			}
			s.sendUI()
			s.refresh(ctx, doc)
		case "intent":
			if req.Intent == nil {
				s.sendError("intent is required")
				continue
			}
			s.handleIntent(ctx, *req.Intent)
		case "ui":
			if req.Event == nil {
				s.sendError("event is required")
				continue
			}
			s.handleEvent(*req.Event)
		default:
			s.sendError("unknown message type: " + req.Type)
		}
	}
}

func (s *session) handleIntent(ctx context.Context, in Intent) {
	doc, err := s.ctrl.Mutate(ctx, in)
	if err != nil {
		s.mu.Lock()
		if errors.Is(err, seqtext.ErrParticipantExists) {
			s.ui.Notice = "A participant with this name already exists!"
		} else {
			s.ui.Notice = err.Error()
		}
		s.mu.Unlock()
		s.sendUI()
		if !errors.Is(err, seqtext.ErrParticipantExists) {
			s.sendError(err.Error())
		}
		return
	}

	s.mu.Lock()
	s.ui.Settle(in)
	s.mu.Unlock()
	s.sendUI()
	s.refresh(ctx, doc)
}

func (s *session) handleEvent(ev UIEvent) {
	s.mu.Lock()
	switch ev.Kind {
	case "open":
		s.ui.Open(ev.Dialog)
	case "close":
		s.ui.Close()
	case "focus":
		s.ui.Focus(ev.Slot)
	case "click":
		if ev.Target != nil {
			s.ui.Click(*ev.Target)
		}
	case "zoom_in":
		s.ui.ZoomIn()
	case "zoom_out":
		s.ui.ZoomOut()
	case "zoom_reset":
		s.ui.ResetZoom()
	case "resize":
		s.ui.Resize(ev.Percent)
	default:
		s.mu.Unlock()
		s.sendError("unknown ui event: " + ev.Kind)
		return
	}
	s.mu.Unlock()
	s.sendUI()
}

// refresh sends the text side of the view at once and the rendered
// preview when it is ready, unless a newer edit has overtaken it.
func (s *session) refresh(ctx context.Context, doc *documents.Document) {
	gen := s.seq.Begin()
	pending, err := s.ctrl.View(ctx, doc, render.Result{}, gen)
	if err != nil {
		s.sendError(err.Error())
		return
	}
	pending.Pending = true
	pending.Error = ""
	s.send(serverMessage{Type: "view", View: pending})

	content := doc.Content
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		res := s.ctrl.Render(ctx, content)
		if !s.seq.Complete(gen, res) {
			return
		}
		v := *pending
		v.Pending = false
		v.OK = res.OK
		v.Markup = res.Markup
		if !res.OK {
			v.Error = SyntaxError
		}
		s.send(serverMessage{Type: "view", View: &v})
	}()
}

func (s *session) sendUI() {
	s.mu.Lock()
	ui := *s.ui
	s.mu.Unlock()
	s.send(serverMessage{Type: "ui", UI: &ui})
}

func (s *session) sendError(message string) {
	s.send(serverMessage{Type: "error", Error: message})
}

func (s *session) send(m serverMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteJSON(m); err != nil {
		log.Printf("editor: websocket write: %v", err)
	}
}

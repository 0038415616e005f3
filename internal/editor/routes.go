package editor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/seqedit/internal/config"
	"github.com/ziadkadry99/seqedit/internal/documents"
	"github.com/ziadkadry99/seqedit/internal/seqtext"
)

// maxImportSize bounds request bodies carrying diagram text.
const maxImportSize = 1 << 20

// RegisterRoutes mounts the editor API and its WebSocket.
func RegisterRoutes(r chi.Router, c *Controller, cfg config.EditorConfig) {
	r.Route("/api/editor", func(r chi.Router) {
		r.Get("/", handleView(c))
		r.Post("/intents", handleIntent(c))
		r.Get("/export", handleExport(c))
		r.Post("/import", handleImport(c))
	})
	r.Get("/ws/editor", c.handleWebSocket(cfg))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps controller errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, documents.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, documents.ErrLastDocument), errors.Is(err, seqtext.ErrParticipantExists):
		status = http.StatusConflict
	case errors.Is(err, ErrInvalidImport), errors.Is(err, ErrUnknownIntent), errors.Is(err, seqtext.ErrInvalidArgument):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func handleView(c *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := c.Current(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func handleIntent(c *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in Intent
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		v, err := c.Apply(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func handleExport(c *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := c.store.Active(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, doc.Content)
	}
}

// handleImport replaces the active document with the raw request body.
func handleImport(c *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading body"})
			return
		}
		v, err := c.Apply(r.Context(), Intent{Kind: IntentImport, Text: string(body)})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

package documents

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the document management API routes.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/documents", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Post("/", handleCreate(store))
		r.Get("/active", handleActive(store))
		r.Get("/{id}", handleGet(store))
		r.Put("/{id}", handleUpdate(store))
		r.Post("/{id}/activate", handleActivate(store))
		r.Delete("/{id}", handleDelete(store))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps store errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrLastDocument):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := store.State(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if st.Documents == nil {
			st.Documents = []Document{}
		}
		writeJSON(w, http.StatusOK, st)
	}
}

type createRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

func handleCreate(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
		}
		doc, err := store.Create(r.Context(), req.Name, req.Content)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, doc)
	}
}

func handleActive(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := store.Active(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

type updateRequest struct {
	Name    *string `json:"name"`
	Content *string `json:"content"`
}

func handleUpdate(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req updateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if req.Name == nil && req.Content == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name or content is required"})
			return
		}

		var (
			doc *Document
			err error
		)
		if req.Content != nil {
			if doc, err = store.UpdateContent(r.Context(), id, *req.Content); err != nil {
				writeError(w, err)
				return
			}
		}
		if req.Name != nil {
			if doc, err = store.Rename(r.Context(), id, *req.Name); err != nil {
				writeError(w, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func handleActivate(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := store.Switch(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"activeDocumentId": id})
	}
}

func handleDelete(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed static
var static embed.FS

//go:embed index.html
var indexHTML []byte

// RegisterRoutes mounts the browser editor and its static assets.
func RegisterRoutes(r chi.Router) {
	r.Get("/", ServeIndex)

	assets, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(assets))))
}

// ServeIndex serves the embedded editor page.
func ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// Package web serves the landing page.
package web

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed static/index.html
var indexHTML []byte

// Index writes the landing page.
func Index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexHTML)
}

// RegisterRoutes mounts the landing page on "/".
func RegisterRoutes(router chi.Router) {
	router.Get("/", Index)
}

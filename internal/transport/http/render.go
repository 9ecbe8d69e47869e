package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/ImageGallery/internal/gallery"
)

//go:embed templates/*.html
var templateFS embed.FS

var galleryTemplate = template.Must(template.ParseFS(templateFS, "templates/gallery.html"))

type galleryPage struct {
	State gallery.State
}

func renderGallery(w http.ResponseWriter, s gallery.State) {
	var buf bytes.Buffer
	if err := galleryTemplate.Execute(&buf, galleryPage{State: s}); err != nil {
		slog.Error("Failed to render gallery", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("Failed to write gallery page", "error", err)
	}
}

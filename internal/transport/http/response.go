package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ImageGallery/internal/domain"
	"github.com/ImageGallery/internal/gallery"
)

type errorResponse struct {
	Error string `json:"error"`
}

// galleryResponse is the JSON form of a gallery snapshot.
type galleryResponse struct {
	Page      int            `json:"page"`
	Images    []domain.Image `json:"images"`
	Loading   bool           `json:"loading"`
	Error     string         `json:"error,omitempty"`
	Selected  string         `json:"selected,omitempty"`
	LoadState string         `json:"load_state"`
	CanPrev   bool           `json:"can_prev"`
	CanNext   bool           `json:"can_next"`
}

func newGalleryResponse(s gallery.State) galleryResponse {
	return galleryResponse{
		Page:      s.Page,
		Images:    s.Images,
		Loading:   s.Loading,
		Error:     s.Err,
		Selected:  s.Selected,
		LoadState: s.LoadState().String(),
		CanPrev:   s.CanPrev(),
		CanNext:   s.CanNext(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeControllerError maps gallery errors onto HTTP statuses.
func writeControllerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gallery.ErrBusy), errors.Is(err, gallery.ErrFirstPage):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, gallery.ErrInvalidPage), errors.Is(err, gallery.ErrUnknownImage):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, gallery.ErrClosed):
		writeError(w, http.StatusGone, err.Error())
	default:
		slog.Error("Unexpected gallery error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ImageGallery/internal/app"
	"github.com/ImageGallery/internal/domain"
	"github.com/ImageGallery/internal/gallery"
)

const sessionCookie = "gallery_session"

type Handler struct {
	svc   *app.GalleryService
	probe *app.UpstreamProbe
}

func NewHandler(svc *app.GalleryService, probe *app.UpstreamProbe) *Handler {
	return &Handler{svc: svc, probe: probe}
}

// controller resolves the caller's session, issuing a cookie for new ones.
func (h *Handler) controller(w http.ResponseWriter, r *http.Request) (*gallery.Controller, error) {
	var id string
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		id = cookie.Value
	}

	newID, c, created, err := h.svc.Session(id)
	if err != nil {
		return nil, err
	}
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    newID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return c, nil
}

// --- HTML ---

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	c, err := h.controller(w, r)
	if err != nil {
		slog.Error("Failed to resolve session", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	renderGallery(w, c.Snapshot())
}

// formAction wraps a controller transition triggered by an HTML form and
// sends the browser back to the gallery. Rejected transitions are ignored,
// as the corresponding control is rendered disabled.
func (h *Handler) formAction(action func(r *http.Request, c *gallery.Controller) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := h.controller(w, r)
		if err != nil {
			slog.Error("Failed to resolve session", "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if err := action(r, c); err != nil {
			slog.Debug("Gallery action rejected", "path", r.URL.Path, "error", err)
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (h *Handler) NextPage() http.HandlerFunc {
	return h.formAction(func(_ *http.Request, c *gallery.Controller) error {
		return c.Next()
	})
}

func (h *Handler) PrevPage() http.HandlerFunc {
	return h.formAction(func(_ *http.Request, c *gallery.Controller) error {
		return c.Prev()
	})
}

func (h *Handler) OpenPreview() http.HandlerFunc {
	return h.formAction(func(r *http.Request, c *gallery.Controller) error {
		return c.Select(r.FormValue("url"))
	})
}

func (h *Handler) ClosePreview() http.HandlerFunc {
	return h.formAction(func(_ *http.Request, c *gallery.Controller) error {
		c.ClearSelection()
		return nil
	})
}

// --- JSON API ---

type pageRequest struct {
	Page int `json:"page"`
}

type previewRequest struct {
	URL string `json:"url"`
}

func (h *Handler) GetGallery(w http.ResponseWriter, r *http.Request) {
	c, err := h.controller(w, r)
	if err != nil {
		writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGalleryResponse(c.Snapshot()))
}

// apiAction runs a transition and answers with the resulting snapshot.
func (h *Handler) apiAction(action func(r *http.Request, c *gallery.Controller) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := h.controller(w, r)
		if err != nil {
			writeControllerError(w, err)
			return
		}
		if err := action(r, c); err != nil {
			if errors.Is(err, errBadBody) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeControllerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newGalleryResponse(c.Snapshot()))
	}
}

var errBadBody = errors.New("invalid request body")

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

func (h *Handler) APISetPage() http.HandlerFunc {
	return h.apiAction(func(r *http.Request, c *gallery.Controller) error {
		var req pageRequest
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		return c.SetPage(req.Page)
	})
}

func (h *Handler) APINext() http.HandlerFunc {
	return h.apiAction(func(_ *http.Request, c *gallery.Controller) error {
		return c.Next()
	})
}

func (h *Handler) APIPrev() http.HandlerFunc {
	return h.apiAction(func(_ *http.Request, c *gallery.Controller) error {
		return c.Prev()
	})
}

func (h *Handler) APIOpenPreview() http.HandlerFunc {
	return h.apiAction(func(r *http.Request, c *gallery.Controller) error {
		var req previewRequest
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		return c.Select(req.URL)
	})
}

func (h *Handler) APIClosePreview() http.HandlerFunc {
	return h.apiAction(func(_ *http.Request, c *gallery.Controller) error {
		c.ClearSelection()
		return nil
	})
}

// ListImages is a stateless pass-through of one upstream page.
func (h *Handler) ListImages(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, gallery.ErrInvalidPage.Error())
			return
		}
		page = n
	}

	images, err := h.svc.ListPage(r.Context(), page)
	if err != nil {
		writeError(w, http.StatusBadGateway, domain.FetchFailedMessage)
		return
	}
	writeJSON(w, http.StatusOK, images)
}

// --- Probes ---

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprintf(w, "OK"); err != nil {
		// Log error but don't fail health check
		slog.Debug("Failed to write health response", "error", err)
	}
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.probe.Check(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready", "upstream": h.probe.Address()})
}

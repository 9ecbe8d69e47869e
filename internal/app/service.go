package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ImageGallery/internal/domain"
	"github.com/ImageGallery/internal/gallery"
	"github.com/ImageGallery/internal/session"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// GalleryService is what the transport layer talks to: per-session
// controllers plus a stateless pass-through listing.
type GalleryService struct {
	sessions *session.Store
	lister   domain.ImageLister
	pageSize int
}

func NewGalleryService(sessions *session.Store, lister domain.ImageLister, pageSize int) *GalleryService {
	return &GalleryService{
		sessions: sessions,
		lister:   lister,
		pageSize: pageSize,
	}
}

// Session resolves the caller's controller, creating one (and issuing its
// first fetch) when id is empty or unknown.
func (s *GalleryService) Session(id string) (string, *gallery.Controller, bool, error) {
	return s.sessions.GetOrCreate(id)
}

// ListPage fetches one page without touching any session state.
func (s *GalleryService) ListPage(ctx context.Context, page int) ([]domain.Image, error) {
	if page < 1 {
		return nil, gallery.ErrInvalidPage
	}

	tr := otel.Tracer("image-gallery")
	ctx, span := tr.Start(ctx, "listPage")
	defer span.End()
	span.SetAttributes(
		attribute.Int("page", page),
		attribute.String("provider", s.lister.GetName()),
	)

	images, err := s.lister.ListPage(ctx, page, s.pageSize)
	if err != nil {
		span.RecordError(err)
		slog.Warn("Pass-through listing failed", "page", page, "error", err)
		return nil, fmt.Errorf("list page %d: %w", page, err)
	}
	return images, nil
}

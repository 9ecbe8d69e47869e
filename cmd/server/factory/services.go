package factory

import (
	"context"
	"errors"
	"fmt"

	"github.com/ImageGallery/internal/app"
	"github.com/ImageGallery/internal/domain"
	"github.com/ImageGallery/internal/gallery"
	"github.com/ImageGallery/internal/session"
	"github.com/ImageGallery/pkg/config"
	"go.uber.org/fx"
)

// NewSessionStore creates the in-memory session store and ties its sweeper
// to the application lifecycle.
func NewSessionStore(lc fx.Lifecycle, lister domain.ImageLister, cfg *config.Config) (*session.Store, error) {
	if lister == nil {
		return nil, errors.New("image lister is nil")
	}
	if cfg.PageSize < 1 || cfg.PageSize > 100 {
		return nil, fmt.Errorf("invalid page size: %d (must be 1-100)", cfg.PageSize)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("invalid session TTL: %s", cfg.SessionTTL)
	}

	pageSize := cfg.PageSize
	store := session.NewStore(func() *gallery.Controller {
		return gallery.NewController(lister, gallery.WithPageSize(pageSize))
	}, cfg.SessionTTL)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return store.StartSweeper(cfg.SessionSweepSchedule)
		},
		OnStop: func(_ context.Context) error {
			store.Stop()
			return nil
		},
	})
	return store, nil
}

// NewGalleryService creates the gallery application service.
func NewGalleryService(store *session.Store, lister domain.ImageLister, cfg *config.Config) (*app.GalleryService, error) {
	if store == nil {
		return nil, errors.New("session store is nil")
	}
	return app.NewGalleryService(store, lister, cfg.PageSize), nil
}

// NewUpstreamProbe creates the readiness probe for the listing endpoint.
func NewUpstreamProbe(cfg *config.Config) (*app.UpstreamProbe, error) {
	return app.NewUpstreamProbe(cfg.UpstreamURL)
}

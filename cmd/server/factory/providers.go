// Package factory provides dependency injection constructors for the gallery server.
package factory

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ImageGallery/internal/domain"
	"github.com/ImageGallery/internal/infra/provider"
	"github.com/ImageGallery/internal/infra/transformer"
	"github.com/ImageGallery/pkg/config"
)

// NewImageLister creates the upstream listing provider.
func NewImageLister(cfg *config.Config) (domain.ImageLister, error) {
	if cfg.UpstreamURL == "" {
		return nil, errors.New("upstream URL not configured")
	}
	if cfg.UpstreamRetries < 0 || cfg.UpstreamRetries > 5 {
		return nil, fmt.Errorf("invalid upstream retries: %d (must be 0-5)", cfg.UpstreamRetries)
	}
	if cfg.BreakerThreshold < 1 {
		return nil, fmt.Errorf("invalid breaker threshold: %d (must be >= 1)", cfg.BreakerThreshold)
	}

	tr, err := transformer.GetTransformer(cfg.UpstreamFormat)
	if err != nil {
		return nil, err
	}

	p := provider.NewListingProvider(cfg.UpstreamName, cfg.UpstreamURL, tr, provider.Options{
		Timeout:          cfg.UpstreamTimeout,
		MaxRetries:       cfg.UpstreamRetries,
		FailureThreshold: uint32(cfg.BreakerThreshold),
		OpenTimeout:      cfg.BreakerTimeout,
		UserAgent:        cfg.OTelServiceName,
	})
	slog.Info("Registered provider", "provider", cfg.UpstreamName, "url", cfg.UpstreamURL, "transformer", cfg.UpstreamFormat)
	return p, nil
}

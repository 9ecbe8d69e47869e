package factory

import (
	"testing"
	"time"

	"github.com/ImageGallery/internal/domain/mocks"
	"github.com/ImageGallery/internal/infra/provider"
	"github.com/ImageGallery/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func validConfig() *config.Config {
	return &config.Config{
		UpstreamName:         "picsum",
		UpstreamURL:          "https://picsum.photos/v2/list",
		UpstreamFormat:       "picsum",
		PageSize:             9,
		BreakerThreshold:     5,
		BreakerTimeout:       30 * time.Second,
		SessionTTL:           time.Minute,
		SessionSweepSchedule: "@every 1m",
	}
}

func TestNewImageLister(t *testing.T) {
	lister, err := NewImageLister(validConfig())
	require.NoError(t, err)
	assert.IsType(t, &provider.ListingProvider{}, lister)
	assert.Equal(t, "picsum", lister.GetName())
}

func TestNewImageLister_Invalid(t *testing.T) {
	tests := map[string]func(*config.Config){
		"missing url":       func(c *config.Config) { c.UpstreamURL = "" },
		"too many retries":  func(c *config.Config) { c.UpstreamRetries = 10 },
		"zero threshold":    func(c *config.Config) { c.BreakerThreshold = 0 },
		"unknown transform": func(c *config.Config) { c.UpstreamFormat = "pulselive" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(cfg)
			_, err := NewImageLister(cfg)
			assert.Error(t, err)
		})
	}
}

func TestNewSessionStore(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	store, err := NewSessionStore(lc, new(mocks.MockImageLister), validConfig())
	require.NoError(t, err)

	lc.RequireStart()
	assert.Equal(t, 0, store.Len())
	lc.RequireStop()
}

func TestNewSessionStore_Invalid(t *testing.T) {
	cfg := validConfig()
	cfg.PageSize = 0
	_, err := NewSessionStore(fxtest.NewLifecycle(t), new(mocks.MockImageLister), cfg)
	assert.Error(t, err)

	cfg = validConfig()
	cfg.SessionTTL = 0
	_, err = NewSessionStore(fxtest.NewLifecycle(t), new(mocks.MockImageLister), cfg)
	assert.Error(t, err)

	_, err = NewSessionStore(fxtest.NewLifecycle(t), nil, validConfig())
	assert.Error(t, err)
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/ImageGallery/cmd/server/factory"
	"github.com/ImageGallery/internal/app"
	"github.com/ImageGallery/internal/infra/tracing"
	transport "github.com/ImageGallery/internal/transport/http"
	"github.com/ImageGallery/pkg/config"
	"github.com/ImageGallery/pkg/logging"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fx.Provide(
			// Config
			config.Load,

			// Upstream
			factory.NewImageLister,
			factory.NewUpstreamProbe,

			// Services
			factory.NewSessionStore,
			factory.NewGalleryService,

			// HTTP Server
			transport.NewHTTPServer,
		),
		fx.Invoke(
			SetupLogging,
			SetupTracer,
			WaitForUpstream,
			StartServer,
		),
	).Run()
}

// --- Invokers ---

func SetupLogging(cfg *config.Config) {
	logging.Setup(os.Stdout, cfg.LogLevel)
}

func SetupTracer(lc fx.Lifecycle, cfg *config.Config) error {
	if !cfg.OTelEnabled {
		slog.Info("Tracing disabled")
		return nil
	}

	shutdown, err := tracing.InitTracer(context.Background(), cfg.OTelServiceName)
	if err != nil {
		slog.Error("Failed to initialize tracer", "error", err)
		return err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Info("Shutting down tracer provider")
			return shutdown(ctx)
		},
	})
	return nil
}

// WaitForUpstream gives the listing endpoint a bounded time to become
// reachable. The server starts either way; pages fail until it is up.
func WaitForUpstream(cfg *config.Config, probe *app.UpstreamProbe) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ReadinessTimeout)
	defer cancel()

	if err := probe.WaitForUpstream(ctx); err != nil {
		slog.Warn("Upstream not reachable at startup", "address", probe.Address(), "error", err)
	}
}

func StartServer(lc fx.Lifecycle, server *http.Server) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				slog.Info("Starting gallery server", "address", server.Addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					slog.Error("HTTP server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}

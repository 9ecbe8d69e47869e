package http

import (
	"net/http"

	"github.com/ImageGallery/internal/app"
	"github.com/ImageGallery/pkg/config"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(securityHeaders)

	r.HandleFunc("/", h.Index).Methods(http.MethodGet)
	r.HandleFunc("/page/next", h.NextPage()).Methods(http.MethodPost)
	r.HandleFunc("/page/prev", h.PrevPage()).Methods(http.MethodPost)
	r.HandleFunc("/preview", h.OpenPreview()).Methods(http.MethodPost)
	r.HandleFunc("/preview/close", h.ClosePreview()).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/gallery", h.GetGallery).Methods(http.MethodGet)
	api.HandleFunc("/gallery/page", h.APISetPage()).Methods(http.MethodPost)
	api.HandleFunc("/gallery/next", h.APINext()).Methods(http.MethodPost)
	api.HandleFunc("/gallery/prev", h.APIPrev()).Methods(http.MethodPost)
	api.HandleFunc("/gallery/preview", h.APIOpenPreview()).Methods(http.MethodPost)
	api.HandleFunc("/gallery/preview", h.APIClosePreview()).Methods(http.MethodDelete)
	api.HandleFunc("/images", h.ListImages).Methods(http.MethodGet)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/ready", h.Ready).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func NewHTTPServer(cfg *config.Config, svc *app.GalleryService, probe *app.UpstreamProbe) *http.Server {
	return &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: NewRouter(NewHandler(svc, probe)),
	}
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

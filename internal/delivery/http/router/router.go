package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/extraction-service/internal/delivery/http/handler"
	"github.com/user/extraction-service/internal/delivery/http/middleware"
	"github.com/user/extraction-service/pkg/metrics"
	"go.uber.org/zap"
)

func New(h *handler.Handler, logger *zap.Logger) http.Handler {
	metrics.Init()

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)

	r.Get("/api/health", h.HandleHealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", h.HandleGetStatus)
		r.Get("/data", h.HandleGetData)

		r.Route("/extractions", func(r chi.Router) {
			r.Post("/", h.HandleProcessURL)
			r.Get("/{id}", h.HandleGetProgress)
			r.Get("/{id}/logs", h.HandleListLogs)
			r.Post("/{id}/pause", h.HandlePause)
			r.Post("/{id}/resume", h.HandleResume)
			r.Post("/{id}/stop", h.HandleStop)
		})
	})

	return r
}

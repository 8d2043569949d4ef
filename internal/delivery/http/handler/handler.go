package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/user/extraction-service/internal/delivery/http/request"
	"github.com/user/extraction-service/internal/delivery/http/response"
	"github.com/user/extraction-service/internal/repository"
	"github.com/user/extraction-service/internal/usecase"
	"go.uber.org/zap"
)

// HealthCheck pings one backing service.
type HealthCheck func(ctx context.Context) error

type Handler struct {
	extractor  usecase.Extractor
	controller usecase.Controller
	checks     map[string]HealthCheck
	logger     *zap.Logger

	background sync.WaitGroup
}

func NewHandler(extractor usecase.Extractor, controller usecase.Controller, checks map[string]HealthCheck, logger *zap.Logger) *Handler {
	return &Handler{
		extractor:  extractor,
		controller: controller,
		checks:     checks,
		logger:     logger,
	}
}

// HandleProcessURL runs an extraction. Synchronous requests get the result
// (200 on success, 422 on a failed attempt); async requests get 202 and an ID to poll.
func (h *Handler) HandleProcessURL(w http.ResponseWriter, r *http.Request) {
	var req request.ProcessURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ExtractionID != "" {
		if _, err := h.controller.GetProgress(r.Context(), req.ExtractionID); err == nil {
			h.writeJSONError(w, "Extraction already running with this ID", http.StatusConflict)
			return
		}
	}

	if req.Async {
		if req.ExtractionID == "" {
			req.ExtractionID = uuid.NewString()
		}
		ctx := context.WithoutCancel(r.Context())
		h.background.Add(1)
		go func() {
			defer h.background.Done()
			h.extractor.ProcessURL(ctx, req.URL, req.ExtractionID)
		}()
		h.writeJSON(w, http.StatusAccepted, response.ExtractionAcceptedResponse{
			Status:       "accepted",
			Message:      "Extraction started",
			ExtractionID: req.ExtractionID,
		})
		return
	}

	result := h.extractor.ProcessURL(r.Context(), req.URL, req.ExtractionID)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	h.writeJSON(w, status, result)
}

func (h *Handler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := h.controller.GetProgress(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err, "No running extraction with this ID", "id", id)
		return
	}
	h.writeJSON(w, http.StatusOK, response.ProgressResponse{
		ExtractionID: state.ExtractionID,
		URL:          state.URL,
		Progress:     state.Progress,
		Stage:        state.Stage,
		Paused:       state.Paused,
		Stopped:      state.Stopped,
		StartTime:    state.StartTime,
	})
}

func (h *Handler) HandlePause(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, h.controller.Pause)
}

func (h *Handler) HandleResume(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, h.controller.Resume)
}

func (h *Handler) HandleStop(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, h.controller.Stop)
}

func (h *Handler) control(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) error) {
	id := chi.URLParam(r, "id")
	if err := fn(r.Context(), id); err != nil {
		h.writeLookupError(w, err, "No running extraction with this ID", "id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleListLogs(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	logs, err := h.controller.ListLogs(r.Context(), id, limit)
	if err != nil {
		h.logger.Error("Failed to list operation logs", zap.String("extraction_id", id), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if logs == nil {
		h.writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	h.writeJSON(w, http.StatusOK, logs)
}

func (h *Handler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		h.writeJSONError(w, "URL query parameter is required", http.StatusBadRequest)
		return
	}

	status, err := h.controller.GetStatus(r.Context(), rawURL)
	if err != nil {
		h.writeLookupError(w, err, "Extraction status not found for the given URL", "url", rawURL)
		return
	}
	h.writeJSON(w, http.StatusOK, response.StatusResponse{
		URL:       status.URL,
		Status:    status.Status,
		UpdatedAt: status.UpdatedAt,
	})
}

func (h *Handler) HandleGetData(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		h.writeJSONError(w, "URL query parameter is required", http.StatusBadRequest)
		return
	}

	data, err := h.controller.GetData(r.Context(), rawURL)
	if err != nil {
		h.writeLookupError(w, err, "No extracted data for the given URL", "url", rawURL)
		return
	}
	h.writeJSON(w, http.StatusOK, data)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	code := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Error("health check failed", zap.String("dependency", name), zap.Error(err))
			status[name] = "unhealthy"
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		status[name] = "healthy"
	}
	h.writeJSON(w, code, status)
}

// Wait blocks until all async extractions have finished.
func (h *Handler) Wait() {
	h.background.Wait()
}

func (h *Handler) writeLookupError(w http.ResponseWriter, err error, notFound, key, value string) {
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrStateNotFound) {
		h.writeJSONError(w, notFound, http.StatusNotFound)
		return
	}
	h.logger.Error("lookup failed", zap.String(key, value), zap.Error(err))
	h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

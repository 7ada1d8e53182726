// Package httphandler implements the JSON API driving adapter.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/commentpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/commentpanel/internal/application"
	"github.com/ericfisherdev/commentpanel/internal/domain/model"
	"github.com/ericfisherdev/commentpanel/internal/domain/port/driven"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 200
	maxBodyBytes    = 1 << 20
)

// Handler is the HTTP driving adapter that serves the JSON API.
type Handler struct {
	controller *application.AnalysisController
	service    *application.AnalysisService
	runStore   driven.RunStore
	live       *application.LiveUpdater
	now        func() time.Time
	logger     *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. runStore and
// live may be nil.
func NewHandler(
	controller *application.AnalysisController,
	service *application.AnalysisService,
	runStore driven.RunStore,
	live *application.LiveUpdater,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		controller: controller,
		service:    service,
		runStore:   runStore,
		live:       live,
		now:        time.Now,
		logger:     logger,
	}
}

// RegisterAPIRoutes registers all JSON API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/state", h.State)
	mux.HandleFunc("POST /api/v1/analyze", h.Analyze)
	mux.HandleFunc("PUT /api/v1/filter", h.SetFilter)
	mux.HandleFunc("PUT /api/v1/chart", h.SetChart)
	mux.HandleFunc("GET /api/v1/runs", h.ListRuns)
	mux.HandleFunc("GET /api/v1/runs/{id}", h.GetRun)
	mux.HandleFunc("GET /api/v1/backend/health", h.BackendHealth)
}

// ApplyMiddleware wraps next with recovery and request logging.
func ApplyMiddleware(next http.Handler, logger *slog.Logger) http.Handler {
	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, next)
	return loggingMiddleware(logger, wrapped)
}

// Health reports that the panel itself is up.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   h.now().UTC().Format(time.RFC3339),
	})
}

// State returns the popup view model. An optional filter query parameter
// previews that filter without moving the cursor.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	snap := h.controller.Snapshot()

	if v := r.URL.Query().Get("filter"); v != "" {
		f, err := model.ParseFilter(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		snap.CurrentFilter = f
	}

	in := viewmodel.Input{
		Snapshot: snap,
		Stats:    application.ComputeStats(len(snap.Comments), snap.SentimentCounts),
		Now:      h.now(),
	}
	if h.live != nil {
		in.Pulse = h.live.Current()
	}

	writeJSON(w, http.StatusOK, viewmodel.Build(in))
}

// Analyze runs one analysis synchronously and reports its outcome.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var (
		outcome application.Outcome
		err     error
	)
	if req.Sample {
		outcome, err = h.service.LoadSample(r.Context())
	} else {
		outcome, err = h.service.Analyze(r.Context(), req.URL)
	}

	if err != nil {
		writeError(w, analyzeErrorStatus(err), err.Error())
		return
	}
	if outcome.Dropped {
		writeJSON(w, http.StatusAccepted, BusyResponse{Status: "busy"})
		return
	}

	writeJSON(w, http.StatusOK, toAnalyzeResponse(outcome))
}

// SetFilter moves the comment filter and returns the resulting list.
func (h *Handler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	f, err := model.ParseFilter(req.Filter)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := h.controller.Filter(f)
	writeJSON(w, http.StatusOK, toFilterResponse(res))
}

// SetChart switches the chart mode.
func (h *Handler) SetChart(w http.ResponseWriter, r *http.Request) {
	var req ChartRequest
	if !decodeBody(w, r, &req) {
		return
	}

	mode, err := model.ParseChartMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.controller.SetChartMode(mode)
	writeJSON(w, http.StatusOK, ChartRequest{Mode: string(mode)})
}

// ListRuns returns the most recent analysis runs, newest first.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxRunLimit {
			writeError(w, http.StatusBadRequest, "invalid limit: must be between 1 and "+strconv.Itoa(maxRunLimit))
			return
		}
		limit = n
	}

	if h.runStore == nil {
		writeJSON(w, http.StatusOK, []RunResponse{})
		return
	}

	runs, err := h.runStore.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list runs", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, toRunResponse(run))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetRun returns a single analysis run by ID.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	if h.runStore == nil {
		writeError(w, http.StatusNotFound, "analysis run not found")
		return
	}

	run, err := h.runStore.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, driven.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "analysis run not found")
			return
		}
		h.logger.Error("failed to get run", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toRunResponse(*run))
}

// BackendHealth passes through the analysis backend's health report.
func (h *Handler) BackendHealth(w http.ResponseWriter, r *http.Request) {
	health, err := h.service.BackendHealth(r.Context())
	if err != nil {
		h.logger.Warn("backend health check failed", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	components := health.Components
	if components == nil {
		components = map[string]bool{}
	}
	writeJSON(w, http.StatusOK, BackendHealthResponse{
		Status:     health.Status,
		Components: components,
		Timestamp:  health.Timestamp,
	})
}

// analyzeErrorStatus maps an analysis failure onto a response status.
func analyzeErrorStatus(err error) int {
	switch model.ErrorKind(err) {
	case "context_unavailable":
		return http.StatusUnprocessableEntity
	case "transport_failure", "malformed_response":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes a JSON request body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

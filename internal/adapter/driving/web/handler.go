// Package web implements the HTML popup driving adapter using templ components.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/commentpanel/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/commentpanel/internal/adapter/driving/web/templates/pages"
	"github.com/ericfisherdev/commentpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/commentpanel/internal/application"
	"github.com/ericfisherdev/commentpanel/internal/domain/model"
)

// backendCheckTimeout bounds the health check made for the footer indicator.
const backendCheckTimeout = 2 * time.Second

// Handler is the web driving adapter that serves the popup as HTML.
type Handler struct {
	controller *application.AnalysisController
	service    *application.AnalysisService
	live       *application.LiveUpdater
	now        func() time.Time
	logger     *slog.Logger
}

// NewHandler creates a Handler. live may be nil.
func NewHandler(
	controller *application.AnalysisController,
	service *application.AnalysisService,
	live *application.LiveUpdater,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		controller: controller,
		service:    service,
		live:       live,
		now:        time.Now,
		logger:     logger,
	}
}

// Popup renders the panel with the full HTML layout.
func (h *Handler) Popup(w http.ResponseWriter, r *http.Request) {
	token := csrfToken(w, r)
	p := viewmodel.Current(h.controller, h.live, h.checkBackend(r.Context()), h.now())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	layout := templates.Layout(pages.Title, pages.Popup(p, token))
	if err := layout.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render popup", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) checkBackend(ctx context.Context) *viewmodel.BackendCheck {
	ctx, cancel := context.WithTimeout(ctx, backendCheckTimeout)
	defer cancel()

	health, err := h.service.BackendHealth(ctx)
	if err != nil {
		h.logger.Debug("backend health check failed", "error", err)
	}
	return &viewmodel.BackendCheck{Health: health, Err: err}
}

// Analyze runs an analysis for the submitted page URL, or loads the sample
// payload when the sample field is set, then redirects back to the popup.
// Failures are reflected in the status signal, not in the response code.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	var err error
	if r.FormValue("sample") != "" {
		_, err = h.service.LoadSample(r.Context())
	} else {
		_, err = h.service.Analyze(r.Context(), r.FormValue("url"))
	}
	if err != nil {
		h.logger.Warn("analysis from popup failed", "kind", model.ErrorKind(err), "error", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SetFilter moves the comment filter.
func (h *Handler) SetFilter(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	f, err := model.ParseFilter(r.PathValue("filter"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.controller.Filter(f)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SetChart switches the chart mode.
func (h *Handler) SetChart(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	mode, err := model.ParseChartMode(r.PathValue("mode"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.controller.SetChartMode(mode)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

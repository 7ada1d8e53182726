package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers the popup routes on the provided mux.
// Pages are served at / and form actions under /app/*.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /{$}", h.Popup)
	mux.HandleFunc("POST /app/analyze", h.Analyze)
	mux.HandleFunc("POST /app/filter/{filter}", h.SetFilter)
	mux.HandleFunc("POST /app/chart/{mode}", h.SetChart)
}

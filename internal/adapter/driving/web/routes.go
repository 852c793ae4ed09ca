package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// The public catalog is served at /, the admin pages under /admin.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Public pages.
	mux.HandleFunc("GET /{$}", h.Catalog)
	mux.HandleFunc("GET /admin/login", h.ShowLogin)
	mux.HandleFunc("POST /admin/login", requireCSRF(h.Login))

	// Session-guarded admin pages. Every POST also checks the CSRF token.
	mux.HandleFunc("POST /admin/logout", requireCSRF(h.Logout))
	mux.HandleFunc("GET /admin", h.requireSession(h.Admin))
	mux.HandleFunc("POST /admin/transceivers", h.requireSession(requireCSRF(h.AddTransceiver)))
	mux.HandleFunc("GET /admin/transceivers/{sku}/edit", h.requireSession(h.EditTransceiver))
	mux.HandleFunc("POST /admin/transceivers/{sku}/edit", h.requireSession(requireCSRF(h.UpdateTransceiver)))
	mux.HandleFunc("POST /admin/transceivers/{sku}/delete", h.requireSession(requireCSRF(h.DeleteTransceiver)))
	mux.HandleFunc("POST /admin/password", h.requireSession(requireCSRF(h.ChangePassword)))
}

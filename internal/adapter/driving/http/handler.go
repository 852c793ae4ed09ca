// Package httphandler implements the JSON REST API driving adapter.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ericfisherdev/opticatalog/internal/application"
	"github.com/ericfisherdev/opticatalog/internal/domain/model"
	"github.com/ericfisherdev/opticatalog/internal/domain/port/driven"
)

// maxBodyBytes caps request bodies; a single record is well under 1KB.
const maxBodyBytes = 1 << 20

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	catalog *application.CatalogService
	auth    *application.AuthGate
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(catalog *application.CatalogService, auth *application.AuthGate, logger *slog.Logger) *Handler {
	return &Handler{
		catalog: catalog,
		auth:    auth,
		logger:  logger,
	}
}

// RegisterAPIRoutes registers all /api/v1 routes on mux. Mutating routes
// require the admin password via HTTP Basic auth.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/transceivers", h.ListTransceivers)
	mux.HandleFunc("GET /api/v1/transceivers/{sku}", h.GetTransceiver)
	mux.HandleFunc("GET /api/v1/filters", h.FilterOptions)
	mux.HandleFunc("GET /api/v1/fields/{field}/values", h.DistinctValues)

	mux.HandleFunc("POST /api/v1/transceivers", requireAdmin(h.auth, h.logger, h.AddTransceiver))
	mux.HandleFunc("PUT /api/v1/transceivers/{sku}", requireAdmin(h.auth, h.logger, h.UpdateTransceiver))
	mux.HandleFunc("DELETE /api/v1/transceivers/{sku}", requireAdmin(h.auth, h.logger, h.DeleteTransceiver))
	mux.HandleFunc("GET /api/v1/admin/status", requireAdmin(h.auth, h.logger, h.AdminStatus))
	mux.HandleFunc("POST /api/v1/admin/password", h.ChangePassword)
}

// NewServeMux creates an http.Handler with all API routes registered and
// wrapped with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, logger)
}

// ListTransceivers returns the catalog, narrowed by the optional form_factor,
// data_rate, connector, status and q query parameters.
func (h *Handler) ListTransceivers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.Filter{
		FormFactor: q.Get("form_factor"),
		DataRate:   q.Get("data_rate"),
		Connector:  q.Get("connector"),
		Status:     q.Get("status"),
		Search:     q.Get("q"),
	}

	records, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list transceivers", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := ListResponse{Count: len(records), Transceivers: make([]TransceiverResponse, 0, len(records))}
	for _, t := range records {
		resp.Transceivers = append(resp.Transceivers, toTransceiverResponse(t))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetTransceiver returns a single transceiver by SKU.
func (h *Handler) GetTransceiver(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")

	t, err := h.catalog.Get(r.Context(), sku)
	if err != nil {
		h.logger.Error("failed to get transceiver", "sku", sku, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "transceiver not found")
		return
	}

	writeJSON(w, http.StatusOK, toTransceiverResponse(*t))
}

// FilterOptions returns the distinct values offered by each catalog filter.
func (h *Handler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.catalog.FilterOptions(r.Context())
	if err != nil {
		h.logger.Error("failed to load filter options", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toFilterOptionsResponse(opts))
}

// DistinctValues returns the sorted distinct values of one record field.
func (h *Handler) DistinctValues(w http.ResponseWriter, r *http.Request) {
	field := r.PathValue("field")
	if _, ok := (model.Transceiver{}).FieldValue(field); !ok {
		writeError(w, http.StatusNotFound, "unknown field")
		return
	}

	values, err := h.catalog.DistinctValues(r.Context(), field)
	if err != nil {
		h.logger.Error("failed to load distinct values", "field", field, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, DistinctValuesResponse{Field: field, Values: nonNil(values)})
}

// AddTransceiver creates a transceiver. Responds 409 when the SKU exists.
func (h *Handler) AddTransceiver(w http.ResponseWriter, r *http.Request) {
	var req TransceiverRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	t := req.toModel()
	if err := t.ValidateComplete(); err != nil {
		h.writeMutationError(w, "add", t.SKU, err)
		return
	}

	ok, err := h.catalog.Add(r.Context(), t)
	if err != nil {
		h.writeMutationError(w, "add", t.SKU, err)
		return
	}
	if !ok {
		writeError(w, http.StatusConflict, "transceiver with this sku already exists")
		return
	}

	h.respondWithRecord(w, r, strings.TrimSpace(t.SKU), http.StatusCreated)
}

// UpdateTransceiver replaces the transceiver stored under the path SKU.
func (h *Handler) UpdateTransceiver(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")

	var req TransceiverRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	t := req.toModel()
	// The body may omit the SKU; the path names the record.
	check := t
	if strings.TrimSpace(check.SKU) == "" {
		check.SKU = sku
	}
	if err := check.ValidateComplete(); err != nil {
		h.writeMutationError(w, "update", sku, err)
		return
	}

	ok, err := h.catalog.Update(r.Context(), sku, t)
	if err != nil {
		h.writeMutationError(w, "update", sku, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "transceiver not found")
		return
	}

	h.respondWithRecord(w, r, sku, http.StatusOK)
}

// DeleteTransceiver removes every transceiver with the path SKU.
func (h *Handler) DeleteTransceiver(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")

	ok, err := h.catalog.Delete(r.Context(), sku)
	if err != nil {
		h.logger.Error("failed to delete transceiver", "sku", sku, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "transceiver not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AdminStatus reports whether the default password is still in use.
func (h *Handler) AdminStatus(w http.ResponseWriter, r *http.Request) {
	warning, err := h.auth.DefaultCredentialWarning(r.Context())
	if err != nil {
		h.logger.Error("failed to check default credential", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, AdminStatusResponse{DefaultPasswordWarning: warning})
}

// ChangePassword rotates the admin password. The old password in the body
// is the authorization, so Basic auth is not required.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	if req.OldPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "old_password and new_password are required")
		return
	}
	if err := application.ValidateNewPassword(req.NewPassword); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := h.auth.Change(r.Context(), req.OldPassword, req.NewPassword)
	if err != nil {
		h.logger.Error("failed to change admin password", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !ok {
		writeError(w, http.StatusForbidden, "current password is incorrect")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// decodeBody decodes a JSON request body into v, writing a 400 on failure.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeMutationError maps add/update failures to status codes.
func (h *Handler) writeMutationError(w http.ResponseWriter, op, sku string, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{Error: "invalid transceiver", Problems: ve.Problems})
	case errors.Is(err, application.ErrSKUMismatch):
		writeError(w, http.StatusBadRequest, "sku in body does not match path")
	case errors.Is(err, driven.ErrSKURequired):
		writeError(w, http.StatusBadRequest, "sku is required")
	default:
		h.logger.Error("failed to "+op+" transceiver", "sku", sku, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// respondWithRecord re-reads the stored record so the response reflects
// normalization applied on write.
func (h *Handler) respondWithRecord(w http.ResponseWriter, r *http.Request, sku string, status int) {
	t, err := h.catalog.Get(r.Context(), sku)
	if err != nil || t == nil {
		h.logger.Error("failed to reload transceiver", "sku", sku, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, status, toTransceiverResponse(*t))
}

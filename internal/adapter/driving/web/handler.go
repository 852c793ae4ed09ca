// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/opticatalog/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/opticatalog/internal/application"
	"github.com/ericfisherdev/opticatalog/internal/domain/model"
	"github.com/ericfisherdev/opticatalog/internal/domain/port/driven"
)

// Notice codes carried on the admin redirect after a successful action.
const (
	noticeAdded    = "added"
	noticeUpdated  = "updated"
	noticeDeleted  = "deleted"
	noticePassword = "password"
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	catalog  *application.CatalogService
	auth     *application.AuthGate
	sessions *SessionStore
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	catalog *application.CatalogService,
	auth *application.AuthGate,
	sessions *SessionStore,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		catalog:  catalog,
		auth:     auth,
		sessions: sessions,
		logger:   logger,
	}
}

// Catalog renders the public catalog with the filters, search term and view
// taken from the query string.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.Filter{
		FormFactor: q.Get("form_factor"),
		DataRate:   q.Get("data_rate"),
		Connector:  q.Get("connector"),
		Status:     q.Get("status"),
		Search:     q.Get("q"),
	}
	view := q.Get("view")
	if view != vm.ViewCards {
		view = vm.ViewTable
	}

	all, err := h.catalog.List(r.Context(), model.Filter{})
	if err != nil {
		h.serverError(w, "failed to load catalog", err)
		return
	}
	opts, err := h.catalog.FilterOptions(r.Context())
	if err != nil {
		h.serverError(w, "failed to load filter options", err)
		return
	}

	matched := make([]model.Transceiver, 0, len(all))
	for _, t := range all {
		if filter.Matches(t) {
			matched = append(matched, t)
		}
	}

	page := toCatalogPageViewModel(filter, view, opts, len(all), matched)
	h.render(w, r, http.StatusOK, "Catalog", csrfToken(w, r), CatalogPage(page))
}

// ShowLogin renders the login form, or forwards an existing session to the
// admin panel.
func (h *Handler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if h.sessions.loggedIn(r) {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	token := csrfToken(w, r)
	h.render(w, r, http.StatusOK, "Admin login", token, LoginPage(vm.LoginPageViewModel{CSRFToken: token}))
}

// Login verifies the submitted password and starts a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ok, err := h.auth.Verify(r.Context(), r.PostFormValue("password"))
	if err != nil {
		h.serverError(w, "failed to verify admin password", err)
		return
	}
	if !ok {
		h.logger.Warn("admin login failed", "remote_addr", r.RemoteAddr)
		token := csrfToken(w, r)
		h.render(w, r, http.StatusUnauthorized, "Admin login", token,
			LoginPage(vm.LoginPageViewModel{CSRFToken: token, Error: "Incorrect password."}))
		return
	}

	h.sessions.setCookie(w, r, h.sessions.Create())
	h.logger.Info("admin logged in", "remote_addr", r.RemoteAddr)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout ends the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		h.sessions.Delete(cookie.Value)
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Admin renders the admin panel.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	h.renderAdmin(w, r, http.StatusOK, noticeText(r.URL.Query()), nil, model.Transceiver{})
}

// AddTransceiver creates a record from the add form.
func (h *Handler) AddTransceiver(w http.ResponseWriter, r *http.Request) {
	t := transceiverFromForm(r)
	if err := t.ValidateComplete(); err != nil {
		problems, _ := inputProblems(err)
		h.renderAdmin(w, r, http.StatusBadRequest, "", problems, t)
		return
	}

	ok, err := h.catalog.Add(r.Context(), t)
	if err != nil {
		if problems, isInput := inputProblems(err); isInput {
			h.renderAdmin(w, r, http.StatusBadRequest, "", problems, t)
			return
		}
		h.serverError(w, "failed to add transceiver", err)
		return
	}
	if !ok {
		h.renderAdmin(w, r, http.StatusConflict, "", []string{"A transceiver with SKU " + strings.TrimSpace(t.SKU) + " already exists."}, t)
		return
	}

	redirectWithNotice(w, r, noticeAdded, strings.TrimSpace(t.SKU))
}

// EditTransceiver renders the edit form for one record.
func (h *Handler) EditTransceiver(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")

	t, err := h.catalog.Get(r.Context(), sku)
	if err != nil {
		h.serverError(w, "failed to load transceiver", err)
		return
	}
	if t == nil {
		http.NotFound(w, r)
		return
	}

	h.renderEdit(w, r, http.StatusOK, *t, nil)
}

// UpdateTransceiver saves the edit form. The SKU always comes from the path.
func (h *Handler) UpdateTransceiver(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")
	t := transceiverFromForm(r)
	t.SKU = sku
	if err := t.ValidateComplete(); err != nil {
		problems, _ := inputProblems(err)
		h.renderEdit(w, r, http.StatusBadRequest, t, problems)
		return
	}

	ok, err := h.catalog.Update(r.Context(), sku, t)
	if err != nil {
		if problems, isInput := inputProblems(err); isInput {
			h.renderEdit(w, r, http.StatusBadRequest, t, problems)
			return
		}
		h.serverError(w, "failed to update transceiver", err)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	redirectWithNotice(w, r, noticeUpdated, sku)
}

// DeleteTransceiver removes a record.
func (h *Handler) DeleteTransceiver(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")

	ok, err := h.catalog.Delete(r.Context(), sku)
	if err != nil {
		h.serverError(w, "failed to delete transceiver", err)
		return
	}
	if !ok {
		h.renderAdmin(w, r, http.StatusNotFound, "", []string{"No transceiver with SKU " + sku + "."}, model.Transceiver{})
		return
	}

	redirectWithNotice(w, r, noticeDeleted, sku)
}

// ChangePassword rotates the admin password. Every other session is ended;
// the browser that made the change gets a fresh one.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	oldPassword := r.PostFormValue("old_password")
	newPassword := r.PostFormValue("new_password")

	if newPassword != r.PostFormValue("confirm_password") {
		h.renderAdmin(w, r, http.StatusBadRequest, "", []string{"New passwords do not match."}, model.Transceiver{})
		return
	}
	if err := application.ValidateNewPassword(newPassword); err != nil {
		h.renderAdmin(w, r, http.StatusBadRequest, "", []string{"New " + err.Error() + "."}, model.Transceiver{})
		return
	}

	ok, err := h.auth.Change(r.Context(), oldPassword, newPassword)
	if err != nil {
		h.serverError(w, "failed to change admin password", err)
		return
	}
	if !ok {
		h.renderAdmin(w, r, http.StatusForbidden, "", []string{"Current password is incorrect."}, model.Transceiver{})
		return
	}

	h.sessions.DeleteAll()
	h.sessions.setCookie(w, r, h.sessions.Create())
	redirectWithNotice(w, r, noticePassword, "")
}

// requireSession redirects requests without a live admin session to the
// login page.
func (h *Handler) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.sessions.loggedIn(r) {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func (h *Handler) renderAdmin(w http.ResponseWriter, r *http.Request, status int, notice string, problems []string, draft model.Transceiver) {
	all, err := h.catalog.List(r.Context(), model.Filter{})
	if err != nil {
		h.serverError(w, "failed to load catalog", err)
		return
	}
	warning, err := h.auth.DefaultCredentialWarning(r.Context())
	if err != nil {
		h.serverError(w, "failed to check default credential", err)
		return
	}

	token := csrfToken(w, r)
	page := vm.AdminPageViewModel{
		CSRFToken:      token,
		DefaultWarning: warning,
		Notice:         notice,
		Errors:         problems,
		AddForm:        newFormViewModel(token, "/admin/transceivers", "Add transceiver", draft, false),
		Transceivers:   toTransceiverViewModels(all),
	}
	h.render(w, r, status, "Admin panel", token, AdminPage(page))
}

func (h *Handler) renderEdit(w http.ResponseWriter, r *http.Request, status int, t model.Transceiver, problems []string) {
	token := csrfToken(w, r)
	action := "/admin/transceivers/" + url.PathEscape(t.SKU) + "/edit"
	page := vm.EditPageViewModel{
		Errors: problems,
		Form:   newFormViewModel(token, action, "Save changes", t, true),
	}
	h.render(w, r, status, "Edit "+t.SKU, token, EditPage(page))
}

// render writes the page inside the layout. Output is buffered so a render
// failure still produces a clean 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title, csrf string, body templ.Component) {
	var buf bytes.Buffer
	layout := Layout(title, h.sessions.loggedIn(r), csrf, body)
	if err := layout.Render(r.Context(), &buf); err != nil {
		h.serverError(w, "failed to render page", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) serverError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// transceiverFromForm reads a record from the add/edit form fields.
func transceiverFromForm(r *http.Request) model.Transceiver {
	v := func(field string) string { return strings.TrimSpace(r.PostFormValue(field)) }
	return model.Transceiver{
		SKU:         v(model.FieldSKU),
		Name:        v(model.FieldName),
		FormFactor:  v(model.FieldFormFactor),
		DataRate:    v(model.FieldDataRate),
		Wavelength:  v(model.FieldWavelength),
		Reach:       v(model.FieldReach),
		Connector:   v(model.FieldConnector),
		Temperature: v(model.FieldTemperature),
		Power:       v(model.FieldPower),
		Description: r.PostFormValue(model.FieldDescription),
		Status:      v(model.FieldStatus),
	}
}

// inputProblems extracts user-facing messages from errors caused by bad form
// input. ok is false for anything else.
func inputProblems(err error) (problems []string, ok bool) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Problems, true
	case errors.Is(err, application.ErrSKUMismatch):
		return []string{"The SKU cannot be changed."}, true
	case errors.Is(err, driven.ErrSKURequired):
		return []string{"sku is required"}, true
	}
	return nil, false
}

func redirectWithNotice(w http.ResponseWriter, r *http.Request, notice, sku string) {
	q := url.Values{}
	q.Set("notice", notice)
	if sku != "" {
		q.Set("sku", sku)
	}
	http.Redirect(w, r, "/admin?"+q.Encode(), http.StatusSeeOther)
}

// noticeText maps a notice code from the query string to its message.
// Unknown codes render nothing.
func noticeText(q url.Values) string {
	sku := q.Get("sku")
	switch q.Get("notice") {
	case noticeAdded:
		return "Transceiver " + sku + " added."
	case noticeUpdated:
		return "Transceiver " + sku + " updated."
	case noticeDeleted:
		return "Transceiver " + sku + " deleted."
	case noticePassword:
		return "Password changed."
	}
	return ""
}

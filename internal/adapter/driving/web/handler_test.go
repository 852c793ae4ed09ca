package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/opticatalog/internal/adapter/driven/jsonfile"
	"github.com/ericfisherdev/opticatalog/internal/application"
	"github.com/ericfisherdev/opticatalog/internal/domain/model"
)

const testCSRF = "test-csrf-token"

type webEnv struct {
	mux      *http.ServeMux
	catalog  *application.CatalogService
	sessions *SessionStore
}

func setupWeb(t *testing.T, records ...model.Transceiver) webEnv {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	catalog := application.NewCatalogService(jsonfile.NewTransceiverRepo(filepath.Join(dir, "transceivers.json")), logger)
	auth := application.NewAuthGate(jsonfile.NewCredentialRepo(filepath.Join(dir, "auth.json")), nil, logger)
	sessions := NewSessionStore(time.Hour)

	for _, r := range records {
		ok, err := catalog.Add(context.Background(), r)
		require.NoError(t, err)
		require.True(t, ok)
	}

	mux := http.NewServeMux()
	RegisterRoutes(mux, NewHandler(catalog, auth, sessions, logger))
	return webEnv{mux: mux, catalog: catalog, sessions: sessions}
}

func (e webEnv) get(target string, session string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if session != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: session})
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

// post submits a form with a matching CSRF cookie and field unless the
// form already sets csrf_token.
func (e webEnv) post(target string, form url.Values, session string) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	if _, set := form[csrfFormField]; !set {
		form.Set(csrfFormField, testCSRF)
	}
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: testCSRF})
	if session != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: session})
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func sessionFrom(rec *httptest.ResponseRecorder) string {
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c.Value
		}
	}
	return ""
}

func (e webEnv) login(t *testing.T) string {
	t.Helper()
	rec := e.post("/admin/login", url.Values{"password": {application.DefaultPassword}}, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	session := sessionFrom(rec)
	require.NotEmpty(t, session)
	return session
}

// completeForm returns a fully filled add/edit form with the given fields
// replaced.
func completeForm(overrides url.Values) url.Values {
	form := url.Values{
		"sku": {"NEW-1"}, "name": {"New"}, "form_factor": {"SFP28"}, "data_rate": {"25G"},
		"wavelength": {"850nm"}, "reach": {"100m"}, "connector": {"LC"}, "temperature": {"0 to 70C"},
		"power": {"1W"}, "description": {"fresh"}, "status": {"Active"},
	}
	for k, v := range overrides {
		form[k] = v
	}
	return form
}

var (
	webSR = model.Transceiver{SKU: "SFP-10G-SR", Name: "10G SR", FormFactor: "SFP+", DataRate: "10G", Connector: "LC", Status: "Active", Description: "**multimode** <script>alert(1)</script>"}
	webLR = model.Transceiver{SKU: "QSFP-100G-LR4", Name: "100G LR4", FormFactor: "QSFP28", DataRate: "100G", Connector: "LC", Status: "EOL"}
)

func TestCatalog_TableView(t *testing.T) {
	env := setupWeb(t, webSR, webLR)

	rec := env.get("/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, `<table class="catalog">`)
	assert.Contains(t, body, `<strong id="result-count">2</strong> of 2`)
	assert.Contains(t, body, "SFP-10G-SR")
	assert.Contains(t, body, "QSFP-100G-LR4")
	assert.Contains(t, body, "<strong>multimode</strong>")
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, `<option value="QSFP28">`)
	assert.Contains(t, body, "Admin login")

	setCookie := rec.Header().Get("Set-Cookie")
	assert.Contains(t, setCookie, csrfCookieName+"=")
}

func TestCatalog_FiltersAndCards(t *testing.T) {
	env := setupWeb(t, webSR, webLR)

	rec := env.get("/?status=EOL&view=cards", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `class="cards"`)
	assert.Contains(t, body, `<strong id="result-count">1</strong> of 2`)
	assert.Contains(t, body, `<article class="card retired" data-sku="QSFP-100G-LR4">`)
	assert.NotContains(t, body, `data-sku="SFP-10G-SR"`)
	assert.Contains(t, body, `<option value="EOL" selected>`)
}

func TestCatalog_ActiveCardsAreNotDimmed(t *testing.T) {
	env := setupWeb(t, webSR)

	rec := env.get("/?view=cards", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<article class="card" data-sku="SFP-10G-SR">`)
	assert.Contains(t, rec.Body.String(), `status-active`)
}

func TestCatalog_SearchWithNoMatches(t *testing.T) {
	env := setupWeb(t, webSR)

	rec := env.get("/?q=coherent", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No transceivers match")
	assert.Contains(t, rec.Body.String(), `value="coherent"`)
}

func TestAdmin_RequiresSession(t *testing.T) {
	env := setupWeb(t)

	rec := env.get("/admin", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))

	rec = env.post("/admin/transceivers", url.Values{"sku": {"X"}}, "bogus-session")
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	all, err := env.catalog.List(context.Background(), model.Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLogin(t *testing.T) {
	env := setupWeb(t)

	rec := env.post("/admin/login", url.Values{"password": {"nope"}}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Incorrect password.")
	assert.Empty(t, sessionFrom(rec))

	session := env.login(t)

	rec = env.get("/admin", session)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "You are using the default password: admin123")

	rec = env.get("/admin/login", session)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestLogin_RejectsMissingCSRF(t *testing.T) {
	env := setupWeb(t)

	rec := env.post("/admin/login", url.Values{"password": {application.DefaultPassword}, csrfFormField: {"other"}}, "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, sessionFrom(rec))
}

func TestLogout(t *testing.T) {
	env := setupWeb(t)
	session := env.login(t)

	rec := env.post("/admin/logout", nil, session)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.False(t, env.sessions.Valid(session))
}

func TestAdmin_AddTransceiver(t *testing.T) {
	env := setupWeb(t, webLR)
	session := env.login(t)

	rec := env.post("/admin/transceivers", completeForm(url.Values{"sku": {" NEW-1 "}}), session)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin?notice=added&sku=NEW-1", rec.Header().Get("Location"))

	got, err := env.catalog.Get(context.Background(), "NEW-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "SFP28", got.FormFactor)
	assert.Equal(t, "850nm", got.Wavelength)

	rec = env.get("/admin?notice=added&sku=NEW-1", session)
	assert.Contains(t, rec.Body.String(), "Transceiver NEW-1 added.")

	rec = env.post("/admin/transceivers", completeForm(nil), session)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")

	rec = env.post("/admin/transceivers", completeForm(url.Values{"sku": {"BAD"}, "form_factor": {"XFP"}}), session)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown form_factor")
	assert.Contains(t, rec.Body.String(), `value="BAD"`, "form keeps the submitted values")
}

func TestAdmin_AddTransceiverRequiresEveryField(t *testing.T) {
	env := setupWeb(t)
	session := env.login(t)

	rec := env.post("/admin/transceivers", url.Values{"sku": {"SKU-ONLY"}}, session)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<ul class="errors">`)
	for _, field := range model.Fields[1:] {
		assert.Contains(t, body, "<li>"+field+" is required</li>")
	}
	assert.Contains(t, body, `value="SKU-ONLY"`)

	got, err := env.catalog.Get(context.Background(), "SKU-ONLY")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAdmin_FormMarksFieldsRequired(t *testing.T) {
	env := setupWeb(t)
	session := env.login(t)

	rec := env.get("/admin", session)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "(none)")
	assert.Contains(t, body, `<select name="form_factor" required>`)
	assert.Contains(t, body, `<option value="" disabled selected hidden>Choose...</option>`)
	assert.Contains(t, body, `<input name="wavelength" value="" required>`)
	assert.Contains(t, body, `<textarea name="description" rows="4" required>`)
}

func TestAdmin_EditTransceiver(t *testing.T) {
	env := setupWeb(t, webSR)
	session := env.login(t)

	rec := env.get("/admin/transceivers/SFP-10G-SR/edit", session)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="10G SR"`)
	assert.Contains(t, rec.Body.String(), "readonly")

	form := completeForm(url.Values{"sku": {"IGNORED"}, "name": {"Renamed"}, "status": {"Discontinued"}})
	rec = env.post("/admin/transceivers/SFP-10G-SR/edit", form, session)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	got, err := env.catalog.Get(context.Background(), "SFP-10G-SR")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "SFP-10G-SR", got.SKU)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "Discontinued", got.Status)

	rec = env.post("/admin/transceivers/SFP-10G-SR/edit", completeForm(url.Values{"status": {"Retired"}}), session)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.post("/admin/transceivers/SFP-10G-SR/edit", url.Values{"name": {"only a name"}}, session)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "<li>wavelength is required</li>")
	assert.NotContains(t, rec.Body.String(), "<li>sku is required</li>")

	rec = env.get("/admin/transceivers/MISSING/edit", session)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.post("/admin/transceivers/MISSING/edit", completeForm(nil), session)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin_DeleteTransceiver(t *testing.T) {
	env := setupWeb(t, webSR, webLR)
	session := env.login(t)

	rec := env.post("/admin/transceivers/SFP-10G-SR/delete", nil, session)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	got, err := env.catalog.Get(context.Background(), "SFP-10G-SR")
	require.NoError(t, err)
	assert.Nil(t, got)

	rec = env.post("/admin/transceivers/SFP-10G-SR/delete", nil, session)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.post("/admin/transceivers/QSFP-100G-LR4/delete", url.Values{csrfFormField: {"forged"}}, session)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdmin_ChangePassword(t *testing.T) {
	env := setupWeb(t)
	session := env.login(t)

	tests := []struct {
		name     string
		form     url.Values
		wantCode int
		wantText string
	}{
		{
			name:     "confirmation mismatch",
			form:     url.Values{"old_password": {"admin123"}, "new_password": {"secret1"}, "confirm_password": {"secret2"}},
			wantCode: http.StatusBadRequest,
			wantText: "New passwords do not match.",
		},
		{
			name:     "too short",
			form:     url.Values{"old_password": {"admin123"}, "new_password": {"abc"}, "confirm_password": {"abc"}},
			wantCode: http.StatusBadRequest,
			wantText: "at least 6 characters",
		},
		{
			name:     "wrong current password",
			form:     url.Values{"old_password": {"wrong"}, "new_password": {"secret1"}, "confirm_password": {"secret1"}},
			wantCode: http.StatusForbidden,
			wantText: "Current password is incorrect.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.post("/admin/password", tc.form, session)
			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantText)
		})
	}

	form := url.Values{"old_password": {"admin123"}, "new_password": {"secret1"}, "confirm_password": {"secret1"}}
	rec := env.post("/admin/password", form, session)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	fresh := sessionFrom(rec)
	require.NotEmpty(t, fresh)
	assert.False(t, env.sessions.Valid(session), "old sessions end on password change")

	rec = env.get("/admin", fresh)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "default password")

	rec = env.post("/admin/login", url.Values{"password": {application.DefaultPassword}}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStaticAssets(t *testing.T) {
	env := setupWeb(t)

	rec := env.get("/static/style.css", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".cards")
}

func TestSessionStore_Expiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore(time.Hour)
	store.now = func() time.Time { return now }

	token := store.Create()
	assert.True(t, store.Valid(token))
	assert.False(t, store.Valid(""))
	assert.False(t, store.Valid("unknown"))

	now = now.Add(59 * time.Minute)
	assert.True(t, store.Valid(token))

	now = now.Add(time.Minute)
	assert.False(t, store.Valid(token))
}

func TestSessionStore_DeleteAll(t *testing.T) {
	store := NewSessionStore(time.Hour)
	a, b := store.Create(), store.Create()
	assert.NotEqual(t, a, b)

	store.Delete(a)
	assert.False(t, store.Valid(a))
	assert.True(t, store.Valid(b))

	store.DeleteAll()
	assert.False(t, store.Valid(b))
}

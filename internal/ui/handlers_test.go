package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataviz-labs/formviz/internal/lang"
	"github.com/dataviz-labs/formviz/internal/state"
	"github.com/dataviz-labs/formviz/internal/testutil"
	"github.com/dataviz-labs/formviz/pkg/core"
)

type fixture struct {
	store  *state.SQLStore
	router chi.Router
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := state.Open(state.Config{Driver: state.DriverSQLite, Database: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate())

	langDir := t.TempDir()
	en := "word_visualizations: Visualizations\nword_close: Close\n"
	fr := "word_visualizations: Visualisations\nword_close: Fermer\n"
	require.NoError(t, os.WriteFile(filepath.Join(langDir, "en.yaml"), []byte(en), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(langDir, "fr.yaml"), []byte(fr), 0600))

	catalog, err := lang.Load(langDir, "en", testutil.NewTestLogger(t))
	require.NoError(t, err)

	srv := NewServer(Config{
		Store:         store,
		Catalog:       catalog,
		Port:          0,
		SessionSecret: "test-secret-key-32-bytes-long!!!",
		Logger:        testutil.NewTestLogger(t),
	})

	router := chi.NewMux()
	srv.setupRoutes(router)

	return &fixture{store: store, router: router}
}

// login returns the session cookies for an account.
func (f *fixture) login(t *testing.T, acct core.Account) []*http.Cookie {
	t.Helper()
	body := fmt.Sprintf(`{"account_id": %d, "account_type": %q}`, acct.ID, acct.Type)
	req := httptest.NewRequest(http.MethodPost, "/api/session", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	return rec.Result().Cookies()
}

func (f *fixture) do(t *testing.T, method, target, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func seedVisualizations(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	for _, stmt := range []string{
		`INSERT INTO visualizations VALUES (1, 10, 20, 'public', 0)`,
		`INSERT INTO visualizations VALUES (2, 10, 20, 'admin', 0)`,
		`INSERT INTO visualizations VALUES (3, 10, 20, 'private', 7)`,
	} {
		require.NoError(t, f.store.ExecRaw(ctx, stmt))
	}
	require.NoError(t, f.store.AddGrant(ctx, 100, 7))
}

func TestAccessibleVisualizationsHandler(t *testing.T) {
	f := setupFixture(t)
	seedVisualizations(t, f)

	t.Run("unauthenticated", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/forms/10/views/20/visualizations", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin sees all", func(t *testing.T) {
		cookies := f.login(t, core.Account{ID: 1, Type: core.AccountTypeAdmin})
		rec := f.do(t, http.MethodGet, "/api/forms/10/views/20/visualizations", "", cookies)
		require.Equal(t, http.StatusOK, rec.Code)

		var ids []int64
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ids))
		assert.Equal(t, []int64{1, 2, 3}, ids)
	})

	t.Run("client with grant", func(t *testing.T) {
		cookies := f.login(t, core.Account{ID: 100, Type: core.AccountTypeClient})
		rec := f.do(t, http.MethodGet, "/api/forms/10/views/20/visualizations", "", cookies)
		require.Equal(t, http.StatusOK, rec.Code)

		var ids []int64
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ids))
		assert.Equal(t, []int64{1, 3}, ids)
	})

	t.Run("client without grant", func(t *testing.T) {
		cookies := f.login(t, core.Account{ID: 200, Type: core.AccountTypeClient})
		rec := f.do(t, http.MethodGet, "/api/forms/10/views/20/visualizations", "", cookies)
		require.Equal(t, http.StatusOK, rec.Code)

		var ids []int64
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ids))
		assert.Equal(t, []int64{1}, ids)
	})

	t.Run("bad ids", func(t *testing.T) {
		cookies := f.login(t, core.Account{ID: 1, Type: core.AccountTypeAdmin})
		rec := f.do(t, http.MethodGet, "/api/forms/abc/views/20/visualizations", "", cookies)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPageInitScriptHandler(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.ExecRaw(ctx, `INSERT INTO forms VALUES (1, 'Contact', TRUE)`))
	require.NoError(t, f.store.ExecRaw(ctx, `INSERT INTO forms VALUES (2, 'Draft', FALSE)`))
	require.NoError(t, f.store.ExecRaw(ctx, `INSERT INTO views VALUES (10, 1, 'All submissions')`))

	rec := f.do(t, http.MethodGet, "/page/init.js", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/javascript")

	body := rec.Body.String()
	assert.Contains(t, body, `page_ns.forms.push([1, "Contact"])`)
	assert.NotContains(t, body, "Draft")
	assert.Contains(t, body, `g.vis_messages.word_visualizations = "Visualizations";`)

	// Localization follows Accept-Language.
	req := httptest.NewRequest(http.MethodGet, "/page/init.js", nil)
	req.Header.Set("Accept-Language", "fr")
	frRec := httptest.NewRecorder()
	f.router.ServeHTTP(frRec, req)
	assert.Contains(t, frRec.Body.String(), `g.vis_messages.word_close = "Fermer";`)
}

func TestFormDeletedHandler(t *testing.T) {
	f := setupFixture(t)
	seedVisualizations(t, f)

	rec := f.do(t, http.MethodPost, "/api/hooks/form-deleted", `{"form_id": 10}`, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	ids, err := f.store.VisualizationIDsForForm(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFormDeletedHandler_MalformedPayload(t *testing.T) {
	f := setupFixture(t)
	seedVisualizations(t, f)

	for _, body := range []string{`not json`, `{"form_id": "abc"}`, `{}`} {
		rec := f.do(t, http.MethodPost, "/api/hooks/form-deleted", body, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	// Nothing was deleted.
	ids, err := f.store.VisualizationIDsForForm(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
}

func TestUpdateCacheHandler(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(t, http.MethodPut, "/api/visualizations/42/cache", `{"rows": [1, 2]}`, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	entry, err := f.store.GetCacheEntry(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.JSONEq(t, `{"rows":[1,2]}`, string(entry.Data))

	rec = f.do(t, http.MethodPut, "/api/visualizations/abc/cache", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionHandlers(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(t, http.MethodPost, "/api/session", `{"account_id": 0, "account_type": "admin"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/session", `{"account_id": 1, "account_type": "superuser"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	cookies := f.login(t, core.Account{ID: 1, Type: core.AccountTypeAdmin})
	rec = f.do(t, http.MethodDelete, "/api/session", "", cookies)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataviz-labs/formviz/pkg/core"
)

func TestLoginRoundTrip(t *testing.T) {
	provider := New("test-secret-key-32-bytes-long!!!")

	// Login on one request, read the account back on a second carrying the
	// returned cookies.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/session", nil)
	require.NoError(t, provider.Login(rec, req, core.Account{ID: 7, Type: core.AccountTypeClient}))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}

	acct := provider.Account(next)
	assert.Equal(t, int64(7), acct.ID)
	assert.Equal(t, core.AccountTypeClient, acct.Type)
	assert.True(t, acct.IsClient())
}

func TestAccount_NoSession(t *testing.T) {
	provider := New("test-secret-key-32-bytes-long!!!")

	acct := provider.Account(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, core.Account{}, acct)
	assert.Equal(t, core.AccountTypeNone, acct.Type)
}

func TestLogout(t *testing.T) {
	provider := New("test-secret-key-32-bytes-long!!!")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/session", nil)
	require.NoError(t, provider.Login(rec, req, core.Account{ID: 7, Type: core.AccountTypeAdmin}))

	out := httptest.NewRecorder()
	cleared := httptest.NewRequest(http.MethodDelete, "/api/session", nil)
	for _, c := range rec.Result().Cookies() {
		cleared.AddCookie(c)
	}
	require.NoError(t, provider.Logout(out, cleared))

	// The clearing cookie must expire the session.
	found := false
	for _, c := range out.Result().Cookies() {
		if c.Name == sessionName {
			found = true
			assert.Less(t, c.MaxAge, 0)
		}
	}
	assert.True(t, found, "expected an expiring session cookie")
}

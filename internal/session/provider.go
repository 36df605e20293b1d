// Package session resolves the account behind an HTTP request from the host
// platform's session cookie.
package session

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/dataviz-labs/formviz/pkg/core"
)

const (
	sessionName = "formviz"

	keyAccountID   = "account_id"
	keyAccountType = "account_type"
)

// Provider reads and writes the account identity in the session cookie.
type Provider struct {
	store sessions.Store
}

// New creates a Provider backed by a cookie store with the given secret.
func New(secret string) *Provider {
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(86400 * 30) // 30 days
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	return &Provider{store: store}
}

// NewWithStore creates a Provider on an existing sessions.Store.
func NewWithStore(store sessions.Store) *Provider {
	return &Provider{store: store}
}

// Account returns the account for the request's session. An absent or
// malformed session yields the zero Account (AccountTypeNone).
func (p *Provider) Account(r *http.Request) core.Account {
	sess, err := p.store.Get(r, sessionName)
	if err != nil {
		return core.Account{}
	}

	id, ok := sess.Values[keyAccountID].(int64)
	if !ok {
		return core.Account{}
	}
	accountType, ok := sess.Values[keyAccountType].(string)
	if !ok {
		return core.Account{}
	}

	return core.Account{ID: id, Type: core.AccountType(accountType)}
}

// Login stores the account in the session cookie.
func (p *Provider) Login(w http.ResponseWriter, r *http.Request, acct core.Account) error {
	sess, err := p.store.Get(r, sessionName)
	if err != nil {
		// A stale or tampered cookie decodes with an error but still
		// yields a fresh session to write into.
		if sess == nil {
			return fmt.Errorf("failed to open session: %w", err)
		}
	}

	sess.Values[keyAccountID] = acct.ID
	sess.Values[keyAccountType] = string(acct.Type)

	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Logout clears the session cookie.
func (p *Provider) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, err := p.store.Get(r, sessionName)
	if err != nil && sess == nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	sess.Options.MaxAge = -1
	sess.Values = make(map[any]any)

	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

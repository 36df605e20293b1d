package ui

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dataviz-labs/formviz/internal/access"
	"github.com/dataviz-labs/formviz/internal/hooks"
	"github.com/dataviz-labs/formviz/internal/lang"
	"github.com/dataviz-labs/formviz/internal/script"
	"github.com/dataviz-labs/formviz/internal/session"
	"github.com/dataviz-labs/formviz/internal/viscache"
	"github.com/dataviz-labs/formviz/pkg/core"
)

// handlers provides the HTTP handlers for the formviz API.
type handlers struct {
	resolver *access.Resolver
	index    *script.IndexBuilder
	hook     *hooks.Hook
	cache    *viscache.Writer
	sessions *session.Provider
	catalog  *lang.Catalog
	logger   *slog.Logger
}

func newHandlers(
	resolver *access.Resolver,
	index *script.IndexBuilder,
	hook *hooks.Hook,
	cache *viscache.Writer,
	sessions *session.Provider,
	catalog *lang.Catalog,
	logger *slog.Logger,
) *handlers {
	return &handlers{
		resolver: resolver,
		index:    index,
		hook:     hook,
		cache:    cache,
		sessions: sessions,
		catalog:  catalog,
		logger:   logger,
	}
}

// AccessibleVisualizations returns the visualization ids the current session
// may open for a form View, as a JSON array.
func (h *handlers) AccessibleVisualizations(w http.ResponseWriter, r *http.Request) {
	acct := h.sessions.Account(r)
	if acct.Type == core.AccountTypeNone {
		http.Error(w, "not signed in", http.StatusUnauthorized)
		return
	}

	formID, err1 := strconv.ParseInt(chi.URLParam(r, "formID"), 10, 64)
	viewID, err2 := strconv.ParseInt(chi.URLParam(r, "viewID"), 10, 64)
	if err1 != nil || err2 != nil {
		http.Error(w, "invalid form or view id", http.StatusBadRequest)
		return
	}

	ids, err := h.resolver.AccessibleVisualizations(r.Context(), formID, viewID, acct)
	if err != nil {
		h.logger.Error("visibility filter failed", "form_id", formID, "view_id", viewID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ids); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// PageInitScript serves the form/View index and the localized dialog
// messages as one script for the hosting page. The locale follows the
// request's Accept-Language header.
func (h *handlers) PageInitScript(w http.ResponseWriter, r *http.Request) {
	indexJS, err := h.index.BuildFormViewIndex(r.Context())
	if err != nil {
		h.logger.Error("index build failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	table := h.catalog.Pick(r.Header.Get("Accept-Language"))
	messagesJS := script.BuildVisMessages(table, table)

	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	_, _ = w.Write([]byte(indexJS))
	_, _ = w.Write([]byte("var g = g || {};\n"))
	_, _ = w.Write([]byte(messagesJS))
}

// FormDeleted receives the host's form-deletion event. Malformed payloads
// are acknowledged without action; only store failures surface.
func (h *handlers) FormDeleted(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		// Same contract as a payload without a usable form_id.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.hook.HandleFormDeleted(r.Context(), payload); err != nil {
		h.logger.Error("cascade delete failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateCache replaces a visualization's cached snapshot. Cache writes are
// best-effort, so the response is 204 regardless of outcome.
func (h *handlers) UpdateCache(w http.ResponseWriter, r *http.Request) {
	visID, err := strconv.ParseInt(chi.URLParam(r, "visID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid visualization id", http.StatusBadRequest)
		return
	}

	var data any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, "invalid snapshot payload", http.StatusBadRequest)
		return
	}

	h.cache.Update(r.Context(), visID, data)
	w.WriteHeader(http.StatusNoContent)
}

// Login stores the posted account in the session cookie. This is the
// development shim for the host platform's authentication.
func (h *handlers) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AccountID   int64  `json:"account_id"`
		AccountType string `json:"account_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid session payload", http.StatusBadRequest)
		return
	}

	acct := core.Account{ID: body.AccountID, Type: core.AccountType(body.AccountType)}
	if acct.ID <= 0 || (acct.Type != core.AccountTypeAdmin && acct.Type != core.AccountTypeClient) {
		http.Error(w, "invalid account", http.StatusBadRequest)
		return
	}

	if err := h.sessions.Login(w, r, acct); err != nil {
		h.logger.Error("failed to start session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Logout clears the session cookie.
func (h *handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		h.logger.Error("failed to clear session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

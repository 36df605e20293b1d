// Package hooks handles host-platform lifecycle events that formviz
// subscribes to.
package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dataviz-labs/formviz/pkg/core"
)

// Hook reacts to form lifecycle events.
type Hook struct {
	store  core.Store
	logger *slog.Logger
}

// New creates a new Hook instance. If logger is nil, a discard logger is used.
func New(store core.Store, logger *slog.Logger) *Hook {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hook{store: store, logger: logger}
}

// HandleFormDeleted removes every visualization assigned to the deleted form,
// together with the client grants and cache entries that reference them. The
// event payload comes from a trusted dispatcher; a missing or non-numeric
// form_id makes the hook a no-op rather than an error.
func (h *Hook) HandleFormDeleted(ctx context.Context, payload map[string]any) error {
	formID, ok := formIDFromPayload(payload)
	if !ok {
		h.logger.Debug("form-deleted event without usable form_id, ignoring")
		return nil
	}

	visIDs, err := h.store.VisualizationIDsForForm(ctx, formID)
	if err != nil {
		return fmt.Errorf("failed to look up visualizations for form %d: %w", formID, err)
	}
	if len(visIDs) == 0 {
		return nil
	}

	if err := h.store.DeleteVisualizationTree(ctx, visIDs); err != nil {
		return fmt.Errorf("failed to cascade delete for form %d: %w", formID, err)
	}

	h.logger.Info("deleted visualizations for removed form", "form_id", formID, "count", len(visIDs))
	return nil
}

// formIDFromPayload extracts a positive form id. Event payloads arrive as
// decoded JSON, so the id may be a number or a numeric string.
func formIDFromPayload(payload map[string]any) (int64, bool) {
	raw, ok := payload["form_id"]
	if !ok {
		return 0, false
	}

	var id int64
	switch v := raw.(type) {
	case int64:
		id = v
	case int:
		id = int64(v)
	case float64:
		id = int64(v)
		if float64(id) != v {
			return 0, false
		}
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		id = parsed
	default:
		return 0, false
	}

	if id <= 0 {
		return 0, false
	}
	return id, true
}

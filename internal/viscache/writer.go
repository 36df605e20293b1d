// Package viscache writes precomputed visualization snapshots. Cache writes
// are best-effort: losing an entry degrades performance, never correctness,
// so a failed write is never surfaced to the caller as an error.
package viscache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dataviz-labs/formviz/pkg/core"
)

// Writer replaces cached visualization snapshots.
type Writer struct {
	store  core.Store
	logger *slog.Logger
}

// NewWriter creates a new Writer instance. If logger is nil, a discard
// logger is used.
func NewWriter(store core.Store, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Writer{store: store, logger: logger}
}

// Result reports the outcome of a cache write. Callers are free to ignore
// it; it exists so the failure detail stays observable without the write
// ever failing caller-visibly.
type Result struct {
	VisID    int64
	CachedAt time.Time
	Err      error
}

// OK reports whether the snapshot was written.
func (r Result) OK() bool {
	return r.Err == nil
}

// Update replaces the cached snapshot for a visualization with the
// JSON-encoded data and the current server timestamp. It never returns an
// error and never panics; failures are recorded in the Result and logged.
func (w *Writer) Update(ctx context.Context, visID int64, data any) (result Result) {
	result = Result{VisID: visID}

	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("cache write panicked: %v", r)
			result.CachedAt = time.Time{}
			w.logger.Warn("cache write panicked", "vis_id", visID, "panic", r)
		}
	}()

	encoded, err := json.Marshal(data)
	if err != nil {
		result.Err = err
		w.logger.Warn("cache write skipped, data not encodable", "vis_id", visID, "error", err)
		return result
	}

	if err := w.store.ReplaceCache(ctx, visID, encoded); err != nil {
		result.Err = err
		w.logger.Warn("cache write failed", "vis_id", visID, "error", err)
		return result
	}

	result.CachedAt = time.Now().UTC()
	return result
}

package core

import "context"

// Store defines the persistence operations formviz needs from the relational
// store. Both the sqlite and postgres implementations live in internal/state.
type Store interface {
	Close() error
	Migrate() error

	// Visualization operations.
	// ListVisualizations applies the first-pass account-type scoping: for
	// client accounts, admin-only visualizations are excluded up front.
	// Results are ordered by vis_id ascending.
	ListVisualizations(ctx context.Context, formID, viewID int64, accountType AccountType) ([]*Visualization, error)
	VisualizationIDsForForm(ctx context.Context, formID int64) ([]int64, error)

	// Grant operations.
	GrantedGroupIDs(ctx context.Context, accountID int64) ([]int64, error)

	// Cascade removal of a form's visualizations with their grant and cache
	// rows, in one transaction.
	DeleteVisualizationTree(ctx context.Context, visIDs []int64) error

	// Cache operations.
	ReplaceCache(ctx context.Context, visID int64, data []byte) error
	GetCacheEntry(ctx context.Context, visID int64) (*CacheEntry, error)

	// Host-owned entities, read-only.
	ListForms(ctx context.Context) ([]*Form, error)
	ListViews(ctx context.Context, formID int64) ([]*View, error)
}

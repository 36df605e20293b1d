// Package access decides which visualizations an account may open from the
// picker dialog.
package access

import (
	"context"
	"fmt"

	"github.com/dataviz-labs/formviz/pkg/core"
)

// Resolver filters visualizations by account type and export-group grants.
type Resolver struct {
	store core.Store
}

// NewResolver creates a new Resolver instance.
func NewResolver(store core.Store) *Resolver {
	return &Resolver{store: store}
}

// AccessibleVisualizations returns the ids of the visualizations configured
// for a form View that the account may access, in store listing order.
//
// Rules: public visualizations are visible to everyone; admin-only ones are
// never visible to client accounts; private ones are visible to a client only
// when the account holds a grant for the visualization's export group.
// Non-client accounts see everything the listing returns.
func (r *Resolver) AccessibleVisualizations(ctx context.Context, formID, viewID int64, acct core.Account) ([]int64, error) {
	var grantedGroups map[int64]bool
	if acct.IsClient() {
		groups, err := r.store.GrantedGroupIDs(ctx, acct.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve granted groups: %w", err)
		}
		grantedGroups = make(map[int64]bool, len(groups))
		for _, id := range groups {
			grantedGroups[id] = true
		}
	}

	visualizations, err := r.store.ListVisualizations(ctx, formID, viewID, acct.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to list visualizations: %w", err)
	}

	accessible := make([]int64, 0, len(visualizations))
	for _, vis := range visualizations {
		switch {
		case vis.AccessType == core.AccessTypePublic:
			accessible = append(accessible, vis.ID)
		case acct.IsClient():
			if vis.AccessType != core.AccessTypeAdmin && grantedGroups[vis.ExportGroupID] {
				accessible = append(accessible, vis.ID)
			}
		default:
			accessible = append(accessible, vis.ID)
		}
	}

	return accessible, nil
}

package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/dataviz-labs/formviz/pkg/core"
)

// FormRow is one entry of the form/View index.
type FormRow struct {
	ID    int64
	Name  string
	Views []ViewRow
}

// ViewRow is one View entry under a form.
type ViewRow struct {
	ID   int64
	Name string
}

// IndexBuilder assembles the form/View lookup index for the page namespace.
type IndexBuilder struct {
	store core.Store
}

// NewIndexBuilder creates a new IndexBuilder instance.
func NewIndexBuilder(store core.Store) *IndexBuilder {
	return &IndexBuilder{store: store}
}

// Rows collects the typed index rows: every completed form with its Views,
// in store listing order. Forms still being configured are omitted entirely,
// Views included.
func (b *IndexBuilder) Rows(ctx context.Context) ([]FormRow, error) {
	forms, err := b.store.ListForms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}

	var rows []FormRow
	for _, form := range forms {
		if !form.IsComplete {
			continue
		}

		views, err := b.store.ListViews(ctx, form.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list views for form %d: %w", form.ID, err)
		}

		row := FormRow{ID: form.ID, Name: form.Name}
		for _, view := range views {
			row.Views = append(row.Views, ViewRow{ID: view.ID, Name: view.Name})
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// BuildFormViewIndex renders the index as script statements defining the
// page_ns.forms and page_ns.form_views lists. An empty form set still defines
// the namespace and both lists.
func (b *IndexBuilder) BuildFormViewIndex(ctx context.Context) (string, error) {
	rows, err := b.Rows(ctx)
	if err != nil {
		return "", err
	}
	return RenderFormViewIndex(rows), nil
}

// RenderFormViewIndex renders pre-collected index rows. Names are escaped
// here and nowhere else.
func RenderFormViewIndex(rows []FormRow) string {
	stmts := []string{
		"var page_ns = {}",
		"page_ns.forms = []",
	}
	viewStmts := []string{"page_ns.form_views = []"}

	for _, form := range rows {
		stmts = append(stmts, fmt.Sprintf("page_ns.forms.push([%d, %q])", form.ID, escapeName(form.Name)))

		entries := make([]string, len(form.Views))
		for i, view := range form.Views {
			entries[i] = fmt.Sprintf("[%d, %q]", view.ID, escapeName(view.Name))
		}
		viewStmts = append(viewStmts, fmt.Sprintf("page_ns.form_views.push([%d,[%s]])", form.ID, strings.Join(entries, ",")))
	}

	return strings.Join(append(stmts, viewStmts...), ";\n") + ";\n"
}

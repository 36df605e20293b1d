package script

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataviz-labs/formviz/pkg/core"
)

type fakeStore struct {
	core.Store

	forms []*core.Form
	views map[int64][]*core.View

	formsErr error
	viewsErr error
}

func (f *fakeStore) ListForms(context.Context) ([]*core.Form, error) {
	if f.formsErr != nil {
		return nil, f.formsErr
	}
	return f.forms, nil
}

func (f *fakeStore) ListViews(_ context.Context, formID int64) ([]*core.View, error) {
	if f.viewsErr != nil {
		return nil, f.viewsErr
	}
	return f.views[formID], nil
}

func TestBuildFormViewIndex(t *testing.T) {
	store := &fakeStore{
		forms: []*core.Form{
			{ID: 1, Name: "Contact", IsComplete: true},
			{ID: 2, Name: "Draft form", IsComplete: false},
			{ID: 3, Name: "Survey", IsComplete: true},
		},
		views: map[int64][]*core.View{
			1: {{ID: 10, FormID: 1, Name: "All submissions"}, {ID: 11, FormID: 1, Name: "Recent"}},
			2: {{ID: 20, FormID: 2, Name: "Should not appear"}},
			3: {},
		},
	}

	js, err := NewIndexBuilder(store).BuildFormViewIndex(context.Background())
	require.NoError(t, err)

	assert.Contains(t, js, "var page_ns = {}")
	assert.Contains(t, js, `page_ns.forms.push([1, "Contact"])`)
	assert.Contains(t, js, `page_ns.forms.push([3, "Survey"])`)
	assert.Contains(t, js, `page_ns.form_views.push([1,[[10, "All submissions"],[11, "Recent"]]])`)
	assert.Contains(t, js, `page_ns.form_views.push([3,[]])`)

	// Incomplete forms are omitted entirely, their Views included.
	assert.NotContains(t, js, "Draft form")
	assert.NotContains(t, js, "Should not appear")

	// Forms block precedes the form_views block.
	assert.Less(t, strings.Index(js, "page_ns.forms = []"), strings.Index(js, "page_ns.form_views = []"))
}

func TestBuildFormViewIndex_EscapesNames(t *testing.T) {
	store := &fakeStore{
		forms: []*core.Form{{ID: 1, Name: `<script>alert("x")</script>`, IsComplete: true}},
		views: map[int64][]*core.View{
			1: {{ID: 10, FormID: 1, Name: `A "quoted" view`}},
		},
	}

	js, err := NewIndexBuilder(store).BuildFormViewIndex(context.Background())
	require.NoError(t, err)

	assert.NotContains(t, js, "<script>")
	assert.Contains(t, js, "&lt;script&gt;")
	assert.Contains(t, js, "&#34;quoted&#34;")
}

func TestBuildFormViewIndex_Empty(t *testing.T) {
	js, err := NewIndexBuilder(&fakeStore{}).BuildFormViewIndex(context.Background())
	require.NoError(t, err)

	assert.Contains(t, js, "var page_ns = {}")
	assert.Contains(t, js, "page_ns.forms = []")
	assert.Contains(t, js, "page_ns.form_views = []")
	assert.NotContains(t, js, "push")
}

func TestBuildFormViewIndex_StoreErrors(t *testing.T) {
	_, err := NewIndexBuilder(&fakeStore{formsErr: assert.AnError}).BuildFormViewIndex(context.Background())
	assert.ErrorIs(t, err, assert.AnError)

	store := &fakeStore{
		forms:    []*core.Form{{ID: 1, Name: "Contact", IsComplete: true}},
		viewsErr: assert.AnError,
	}
	_, err = NewIndexBuilder(store).BuildFormViewIndex(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

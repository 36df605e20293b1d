package script

import (
	"fmt"
	"strings"

	"github.com/dataviz-labs/formviz/internal/lang"
)

// messageKeys are the picker-dialog strings, emitted in this order. All but
// word_close come from the module's own table; word_close is a host-platform
// core string.
var messageKeys = []struct {
	key  string
	core bool
}{
	{key: "word_visualizations"},
	{key: "word_close", core: true},
	{key: "phrase_manage_visualizations"},
	{key: "phrase_edit_visualization"},
	{key: "phrase_prev_arrow"},
	{key: "phrase_next_arrow"},
	{key: "phrase_back_to_vis_list"},
	{key: "phrase_last_cached_c"},
	{key: "phrase_not_cached"},
}

// BuildVisMessages renders the localized dialog messages into the
// g.vis_messages namespace. The caller's page is assumed to have defined the
// g object. Missing keys render as empty strings.
func BuildVisMessages(moduleTable, coreTable lang.Table) string {
	var b strings.Builder
	b.WriteString("g.vis_messages = {};\n")

	for _, m := range messageKeys {
		table := moduleTable
		if m.core {
			table = coreTable
		}
		fmt.Fprintf(&b, "g.vis_messages.%s = \"%s\";\n", m.key, escapeJS(table.Get(m.key)))
	}

	return b.String()
}

// Package script renders the client-side initialization blobs consumed by
// the host platform's pages: the form/View lookup index and the localized
// picker-dialog messages. All dynamic text passes through one escaping
// boundary before it is embedded.
package script

import (
	"html"
	"strings"
)

// escapeName HTML-entity-escapes a form or View name for embedding in a
// script literal, matching how the host platform escapes the same names.
func escapeName(s string) string {
	return html.EscapeString(s)
}

var jsReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"</", `<\/`,
)

// escapeJS escapes a localized message for a double-quoted script string.
// Message tables may legitimately contain HTML entities, so these values are
// not entity-escaped.
func escapeJS(s string) string {
	return jsReplacer.Replace(s)
}

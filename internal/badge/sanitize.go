package badge

import (
	"html"
	"unicode/utf8"
)

// Character budgets for text embedded in the badge.
const (
	OrgNameLimit  = 32
	UsernameLimit = 22
)

const ellipsis = "…"

// Sanitize makes untrusted text safe to embed as SVG character data.
// Text longer than maxLen characters is cut to maxLen-1 characters plus an
// ellipsis, counted before escaping so an entity is never split. The five
// markup characters are then replaced by their entities. maxLen <= 0 disables
// truncation.
func Sanitize(s string, maxLen int) string {
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		runes := []rune(s)
		s = string(runes[:maxLen-1]) + ellipsis
	}
	return html.EscapeString(s)
}

// Package format escapes user-provided text for Telegram message rendering.
package format

import "strings"

// Legacy Markdown treats these as formatting control characters.
var mdReplacer = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"[", `\[`,
	"`", "\\`",
)

// EscapeMarkdown neutralizes legacy-Markdown control characters so listing
// fields typed by users render literally instead of breaking the parse.
func EscapeMarkdown(text string) string {
	return mdReplacer.Replace(text)
}

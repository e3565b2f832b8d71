package markdown

import (
	"regexp"
	"strings"
)

// The AI responses use a lightweight markdown subset that is converted to
// Telegram HTML with plain substitutions. HTML metacharacters are escaped
// first, then the rules run in a fixed order: code spans must be rewritten
// before the header and list rules so code contents containing '#' or '-'
// are left alone.
var (
	boldStarsRe      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldUnderscoreRe = regexp.MustCompile(`__(.+?)__`)
	italicStarRe     = regexp.MustCompile(`\*(.+?)\*`)
	italicUnderRe    = regexp.MustCompile(`_(.+?)_`)
	codeBlockRe      = regexp.MustCompile("(?s)```\\w*\\n?(.+?)```")
	inlineCodeRe     = regexp.MustCompile("`(.+?)`")
	headerRe         = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	bulletRe         = regexp.MustCompile(`(?m)^\s*[*\-]\s+(.+)$`)
	numberedRe       = regexp.MustCompile(`(?m)^\s*(\d+)\.\s+(.+)$`)
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// EscapeHTML escapes the HTML metacharacters for Telegram's HTML parse mode.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// ToHTML converts a lightweight markdown subset to Telegram HTML.
func ToHTML(s string) string {
	s = EscapeHTML(s)
	s = boldStarsRe.ReplaceAllString(s, "<b>$1</b>")
	s = boldUnderscoreRe.ReplaceAllString(s, "<b>$1</b>")
	s = italicStarRe.ReplaceAllString(s, "<i>$1</i>")
	s = italicUnderRe.ReplaceAllString(s, "<i>$1</i>")
	s = codeBlockRe.ReplaceAllString(s, "<pre>$1</pre>")
	s = inlineCodeRe.ReplaceAllString(s, "<code>$1</code>")
	s = headerRe.ReplaceAllString(s, "<b>$1</b>")
	s = bulletRe.ReplaceAllString(s, "• $1")
	s = numberedRe.ReplaceAllString(s, "$1. $2")
	return s
}

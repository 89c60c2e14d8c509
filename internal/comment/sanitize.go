package comment

import (
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Sanitize removes all markup from text: tags, attributes, comments and
// doctypes are dropped, text nodes (including the body of script and style
// elements) are kept. '&', '<' and '>' in the kept text are entity-escaped, so
// the result never contains markup and can be embedded in HTML verbatim.
//
// A '<' that never closes into a tag ("x<y then") is text, not markup, and is
// kept escaped.
func Sanitize(text string) string {
	z := html.NewTokenizer(strings.NewReader(text))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				textEscaper.WriteString(&b, html.UnescapeString(string(z.Raw())))
			}
			return b.String()
		case html.TextToken:
			textEscaper.WriteString(&b, string(z.Text()))
		}
	}
}

// TextLength counts the characters of sanitized text as a reader sees them,
// with entities decoded.
func TextLength(sanitized string) int {
	return utf8.RuneCountInString(html.UnescapeString(sanitized))
}

package purchasing

import (
	"html"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Sanitize strips control characters, trims surrounding whitespace and
// entity-encodes & < >. Input is decoded first so that
// Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	s = stripControl(s)
	s = html.UnescapeString(s)
	s = stripControl(s)
	s = strings.TrimSpace(s)
	s = norm.NFC.String(s)
	return htmlEscaper.Replace(s)
}

// Decode reverses the entity encoding of a stored value. Rules run on the
// decoded text so a stored value sent back unchanged validates like the
// text it was made from.
func Decode(s string) string {
	return html.UnescapeString(s)
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

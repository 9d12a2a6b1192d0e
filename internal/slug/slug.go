// Package slug derives URL-safe identifiers from free-form titles.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters that do not decompose into an ASCII base plus combining marks.
var replacements = map[rune]string{
	'ß': "ss",
	'æ': "ae",
	'Æ': "ae",
	'œ': "oe",
	'Œ': "oe",
	'ø': "o",
	'Ø': "o",
	'đ': "d",
	'Đ': "d",
	'ð': "d",
	'Ð': "d",
	'ł': "l",
	'Ł': "l",
	'þ': "th",
	'Þ': "th",
	'ı': "i",
	'&': " and ",
}

// Make returns the lowercase, hyphen-separated ASCII form of title.
// Runs of anything other than ASCII letters and digits collapse into a single
// hyphen, and leading or trailing hyphens are dropped.
func Make(title string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	b.Grow(len(folded))

	pending := false
	write := func(s string) {
		for _, r := range s {
			r = unicode.ToLower(r)
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				if pending && b.Len() > 0 {
					b.WriteByte('-')
				}
				pending = false
				b.WriteRune(r)

				continue
			}
			pending = true
		}
	}

	for _, r := range folded {
		if rep, ok := replacements[r]; ok {
			write(rep)

			continue
		}
		write(string(r))
	}

	return b.String()
}

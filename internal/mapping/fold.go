package mapping

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// foldColumnName normalizes a raw column header for alias matching:
// lowercase, diacritics stripped, whitespace collapsed. "Catégorie ",
// "categorie" and "CATEGORIE" all fold to the same key.
func foldColumnName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return s
	}
	s = stripDiacritics(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return s
}

// stripDiacritics removes combining marks after NFD decomposition, so
// accented platform headers match their unaccented aliases.
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

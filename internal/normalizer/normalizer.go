// Package normalizer folds labels into a diacritic-insensitive ASCII form
// used for the normalized_label index field and for rerank comparisons.
package normalizer

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripDiacritics removes combining marks while keeping the base letters.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	out, _, _ := transform.String(t, s)
	return out
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// Fold lowercases s, transliterates it to ASCII and collapses runs of
// whitespace. "Ruè  de l'Église" and "rue de l'eglise" fold to the same
// string.
func Fold(s string) string {
	s = unidecode.Unidecode(StripDiacritics(s))
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

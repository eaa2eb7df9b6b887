package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics decomposes accented characters and strips the combining
// marks, so "Amélie" folds to "Amelie" before slug derivation.
var foldDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeTitle produces the canonical comparison form of a title: trimmed
// and lowercased. Two catalog entries with the same normalized title (and
// year) are treated as the same film.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Slugify converts a movie title to the slug form used in Letterboxd film
// URLs: lowercase, spaces to hyphens, everything that is not alphanumeric or
// a hyphen dropped, repeated hyphens collapsed, leading and trailing hyphens
// trimmed. Diacritics are folded to their ASCII base characters first.
func Slugify(title string) string {
	slug := NormalizeTitle(title)
	if slug == "" {
		return ""
	}

	if folded, _, err := transform.String(foldDiacritics, slug); err == nil {
		slug = folded
	}

	var b strings.Builder
	b.Grow(len(slug))
	prevHyphen := false
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		case r == ' ' || r == '-':
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

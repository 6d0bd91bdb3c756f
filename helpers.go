package spacetraveling

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify lowercases s, drops accents and joins its ASCII letter and digit
// runs with hyphens: "Criando um app CRA do zero, ação" gives
// "criando-um-app-cra-do-zero-acao".
func Slugify(s string) string {
	// Transformers keep state, so each call builds its own chain.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
	return strings.Join(words, "-")
}

// BuildURL appends escaped path segments to base and ends the result with a
// slash. With no segments base is returned as is.
func BuildURL(base string, segments ...string) string {
	if len(segments) == 0 {
		return base
	}
	u, err := url.JoinPath(base, segments...)
	if err != nil {
		return base
	}
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}

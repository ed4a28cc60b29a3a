package textutil

import (
	"strings"

	"golang.org/x/text/width"
)

// strippedRunes is the fixed punctuation set removed during normalization.
// Fullwidth forms are folded to their narrow equivalents before this check,
// so the fullwidth parens, colon, bang, question mark, slash, and number sign
// collapse into the ASCII entries. Wave/tilde dashes and em/en dashes are
// listed explicitly because width folding leaves them untouched.
var strippedRunes = map[rune]struct{}{
	'-': {}, '_': {}, '(': {}, ')': {}, '[': {}, ']': {},
	',': {}, '|': {}, ':': {}, '!': {}, '?': {}, '"': {}, '\'': {},
	'/': {}, '#': {}, '~': {},
	'～': {}, '〜': {}, '—': {}, '–': {},
	'「': {}, '」': {}, '【': {}, '】': {},
}

// Normalize canonicalizes a string for comparison: lowercase, fullwidth
// punctuation folded, the fixed punctuation set replaced with spaces, a
// trailing ".mp3" removed, and whitespace collapsed to single spaces.
// Pure and deterministic.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, ".mp3")
	s = width.Fold.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if _, strip := strippedRunes[r]; strip {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens normalizes a string and splits it into a set of word tokens.
// Duplicates collapse; order carries no meaning.
func Tokens(s string) map[string]struct{} {
	fields := strings.Fields(Normalize(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Overlap returns the token-overlap ratio |query ∩ target| / |query|.
// Returns 0 when the query set is empty.
func Overlap(query, target map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}
	var hits int
	for token := range query {
		if _, ok := target[token]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(query))
}

// OverlapStrings is a convenience wrapper that tokenizes both inputs before
// computing the overlap ratio of a against b.
func OverlapStrings(a, b string) float64 {
	return Overlap(Tokens(a), Tokens(b))
}

package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize tokenizes text into lowercase word tokens.
// Empty or punctuation-only input yields an empty, non-nil slice.
//
// Text is folded to NFKC before punctuation is stripped, so compatibility
// forms become their plain equivalents: "ＤＩＳＫ" tokenizes as "disk",
// "x²" as "x2" and the ligature "ﬁle" as "file". A plain word-character
// filter without the fold would keep those runes as they are.
func Normalize(text string) []string {
	if text == "" {
		return []string{}
	}
	folded := norm.NFKC.String(text)
	cleaned := strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, folded)
	fields := strings.Fields(strings.ToLower(cleaned))
	if fields == nil {
		return []string{}
	}
	return fields
}

// NormalizeAll normalizes each text independently.
func NormalizeAll(texts []string) [][]string {
	out := make([][]string, len(texts))
	for i, t := range texts {
		out[i] = Normalize(t)
	}
	return out
}

// Join reassembles tokens into a string that normalizes back to the same tokens.
func Join(tokens []string) string {
	return strings.Join(tokens, " ")
}

// isWordRune matches the Unicode word-character class: letters, marks,
// numbers and connector punctuation such as '_'.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) ||
		unicode.IsNumber(r) ||
		unicode.IsMark(r) ||
		unicode.Is(unicode.Pc, r)
}

package cipher

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lukinkon/lukin/internal/lang"
)

// countListOrShort counts whitespace tokens that are list members or at most
// two characters long. Tokens are not stripped of punctuation.
func countListOrShort(text string, profile *lang.Profile) int {
	n := 0
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		if profile.HasWord(tok) || utf8.RuneCountInString(tok) <= 2 {
			n++
		}
	}
	return n
}

// countExactWords counts whitespace tokens that are exact list members.
func countExactWords(text string, profile *lang.Profile) int {
	n := 0
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		if profile.HasWord(tok) {
			n++
		}
	}
	return n
}

// CountReadableWords counts list words in text after stripping punctuation.
// Unknown words of length three or less count as half a word.
func CountReadableWords(text string, profile *lang.Profile) int {
	var readable float64
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		clean := lettersOnly(tok)
		n := utf8.RuneCountInString(clean)
		if n < 2 {
			continue
		}
		switch {
		case profile.HasWord(clean):
			readable++
		case n <= 3:
			readable += 0.5
		}
	}
	return int(readable)
}

// RecognizableWords counts tokens of a decoded text that look like words of
// the profile's language: list members, or tokens with a typical affix.
func RecognizableWords(text string, profile *lang.Profile) int {
	n := 0
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		if utf8.RuneCountInString(tok) < 2 {
			continue
		}
		if profile.HasWord(tok) || hasTypicalAffix(tok, profile.Language()) {
			n++
		}
	}
	return n
}

func hasTypicalAffix(tok string, l lang.Language) bool {
	switch l {
	case lang.English:
		return strings.HasSuffix(tok, "ing") || strings.HasSuffix(tok, "ed") ||
			strings.HasSuffix(tok, "ly") || strings.HasPrefix(tok, "th")
	case lang.French:
		return strings.HasSuffix(tok, "er") || strings.HasSuffix(tok, "ir") ||
			strings.HasSuffix(tok, "re") || strings.HasPrefix(tok, "le")
	default:
		return false
	}
}

func lettersOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

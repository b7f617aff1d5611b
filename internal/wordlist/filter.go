// Package wordlist provides word list filtering helpers.
package wordlist

import "github.com/lukinkon/lukin/internal/lang"

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// FilterForLang returns a filter for sample corpora. Only lower-case ASCII
// words survive since letter statistics ignore everything else. French
// additionally drops one-letter words other than "a" and "y".
func FilterForLang(l lang.Language) FilterFunc {
	switch l {
	case lang.French:
		return func(word string) bool {
			if len(word) == 1 && word != "a" && word != "y" {
				return false
			}
			return filterASCII(word)
		}
	default:
		return filterASCII
	}
}

// Filter returns the words accepted by keep, preserving order.
func Filter(words []string, keep FilterFunc) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}

func filterASCII(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}

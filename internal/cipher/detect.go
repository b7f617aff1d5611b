package cipher

import (
	"strings"
	"unicode/utf8"

	"github.com/lukinkon/lukin/internal/lang"
	"github.com/lukinkon/lukin/internal/stats"
)

const (
	minLettersToJudge = 10
	minReadability    = 0.5
)

// Verdict explains an encryption decision.
type Verdict struct {
	TotalLetters   int
	TooShort       bool
	TopLetters     []byte
	FrequencyFlags int
	Tokens         int
	ReadableTokens int
	Readability    float64
	Encrypted      bool
}

// LooksEncrypted reports whether text is plausibly enciphered.
func LooksEncrypted(text string) bool {
	return Inspect(text).Encrypted
}

// Inspect applies the encryption heuristics: a skewed top-3 letter profile
// or a low share of readable tokens. Texts with fewer than ten letters are
// never judged encrypted.
func Inspect(text string) Verdict {
	st := stats.Compute(text)
	v := Verdict{TotalLetters: st.Total, Readability: 1}
	if st.Total < minLettersToJudge {
		v.TooShort = true
		return v
	}

	for _, lc := range stats.TopLetters(st, 3) {
		v.TopLetters = append(v.TopLetters, lc.Letter)
	}
	if !containsAny(v.TopLetters, "e") {
		v.FrequencyFlags++
	}
	if !containsAny(v.TopLetters, "tain") {
		v.FrequencyFlags++
	}

	tokens := strings.Fields(text)
	v.Tokens = len(tokens)
	for _, tok := range tokens {
		clean := strings.ToLower(lettersOnly(tok))
		if lang.IsCommonWord(clean) || utf8.RuneCountInString(clean) <= 2 {
			v.ReadableTokens++
		}
	}
	if v.Tokens > 0 {
		v.Readability = float64(v.ReadableTokens) / float64(v.Tokens)
	}

	v.Encrypted = v.FrequencyFlags >= 1 || v.Readability < minReadability
	return v
}

func containsAny(letters []byte, set string) bool {
	for _, l := range letters {
		if strings.IndexByte(set, l) >= 0 {
			return true
		}
	}
	return false
}

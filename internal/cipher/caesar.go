package cipher

import (
	"fmt"
	"math"
	"strings"

	"github.com/lukinkon/lukin/internal/lang"
	"github.com/lukinkon/lukin/internal/stats"
)

// Shift encrypts text by rotating each ASCII letter forward by k within its
// case. Other characters are unchanged.
func Shift(text string, k int) string {
	return rotate(text, k)
}

// Unshift decrypts text by rotating each ASCII letter back by k. It is the
// exact inverse of Shift for the same k.
func Unshift(text string, k int) string {
	return rotate(text, -k)
}

func rotate(text string, k int) string {
	k = ((k % 26) + 26) % 26
	if k == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune('a' + (r-'a'+rune(k))%26)
		case r >= 'A' && r <= 'Z':
			b.WriteRune('A' + (r-'A'+rune(k))%26)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CaesarMethod returns the method tag of a Caesar result.
func CaesarMethod(l lang.Language) string {
	return fmt.Sprintf("Caesar Cipher (%s)", l.Title())
}

// CaesarCandidates tries all 26 shifts and returns, per profile, the shift
// with the best frequency score. The first shift reaching the maximum wins.
func CaesarCandidates(text string) ([]Candidate, error) {
	if stats.Compute(text).Total == 0 {
		return nil, ErrNoLetters
	}
	profiles := lang.Profiles()
	best := make([]Candidate, len(profiles))
	for i, p := range profiles {
		best[i] = Candidate{
			Score:    math.Inf(-1),
			Method:   CaesarMethod(p.Language()),
			Strategy: StrategyCaesar,
			Language: p.Language(),
		}
	}
	for shift := 0; shift < 26; shift++ {
		decrypted := Unshift(text, shift)
		st := stats.Compute(decrypted)
		for i, p := range profiles {
			score := ScoreStatistics(st, p)
			if score > best[i].Score {
				best[i].Score = score
				best[i].Shift = shift
				best[i].Text = decrypted
			}
		}
	}
	return best, nil
}

// SolveCaesar returns the best Caesar decryption across all languages. A
// later language only wins with a strictly higher score.
func SolveCaesar(text string) (Candidate, error) {
	candidates, err := CaesarCandidates(text)
	if err != nil {
		return Candidate{}, err
	}
	overall := candidates[0]
	for _, c := range candidates[1:] {
		if c.Score > overall.Score {
			overall = c
		}
	}
	return overall, nil
}

// Package stats contains letter statistics, reporting and terminal charts.
package stats

import (
	"sort"

	"github.com/segmentio/asm/ascii"
)

// Alphabet is the 26-letter Latin alphabet statistics are computed over.
const Alphabet = "abcdefghijklmnopqrstuvwxyz"

// LetterStatistics holds per-letter counts and percentages for a text.
type LetterStatistics struct {
	Counts      [26]int     `json:"counts" yaml:"counts"`
	Percentages [26]float64 `json:"percentages" yaml:"percentages"`
	Total       int         `json:"total" yaml:"total"`
}

// LetterCount pairs a letter with its observed count and percentage.
type LetterCount struct {
	Letter     byte    `json:"-" yaml:"-"`
	Count      int     `json:"count" yaml:"count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// Compute counts the ASCII letters of text, case-folded. Everything else is
// ignored. Percentages are zero when the text has no letters.
func Compute(text string) LetterStatistics {
	var st LetterStatistics
	if ascii.ValidString(text) {
		for i := 0; i < len(text); i++ {
			st.add(text[i])
		}
	} else {
		for _, r := range text {
			if r < 0x80 {
				st.add(byte(r))
			}
		}
	}
	if st.Total == 0 {
		return st
	}
	for i, c := range st.Counts {
		st.Percentages[i] = float64(c) / float64(st.Total) * 100
	}
	return st
}

func (st *LetterStatistics) add(ch byte) {
	switch {
	case ch >= 'a' && ch <= 'z':
		st.Counts[ch-'a']++
	case ch >= 'A' && ch <= 'Z':
		st.Counts[ch-'A']++
	default:
		return
	}
	st.Total++
}

// Count returns the observed count of a lowercase letter.
func (st LetterStatistics) Count(letter byte) int {
	if letter < 'a' || letter > 'z' {
		return 0
	}
	return st.Counts[letter-'a']
}

// Percentage returns the observed percentage of a lowercase letter.
func (st LetterStatistics) Percentage(letter byte) float64 {
	if letter < 'a' || letter > 'z' {
		return 0
	}
	return st.Percentages[letter-'a']
}

// Ranked returns all 26 letters ordered by count descending. Letters with
// equal counts keep alphabetical order.
func (st LetterStatistics) Ranked() []LetterCount {
	out := make([]LetterCount, 26)
	for i := range out {
		out[i] = LetterCount{
			Letter:     Alphabet[i],
			Count:      st.Counts[i],
			Percentage: st.Percentages[i],
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// TopLetters returns up to n of the most frequent letters that occur at
// least once.
func TopLetters(st LetterStatistics, n int) []LetterCount {
	if n <= 0 || st.Total == 0 {
		return nil
	}
	ranked := st.Ranked()
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]LetterCount, 0, n)
	for _, lc := range ranked[:n] {
		if lc.Count == 0 {
			break
		}
		out = append(out, lc)
	}
	return out
}

// Merge returns the combined statistics of a and b.
func Merge(a, b LetterStatistics) LetterStatistics {
	var out LetterStatistics
	for i := range out.Counts {
		out.Counts[i] = a.Counts[i] + b.Counts[i]
		out.Total += out.Counts[i]
	}
	if out.Total == 0 {
		return out
	}
	for i, c := range out.Counts {
		out.Percentages[i] = float64(c) / float64(out.Total) * 100
	}
	return out
}

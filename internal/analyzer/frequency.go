package analyzer

import (
	"github.com/lukinkon/lukin/internal/cipher"
	"github.com/lukinkon/lukin/internal/stats"
)

// Ambiguous is the frequency verdict when both languages score the same.
const Ambiguous = "ambiguous"

// FrequencyReport is the frequency-only view of a text.
type FrequencyReport struct {
	Input        string                 `json:"input" yaml:"input"`
	TotalLetters int                    `json:"total_letters" yaml:"total_letters"`
	Letters      []Letter               `json:"letters" yaml:"letters"`
	TopLetters   []Letter               `json:"top_letters" yaml:"top_letters"`
	Similarity   []Similarity           `json:"similarity" yaml:"similarity"`
	Closest      string                 `json:"closest" yaml:"closest"`
	Statistics   stats.LetterStatistics `json:"-" yaml:"-"`
}

// Frequency computes letter statistics and language similarity without
// attempting any decryption.
func Frequency(text string) (FrequencyReport, error) {
	st := stats.Compute(text)
	if st.Total == 0 {
		return FrequencyReport{}, cipher.ErrNoLetters
	}
	sims := similarities(st)
	report := FrequencyReport{
		Input:        text,
		TotalLetters: st.Total,
		TopLetters:   topLetters(st, topLetterCount),
		Similarity:   sims,
		Closest:      closest(sims),
		Statistics:   st,
	}
	for _, lc := range st.Ranked() {
		if lc.Count == 0 {
			break
		}
		report.Letters = append(report.Letters, Letter{Letter: string(lc.Letter), Count: lc.Count, Percentage: lc.Percentage})
	}
	return report, nil
}

// closest names the language with the strictly highest similarity.
func closest(sims []Similarity) string {
	if len(sims) == 0 {
		return Ambiguous
	}
	best := sims[0]
	tie := false
	for _, s := range sims[1:] {
		switch {
		case s.Score > best.Score:
			best = s
			tie = false
		case s.Score == best.Score:
			tie = true
		}
	}
	if tie {
		return Ambiguous
	}
	return string(best.Language)
}

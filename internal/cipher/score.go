package cipher

import (
	"math"
	"strings"

	"github.com/lukinkon/lukin/internal/lang"
	"github.com/lukinkon/lukin/internal/stats"
)

const detectWordWeight = 10

// Score returns the negative sum of squared deviations between the text's
// letter distribution and the profile. Closer to zero is better. Texts
// without letters score negative infinity.
func Score(text string, profile *lang.Profile) float64 {
	return ScoreStatistics(stats.Compute(text), profile)
}

// ScoreStatistics is Score over precomputed statistics.
func ScoreStatistics(st stats.LetterStatistics, profile *lang.Profile) float64 {
	if st.Total == 0 {
		return math.Inf(-1)
	}
	var score float64
	for i := 0; i < 26; i++ {
		d := st.Percentages[i] - profile.Expected(stats.Alphabet[i])
		score -= d * d
	}
	return score
}

// LanguageScore is one profile's share of a language detection.
type LanguageScore struct {
	Language  lang.Language
	Frequency float64
	WordHits  int
	Total     float64
}

// Detection is the outcome of DetectLanguage.
type Detection struct {
	Language lang.Language
	Profile  *lang.Profile
	Scores   []LanguageScore
}

// DetectLanguage picks the profile whose frequency score plus word bonus is
// highest. Word hits are substring matches against the lower-cased text, so
// short words also match inside longer ones. Ties keep the earlier profile.
func DetectLanguage(text string) Detection {
	st := stats.Compute(text)
	lower := strings.ToLower(text)

	var det Detection
	best := math.Inf(-1)
	for i, p := range lang.Profiles() {
		hits := 0
		for _, w := range p.Words() {
			if strings.Contains(lower, w) {
				hits++
			}
		}
		freq := ScoreStatistics(st, p)
		total := freq + float64(hits*detectWordWeight)
		det.Scores = append(det.Scores, LanguageScore{
			Language:  p.Language(),
			Frequency: freq,
			WordHits:  hits,
			Total:     total,
		})
		if i == 0 || total > best {
			best = total
			det.Language = p.Language()
			det.Profile = p
		}
	}
	return det
}

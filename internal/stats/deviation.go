package stats

import (
	"math"
	"sort"

	"github.com/lukinkon/lukin/internal/lang"
)

// Deviation is the gap between observed and expected percentage of a letter.
type Deviation struct {
	Letter   byte
	Observed float64
	Expected float64
}

// Delta returns observed minus expected.
func (d Deviation) Delta() float64 {
	return d.Observed - d.Expected
}

// LargestDeviations returns the top letters whose observed share differs
// most from the profile.
func LargestDeviations(st LetterStatistics, profile *lang.Profile, top int) []Deviation {
	if st.Total == 0 || profile == nil {
		return nil
	}
	candidates := make([]Deviation, 0, 26)
	for i := 0; i < 26; i++ {
		letter := Alphabet[i]
		candidates = append(candidates, Deviation{
			Letter:   letter,
			Observed: st.Percentages[i],
			Expected: profile.Expected(letter),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return math.Abs(candidates[i].Delta()) > math.Abs(candidates[j].Delta())
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	return candidates[:top]
}

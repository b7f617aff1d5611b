package cipher

import (
	"context"
	"fmt"
	"math"

	"github.com/lukinkon/lukin/internal/lang"
	"github.com/lukinkon/lukin/internal/stats"
)

const (
	expertWordWeight    = 200
	rankWordWeight      = 20
	refinedWordWeight   = 50
	expertMethod        = "Expert Manual Analysis"
	refinedMethodSuffix = " + AI Refinement"
)

// FrequencyMethod returns the method tag of a frequency-rank result.
func FrequencyMethod(l lang.Language) string {
	return fmt.Sprintf("Frequency Analysis (%s)", l.Title())
}

// SubstitutionSolver builds substitution candidates and picks the best.
type SubstitutionSolver struct {
	refiner Refiner
}

// NewSubstitutionSolver returns a solver. A nil refiner disables
// refinement.
func NewSubstitutionSolver(refiner Refiner) *SubstitutionSolver {
	return &SubstitutionSolver{refiner: refiner}
}

// Solve returns the highest scoring candidate of the pool. Earlier pool
// entries win ties.
func (s *SubstitutionSolver) Solve(ctx context.Context, text string, allowRefinement bool) (Candidate, error) {
	pool, err := s.Candidates(ctx, text, allowRefinement)
	if err != nil {
		return Candidate{}, err
	}
	return Best(pool), nil
}

// Best returns the first candidate with the highest score. pool must not be
// empty.
func Best(pool []Candidate) Candidate {
	best := pool[0]
	for _, c := range pool[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best
}

// Candidates returns the full pool in order: expert mapping, English rank,
// French rank, each followed by its refinement when one was accepted.
func (s *SubstitutionSolver) Candidates(ctx context.Context, text string, allowRefinement bool) ([]Candidate, error) {
	st := stats.Compute(text)
	if st.Total == 0 {
		return nil, ErrNoLetters
	}

	var pool []Candidate
	add := func(c Candidate) {
		pool = append(pool, c)
		if !allowRefinement {
			return
		}
		if refined, ok := s.refine(ctx, c); ok {
			pool = append(pool, refined)
		}
	}

	add(ExpertCandidate(text))
	for _, p := range lang.Profiles() {
		add(FrequencyCandidate(text, st, p))
	}
	return pool, nil
}

// ExpertCandidate applies the expert mapping and scores it against French
// with a bonus for exact French words.
func ExpertCandidate(text string) Candidate {
	fr := lang.FrenchProfile()
	m := ExpertMapping()
	decoded := m.Apply(text)
	return Candidate{
		Text:     decoded,
		Score:    Score(decoded, fr) + float64(expertWordWeight*countExactWords(decoded, fr)),
		Method:   expertMethod,
		Strategy: StrategyExpert,
		Language: lang.French,
		Mapping:  m,
	}
}

// FrequencyCandidate decodes text with the frequency-rank mapping for one
// profile.
func FrequencyCandidate(text string, st stats.LetterStatistics, p *lang.Profile) Candidate {
	m := FrequencyRankMapping(st, p)
	decoded := m.Apply(text)
	return Candidate{
		Text:     decoded,
		Score:    Score(decoded, p) + float64(rankWordWeight*countListOrShort(decoded, p)),
		Method:   FrequencyMethod(p.Language()),
		Strategy: StrategyFrequency,
		Language: p.Language(),
		Mapping:  m,
	}
}

// refine asks the refiner to correct c.Text. The refined candidate is only
// returned when its adjusted score beats the baseline.
func (s *SubstitutionSolver) refine(ctx context.Context, c Candidate) (Candidate, bool) {
	if s.refiner == nil {
		return Candidate{}, false
	}
	refinedText, err := s.refiner.Refine(ctx, c.Text, c.Language)
	if err != nil || refinedText == "" || refinedText == c.Text {
		return Candidate{}, false
	}
	p, ok := lang.ProfileFor(c.Language)
	if !ok {
		return Candidate{}, false
	}
	score, ok := RefinedScore(c.Score, c.Text, refinedText, p)
	if !ok || score <= c.Score {
		return Candidate{}, false
	}

	out := c
	out.Text = refinedText
	out.Score = score
	out.Method = c.Method + refinedMethodSuffix
	out.Refined = true
	out.Mapping = c.Mapping.Clone()
	return out, true
}

// RefinedScore adjusts a baseline score for a refined text: the change in
// frequency score plus 50 per readable word of the refined text. It reports
// false when the refined text cannot be scored.
func RefinedScore(baseline float64, original, refined string, p *lang.Profile) (float64, bool) {
	before := Score(original, p)
	after := Score(refined, p)
	if math.IsInf(after, -1) || math.IsInf(before, -1) {
		return 0, false
	}
	return baseline + (after - before) + float64(refinedWordWeight*CountReadableWords(refined, p)), true
}

// Package analyzer runs the full detect, solve and arbitrate pipeline over a
// text and renders its reports.
package analyzer

import (
	"context"
	"fmt"

	"github.com/lukinkon/lukin/internal/cipher"
	"github.com/lukinkon/lukin/internal/lang"
	"github.com/lukinkon/lukin/internal/refine"
	"github.com/lukinkon/lukin/internal/stats"
)

// DemoCiphertext is "THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG" shifted by 3.
const DemoCiphertext = "WKH TXLFN EURZQ IRA MXPSV RYHU WKH ODCB GRJ"

const (
	lexicalWordWeight = 20
	topLetterCount    = 5
)

// Options controls a single analysis.
type Options struct {
	Refine bool
}

// Analyzer runs the pipeline with an optional refiner.
type Analyzer struct {
	refiner cipher.Refiner
	solver  *cipher.SubstitutionSolver
}

// New returns an analyzer. A nil refiner disables refinement.
func New(refiner cipher.Refiner) *Analyzer {
	return &Analyzer{
		refiner: refiner,
		solver:  cipher.NewSubstitutionSolver(refiner),
	}
}

// Similarity is a frequency-only score against one language.
type Similarity struct {
	Language lang.Language `json:"language" yaml:"language"`
	Score    float64       `json:"score" yaml:"score"`
}

// Report is the outcome of Analyze.
type Report struct {
	Input        string                 `json:"input" yaml:"input"`
	TotalLetters int                    `json:"total_letters" yaml:"total_letters"`
	TopLetters   []Letter               `json:"top_letters" yaml:"top_letters"`
	Similarity   []Similarity           `json:"similarity" yaml:"similarity"`
	Encrypted    bool                   `json:"encrypted" yaml:"encrypted"`
	Readability  float64                `json:"readability" yaml:"readability"`
	Language     lang.Language          `json:"language,omitempty" yaml:"language,omitempty"`
	Best         *Result                `json:"best,omitempty" yaml:"best,omitempty"`
	Alternative  *Result                `json:"alternative,omitempty" yaml:"alternative,omitempty"`
	Refinement   string                 `json:"refinement,omitempty" yaml:"refinement,omitempty"`
	Statistics   stats.LetterStatistics `json:"-" yaml:"-"`
}

// Letter is one entry of the top letters list.
type Letter struct {
	Letter     string  `json:"letter" yaml:"letter"`
	Count      int     `json:"count" yaml:"count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// Result is an encodable view of a candidate.
type Result struct {
	Method       string            `json:"method" yaml:"method"`
	Strategy     cipher.Strategy   `json:"strategy" yaml:"strategy"`
	Language     lang.Language     `json:"language" yaml:"language"`
	Text         string            `json:"text" yaml:"text"`
	Score        float64           `json:"score" yaml:"score"`
	Shift        *int              `json:"shift,omitempty" yaml:"shift,omitempty"`
	Mapping      map[string]string `json:"mapping,omitempty" yaml:"mapping,omitempty"`
	Refined      bool              `json:"refined,omitempty" yaml:"refined,omitempty"`
	LexicalBonus float64           `json:"lexical_bonus,omitempty" yaml:"lexical_bonus,omitempty"`
}

// NewResult converts a candidate for encoding.
func NewResult(c cipher.Candidate) *Result {
	r := &Result{
		Method:       c.Method,
		Strategy:     c.Strategy,
		Language:     c.Language,
		Text:         c.Text,
		Score:        c.Score,
		Mapping:      c.Mapping.Strings(),
		Refined:      c.Refined,
		LexicalBonus: c.LexicalBonus,
	}
	if c.Strategy == cipher.StrategyCaesar {
		shift := c.Shift
		r.Shift = &shift
	}
	return r
}

// Analyze computes statistics, decides whether text is encrypted and, if
// so, solves it as Caesar and as substitution and keeps the better result.
// It returns cipher.ErrNoLetters when text has no letters.
func (a *Analyzer) Analyze(ctx context.Context, text string, opts Options) (Report, error) {
	st := stats.Compute(text)
	if st.Total == 0 {
		return Report{}, cipher.ErrNoLetters
	}

	verdict := cipher.Inspect(text)
	report := Report{
		Input:        text,
		TotalLetters: st.Total,
		TopLetters:   topLetters(st, topLetterCount),
		Similarity:   similarities(st),
		Encrypted:    verdict.Encrypted,
		Readability:  verdict.Readability,
		Statistics:   st,
	}
	refining := a.Refining(opts.Refine)
	switch {
	case refining:
		report.Refinement = "enabled"
	case opts.Refine:
		report.Refinement = "unavailable"
	}

	if !verdict.Encrypted {
		report.Language = cipher.DetectLanguage(text).Language
		return report, nil
	}

	caesar, err := cipher.SolveCaesar(text)
	if err != nil {
		return Report{}, fmt.Errorf("failed to solve caesar: %w", err)
	}
	caesar = withLexicalBonus(caesar)

	substitution, err := a.solver.Solve(ctx, text, refining)
	if err != nil {
		return Report{}, fmt.Errorf("failed to solve substitution: %w", err)
	}

	best, alt := cipher.Arbitrate(caesar, substitution)
	report.Language = best.Language
	report.Best = NewResult(best)
	report.Alternative = NewResult(alt)
	return report, nil
}

// Refining reports whether a refinement request would reach a service.
func (a *Analyzer) Refining(requested bool) bool {
	return requested && refine.Available(a.refiner)
}

// Substitution returns the full substitution candidate pool of text.
func (a *Analyzer) Substitution(ctx context.Context, text string, opts Options) ([]cipher.Candidate, error) {
	return a.solver.Candidates(ctx, text, a.Refining(opts.Refine))
}

// withLexicalBonus rewards a Caesar decryption for every token that reads
// like a word of its detected language.
func withLexicalBonus(c cipher.Candidate) cipher.Candidate {
	det := cipher.DetectLanguage(c.Text)
	c.LexicalBonus = float64(lexicalWordWeight * cipher.RecognizableWords(c.Text, det.Profile))
	c.Score += c.LexicalBonus
	return c
}

func topLetters(st stats.LetterStatistics, n int) []Letter {
	top := stats.TopLetters(st, n)
	out := make([]Letter, len(top))
	for i, lc := range top {
		out[i] = Letter{Letter: string(lc.Letter), Count: lc.Count, Percentage: lc.Percentage}
	}
	return out
}

func similarities(st stats.LetterStatistics) []Similarity {
	profiles := lang.Profiles()
	out := make([]Similarity, len(profiles))
	for i, p := range profiles {
		out[i] = Similarity{Language: p.Language(), Score: cipher.ScoreStatistics(st, p)}
	}
	return out
}

// Package cipher detects and breaks Caesar and monoalphabetic substitution
// ciphers over English and French text.
package cipher

import (
	"context"
	"errors"

	"github.com/lukinkon/lukin/internal/lang"
)

// ErrNoLetters is returned when a text has nothing to analyze.
var ErrNoLetters = errors.New("no letters found to analyze")

// Strategy tags how a candidate was produced.
type Strategy string

const (
	StrategyCaesar    Strategy = "caesar"
	StrategyExpert    Strategy = "expert"
	StrategyFrequency Strategy = "frequency"
	StrategyManual    Strategy = "manual"
)

// Candidate is one decryption hypothesis. Scores are only comparable
// within a single run.
type Candidate struct {
	Text         string
	Score        float64
	Method       string
	Strategy     Strategy
	Language     lang.Language
	Shift        int
	Mapping      Mapping
	Refined      bool
	LexicalBonus float64
}

// Refiner nudges a partially decoded text toward readability. An error
// means the service is unavailable; callers keep the unrefined text.
type Refiner interface {
	Refine(ctx context.Context, text string, target lang.Language) (string, error)
}

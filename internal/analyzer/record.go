package analyzer

import (
	"time"

	"github.com/lukinkon/lukin/internal/cipher"
	"github.com/lukinkon/lukin/internal/model"
	"github.com/lukinkon/lukin/internal/stats"
)

// StrategyPlain tags history entries for texts that were not encrypted.
const StrategyPlain = "plain"

// Record converts a report into a history entry.
func Record(r Report, at time.Time) model.AnalysisRecord {
	rec := model.AnalysisRecord{
		CreatedAt:    at,
		Input:        r.Input,
		Encrypted:    r.Encrypted,
		TotalLetters: r.TotalLetters,
		Strategy:     StrategyPlain,
		Language:     string(r.Language),
	}
	if r.Best != nil {
		rec.Method = r.Best.Method
		rec.Strategy = string(r.Best.Strategy)
		rec.Score = r.Best.Score
		rec.Decoded = r.Best.Text
		if r.Best.Shift != nil {
			rec.Shift = *r.Best.Shift
		}
		rec.Mapping = cipher.MappingFromStrings(r.Best.Mapping).String()
	}
	if r.Alternative != nil {
		rec.AltMethod = r.Alternative.Method
		rec.AltScore = r.Alternative.Score
	}
	return rec
}

// LetterTotals lists the 26 letter counts of st for storage.
func LetterTotals(st stats.LetterStatistics) []model.LetterTotal {
	out := make([]model.LetterTotal, 0, len(stats.Alphabet))
	for i, c := range st.Counts {
		out = append(out, model.LetterTotal{Letter: string(stats.Alphabet[i]), Count: c})
	}
	return out
}

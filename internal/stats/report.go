package stats

import (
	"context"

	"github.com/lukinkon/lukin/internal/model"
	"github.com/lukinkon/lukin/internal/store"
)

// Report contains precomputed data for history rendering.
type Report struct {
	Analyses      []model.AnalysisRecord
	WindowIDs     []int64
	LettersAll    []model.LetterTotal
	LettersWindow []model.LetterTotal
	CurveLetters  []string
	LetterCounts  map[int64]map[string]int
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, st *store.Store, filter model.HistoryFilter) (Report, error) {
	analyses, err := st.ListAnalyses(ctx, filter)
	if err != nil {
		return Report{}, err
	}

	allIDs := analysisIDs(analyses)
	windowIDs := lastAnalysisIDs(analyses, filter.CurveWindow)
	lettersAll, err := st.ListLetterTotals(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	lettersWindow, err := st.ListLetterTotals(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}
	curveLetters := TopLetterTotals(lettersAll, 3)
	counts, err := st.ListLetterCounts(ctx, allIDs, curveLetters)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Analyses:      analyses,
		WindowIDs:     windowIDs,
		LettersAll:    lettersAll,
		LettersWindow: lettersWindow,
		CurveLetters:  curveLetters,
		LetterCounts:  counts,
	}, nil
}

func analysisIDs(analyses []model.AnalysisRecord) []int64 {
	ids := make([]int64, len(analyses))
	for i, a := range analyses {
		ids[i] = a.ID
	}
	return ids
}

func lastAnalysisIDs(analyses []model.AnalysisRecord, window int) []int64 {
	if window <= 0 || len(analyses) <= window {
		return analysisIDs(analyses)
	}
	return analysisIDs(analyses[len(analyses)-window:])
}

// FromTotals rebuilds letter statistics from stored totals. Entries that
// are not a single lower-case letter are skipped.
func FromTotals(totals []model.LetterTotal) LetterStatistics {
	var st LetterStatistics
	for _, lt := range totals {
		if len(lt.Letter) != 1 || lt.Letter[0] < 'a' || lt.Letter[0] > 'z' || lt.Count <= 0 {
			continue
		}
		st.Counts[lt.Letter[0]-'a'] += lt.Count
		st.Total += lt.Count
	}
	return Merge(st, LetterStatistics{})
}

package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lukinkon/lukin/internal/model"
	"github.com/lukinkon/lukin/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "lukin.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		rec := model.AnalysisRecord{
			CreatedAt:    time.Unix(0, 0).Add(time.Duration(i) * time.Minute),
			Input:        "wkh",
			Encrypted:    true,
			TotalLetters: 3,
			Method:       "Caesar Cipher (English)",
			Strategy:     "caesar",
			Language:     "english",
			Score:        float64(-100 + i),
			Shift:        3,
			Decoded:      "the",
		}
		letters := []model.LetterTotal{
			{Letter: "w", Count: 1},
			{Letter: "k", Count: 1},
			{Letter: "h", Count: 1},
		}
		id, err := st.InsertAnalysis(ctx, rec, letters)
		if err != nil {
			t.Fatalf("insert analysis: %v", err)
		}
		ids = append(ids, id)
	}

	filter := model.HistoryFilter{
		Lang:        "english",
		Last:        2,
		CurveWindow: 1,
	}
	report, err := BuildReport(ctx, st, filter)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Analyses) != 2 {
		t.Fatalf("expected 2 analyses, got %d", len(report.Analyses))
	}
	if report.Analyses[0].ID != ids[1] || report.Analyses[1].ID != ids[2] {
		t.Fatalf("unexpected analysis ids: %+v", report.Analyses)
	}
	if len(report.WindowIDs) != 1 || report.WindowIDs[0] != ids[2] {
		t.Fatalf("unexpected window ids: %v", report.WindowIDs)
	}
	if len(report.LettersAll) != 3 || report.LettersAll[0].Count != 2 {
		t.Fatalf("unexpected letter totals: %+v", report.LettersAll)
	}
	if len(report.LettersWindow) != 3 || report.LettersWindow[0].Count != 1 {
		t.Fatalf("unexpected window letter totals: %+v", report.LettersWindow)
	}
	if len(report.CurveLetters) != 3 {
		t.Fatalf("expected 3 curve letters, got %v", report.CurveLetters)
	}
	if report.LetterCounts[ids[2]]["w"] != 1 {
		t.Fatalf("unexpected letter counts: %+v", report.LetterCounts)
	}
}

func TestFromTotals(t *testing.T) {
	st := FromTotals([]model.LetterTotal{
		{Letter: "e", Count: 3},
		{Letter: "a", Count: 1},
		{Letter: "?", Count: 9},
		{Letter: "z", Count: 0},
	})
	if st.Total != 4 {
		t.Fatalf("expected total 4, got %d", st.Total)
	}
	if st.Count('e') != 3 || st.Percentage('e') != 75 {
		t.Fatalf("unexpected e stats: %d %.2f", st.Count('e'), st.Percentage('e'))
	}
	if FromTotals(nil).Total != 0 {
		t.Fatalf("expected empty statistics")
	}
}

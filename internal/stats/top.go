package stats

import (
	"sort"

	"github.com/lukinkon/lukin/internal/model"
)

// MethodCount is how often a method won.
type MethodCount struct {
	Method string
	Count  int
}

// TopMethods returns the n most frequent winning methods of encrypted
// analyses.
func TopMethods(records []model.AnalysisRecord, n int) []MethodCount {
	if n <= 0 || len(records) == 0 {
		return nil
	}
	counts := map[string]int{}
	for _, r := range records {
		if r.Encrypted && r.Method != "" {
			counts[r.Method]++
		}
	}
	items := make([]MethodCount, 0, len(counts))
	for m, c := range counts {
		items = append(items, MethodCount{Method: m, Count: c})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Method < items[j].Method
		}
		return items[i].Count > items[j].Count
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}

// TopLetterTotals returns the n most frequent letters of aggregated totals.
func TopLetterTotals(totals []model.LetterTotal, n int) []string {
	if n <= 0 || len(totals) == 0 {
		return nil
	}
	sorted := make([]model.LetterTotal, len(totals))
	copy(sorted, totals)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count == sorted[j].Count {
			return sorted[i].Letter < sorted[j].Letter
		}
		return sorted[i].Count > sorted[j].Count
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]string, n)
	for i := range out {
		out[i] = sorted[i].Letter
	}
	return out
}

package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/lukinkon/lukin/internal/lang"
	"github.com/lukinkon/lukin/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.Abs(hi-lo) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[max(0, min(idx, len(sparkChars)-1))])
	}
	return b.String()
}

// RenderSummary prints totals for a set of analyses.
func RenderSummary(w io.Writer, records []model.AnalysisRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No analyses found.")
		return err
	}
	encrypted := 0
	letters := 0
	byLang := map[string]int{}
	scores := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Encrypted {
			encrypted++
			scores = append(scores, r.Score)
		}
		letters += r.TotalLetters
		byLang[r.Language]++
	}

	lines := []string{
		"Summary",
		fmt.Sprintf("Analyses: %d", len(records)),
		fmt.Sprintf("Encrypted: %d", encrypted),
		fmt.Sprintf("Letters analyzed: %d", letters),
	}
	for _, p := range lang.Profiles() {
		l := string(p.Language())
		lines = append(lines, fmt.Sprintf("%s: %d", p.Language().Title(), byLang[l]))
	}
	if len(scores) > 0 {
		var sum float64
		for _, s := range scores {
			sum += s
		}
		lines = append(lines,
			fmt.Sprintf("Avg Score: %.1f", sum/float64(len(scores))),
			fmt.Sprintf("Score Trend: %s", Sparkline(scores)),
		)
	}
	for _, mc := range TopMethods(records, 3) {
		lines = append(lines, fmt.Sprintf("Method %s: %d", mc.Method, mc.Count))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderScoreCurve plots winning scores of encrypted analyses over time.
func RenderScoreCurve(w io.Writer, records []model.AnalysisRecord, window, totalWidth, height int, useColor bool) error {
	var scores, letters []float64
	for _, r := range records {
		if !r.Encrypted {
			continue
		}
		scores = append(scores, r.Score)
		letters = append(letters, float64(r.TotalLetters))
	}
	if len(scores) == 0 {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeries(w, "Score Curve", []Series{
		{Name: "Score", Values: MovingAverage(scores, window)},
		{Name: "Letters", Values: MovingAverage(letters, window)},
	}, PlotOptions{Width: width, Height: height, Color: useColor})
}

// RenderLetterTable prints aggregated letter totals with their share and the
// expected share per language.
func RenderLetterTable(w io.Writer, totals []model.LetterTotal) error {
	if len(totals) == 0 {
		_, err := fmt.Fprintln(w, "No letter stats found.")
		return err
	}
	sum := 0
	for _, lt := range totals {
		sum += lt.Count
	}
	profiles := lang.Profiles()
	headers := []string{"Letter", "Count", "Share"}
	for _, p := range profiles {
		headers = append(headers, p.Language().Title())
	}
	tbl := newTextTable(headers...).alignRight(1, 2, 3, 4)
	for _, lt := range totals {
		share := 0.0
		if sum > 0 {
			share = float64(lt.Count) / float64(sum) * 100
		}
		row := []string{lt.Letter, fmt.Sprintf("%d", lt.Count), fmt.Sprintf("%.2f%%", share)}
		for _, p := range profiles {
			var expected float64
			if len(lt.Letter) == 1 {
				expected = p.Expected(lt.Letter[0])
			}
			row = append(row, fmt.Sprintf("%.2f%%", expected))
		}
		tbl.addRow(row...)
	}
	if _, err := fmt.Fprintln(w, "Letters (All Analyses)"); err != nil {
		return err
	}
	return tbl.writeTo(w)
}

// RenderLetterCurves plots the share of selected letters per analysis.
func RenderLetterCurves(w io.Writer, records []model.AnalysisRecord, perAnalysis map[int64]map[string]int, letters []string, window, totalWidth, height int, useColor bool) error {
	if len(letters) == 0 || len(records) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Letter Curves"); err != nil {
		return err
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	series := make([]Series, 0, len(letters))
	for _, l := range letters {
		values := make([]float64, len(records))
		for i, r := range records {
			if r.TotalLetters > 0 {
				values[i] = float64(perAnalysis[r.ID][l]) / float64(r.TotalLetters) * 100
			}
		}
		series = append(series, Series{Name: l, Values: MovingAverage(values, window)})
	}
	return PlotSeries(w, "", series, PlotOptions{Width: width, Height: height, Color: useColor, SharedScale: true, Unit: "%"})
}

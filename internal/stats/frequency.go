package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/lukinkon/lukin/internal/lang"
)

// RenderFrequencyTable prints the letters present in st, most frequent
// first, next to the expected share in each supported language.
func RenderFrequencyTable(w io.Writer, st LetterStatistics) error {
	if st.Total == 0 {
		_, err := fmt.Fprintln(w, "No letters found.")
		return err
	}
	profiles := lang.Profiles()
	headers := []string{"Letter", "Count", "Percentage"}
	for _, p := range profiles {
		headers = append(headers, p.Language().Title()+" Expected")
	}
	tbl := newTextTable(headers...).alignRight(1, 2, 3, 4)

	ranked := st.Ranked()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Percentage > ranked[j].Percentage
	})
	for _, lc := range ranked {
		if lc.Count == 0 {
			continue
		}
		row := []string{
			string(lc.Letter),
			fmt.Sprintf("%d", lc.Count),
			fmt.Sprintf("%.1f%%", lc.Percentage),
		}
		for _, p := range profiles {
			row = append(row, fmt.Sprintf("%.1f%%", p.Expected(lc.Letter)))
		}
		tbl.addRow(row...)
	}

	if _, err := fmt.Fprintf(w, "Total letters analyzed: %d\n", st.Total); err != nil {
		return err
	}
	return tbl.writeTo(w)
}

// RenderFrequencyChart plots the observed distribution of st against the
// reference profiles over a to z.
func RenderFrequencyChart(w io.Writer, title string, st LetterStatistics, totalWidth, height int, useColor bool) error {
	if st.Total == 0 {
		return nil
	}
	series := []Series{{Name: "Text", Values: st.Percentages[:]}}
	for _, p := range lang.Profiles() {
		values := make([]float64, len(Alphabet))
		for i := range Alphabet {
			values[i] = p.Expected(Alphabet[i])
		}
		series = append(series, Series{Name: p.Language().Title() + " Expected", Values: values})
	}
	labels := make([]string, len(Alphabet))
	for i := range Alphabet {
		labels[i] = string(Alphabet[i])
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeries(w, title, series, PlotOptions{
		Width:       width,
		Height:      height,
		Color:       useColor,
		SharedScale: true,
		XLabels:     labels,
		Unit:        "%",
	})
}

// RenderTopLetters prints the n most frequent letters of st.
func RenderTopLetters(w io.Writer, st LetterStatistics, n int) error {
	top := TopLetters(st, n)
	if _, err := fmt.Fprintf(w, "Top %d most frequent letters:\n", n); err != nil {
		return err
	}
	for i, lc := range top {
		if _, err := fmt.Fprintf(w, "  %d. '%c': %d times (%.1f%%)\n", i+1, lc.Letter, lc.Count, lc.Percentage); err != nil {
			return err
		}
	}
	return nil
}

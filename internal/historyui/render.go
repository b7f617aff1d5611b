package historyui

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/lukinkon/lukin/internal/lang"
	"github.com/lukinkon/lukin/internal/model"
	"github.com/lukinkon/lukin/internal/stats"
)

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	return padLines(m.renderTabs(), m.width) + "\n" + padLines(m.renderFilterSummary(), m.width)
}

func (m *Model) renderFilterSummary() string {
	language := valueOr(m.filter.Lang, "any")
	method := valueOr(m.filter.Method, "any")
	since := "any"
	if m.filter.Since != nil {
		since = m.filter.Since.Format(dateLayout)
	}
	last := "all"
	if m.filter.Last > 0 {
		last = strconv.Itoa(m.filter.Last)
	}
	summary := fmt.Sprintf("Filter: lang=%s  method=%s  since=%s  last=%s  window=%d", language, method, since, last, m.filter.CurveWindow)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Filter: /  Quit: q"
	if m.activeTab == tabFrequency {
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Letters: enter  Window: -/=  Filter: /  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabLetterTable {
		switch {
		case len(m.report.Analyses) == 0:
			return fitLines("No analyses found.", m.width, height)
		case len(m.report.LettersAll) == 0:
			return fitLines("No letter stats found.", m.width, height)
		default:
			return fitLines(tableMutedStyle.Render(m.letterTable.View()), m.width, height)
		}
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := maxInt(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = maxInt(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.setTableSize(m.width, bodyHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
	m.letterInput.Width = maxInt(10, modalInnerWidth(m.width)-lipgloss.Width(m.letterInput.Prompt))
}

func renderOverview(analyses []model.AnalysisRecord, window, width int) string {
	if len(analyses) == 0 {
		return "No analyses found."
	}
	parts := []string{renderSummaryCards(analyses, width)}
	var buf bytes.Buffer
	if err := stats.RenderScoreCurve(&buf, analyses, window, width, plotHeight, true); err != nil {
		parts = append(parts, fmt.Sprintf("Failed to render score curve: %v", err))
	} else if buf.Len() > 0 {
		parts = append(parts, strings.TrimRight(buf.String(), "\n"))
	}
	parts = append(parts, renderRecent(analyses, width))
	return strings.Join(parts, "\n\n")
}

func renderSummaryCards(analyses []model.AnalysisRecord, width int) string {
	encrypted := 0
	letters := 0
	var scores []float64
	best := math.Inf(-1)
	for _, a := range analyses {
		letters += a.TotalLetters
		if !a.Encrypted {
			continue
		}
		encrypted++
		scores = append(scores, a.Score)
		best = math.Max(best, a.Score)
	}
	avg, bestText := "n/a", "n/a"
	if len(scores) > 0 {
		var sum float64
		for _, s := range scores {
			sum += s
		}
		avg = fmt.Sprintf("%.1f", sum/float64(len(scores)))
		bestText = fmt.Sprintf("%.1f", best)
	}
	method := "n/a"
	if top := stats.TopMethods(analyses, 1); len(top) > 0 {
		method = top[0].Method
	}
	cards := []string{
		metricCard("Analyses", strconv.Itoa(len(analyses))),
		metricCard("Encrypted", strconv.Itoa(encrypted)),
		metricCard("Letters", strconv.Itoa(letters)),
		metricCard("Avg Score", avg),
		metricCard("Best Score", bestText),
		metricCard("Top Method", method),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

// renderRecent lists the newest analyses first.
func renderRecent(analyses []model.AnalysisRecord, width int) string {
	lines := []string{headerStyle.Render("Recent analyses")}
	for i := len(analyses) - 1; i >= 0 && len(analyses)-i <= recentShown; i-- {
		a := analyses[i]
		text := a.Decoded
		if text == "" {
			text = a.Input
		}
		method := valueOr(a.Method, "plain text")
		line := fmt.Sprintf("#%d  %s  %s  %.1f  %s", a.ID, a.CreatedAt.Local().Format("2006-01-02 15:04"), method, a.Score, strings.Join(strings.Fields(text), " "))
		lines = append(lines, truncateLine(line, width))
	}
	return strings.Join(lines, "\n")
}

func renderFrequency(report stats.Report, letters []string, counts map[int64]map[string]int, window, width int, errMsg string) string {
	if len(report.Analyses) == 0 {
		return "No analyses found."
	}
	var buf bytes.Buffer
	title := fmt.Sprintf("Letter Frequencies (last %d analyses)", len(report.WindowIDs))
	if err := stats.RenderFrequencyChart(&buf, title, stats.FromTotals(report.LettersWindow), width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render frequency chart: %v", err)
	}
	parts := []string{strings.TrimRight(buf.String(), "\n")}
	switch {
	case errMsg != "":
		parts = append(parts, fmt.Sprintf("Failed to load letter curves: %s", errMsg))
	case len(letters) == 0:
		parts = append(parts, "No letters selected. Press Enter to set letters.")
	default:
		buf.Reset()
		header := headerStyle.Render("Letters: " + strings.Join(letters, ", "))
		if err := stats.RenderLetterCurves(&buf, report.Analyses, counts, letters, window, width, plotHeight, true); err != nil {
			parts = append(parts, fmt.Sprintf("Failed to render letter curves: %v", err))
		} else {
			parts = append(parts, header+"\n"+strings.TrimRight(buf.String(), "\n"))
		}
	}
	return strings.Join(parts, "\n\n")
}

func letterColumns() []table.Column {
	cols := []table.Column{
		{Title: "Letter", Width: 6},
		{Title: "Count", Width: 8},
		{Title: "Share", Width: 8},
	}
	for _, p := range lang.Profiles() {
		cols = append(cols, table.Column{Title: p.Language().Title(), Width: 8})
	}
	return cols
}

func letterRows(totals []model.LetterTotal) []table.Row {
	sum := 0
	for _, lt := range totals {
		sum += lt.Count
	}
	rows := make([]table.Row, 0, len(totals))
	for _, lt := range totals {
		share := 0.0
		if sum > 0 {
			share = float64(lt.Count) / float64(sum) * 100
		}
		row := table.Row{lt.Letter, strconv.Itoa(lt.Count), fmt.Sprintf("%.2f%%", share)}
		for _, p := range lang.Profiles() {
			expected := 0.0
			if len(lt.Letter) == 1 {
				expected = p.Expected(lt.Letter[0])
			}
			row = append(row, fmt.Sprintf("%.2f%%", expected))
		}
		rows = append(rows, row)
	}
	return rows
}

func newLetterTable() table.Model {
	t := table.New(
		table.WithColumns(letterColumns()),
		table.WithHeight(1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.Padding(0, 1).PaddingLeft(0)
	styles.Selected = styles.Cell.Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	t.SetStyles(styles)
	return t
}

func (m *Model) setTableSize(width, height int) {
	target := maxInt(1, height-1)
	if m.tableLayout.width == width && m.tableLayout.height == target {
		return
	}
	m.tableLayout.width = width
	m.tableLayout.height = target
	m.letterTable.SetWidth(width)
	m.letterTable.SetHeight(target)
	// The header border takes extra lines; shrink until the view fits.
	if extra := lipgloss.Height(m.letterTable.View()) - height; extra > 0 {
		m.letterTable.SetHeight(maxInt(1, target-extra))
	}
}

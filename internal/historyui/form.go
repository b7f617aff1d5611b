package historyui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lukinkon/lukin/internal/lang"
	"github.com/lukinkon/lukin/internal/model"
	"github.com/lukinkon/lukin/internal/stats"
)

const dateLayout = "2006-01-02"

const (
	fieldLang = iota
	fieldMethod
	fieldSince
	fieldLast
	fieldWindow
)

func newInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		fieldLang:   newInput("Lang (english/french): "),
		fieldMethod: newInput("Method (caesar/expert/frequency/manual/plain): "),
		fieldSince:  newInput("Since (YYYY-MM-DD): "),
		fieldLast:   newInput("Last: "),
		fieldWindow: newInput("Curve window: "),
	}
	m.letterInput = newInput("Letters: ")
	m.letterInput.Placeholder = "eas"
	m.setInputsFromFilter()
}

func (m *Model) setInputsFromFilter() {
	m.filterInputs[fieldLang].SetValue(m.filter.Lang)
	m.filterInputs[fieldMethod].SetValue(m.filter.Method)
	m.filterInputs[fieldSince].SetValue("")
	if m.filter.Since != nil {
		m.filterInputs[fieldSince].SetValue(m.filter.Since.Format(dateLayout))
	}
	m.filterInputs[fieldLast].SetValue("")
	if m.filter.Last > 0 {
		m.filterInputs[fieldLast].SetValue(strconv.Itoa(m.filter.Last))
	}
	m.filterInputs[fieldWindow].SetValue(strconv.Itoa(m.filter.CurveWindow))
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filter (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromFilter()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		filter, err := m.parseFilter()
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filter = filter
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

// parseFilter validates the form. The language accepts names or codes and
// is stored as the full name.
func (m *Model) parseFilter() (model.HistoryFilter, error) {
	var filter model.HistoryFilter
	if v := strings.TrimSpace(m.filterInputs[fieldLang].Value()); v != "" {
		l, err := lang.ParseLanguage(v)
		if err != nil {
			return filter, err
		}
		filter.Lang = string(l)
	}
	filter.Method = strings.ToLower(strings.TrimSpace(m.filterInputs[fieldMethod].Value()))

	if v := strings.TrimSpace(m.filterInputs[fieldSince].Value()); v != "" {
		parsed, err := time.ParseInLocation(dateLayout, v, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		filter.Since = &parsed
	}
	if v := strings.TrimSpace(m.filterInputs[fieldLast].Value()); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return filter, fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		filter.Last = parsed
	}
	filter.CurveWindow = 1
	if v := strings.TrimSpace(m.filterInputs[fieldWindow].Value()); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return filter, fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		filter.CurveWindow = parsed
	}
	return filter, nil
}

func (m *Model) startLetterInput() (tea.Model, tea.Cmd) {
	m.letterMode = true
	m.letterInput.SetValue(strings.Join(m.letters, ""))
	return m, m.letterInput.Focus()
}

func (m *Model) updateLetterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.letterMode = false
		return m, nil
	case tea.KeyEnter:
		m.applyLetterInput()
		m.letterMode = false
		m.loadLetterCounts()
		m.renderTabContents()
		return m, nil
	}
	var cmd tea.Cmd
	m.letterInput, cmd = m.letterInput.Update(msg)
	if normalized := joinLetters(parseLetters(m.letterInput.Value())); normalized != m.letterInput.Value() {
		m.letterInput.SetValue(normalized)
	}
	return m, cmd
}

// applyLetterInput falls back to the most frequent letters when the input
// holds no letters.
func (m *Model) applyLetterInput() {
	letters := parseLetters(m.letterInput.Value())
	if len(letters) == 0 {
		m.lettersCustom = false
		m.letters = stats.TopLetterTotals(m.report.LettersAll, curveLetters)
		return
	}
	m.lettersCustom = true
	m.letters = letters
}

func (m *Model) renderLetterModal() string {
	body := []string{
		cardValueStyle.Render("Select Letters"),
		m.letterInput.View(),
		headerStyle.Render("Type letters a-z. Other characters are ignored."),
		headerStyle.Render("Enter to apply / Esc to cancel"),
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// parseLetters keeps the distinct ASCII letters of input, lower-cased, in
// first-seen order.
func parseLetters(input string) []string {
	var out []string
	seen := map[rune]bool{}
	for _, r := range strings.ToLower(input) {
		if r < 'a' || r > 'z' || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, string(r))
	}
	return out
}

func joinLetters(letters []string) string {
	return strings.Join(letters, "")
}

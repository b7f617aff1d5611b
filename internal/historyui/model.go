// Package historyui provides the Bubble Tea history viewer.
package historyui

import (
	"context"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lukinkon/lukin/internal/model"
	"github.com/lukinkon/lukin/internal/stats"
	"github.com/lukinkon/lukin/internal/store"
)

const (
	tabOverview = iota
	tabLetterTable
	tabFrequency
)

const (
	plotHeight   = 10
	curveLetters = 3
	recentShown  = 8
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Model implements the Bubble Tea history UI.
type Model struct {
	store  *store.Store
	filter model.HistoryFilter

	report       stats.Report
	errMsg       string
	curveErrMsg  string
	letterCounts map[int64]map[string]int

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	letterTable table.Model
	tableLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	letters       []string
	lettersCustom bool
	letterMode    bool
	letterInput   textinput.Model
}

type tableLayout struct {
	width  int
	height int
}

// NewModel constructs a history UI model. letters selects the curve letters;
// when empty the most frequent letters are used.
func NewModel(st *store.Store, filter model.HistoryFilter, letters []string) *Model {
	m := &Model{
		store:  st,
		filter: filter,
		tabs:   []string{"Overview", "Letter Table", "Frequency Chart"},
	}
	if sel := parseLetters(joinLetters(letters)); len(sel) > 0 {
		m.letters = sel
		m.lettersCustom = true
	}
	m.initInputs()
	m.letterTable = newLetterTable()
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.letterMode {
			return m.updateLetterInput(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.filter.CurveWindow = nextCurveWindow(m.filter.CurveWindow)
			m.refreshReport()
			return m, nil
		case "-":
			m.filter.CurveWindow = prevCurveWindow(m.filter.CurveWindow)
			m.refreshReport()
			return m, nil
		case "/":
			return m.startFilter()
		case "enter":
			if m.activeTab == tabFrequency {
				return m.startLetterInput()
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabLetterTable {
				m.letterTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabLetterTable {
				m.letterTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabLetterTable {
			m.letterTable, cmd = m.letterTable.Update(msg)
			return m, cmd
		}
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.letterMode {
		return fitLines(m.renderLetterModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return header + "\n" + body + "\n" + footer
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabLetterTable {
		m.letterTable.Focus()
	} else {
		m.letterTable.Blur()
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.filter)
	if err != nil {
		m.errMsg = err.Error()
		m.report = stats.Report{}
		m.renderTabContents()
		return
	}
	m.errMsg = ""
	m.report = report
	if !m.lettersCustom {
		m.letters = stats.TopLetterTotals(report.LettersAll, curveLetters)
	}
	m.loadLetterCounts()
	m.letterTable.SetRows(letterRows(report.LettersAll))
	m.updateLayout()
	m.renderTabContents()
}

func (m *Model) loadLetterCounts() {
	m.curveErrMsg = ""
	m.letterCounts = nil
	if len(m.report.Analyses) == 0 || len(m.letters) == 0 {
		return
	}
	ids := make([]int64, len(m.report.Analyses))
	for i, a := range m.report.Analyses {
		ids[i] = a.ID
	}
	counts, err := m.store.ListLetterCounts(context.Background(), ids, m.letters)
	if err != nil {
		m.curveErrMsg = err.Error()
		return
	}
	m.letterCounts = counts
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load history.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report.Analyses, m.filter.CurveWindow, width))
	m.viewports[tabFrequency].SetContent(renderFrequency(m.report, m.letters, m.letterCounts, m.filter.CurveWindow, width, m.curveErrMsg))
}

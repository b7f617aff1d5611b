// Package tui provides the Bubble Tea manual decoding workbench.
package tui

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lukinkon/lukin/internal/analyzer"
	"github.com/lukinkon/lukin/internal/cipher"
	"github.com/lukinkon/lukin/internal/lang"
	"github.com/lukinkon/lukin/internal/model"
	"github.com/lukinkon/lukin/internal/stats"
	"github.com/lukinkon/lukin/internal/store"
)

// Preset names a starting mapping.
type Preset string

const (
	PresetNone      Preset = "none"
	PresetFrequency Preset = "frequency"
	PresetExpert    Preset = "expert"
	PresetDigraph   Preset = "digraph"
)

// ParsePreset validates a preset name.
func ParsePreset(s string) (Preset, error) {
	switch p := Preset(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PresetNone:
		return PresetNone, nil
	case PresetFrequency, PresetExpert, PresetDigraph:
		return p, nil
	default:
		return "", fmt.Errorf("unknown preset %q (use none, frequency, expert or digraph)", s)
	}
}

// Options configures a workbench session.
type Options struct {
	Text     string
	Language lang.Language
	Preset   Preset
	Store    *store.Store
}

// Model implements the Bubble Tea workbench UI.
type Model struct {
	store *store.Store

	width  int
	height int

	input    string
	text     []rune
	st       stats.LetterStatistics
	letters  []byte
	selected int
	mapping  cipher.Mapping
	profile  *lang.Profile

	status  string
	savedID int64
}

var (
	mappedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	unmappedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	otherStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	conflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	titleStyle    = lipgloss.NewStyle().Bold(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	helpStyle     = footerStyle
)

const helpLine = "←/→ select  a-z assign  ⌫ clear  tab language  ctrl+f freq  ctrl+e expert  ctrl+d digraph  ctrl+r reset  enter save  esc quit"

// NewModel constructs a workbench for opts.Text.
func NewModel(opts Options) *Model {
	profile, ok := lang.ProfileFor(opts.Language)
	if !ok {
		profile = lang.FrenchProfile()
	}
	st := stats.Compute(opts.Text)
	m := &Model{
		store:   opts.Store,
		input:   opts.Text,
		text:    []rune(opts.Text),
		st:      st,
		profile: profile,
		mapping: cipher.Mapping{},
	}
	for _, lc := range st.Ranked() {
		if lc.Count == 0 {
			break
		}
		m.letters = append(m.letters, lc.Letter)
	}
	m.applyPreset(opts.Preset)
	return m
}

// Mapping returns a copy of the current mapping.
func (m *Model) Mapping() cipher.Mapping {
	return m.mapping.Clone()
}

// Decoded returns the text under the current mapping.
func (m *Model) Decoded() string {
	return m.mapping.Apply(m.input)
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
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyLeft:
			m.move(-1)
		case tea.KeyRight:
			m.move(1)
		case tea.KeyTab:
			m.toggleLanguage()
		case tea.KeyBackspace, tea.KeyDelete:
			m.clearSelected()
		case tea.KeyCtrlF:
			m.applyPreset(PresetFrequency)
		case tea.KeyCtrlE:
			m.applyPreset(PresetExpert)
		case tea.KeyCtrlD:
			m.applyPreset(PresetDigraph)
		case tea.KeyCtrlR:
			m.applyPreset(PresetNone)
		case tea.KeyEnter:
			m.save()
		case tea.KeyRunes:
			m.handleRunes(msg.Runes)
		}
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.letters) == 0 {
		return "No letters to decode. Press esc to quit.\n"
	}
	styled := buildStyledRunes(m.text, m.mapping, m.selectedLetter())
	contentWidth := 0
	if m.width > 0 {
		contentWidth = int(float64(m.width) * 0.80)
		if contentWidth < 1 {
			contentWidth = 1
		}
	}
	sections := []string{
		titleStyle.Render("LUKIN E NIMI KON - Workbench"),
		m.renderKeyTable(),
		wrapStyledRunes(styled, contentWidth),
		m.renderFooter(),
		helpStyle.Render(helpLine),
	}
	content := strings.Join(sections, "\n\n")
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, lipgloss.NewStyle().Width(contentWidth).Render(content))
}

func (m *Model) selectedLetter() byte {
	if len(m.letters) == 0 {
		return 0
	}
	return m.letters[m.selected]
}

func (m *Model) move(delta int) {
	if len(m.letters) == 0 {
		return
	}
	m.selected = (m.selected + delta + len(m.letters)) % len(m.letters)
}

func (m *Model) handleRunes(runes []rune) {
	for _, r := range runes {
		c, ok := letterKey(r)
		if !ok || len(m.letters) == 0 {
			continue
		}
		m.mapping[m.selectedLetter()] = string(c)
		m.status = ""
		m.move(1)
	}
}

func (m *Model) clearSelected() {
	if len(m.letters) == 0 {
		return
	}
	delete(m.mapping, m.selectedLetter())
	m.status = ""
}

func (m *Model) toggleLanguage() {
	if m.profile.Language() == lang.English {
		m.profile = lang.FrenchProfile()
	} else {
		m.profile = lang.EnglishProfile()
	}
}

func (m *Model) applyPreset(p Preset) {
	switch p {
	case PresetFrequency:
		m.mapping = cipher.FrequencyRankMapping(m.st, m.profile)
		m.status = fmt.Sprintf("Frequency rank mapping (%s)", m.profile.Language().Title())
	case PresetExpert:
		m.mapping = cipher.ExpertMapping()
		m.status = "Expert mapping"
	case PresetDigraph:
		m.mapping = cipher.ExpertDigraphMapping()
		m.status = "Expert mapping with qu digraphs"
	default:
		m.mapping = cipher.Mapping{}
		m.status = ""
	}
}

// conflicts returns plaintext letters assigned to more than one cipher
// letter present in the text.
func (m *Model) conflicts() map[string]bool {
	seen := map[string]int{}
	for _, c := range m.letters {
		if v := m.mapping[c]; v != "" {
			seen[v]++
		}
	}
	out := map[string]bool{}
	for v, n := range seen {
		if n > 1 {
			out[v] = true
		}
	}
	return out
}

func (m *Model) renderKeyTable() string {
	conflicts := m.conflicts()
	var cipherRow, plainRow strings.Builder
	cipherRow.WriteString("cipher ")
	plainRow.WriteString("plain  ")
	for i, c := range m.letters {
		v := m.mapping[c]
		cell := fmt.Sprintf("%-3s", v)
		if v == "" {
			cell = fmt.Sprintf("%-3s", "·")
		}
		head := fmt.Sprintf("%-3s", string(c))
		switch {
		case i == m.selected:
			head = selectedStyle.Render(head)
			cell = selectedStyle.Render(cell)
		case conflicts[v]:
			cell = conflictStyle.Render(cell)
		}
		cipherRow.WriteString(head)
		plainRow.WriteString(cell)
	}
	return cipherRow.String() + "\n" + plainRow.String()
}

func (m *Model) renderFooter() string {
	decoded := m.Decoded()
	segments := []string{m.profile.Language().Title()}
	score := cipher.Score(decoded, m.profile)
	if math.IsInf(score, 0) {
		segments = append(segments, "Score n/a")
	} else {
		segments = append(segments, fmt.Sprintf("Score %.1f", score))
	}
	tokens := len(strings.Fields(decoded))
	segments = append(segments, fmt.Sprintf("Readable %d/%d words", cipher.CountReadableWords(decoded, m.profile), tokens))
	segments = append(segments, fmt.Sprintf("Mapped %d/%d letters", m.mappedCount(), len(m.letters)))
	if m.status != "" {
		segments = append(segments, m.status)
	}
	return footerStyle.Render(strings.Join(segments, "  ·  "))
}

func (m *Model) mappedCount() int {
	n := 0
	for _, c := range m.letters {
		if m.mapping[c] != "" {
			n++
		}
	}
	return n
}

// ManualMethod returns the method tag of a workbench result.
func ManualMethod(l lang.Language) string {
	return fmt.Sprintf("Manual Mapping (%s)", l.Title())
}

// Record builds the history entry for the current mapping.
func (m *Model) Record(at time.Time) model.AnalysisRecord {
	decoded := m.Decoded()
	return model.AnalysisRecord{
		CreatedAt:    at,
		Input:        m.input,
		Encrypted:    true,
		TotalLetters: m.st.Total,
		Method:       ManualMethod(m.profile.Language()),
		Strategy:     string(cipher.StrategyManual),
		Language:     string(m.profile.Language()),
		Score:        cipher.Score(decoded, m.profile),
		Mapping:      m.mapping.String(),
		Decoded:      decoded,
	}
}

func (m *Model) save() {
	if m.store == nil {
		m.status = "History disabled"
		return
	}
	id, err := m.store.InsertAnalysis(context.Background(), m.Record(time.Now()), analyzer.LetterTotals(m.st))
	if err != nil {
		logErrf("failed to save mapping: %v\n", err)
		m.status = "Save failed"
		return
	}
	m.savedID = id
	m.status = fmt.Sprintf("Saved as #%d", id)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

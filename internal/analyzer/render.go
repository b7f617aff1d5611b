package analyzer

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lukinkon/lukin/internal/lang"
	"github.com/lukinkon/lukin/internal/stats"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const (
	previewLength   = 60
	inputPreview    = 80
	mappingShown    = 10
	deviationsShown = 3
	rule            = "=================================================="
)

// RenderOptions controls text rendering.
type RenderOptions struct {
	Graph      bool
	Table      bool
	Width      int
	Height     int
	ForceColor bool
}

// ParseFormat validates an output format name.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Encode writes v as JSON or YAML.
func Encode(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("cannot encode as %q", format)
	}
}

// RenderText prints a human readable analysis report.
func RenderText(w io.Writer, r Report, opts RenderOptions) error {
	p := &printer{w: w}
	p.line("LUKIN E NIMI KON - Automatic Translation")
	p.line(rule)
	p.linef("Input: %s", preview(r.Input, previewLength))
	switch r.Refinement {
	case "enabled":
		p.line("AI refinement enabled")
	case "unavailable":
		p.line("AI refinement requested but not available (set the API key)")
	}
	p.linef("Total letters analyzed: %d", r.TotalLetters)
	p.line("")
	p.linef("Top %d most frequent letters:", topLetterCount)
	for i, l := range r.TopLetters {
		p.linef("  %d. '%s': %d times (%.1f%%)", i+1, l.Letter, l.Count, l.Percentage)
	}
	p.line("")
	p.linef("Encryption detected: %s", yesNo(r.Encrypted))
	if p.err != nil {
		return p.err
	}

	if !r.Encrypted || r.Best == nil {
		p.line("Text appears to be in plain text already.")
		if r.Language != "" {
			p.linef("Detected Language: %s", r.Language.Title())
		}
		if p.err != nil || !opts.Graph {
			return p.err
		}
		return stats.RenderFrequencyChart(w, "Plain Text - Letter Frequencies", r.Statistics, opts.Width, opts.Height, opts.ForceColor)
	}

	best := r.Best
	p.line("")
	p.linef("BEST TRANSLATION (%s):", best.Method)
	p.line(rule)
	p.line(best.Text)
	p.line("")
	p.linef("Confidence Score: %.1f", best.Score)
	if best.Language != "" {
		p.linef("Detected Language: %s", best.Language.Title())
	}
	if best.Shift != nil {
		p.linef("Caesar Shift: %d", *best.Shift)
	} else if len(best.Mapping) > 0 {
		p.line("")
		p.linef("Substitution mapping (top %d):", mappingShown)
		p.linef("  %s", mappingSummary(best.Mapping, mappingShown))
	}

	if alt := r.Alternative; alt != nil {
		p.line("")
		p.linef("Alternative (%s):", alt.Method)
		p.linef("  %s", preview(alt.Text, previewLength))
		p.linef("  Score: %.1f", alt.Score)
		if alt.Shift != nil {
			p.linef("  Caesar Shift: %d", *alt.Shift)
		}
		if alt.Language != "" {
			p.linef("  Language: %s", alt.Language.Title())
		}
	}
	if p.err != nil || !opts.Graph {
		return p.err
	}
	p.line("")
	decoded := stats.Compute(best.Text)
	return stats.RenderFrequencyChart(w, "Decrypted Text - "+best.Method, decoded, opts.Width, opts.Height, opts.ForceColor)
}

// RenderFrequency prints the frequency-only report.
func RenderFrequency(w io.Writer, r FrequencyReport, opts RenderOptions) error {
	p := &printer{w: w}
	p.line("LUKIN E NIMI KON - Frequency Analysis")
	p.line(rule)
	p.linef("Analyzing: %s", preview(r.Input, inputPreview))
	if p.err != nil {
		return p.err
	}
	if opts.Table {
		p.line("")
		if p.err == nil {
			p.err = stats.RenderFrequencyTable(w, r.Statistics)
		}
	} else {
		p.linef("Total letters: %d", r.TotalLetters)
	}

	p.line("")
	p.line("Language similarity scores:")
	for _, s := range r.Similarity {
		p.linef("  %-8s %.1f", s.Language.Title()+":", s.Score)
	}
	if r.Closest == Ambiguous {
		p.line("  -> Text similarity is ambiguous")
	} else {
		p.linef("  -> Text appears more similar to %s patterns", lang.Language(r.Closest).Title())
		if profile, ok := lang.ProfileFor(lang.Language(r.Closest)); ok {
			p.line("")
			p.linef("Largest deviations from %s:", profile.Language().Title())
			for _, d := range stats.LargestDeviations(r.Statistics, profile, deviationsShown) {
				p.linef("  '%c': %.1f%% observed vs %.1f%% expected (%+.1f)", d.Letter, d.Observed, d.Expected, d.Delta())
			}
		}
	}
	p.line("")
	if p.err == nil {
		p.err = stats.RenderTopLetters(w, r.Statistics, topLetterCount)
	}
	if p.err != nil || !opts.Graph {
		return p.err
	}
	p.line("")
	return stats.RenderFrequencyChart(w, "Frequency Analysis: "+preview(r.Input, 30), r.Statistics, opts.Width, opts.Height, opts.ForceColor)
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

func (p *printer) linef(format string, args ...any) {
	p.line(fmt.Sprintf(format, args...))
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func mappingSummary(m map[string]string, n int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > n {
		keys = keys[:n]
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "→" + m[k]
	}
	return strings.Join(parts, " | ")
}

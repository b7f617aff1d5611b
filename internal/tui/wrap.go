package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/lukinkon/lukin/internal/cipher"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes decodes text with mapping rune by rune. Mapped letters
// use the decoded style, unmapped letters keep their cipher form, and every
// occurrence of the selected cipher letter is underlined.
func buildStyledRunes(text []rune, mapping cipher.Mapping, selected byte) []styledRune {
	out := make([]styledRune, 0, len(text))
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			out = append(out, styledRune{s: " ", width: 1, isSpace: true})
			continue
		}
		shown := string(r)
		style := otherStyle
		if c, ok := letterKey(r); ok {
			style = unmappedStyle
			if v := mapping[c]; v != "" {
				shown = v
				if r >= 'A' && r <= 'Z' {
					shown = strings.ToUpper(v)
				}
				style = mappedStyle
			}
			if c == selected {
				style = style.Underline(true)
			}
		}
		out = append(out, styledRune{
			s:     style.Render(shown),
			width: runewidth.StringWidth(shown),
		})
	}
	return out
}

// letterKey returns the lower-case mapping key of an ASCII letter.
func letterKey(r rune) (byte, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return byte(r), true
	case r >= 'A' && r <= 'Z':
		return byte(r) + ('a' - 'A'), true
	default:
		return 0, false
	}
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines at the last space that fits in width, or
// mid-word when a word is wider than a line.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
			} else {
				out.WriteString(renderStyledRunes(line))
				line = line[:0]
			}
			out.WriteRune('\n')
			lineWidth = lineWidthOf(line)
			lastSpaceIdx = lastSpaceIndex(line)
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

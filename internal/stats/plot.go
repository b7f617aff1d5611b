package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

// PlotOptions controls the size and scaling of a plot.
type PlotOptions struct {
	Width  int
	Height int
	// Color forces ANSI colors even when w is not a terminal.
	Color bool
	// SharedScale plots every series against one value range instead of
	// scaling each series to its own min and max.
	SharedScale bool
	// XLabels are spread evenly under the plot.
	XLabels []string
	// Unit is appended to the axis values of a shared scale.
	Unit string
}

type valueRange struct {
	min float64
	max float64
}

func (r valueRange) span() float64 { return r.max - r.min }

type lineStyle struct {
	name   string
	period int
	on     int
}

type ansiColor struct {
	name string
	code string
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 6
	axisSeparator       = " │ "
	perSeriesNote       = "Scaled per series; see min/max below."
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var lineStyles = []lineStyle{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
	{name: "dashdot", period: 8, on: 3},
}

var colorPalette = []ansiColor{
	{name: "cyan", code: "\x1b[36m"},
	{name: "magenta", code: "\x1b[35m"},
	{name: "yellow", code: "\x1b[33m"},
	{name: "green", code: "\x1b[32m"},
	{name: "blue", code: "\x1b[34m"},
}

// PlotSeries renders a braille line plot of the series.
func PlotSeries(w io.Writer, title string, series []Series, opts PlotOptions) error {
	series = nonEmptySeries(series)
	if len(series) == 0 {
		return nil
	}

	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	scaled := make([]Series, len(series))
	for i, s := range series {
		scaled[i] = Series{Name: s.Name, Values: resampleSeries(s.Values, width)}
	}
	ranges := seriesRanges(scaled, opts.SharedScale)

	layers := make([]*brailleCanvas, len(scaled))
	for i, s := range scaled {
		layers[i] = newBrailleCanvas(width, height)
		layers[i].polyline(s.Values, ranges[i], lineStyles[i%len(lineStyles)])
	}

	useColor := shouldUseColor(w, opts.Color)
	var lines []string
	if title != "" {
		lines = append(lines, title)
	}
	if opts.SharedScale {
		lines = append(lines, fmt.Sprintf("Shared scale: %.2f%s to %.2f%s", ranges[0].min, opts.Unit, ranges[0].max, opts.Unit))
	} else {
		lines = append(lines, perSeriesNote)
		for i, s := range scaled {
			lines = append(lines, fmt.Sprintf("%s: min=%.2f max=%.2f", s.Name, ranges[i].min, ranges[i].max))
		}
	}

	labels := axisLabels(height, ranges[0], opts)
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(runewidth.FillLeft(labels[y], axisLabelWidth))
		row.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			mask, owner := composeCell(layers, x, y)
			ch := brailleFromMask(mask)
			if useColor && owner >= 0 {
				row.WriteString(colorPalette[owner%len(colorPalette)].code)
				row.WriteRune(ch)
				row.WriteString(colorReset)
				continue
			}
			row.WriteRune(ch)
		}
		lines = append(lines, row.String())
	}
	if len(opts.XLabels) > 0 {
		lines = append(lines, strings.Repeat(" ", axisLabelWidth+runewidth.StringWidth(axisSeparator))+xAxis(opts.XLabels, width))
	}
	lines = append(lines, renderLegend(scaled, useColor), "")

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func nonEmptySeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - axisLabelWidth - runewidth.StringWidth(axisSeparator)
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func seriesRanges(series []Series, shared bool) []valueRange {
	ranges := make([]valueRange, len(series))
	if shared {
		r := valueRange{min: 0, max: math.Inf(-1)}
		for _, s := range series {
			for _, v := range s.Values {
				r.max = math.Max(r.max, v)
				r.min = math.Min(r.min, v)
			}
		}
		r = widen(r)
		for i := range ranges {
			ranges[i] = r
		}
		return ranges
	}
	for i, s := range series {
		r := valueRange{min: math.Inf(1), max: math.Inf(-1)}
		for _, v := range s.Values {
			r.max = math.Max(r.max, v)
			r.min = math.Min(r.min, v)
		}
		ranges[i] = widen(r)
	}
	return ranges
}

func widen(r valueRange) valueRange {
	if math.IsInf(r.min, 0) || math.IsInf(r.max, 0) {
		return valueRange{min: -1, max: 1}
	}
	if math.Abs(r.span()) < 1e-9 {
		r.min--
		r.max++
	}
	return r
}

func axisLabels(height int, r valueRange, opts PlotOptions) []string {
	labels := make([]string, height)
	top, mid, bottom := "100%", "50%", "0%"
	if opts.SharedScale {
		top = fmt.Sprintf("%.1f%s", r.max, opts.Unit)
		mid = fmt.Sprintf("%.1f%s", r.min+r.span()/2, opts.Unit)
		bottom = fmt.Sprintf("%.1f%s", r.min, opts.Unit)
	}
	labels[0] = top
	if height > 2 {
		labels[height/2] = mid
	}
	if height > 1 {
		labels[height-1] = bottom
	}
	return labels
}

// xAxis spreads labels across width columns. Labels that would overlap a
// previous one are dropped.
func xAxis(labels []string, width int) string {
	row := []rune(strings.Repeat(" ", width))
	next := 0
	for i, label := range labels {
		col := 0
		if len(labels) > 1 {
			col = int(math.Round(float64(i) * float64(width-1) / float64(len(labels)-1)))
		}
		if col < next {
			continue
		}
		for j, r := range []rune(label) {
			if col+j < width {
				row[col+j] = r
			}
		}
		next = col + len([]rune(label)) + 1
	}
	return strings.TrimRight(string(row), " ")
}

func renderLegend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	marker := brailleFromMask(0x01)
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", marker, s.Name, lineStyles[i%len(lineStyles)].name)
		if useColor {
			label = colorPalette[i%len(colorPalette)].code + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	switch {
	case len(values) == width:
		copy(out, values)
	case len(values) > width:
		// Average the buckets.
		for i := 0; i < width; i++ {
			start := i * len(values) / width
			end := (i + 1) * len(values) / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case len(values) == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		// Linear interpolation.
		last := len(values) - 1
		for i := 0; i < width; i++ {
			pos := float64(i) * float64(last) / float64(width-1)
			idx := int(math.Floor(pos))
			if idx >= last {
				out[i] = values[last]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func (ls lineStyle) shouldPlot(x int) bool {
	if ls.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%ls.period < ls.on
}

// brailleCanvas is a grid of braille cells, each 2 dots wide and 4 tall.
type brailleCanvas struct {
	cells [][]uint8
}

func newBrailleCanvas(width, height int) *brailleCanvas {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &brailleCanvas{cells: cells}
}

func (c *brailleCanvas) dotRows() int { return len(c.cells) * 4 }

func (c *brailleCanvas) polyline(values []float64, r valueRange, style lineStyle) {
	prevX, prevY := -1, -1
	for x, v := range values {
		px, py := x*2, c.valueToDot(v, r)
		if prevX < 0 {
			if style.shouldPlot(px) {
				c.set(px, py)
			}
		} else {
			drawLine(prevX, prevY, px, py, func(dx, dy int) {
				if style.shouldPlot(dx) {
					c.set(dx, dy)
				}
			})
		}
		prevX, prevY = px, py
	}
}

func (c *brailleCanvas) valueToDot(v float64, r valueRange) int {
	rows := c.dotRows()
	if rows <= 1 {
		return 0
	}
	pos := (v - r.min) / r.span()
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return max(0, min(row, rows-1))
}

func (c *brailleCanvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cy, cx := y/4, x/2
	if cy >= len(c.cells) || cx >= len(c.cells[cy]) {
		return
	}
	c.cells[cy][cx] |= brailleDotMask(x%2, y%4)
}

// composeCell merges a cell across layers; the first layer drawn owns the
// color.
func composeCell(layers []*brailleCanvas, x, y int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, layer := range layers {
		if y < 0 || y >= len(layer.cells) || x < 0 || x >= len(layer.cells[y]) {
			continue
		}
		m := layer.cells[y][x]
		if m == 0 {
			continue
		}
		if owner == -1 {
			owner = i
		}
		mask |= m
	}
	return mask, owner
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				return
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				return
			}
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// brailleDotMask maps a dot position within a cell to its Unicode bit.
func brailleDotMask(x, y int) uint8 {
	left := [4]uint8{0x01, 0x02, 0x04, 0x40}
	right := [4]uint8{0x08, 0x10, 0x20, 0x80}
	if y < 0 || y > 3 {
		return 0
	}
	switch x {
	case 0:
		return left[y]
	case 1:
		return right[y]
	default:
		return 0
	}
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}

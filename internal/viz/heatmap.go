package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/turingsim/internal/grid"
)

const legendWidth = 24

// HeatmapOptions controls RenderHeatmap. A zero Min/Max pair means the
// range is taken from the data.
type HeatmapOptions struct {
	Width    int
	Palette  Palette
	Min, Max float64
	Legend   bool
}

// Heatmap renders f with the current palette at most width columns wide.
func Heatmap(f *grid.Field, width int) string {
	return RenderHeatmap(f, HeatmapOptions{Width: width, Palette: CurrentPalette, Legend: true})
}

// RenderHeatmap draws the field with half-block glyphs, two grid rows per
// terminal line. Grid row 0 is the top line.
func RenderHeatmap(f *grid.Field, opts HeatmapOptions) string {
	cells := Downsample(f, opts.Width)
	lo, hi := opts.Min, opts.Max
	if lo == 0 && hi == 0 {
		st := f.Stats()
		lo, hi = st.Min, st.Max
	}
	pal := opts.Palette
	if len(pal.Stops) == 0 {
		pal = CurrentPalette
	}

	var sb strings.Builder
	for r := 0; r < len(cells); r += 2 {
		top := cells[r]
		var bottom []float64
		if r+1 < len(cells) {
			bottom = cells[r+1]
		}
		for c := range top {
			st := lipgloss.NewStyle().Foreground(pal.Color(Normalize(top[c], lo, hi)))
			if bottom != nil {
				st = st.Background(pal.Color(Normalize(bottom[c], lo, hi)))
			}
			sb.WriteString(st.Render("▀"))
		}
		sb.WriteByte('\n')
	}
	if opts.Legend {
		sb.WriteString(Legend(pal, lo, hi))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Legend renders a colour bar labelled with the value range.
func Legend(pal Palette, lo, hi float64) string {
	var bar strings.Builder
	for i := 0; i < legendWidth; i++ {
		t := float64(i) / float64(legendWidth-1)
		bar.WriteString(lipgloss.NewStyle().Background(pal.Color(t)).Render(" "))
	}
	return fmt.Sprintf("%s %s %s",
		Subtle.Render(fmt.Sprintf("%.3g", lo)), bar.String(), Subtle.Render(fmt.Sprintf("%.3g", hi)))
}

// Normalize maps v from [lo, hi] to [0, 1]. A degenerate range maps to 0.5
// and NaN maps to 0.
func Normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	t := (v - lo) / (hi - lo)
	if math.IsNaN(t) {
		return 0
	}
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Downsample block-averages f onto a width×width grid. Fields that already
// fit, or a non-positive width, are returned at full resolution.
func Downsample(f *grid.Field, width int) [][]float64 {
	n := f.Size()
	if width <= 0 || width >= n {
		return f.Rows()
	}
	data := f.Data()
	out := make([][]float64, width)
	for r := range out {
		out[r] = make([]float64, width)
		i0, i1 := r*n/width, (r+1)*n/width
		for c := range out[r] {
			j0, j1 := c*n/width, (c+1)*n/width
			sum := 0.0
			for i := i0; i < i1; i++ {
				for j := j0; j < j1; j++ {
					sum += data[i*n+j]
				}
			}
			out[r][c] = sum / float64((i1-i0)*(j1-j0))
		}
	}
	return out
}

package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/turingsim/internal/grid"
	"github.com/san-kum/turingsim/internal/viz"
)

// FieldToSVG renders f as a grid of cellSize squares coloured by pal over
// the field's own value range. Grid row 0 is at the top.
func FieldToSVG(f *grid.Field, cellSize float64, pal viz.Palette) string {
	if f == nil {
		return ""
	}
	if cellSize <= 0 {
		cellSize = 1
	}
	n := f.Size()
	side := float64(n) * cellSize
	st := f.Stats()
	data := f.Data()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" shape-rendering="crispEdges">
`, side, side, side, side))

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			fill := pal.Color(viz.Normalize(data[i*n+j], st.Min, st.Max))
			sb.WriteString(fmt.Sprintf(`<rect x="%g" y="%g" width="%g" height="%g" fill="%s"/>
`, float64(j)*cellSize, float64(i)*cellSize, cellSize, cellSize, string(fill)))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG draws values as a polyline over evenly spaced samples.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	rangeX := float64(len(values) - 1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range values {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

package export

import (
	"strings"
	"testing"

	"github.com/san-kum/turingsim/internal/grid"
	"github.com/san-kum/turingsim/internal/viz"
)

func TestFieldToSVG(t *testing.T) {
	f, err := grid.FromRows([][]float64{
		{0, 1, 0},
		{1, 0, 1},
		{0, 1, 0},
	})
	if err != nil {
		t.Fatal(err)
	}

	svg := FieldToSVG(f, 10, viz.PaletteMono)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not a complete SVG document")
	}
	if n := strings.Count(svg, "<rect "); n != 9 {
		t.Errorf("got %d cells, want 9", n)
	}
	if !strings.Contains(svg, `width="30" height="30"`) {
		t.Error("document size should be size*cellSize")
	}
	if !strings.Contains(svg, `x="10" y="0" width="10" height="10" fill="#ffffff"`) {
		t.Error("maximum cell should be white in mono palette")
	}
	if !strings.Contains(svg, `x="0" y="0" width="10" height="10" fill="#000000"`) {
		t.Error("minimum cell should be black in mono palette")
	}

	if FieldToSVG(nil, 1, viz.PaletteMono) != "" {
		t.Error("nil field should render empty")
	}
}

func TestSeriesToSVG(t *testing.T) {
	svg := SeriesToSVG([]float64{0, 1, 0.5}, 200, 100, "#00ff00")
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("stroke colour missing")
	}
	if strings.Count(svg, " L") != 2 {
		t.Error("expected two line segments")
	}
	if SeriesToSVG([]float64{1}, 10, 10, "#fff") != "" {
		t.Error("single point should render empty")
	}
}

package viz

import (
	"fmt"
	"image/color"
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Palette maps normalised field values in [0,1] onto colour stops.
type Palette struct {
	Name  string
	Stops []string // hex colours, low to high
}

var (
	PaletteViridis = Palette{
		Name:  "viridis",
		Stops: []string{"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"},
	}

	PaletteHeat = Palette{
		Name:  "heat",
		Stops: []string{"#000004", "#51127c", "#b73779", "#fc8961", "#fcfdbf"},
	}

	PaletteOcean = Palette{
		Name:  "ocean",
		Stops: []string{"#001a33", "#0077be", "#00a8cc", "#e0f0ff"},
	}

	PaletteMono = Palette{
		Name:  "mono",
		Stops: []string{"#000000", "#ffffff"},
	}

	// CurrentPalette is used by the live view and the show command.
	CurrentPalette = PaletteViridis

	Palettes = []Palette{
		PaletteViridis,
		PaletteHeat,
		PaletteOcean,
		PaletteMono,
	}
)

// GetPalette returns a palette by name, falling back to viridis.
func GetPalette(name string) Palette {
	for _, p := range Palettes {
		if p.Name == name {
			return p
		}
	}
	return PaletteViridis
}

func SetPalette(name string) {
	CurrentPalette = GetPalette(name)
}

func PaletteNames() []string {
	names := make([]string, len(Palettes))
	for i, p := range Palettes {
		names[i] = p.Name
	}
	return names
}

// RGB interpolates linearly between neighbouring stops. t is clamped to [0,1].
func (p Palette) RGB(t float64) (r, g, b uint8) {
	if len(p.Stops) == 0 {
		return 0, 0, 0
	}
	if math.IsNaN(t) || t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	if len(p.Stops) == 1 {
		r0, g0, b0 := parseHex(p.Stops[0])
		return uint8(r0), uint8(g0), uint8(b0)
	}
	pos := t * float64(len(p.Stops)-1)
	i := int(pos)
	if i >= len(p.Stops)-1 {
		i = len(p.Stops) - 2
	}
	frac := pos - float64(i)
	r0, g0, b0 := parseHex(p.Stops[i])
	r1, g1, b1 := parseHex(p.Stops[i+1])
	lerp := func(a, b int) uint8 {
		return uint8(math.Round(float64(a) + frac*float64(b-a)))
	}
	return lerp(r0, r1), lerp(g0, g1), lerp(b0, b1)
}

// Color returns the interpolated colour as a lipgloss colour.
func (p Palette) Color(t float64) lipgloss.Color {
	r, g, b := p.RGB(t)
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}

// ImagePalette samples n colours for paletted images.
func (p Palette) ImagePalette(n int) color.Palette {
	if n < 2 {
		n = 2
	}
	out := make(color.Palette, n)
	for i := range out {
		r, g, b := p.RGB(float64(i) / float64(n-1))
		out[i] = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	return out
}

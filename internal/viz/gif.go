package viz

import (
	"errors"
	"image"
	"image/gif"
	"io"

	"github.com/san-kum/turingsim/internal/grid"
)

const gifColors = 64

var ErrNoFrames = errors.New("viz: no frames to encode")

// FieldImage rasterises f with scale×scale pixels per cell, normalised to
// [lo, hi].
func FieldImage(f *grid.Field, scale int, pal Palette, lo, hi float64) *image.Paletted {
	if scale < 1 {
		scale = 1
	}
	n := f.Size()
	img := image.NewPaletted(image.Rect(0, 0, n*scale, n*scale), pal.ImagePalette(gifColors))
	data := f.Data()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			idx := uint8(Normalize(data[i*n+j], lo, hi) * (gifColors - 1))
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetColorIndex(j*scale+dx, i*scale+dy, idx)
				}
			}
		}
	}
	return img
}

// EncodeGIF writes frames as a looping animation. All frames share the
// value range of the first and last frame combined.
func EncodeGIF(w io.Writer, frames []*grid.Field, scale int, pal Palette) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	first, last := frames[0].Stats(), frames[len(frames)-1].Stats()
	lo, hi := min(first.Min, last.Min), max(first.Max, last.Max)

	anim := gif.GIF{LoopCount: 0}
	for _, f := range frames {
		anim.Image = append(anim.Image, FieldImage(f, scale, pal, lo, hi))
		anim.Delay = append(anim.Delay, 5)
	}
	return gif.EncodeAll(w, &anim)
}

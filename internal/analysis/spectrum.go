package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/turingsim/internal/grid"
)

var ErrNoInterior = errors.New("analysis: field has no interior")

// Spectrum is the power spectrum of a field averaged over interior rows and
// columns. Index k corresponds to k cycles across Samples cells.
type Spectrum struct {
	Power   []float64
	Samples int
	Dx      float64
}

// FieldSpectrum averages the mean-removed power spectra of every interior
// row and column of f. Boundary cells are excluded because they duplicate
// their neighbours.
func FieldSpectrum(f *grid.Field, dx float64) (*Spectrum, error) {
	n := f.Size()
	m := n - 2
	if m < 2 {
		return nil, ErrNoInterior
	}
	power := make([]float64, m/2+1)
	line := make([]float64, m)
	data := f.Data()

	accumulate := func() {
		mean := 0.0
		for _, v := range line {
			mean += v
		}
		mean /= float64(m)
		buf := make([]float64, m)
		for i, v := range line {
			buf[i] = v - mean
		}
		for k, p := range PowerSpectrum(buf) {
			power[k] += p
		}
	}

	for i := 1; i <= m; i++ {
		copy(line, data[i*n+1:i*n+1+m])
		accumulate()
	}
	for j := 1; j <= m; j++ {
		for i := 1; i <= m; i++ {
			line[i-1] = data[i*n+j]
		}
		accumulate()
	}

	for k := range power {
		power[k] /= float64(2 * m)
	}
	return &Spectrum{Power: power, Samples: m, Dx: dx}, nil
}

// Dominant returns the non-zero wavenumber index with the most power. It
// returns 0 when the spectrum is flat zero.
func (s *Spectrum) Dominant() int {
	best, bestP := 0, 0.0
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] > bestP {
			best, bestP = k, s.Power[k]
		}
	}
	return best
}

// Wavelength converts wavenumber index k to a physical length. Index 0 has
// no finite wavelength and yields +Inf.
func (s *Spectrum) Wavelength(k int) float64 {
	if k <= 0 {
		return math.Inf(1)
	}
	return float64(s.Samples) * s.Dx / float64(k)
}

// DominantWavenumber returns the strongest spatial wavenumber index of f
// and its wavelength in domain units.
func DominantWavenumber(f *grid.Field, dx float64) (int, float64, error) {
	s, err := FieldSpectrum(f, dx)
	if err != nil {
		return 0, 0, err
	}
	k := s.Dominant()
	return k, s.Wavelength(k), nil
}

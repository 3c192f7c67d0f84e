package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns |X_k|² for k = 0..len(data)/2. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2+1)

	for i := range ps {
		a := cmplx.Abs(spectrum[i])
		ps[i] = a * a
	}

	return ps
}

// Package analysis extracts spatial structure from simulated fields.
//
// [FieldSpectrum] averages the power spectra of interior rows and columns,
// and [DominantWavenumber] picks the strongest non-zero mode:
//
//	k, lambda, err := analysis.DominantWavenumber(result.U, params.Dx)
//
// A Turing pattern shows a clear peak; noise and homogeneous states do not.
package analysis

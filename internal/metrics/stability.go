package metrics

import (
	"github.com/san-kum/turingsim/internal/dynamo"
)

// Finite is the fraction of observed steps in which both fields were free of
// NaN and Inf. Runs without state validation use it to flag divergence.
type Finite struct {
	name       string
	violations int
	samples    int
}

func NewFinite() *Finite {
	return &Finite{name: "finite"}
}

func (f *Finite) Name() string {
	return f.name
}

func (f *Finite) Observe(step int, t float64, s *dynamo.State) {
	f.samples++
	if !s.IsValid() {
		f.violations++
	}
}

func (f *Finite) Value() float64 {
	if f.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(f.violations)/float64(f.samples)
}

func (f *Finite) Reset() {
	f.violations = 0
	f.samples = 0
}

package metrics

import (
	"github.com/san-kum/turingsim/internal/dynamo"
)

// MeanU averages the spatial mean of U over every observed step.
type MeanU struct {
	name    string
	samples int
	total   float64
}

func NewMeanU() *MeanU {
	return &MeanU{name: "mean_u"}
}

func (m *MeanU) Name() string { return m.name }

func (m *MeanU) Observe(step int, t float64, s *dynamo.State) {
	m.total += s.U.Stats().Mean
	m.samples++
}

func (m *MeanU) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanU) Reset() {
	m.total = 0
	m.samples = 0
}

// Contrast reports max(U) - min(U) at the last observed step. Developed
// Turing patterns have a contrast near the distance between the two stable
// branches of the cubic; a washed-out field stays near zero.
type Contrast struct {
	name  string
	value float64
}

func NewContrast() *Contrast {
	return &Contrast{name: "contrast"}
}

func (c *Contrast) Name() string { return c.name }

func (c *Contrast) Observe(step int, t float64, s *dynamo.State) {
	c.value = s.U.Stats().Range()
}

func (c *Contrast) Value() float64 { return c.value }

func (c *Contrast) Reset() { c.value = 0 }

// Default returns the metrics recorded for every stored run.
func Default() []dynamo.Metric {
	return []dynamo.Metric{
		NewMeanU(),
		NewContrast(),
		NewFinite(),
	}
}

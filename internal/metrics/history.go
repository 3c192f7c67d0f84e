package metrics

import "github.com/san-kum/turingsim/internal/dynamo"

// Sample is one point of a recorded history.
type Sample struct {
	Step     int
	Time     float64
	MeanU    float64
	MeanV    float64
	Contrast float64
}

// History is an observer that records field statistics every Every steps.
type History struct {
	Every   int
	Samples []Sample
}

func NewHistory(every int) *History {
	if every < 1 {
		every = 1
	}
	return &History{Every: every, Samples: make([]Sample, 0, 256)}
}

func (h *History) OnStep(step int, t float64, s *dynamo.State) {
	if step%h.Every != 0 {
		return
	}
	us := s.U.Stats()
	h.Samples = append(h.Samples, Sample{
		Step:     step,
		Time:     t,
		MeanU:    us.Mean,
		MeanV:    s.V.Stats().Mean,
		Contrast: us.Range(),
	})
}

// MeanUSeries returns the recorded mean of U in step order.
func (h *History) MeanUSeries() []float64 {
	out := make([]float64, len(h.Samples))
	for i, s := range h.Samples {
		out[i] = s.MeanU
	}
	return out
}

package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/turingsim/internal/dynamo"
	"github.com/san-kum/turingsim/internal/grid"
)

func constState(u, v float64) *dynamo.State {
	return &dynamo.State{U: grid.Filled(4, u), V: grid.Filled(4, v)}
}

func TestMeanU(t *testing.T) {
	m := NewMeanU()
	m.Observe(1, 0.1, constState(1, 0))
	m.Observe(2, 0.2, constState(3, 0))

	if m.Value() != 2 {
		t.Errorf("expected mean 2, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestContrast(t *testing.T) {
	s := constState(0, 0)
	s.U.Set(1, 1, -1)
	s.U.Set(2, 2, 1.5)

	c := NewContrast()
	c.Observe(1, 0, s)
	if c.Value() != 2.5 {
		t.Errorf("expected contrast 2.5, got %f", c.Value())
	}

	c.Observe(2, 0, constState(1, 1))
	if c.Value() != 0 {
		t.Errorf("contrast should track the latest step, got %f", c.Value())
	}
}

func TestFinite(t *testing.T) {
	f := NewFinite()
	if f.Value() != 1 {
		t.Error("expected 1 with no samples")
	}

	f.Observe(1, 0, constState(0, 0))
	bad := constState(0, 0)
	bad.V.Data()[3] = math.Inf(1)
	f.Observe(2, 0, bad)

	if f.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", f.Value())
	}
}

func TestHistory(t *testing.T) {
	h := NewHistory(3)
	for step := 1; step <= 10; step++ {
		h.OnStep(step, float64(step)*0.1, constState(float64(step), 2))
	}

	if len(h.Samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(h.Samples))
	}
	if h.Samples[0].Step != 3 || h.Samples[2].Step != 9 {
		t.Errorf("unexpected sample steps: %+v", h.Samples)
	}
	if h.Samples[1].MeanV != 2 {
		t.Errorf("expected mean V 2, got %f", h.Samples[1].MeanV)
	}

	series := h.MeanUSeries()
	if series[0] != 3 || series[1] != 6 || series[2] != 9 {
		t.Errorf("unexpected series: %v", series)
	}
}

func TestDefault(t *testing.T) {
	names := map[string]bool{}
	for _, m := range Default() {
		names[m.Name()] = true
	}
	for _, want := range []string{"mean_u", "contrast", "finite"} {
		if !names[want] {
			t.Errorf("missing default metric %s", want)
		}
	}
}

package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/turingsim/internal/config"
	"github.com/san-kum/turingsim/internal/experiment"
)

func TestParseAxis(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		values  []float64
		wantErr bool
	}{
		{"k=-0.1:0.1:3", "k", []float64{-0.1, 0, 0.1}, false},
		{"a=1e-4,2e-4", "a", []float64{1e-4, 2e-4}, false},
		{"tau=0.5:0.9:1", "tau", []float64{0.5}, false},
		{"k", "", nil, true},
		{"=1,2", "", nil, true},
		{"k=x,1", "", nil, true},
		{"k=0:1:0", "", nil, true},
	}
	for _, tt := range tests {
		ax, err := ParseAxis(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAxis(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAxis(%q): %v", tt.in, err)
			continue
		}
		if ax.Name != tt.name || len(ax.Values) != len(tt.values) {
			t.Errorf("ParseAxis(%q) = %+v", tt.in, ax)
			continue
		}
		for i := range tt.values {
			if math.Abs(ax.Values[i]-tt.values[i]) > 1e-12 {
				t.Errorf("ParseAxis(%q) value %d = %v, want %v", tt.in, i, ax.Values[i], tt.values[i])
			}
		}
	}
}

func smallBase() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Size = 10
	cfg.TotalTime = 0.2
	cfg.Seed = 5
	return cfg
}

func TestGridSearch(t *testing.T) {
	axes := []Axis{
		{Name: "k", Values: []float64{-0.1, 0.1}},
		{Name: "tau", Values: []float64{0.1, 0.2}},
	}
	g := NewGridSearch(smallBase(), axes, "mean_u", true)

	out, err := g.Search(context.Background(), experiment.NewRegistry())
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if out.Evaluated != 4 {
		t.Errorf("evaluated %d combinations, want 4", out.Evaluated)
	}
	// A larger source term raises U.
	if out.Params["k"] != 0.1 {
		t.Errorf("best k = %v, want 0.1", out.Params["k"])
	}
}

func TestGridSearch_SkipsUnstable(t *testing.T) {
	base := smallBase()
	base.TotalTime = 3
	axes := []Axis{{Name: "a", Values: []float64{1e-3, 5}}}
	out, err := NewGridSearch(base, axes, "contrast", true).Search(context.Background(), experiment.NewRegistry())
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if out.Evaluated != 1 || out.Skipped != 1 {
		t.Errorf("evaluated=%d skipped=%d, want 1 and 1", out.Evaluated, out.Skipped)
	}
	if out.Params["a"] != 1e-3 {
		t.Errorf("best a = %v", out.Params["a"])
	}
}

func TestGridSearch_Errors(t *testing.T) {
	reg := experiment.NewRegistry()

	_, err := NewGridSearch(smallBase(), []Axis{{Name: "size", Values: []float64{2}}}, "contrast", true).
		Search(context.Background(), reg)
	if !errors.Is(err, ErrNoCandidate) {
		t.Errorf("invalid-only search error = %v, want ErrNoCandidate", err)
	}

	_, err = NewGridSearch(smallBase(), []Axis{{Name: "k", Values: []float64{0}}}, "nope", true).
		Search(context.Background(), reg)
	if err == nil {
		t.Error("expected error for unknown metric")
	}

	_, err = NewGridSearch(smallBase(), []Axis{{Name: "bogus", Values: []float64{0}}}, "contrast", true).
		Search(context.Background(), reg)
	if err == nil {
		t.Error("expected error for unknown parameter")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewGridSearch(smallBase(), []Axis{{Name: "k", Values: []float64{0}}}, "contrast", true).
		Search(ctx, reg)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled search error = %v", err)
	}
}

package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/turingsim/internal/config"
	"github.com/san-kum/turingsim/internal/dynamo"
	"github.com/san-kum/turingsim/internal/experiment"
)

var ErrNoCandidate = errors.New("optim: no configuration completed")

// Axis is one searched parameter and its candidate values.
type Axis struct {
	Name   string
	Values []float64
}

// ParseAxis reads "name=min:max:n" (n evenly spaced values) or
// "name=v1,v2,...".
func ParseAxis(s string) (Axis, error) {
	name, spec, ok := strings.Cut(s, "=")
	if !ok || name == "" || spec == "" {
		return Axis{}, fmt.Errorf("axis %q: want name=min:max:n or name=v1,v2", s)
	}
	ax := Axis{Name: strings.TrimSpace(name)}

	if parts := strings.Split(spec, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		n, err3 := strconv.Atoi(parts[2])
		if err := errors.Join(err1, err2, err3); err != nil {
			return Axis{}, fmt.Errorf("axis %q: %w", s, err)
		}
		if n < 1 {
			return Axis{}, fmt.Errorf("axis %q: need at least one value", s)
		}
		if n == 1 {
			ax.Values = []float64{lo}
			return ax, nil
		}
		step := (hi - lo) / float64(n-1)
		for i := 0; i < n; i++ {
			ax.Values = append(ax.Values, lo+float64(i)*step)
		}
		return ax, nil
	}

	for _, p := range strings.Split(spec, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Axis{}, fmt.Errorf("axis %q: %w", s, err)
		}
		ax.Values = append(ax.Values, v)
	}
	return ax, nil
}

// GridSearch evaluates every combination of axis values on top of Base and
// keeps the best value of Metric. Unstable or invalid combinations are
// skipped.
type GridSearch struct {
	Base     *config.Config
	Axes     []Axis
	Metric   string
	Maximize bool
}

// Outcome is the best combination found.
type Outcome struct {
	Params    map[string]float64
	Value     float64
	Evaluated int
	Skipped   int
}

func NewGridSearch(base *config.Config, axes []Axis, metric string, maximize bool) *GridSearch {
	return &GridSearch{Base: base, Axes: axes, Metric: metric, Maximize: maximize}
}

func (g *GridSearch) Search(ctx context.Context, registry *experiment.Registry) (*Outcome, error) {
	out := &Outcome{Value: math.Inf(1)}
	if g.Maximize {
		out.Value = math.Inf(-1)
	}

	if err := g.searchRecursive(ctx, 0, make(map[string]float64), registry, out); err != nil {
		return nil, err
	}
	if out.Params == nil {
		return out, ErrNoCandidate
	}
	return out, nil
}

func (g *GridSearch) better(v, best float64) bool {
	if g.Maximize {
		return v > best
	}
	return v < best
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	registry *experiment.Registry,
	out *Outcome,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.Axes) {
		cfg := g.Base.Clone()
		for k, v := range current {
			if err := cfg.Set(k, v); err != nil {
				return err
			}
		}

		exp, err := experiment.New(cfg, registry)
		if err != nil {
			out.Skipped++
			return nil
		}
		result, err := exp.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, dynamo.ErrNumericInstability) {
				out.Skipped++
				return nil
			}
			return err
		}
		out.Evaluated++

		val, ok := result.Metrics[g.Metric]
		if !ok {
			return fmt.Errorf("unknown metric: %s", g.Metric)
		}
		if g.better(val, out.Value) {
			out.Value = val
			out.Params = make(map[string]float64, len(current))
			for k, v := range current {
				out.Params[k] = v
			}
		}
		return nil
	}

	axis := g.Axes[depth]
	for _, val := range axis.Values {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[axis.Name] = val

		if err := g.searchRecursive(ctx, depth+1, next, registry, out); err != nil {
			return err
		}
	}
	return nil
}

package experiment

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/san-kum/turingsim/internal/dynamo"
	"github.com/san-kum/turingsim/internal/grid"
	"github.com/san-kum/turingsim/internal/metrics"
)

// Initializer builds the starting fields for a run.
type Initializer func(p dynamo.Params, rng *rand.Rand) *dynamo.State

const perturbation = 0.01

type Registry struct {
	inits map[string]Initializer
}

func NewRegistry() *Registry {
	r := &Registry{inits: make(map[string]Initializer)}

	r.Register("random", func(p dynamo.Params, rng *rand.Rand) *dynamo.State {
		return dynamo.NewState(p.Size, rng)
	})
	// A single unit cell at the centre of zero fields.
	r.Register("hotspot", func(p dynamo.Params, _ *rand.Rand) *dynamo.State {
		u, v := grid.New(p.Size), grid.New(p.Size)
		c := p.Size / 2
		_ = u.Set(c, c, 1)
		return &dynamo.State{U: u, V: v}
	})
	// U = V = cbrt(k), the homogeneous steady state, plus small noise.
	r.Register("perturbed", func(p dynamo.Params, rng *rand.Rand) *dynamo.State {
		base := math.Cbrt(p.K)
		u, v := grid.Filled(p.Size, base), grid.Filled(p.Size, base)
		ud, vd := u.Data(), v.Data()
		for i := range ud {
			ud[i] += perturbation * (rng.Float64() - 0.5)
			vd[i] += perturbation * (rng.Float64() - 0.5)
		}
		return &dynamo.State{U: u, V: v}
	})

	return r
}

// Register adds or replaces the initializer stored under name.
func (r *Registry) Register(name string, fn Initializer) {
	r.inits[name] = fn
}

func (r *Registry) GetInitializer(name string) (Initializer, error) {
	if name == "" {
		name = "random"
	}
	fn, ok := r.inits[name]
	if !ok {
		return nil, fmt.Errorf("unknown initial condition: %s", name)
	}
	return fn, nil
}

func (r *Registry) ListInitializers() []string {
	names := make([]string, 0, len(r.inits))
	for name := range r.inits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns fresh instances of the standard run metrics.
func (r *Registry) DefaultMetrics() []dynamo.Metric {
	return metrics.Default()
}

package experiment

import (
	"context"

	"github.com/san-kum/turingsim/internal/config"
	"github.com/san-kum/turingsim/internal/dynamo"
	"github.com/san-kum/turingsim/internal/grid"
	"github.com/san-kum/turingsim/internal/metrics"
	"github.com/san-kum/turingsim/internal/physics"
)

// Experiment wires a configuration to a simulator with the default metrics
// and a history observer.
type Experiment struct {
	cfg       *config.Config
	params    dynamo.Params
	init      Initializer
	stepper   *physics.Turing
	simulator *dynamo.Simulator
	history   *metrics.History
}

func New(cfg *config.Config, registry *Registry) (*Experiment, error) {
	p, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	initFn, err := registry.GetInitializer(cfg.Init)
	if err != nil {
		return nil, err
	}

	stepper := physics.NewTuring(p)
	sim := dynamo.New(p, stepper)
	for _, m := range registry.DefaultMetrics() {
		sim.AddMetric(m)
	}

	every := cfg.HistoryEvery
	if every <= 0 {
		every = config.DefaultHistoryEvery
	}
	history := metrics.NewHistory(every)
	sim.AddObserver(history)

	return &Experiment{
		cfg:       cfg,
		params:    p,
		init:      initFn,
		stepper:   stepper,
		simulator: sim,
		history:   history,
	}, nil
}

func (e *Experiment) Params() dynamo.Params { return e.params }

func (e *Experiment) Stepper() *physics.Turing { return e.stepper }

// GetSimulator returns the underlying simulator for adding observers.
func (e *Experiment) GetSimulator() *dynamo.Simulator { return e.simulator }

// History returns the samples recorded by the last Run.
func (e *Experiment) History() []metrics.Sample { return e.history.Samples }

// InitialState builds the configured starting fields from the run seed.
func (e *Experiment) InitialState() *dynamo.State {
	return e.init(e.params, grid.NewRNG(e.params.Seed))
}

// Run simulates from a fresh initial state.
func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	return e.RunFrom(ctx, e.InitialState())
}

// RunFrom simulates from state, which is advanced in place.
func (e *Experiment) RunFrom(ctx context.Context, state *dynamo.State) (*dynamo.Result, error) {
	e.history.Samples = e.history.Samples[:0]
	return e.simulator.Run(ctx, state)
}

package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/juju/loggo"
	"github.com/san-kum/turingsim/internal/analysis"
	"github.com/san-kum/turingsim/internal/config"
	"github.com/san-kum/turingsim/internal/dynamo"
	"github.com/san-kum/turingsim/internal/experiment"
	"github.com/san-kum/turingsim/internal/grid"
	"github.com/san-kum/turingsim/internal/metrics"
	"github.com/san-kum/turingsim/internal/physics"
	"github.com/san-kum/turingsim/internal/storage"
	"gopkg.in/yaml.v3"
)

var logger = loggo.GetLogger("turingsim.automation")

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Runs        []ScenarioRun `yaml:"runs"`
}

// ScenarioRun starts from a preset (or the defaults) and applies Params,
// keyed like the config file, on top.
type ScenarioRun struct {
	Name   string             `yaml:"name"`
	Preset string             `yaml:"preset"`
	Init   string             `yaml:"init"`
	Params map[string]float64 `yaml:"params"`
	SaveAs string             `yaml:"save_as"`
}

// RunOutcome is the result of one scenario run.
type RunOutcome struct {
	Name   string
	Params dynamo.Params
	Result *dynamo.Result
	RunID  string
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Runs) == 0 {
		return nil, fmt.Errorf("scenario %q has no runs", scenario.Name)
	}

	return &scenario, nil
}

// Config resolves the run's configuration.
func (r ScenarioRun) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if r.Preset != "" {
		cfg = config.GetPreset(r.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", r.Preset)
		}
	}
	for k, v := range r.Params {
		if err := cfg.Set(k, v); err != nil {
			return nil, err
		}
	}
	if r.Init != "" {
		cfg.Init = r.Init
	}
	if r.Name != "" {
		cfg.Name = r.Name
	}
	return cfg, nil
}

// RunScenario executes the runs in order. Runs with SaveAs are persisted to
// store when it is non-nil.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, store *storage.Store) ([]RunOutcome, error) {
	outcomes := make([]RunOutcome, 0, len(scenario.Runs))

	for i, run := range scenario.Runs {
		cfg, err := run.Config()
		if err != nil {
			return outcomes, fmt.Errorf("run %d: %w", i+1, err)
		}
		logger.Infof("running %d/%d: %s", i+1, len(scenario.Runs), cfg.Name)

		exp, err := experiment.New(cfg, registry)
		if err != nil {
			return outcomes, fmt.Errorf("run %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return outcomes, fmt.Errorf("run %d: %w", i+1, err)
		}

		out := RunOutcome{Name: cfg.Name, Params: exp.Params(), Result: result}
		if run.SaveAs != "" && store != nil {
			id, err := store.Save(run.SaveAs, exp.Params(), result, exp.History())
			if err != nil {
				return outcomes, fmt.Errorf("run %d save: %w", i+1, err)
			}
			out.RunID = id
		}
		outcomes = append(outcomes, out)
	}

	return outcomes, nil
}

// ParameterSweep runs one simulation per value of Param, evenly spaced over
// [Min, Max], all from the same initial fields.
type ParameterSweep struct {
	Base     *config.Config
	Param    string
	Min      float64
	Max      float64
	NumSteps int
}

// SweepResult holds the outcome for one parameter value. Unstable runs are
// reported rather than aborting the sweep.
type SweepResult struct {
	Value      float64
	Stable     bool
	StepsTaken int
	Contrast   float64
	MeanU      float64
	Wavenumber int
	Wavelength float64
}

// Values returns the swept parameter values.
func (s *ParameterSweep) Values() []float64 {
	n := s.NumSteps
	if n < 2 {
		return []float64{s.Min}
	}
	step := (s.Max - s.Min) / float64(n-1)
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = s.Min + float64(i)*step
	}
	return vals
}

// RunSweep executes the sweep concurrently with dynamo.RunBatch.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	base := sweep.Base
	if base == nil {
		base = config.DefaultConfig()
	}
	initFn, err := registry.GetInitializer(base.Init)
	if err != nil {
		return nil, err
	}

	values := sweep.Values()
	jobs := make([]dynamo.Job, len(values))
	params := make([]dynamo.Params, len(values))
	for i, v := range values {
		cfg := base.Clone()
		if err := cfg.Set(sweep.Param, v); err != nil {
			return nil, err
		}
		p, err := cfg.Params()
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}
		params[i] = p
		jobs[i] = dynamo.Job{
			Params:  p,
			State:   initFn(p, grid.NewRNG(p.Seed)),
			Metrics: []dynamo.Metric{metrics.NewMeanU(), metrics.NewContrast()},
		}
	}

	logger.Infof("sweeping %s over %d values", sweep.Param, len(values))
	results, err := dynamo.RunBatch(ctx, jobs, physics.Stepper)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil && !errors.Is(err, dynamo.ErrNumericInstability) {
		return nil, err
	}

	out := make([]SweepResult, len(values))
	for i, r := range results {
		sr := SweepResult{Value: values[i], Wavelength: math.Inf(1)}
		if r != nil {
			sr.StepsTaken = r.StepsTaken
			sr.Stable = r.StepsTaken == params[i].Steps && r.U.IsFinite() && r.V.IsFinite()
			sr.Contrast = r.Metrics["contrast"]
			sr.MeanU = r.Metrics["mean_u"]
			if sr.Stable {
				if k, lambda, err := analysis.DominantWavenumber(r.U, params[i].Dx); err == nil {
					sr.Wavenumber, sr.Wavelength = k, lambda
				}
			}
		}
		out[i] = sr
	}
	return out, nil
}

// EnsembleSummary aggregates runs of one configuration from consecutive
// seeds.
type EnsembleSummary struct {
	Runs         int
	Stable       int
	MeanContrast float64
	StdContrast  float64
}

// RunEnsemble runs numRuns random-start simulations of base, seeded from
// base.Seed upwards.
func RunEnsemble(ctx context.Context, base *config.Config, numRuns int) (*EnsembleSummary, error) {
	p, err := base.Params()
	if err != nil {
		return nil, err
	}
	ens := dynamo.NewEnsemble(p, physics.Stepper, numRuns, p.Seed)
	results, err := ens.Run(ctx, func() []dynamo.Metric {
		return []dynamo.Metric{metrics.NewContrast()}
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil && !errors.Is(err, dynamo.ErrNumericInstability) {
		return nil, err
	}

	sum := &EnsembleSummary{Runs: numRuns}
	contrasts := make([]float64, 0, numRuns)
	for _, r := range results {
		if r == nil || r.StepsTaken != p.Steps {
			continue
		}
		sum.Stable++
		contrasts = append(contrasts, r.Metrics["contrast"])
	}
	if len(contrasts) > 0 {
		for _, c := range contrasts {
			sum.MeanContrast += c
		}
		sum.MeanContrast /= float64(len(contrasts))
		for _, c := range contrasts {
			d := c - sum.MeanContrast
			sum.StdContrast += d * d
		}
		sum.StdContrast = math.Sqrt(sum.StdContrast / float64(len(contrasts)))
	}
	return sum, nil
}

package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("turingsim.dynamo")

type Simulator struct {
	params    Params
	stepper   Stepper
	metrics   []Metric
	observers []Observer
}

func New(p Params, stepper Stepper) *Simulator {
	return &Simulator{
		params:    p,
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Params() Params { return s.params }

// Run advances state in place for exactly Params.Steps steps. On context
// cancellation the partial result is returned together with ctx.Err().
func (s *Simulator) Run(ctx context.Context, state *State) (*Result, error) {
	p := s.params
	if state.U.Size() != p.Size || state.V.Size() != p.Size {
		return nil, fmt.Errorf("%w: state is %dx%d, parameters want %d", ErrDimensionMismatch,
			state.U.Size(), state.V.Size(), p.Size)
	}

	logger.Debugf("starting run: %v", p)

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{Metrics: make(map[string]float64)}
	if p.SnapshotEvery > 0 {
		result.Snapshots = make([]Snapshot, 0, p.Steps/p.SnapshotEvery+1)
		result.Snapshots = append(result.Snapshots, Snapshot{Step: 0, Time: 0, U: state.U.Clone()})
	}

	start := time.Now()
	var runErr error
	t := 0.0

	for i := 0; i < p.Steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		if err := s.stepper.Step(state.U, state.V); err != nil {
			runErr = &SimulationError{Step: i, Time: t, Wrapped: err}
			break
		}
		t = float64(i+1) * p.Dt
		result.StepsTaken++

		if p.ValidateState && !state.IsValid() {
			runErr = &SimulationError{Step: i, Time: t, Wrapped: ErrNumericInstability}
			break
		}

		for _, m := range s.metrics {
			m.Observe(i+1, t, state)
		}
		for _, obs := range s.observers {
			obs.OnStep(i+1, t, state)
		}

		if p.SnapshotEvery > 0 && (i+1)%p.SnapshotEvery == 0 {
			result.Snapshots = append(result.Snapshots, Snapshot{Step: i + 1, Time: t, U: state.U.Clone()})
		}
	}

	result.Elapsed = time.Since(start)
	result.Time = t
	result.U = state.U.Clone()
	result.V = state.V.Clone()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if runErr != nil {
		logger.Warningf("run stopped after %d/%d steps: %v", result.StepsTaken, p.Steps, runErr)
		return result, runErr
	}

	logger.Infof("completed %d steps in %v", result.StepsTaken, result.Elapsed)
	return result, nil
}

// Advance steps the state at most n times without collecting metrics. It
// is used by interactive frontends that render between batches of steps and
// returns the number of steps actually taken. from is the number of steps
// already applied to state, so errors carry absolute step numbers and times.
func (s *Simulator) Advance(state *State, from, n int) (int, error) {
	p := s.params
	for i := 0; i < n; i++ {
		step := from + i
		if err := s.stepper.Step(state.U, state.V); err != nil {
			return i, &SimulationError{Step: step, Time: float64(step) * p.Dt, Wrapped: err}
		}
		if p.ValidateState && !state.IsValid() {
			return i + 1, &SimulationError{Step: step, Time: float64(step+1) * p.Dt, Wrapped: ErrNumericInstability}
		}
	}
	return n, nil
}

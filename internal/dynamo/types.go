package dynamo

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/san-kum/turingsim/internal/grid"
)

// State is the pair of concentration fields advanced by a run.
type State struct {
	U, V *grid.Field
}

// NewState draws both fields independently from rng.
func NewState(size int, rng *rand.Rand) *State {
	return &State{
		U: grid.NewRandom(size, rng),
		V: grid.NewRandom(size, rng),
	}
}

// NewStateFrom wraps injected initial fields.
func NewStateFrom(u, v *grid.Field) (*State, error) {
	if u.Size() != v.Size() {
		return nil, fmt.Errorf("%w: U is %d, V is %d", ErrDimensionMismatch, u.Size(), v.Size())
	}
	return &State{U: u, V: v}, nil
}

func (s *State) Size() int { return s.U.Size() }

func (s *State) Clone() *State {
	return &State{U: s.U.Clone(), V: s.V.Clone()}
}

func (s *State) IsValid() bool {
	return s.U.IsFinite() && s.V.IsFinite()
}

// Stepper advances a state by one time step in place.
type Stepper interface {
	Step(u, v *grid.Field) error
}

type Metric interface {
	Name() string
	Observe(step int, t float64, s *State)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, t float64, s *State)
}

// Snapshot is a copy of U taken during a run.
type Snapshot struct {
	Step int
	Time float64
	U    *grid.Field
}

type Result struct {
	U, V       *grid.Field
	StepsTaken int
	Time       float64
	Elapsed    time.Duration
	Metrics    map[string]float64
	Snapshots  []Snapshot
}

// Configurable is implemented by steppers whose coefficients can be tuned
// between steps.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

package dynamo

import (
	"fmt"
	"math"
)

const (
	DefaultA            = 2.8e-4
	DefaultB            = 5e-3
	DefaultTau          = 0.1
	DefaultK            = -0.005
	DefaultSize         = 100
	DefaultHalfWidth    = 1.0
	DefaultTotalTime    = 9.0
	DefaultSafetyFactor = 0.9

	// MinSize is the smallest grid with at least one interior cell.
	MinSize = 3
)

// Config carries the scalar inputs of a run before derivation.
type Config struct {
	A, B, Tau, K  float64
	Size          int
	HalfWidth     float64
	TotalTime     float64
	SafetyFactor  float64
	Seed          int64
	Workers       int
	ValidateState bool
	SnapshotEvery int
}

func DefaultConfig() Config {
	return Config{
		A:             DefaultA,
		B:             DefaultB,
		Tau:           DefaultTau,
		K:             DefaultK,
		Size:          DefaultSize,
		HalfWidth:     DefaultHalfWidth,
		TotalTime:     DefaultTotalTime,
		SafetyFactor:  DefaultSafetyFactor,
		ValidateState: true,
	}
}

// Params is the immutable parameter set of a run. Build it with Derive.
type Params struct {
	A, B, Tau, K float64
	Size         int
	HalfWidth    float64
	Dx, Dt       float64
	TotalTime    float64
	Steps        int

	Seed          int64
	Workers       int
	ValidateState bool
	SnapshotEvery int
}

// Derive validates cfg and computes dx, dt and the step count.
func Derive(cfg Config) (Params, error) {
	if err := validate(cfg); err != nil {
		return Params{}, err
	}

	safety := cfg.SafetyFactor
	if safety == 0 {
		safety = DefaultSafetyFactor
	}

	dx := 2 * cfg.HalfWidth / float64(cfg.Size)
	dt := safety * dx * dx / 2

	return Params{
		A:             cfg.A,
		B:             cfg.B,
		Tau:           cfg.Tau,
		K:             cfg.K,
		Size:          cfg.Size,
		HalfWidth:     cfg.HalfWidth,
		Dx:            dx,
		Dt:            dt,
		TotalTime:     cfg.TotalTime,
		Steps:         int(math.Floor(cfg.TotalTime / dt)),
		Seed:          cfg.Seed,
		Workers:       cfg.Workers,
		ValidateState: cfg.ValidateState,
		SnapshotEvery: cfg.SnapshotEvery,
	}, nil
}

func validate(cfg Config) error {
	positive := []struct {
		name  string
		value float64
	}{
		{"a", cfg.A},
		{"b", cfg.B},
		{"tau", cfg.Tau},
		{"total time", cfg.TotalTime},
		{"half width", cfg.HalfWidth},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %s must be positive and finite, got %g", ErrInvalidParameter, p.name, p.value)
		}
	}
	if math.IsNaN(cfg.K) || math.IsInf(cfg.K, 0) {
		return fmt.Errorf("%w: k must be finite, got %g", ErrInvalidParameter, cfg.K)
	}
	if cfg.Size < MinSize {
		return fmt.Errorf("%w: grid size must be at least %d, got %d", ErrInvalidParameter, MinSize, cfg.Size)
	}
	if cfg.SafetyFactor < 0 || cfg.SafetyFactor > 1 || math.IsNaN(cfg.SafetyFactor) {
		return fmt.Errorf("%w: safety factor must be in (0, 1], got %g", ErrInvalidParameter, cfg.SafetyFactor)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidParameter, cfg.Workers)
	}
	if cfg.SnapshotEvery < 0 {
		return fmt.Errorf("%w: snapshot interval must not be negative, got %d", ErrInvalidParameter, cfg.SnapshotEvery)
	}
	return nil
}

// StabilityBound is the largest dt the explicit scheme tolerates for this dx.
func (p Params) StabilityBound() float64 {
	return p.Dx * p.Dx / 2
}

// Coordinate maps a grid index to the centre of its cell in [-L, L].
func (p Params) Coordinate(i int) float64 {
	return -p.HalfWidth + (float64(i)+0.5)*p.Dx
}

func (p Params) String() string {
	return fmt.Sprintf("a=%g b=%g tau=%g k=%g size=%d dx=%.5g dt=%.5g steps=%d",
		p.A, p.B, p.Tau, p.K, p.Size, p.Dx, p.Dt, p.Steps)
}

package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/turingsim/internal/dynamo"
	"github.com/san-kum/turingsim/internal/grid"
)

// ErrDimensionMismatch indicates U and V fields of different or unusable sizes.
var ErrDimensionMismatch = errors.New("physics: U and V dimensions do not match")

// Coefficients are the reaction-diffusion constants of the model
//
//	dU/dt = a∇²U + U - U³ - V + k
//	τ dV/dt = b∇²V + U - V
type Coefficients struct {
	A, B, Tau, K float64
}

// Turing advances (U, V) with forward Euler in time and the five-point
// Laplacian in space. The Laplacian buffers are reused across steps.
type Turing struct {
	Coefficients
	Dx, Dt  float64
	Workers int

	lu, lv []float64
}

func NewTuring(p dynamo.Params) *Turing {
	return &Turing{
		Coefficients: Coefficients{A: p.A, B: p.B, Tau: p.Tau, K: p.K},
		Dx:           p.Dx,
		Dt:           p.Dt,
		Workers:      p.Workers,
	}
}

// Stepper adapts NewTuring to dynamo.StepperFactory.
func Stepper(p dynamo.Params) dynamo.Stepper { return NewTuring(p) }

// Step updates the interior of u and v from a single pre-step snapshot, then
// re-imposes Neumann edges on both fields.
func (m *Turing) Step(u, v *grid.Field) error {
	n := u.Size()
	if v.Size() != n {
		return fmt.Errorf("%w: U is %d, V is %d", ErrDimensionMismatch, n, v.Size())
	}
	if n < dynamo.MinSize {
		return fmt.Errorf("%w: %dx%d field has no interior", ErrDimensionMismatch, n, n)
	}

	m.lu = m.laplacian(u, m.lu)
	m.lv = m.laplacian(v, m.lv)

	ud, vd := u.Data(), v.Data()
	a, b, tau, k, dt := m.A, m.B, m.Tau, m.K, m.Dt
	w := n - 2
	for i := 1; i <= w; i++ {
		for j := 1; j <= w; j++ {
			idx := i*n + j
			l := (i-1)*w + (j - 1)
			// Both updates read the pre-step u0 and v0 of this cell.
			u0, v0 := ud[idx], vd[idx]
			ud[idx] = u0 + dt*(a*m.lu[l]+u0-u0*u0*u0-v0+k)
			vd[idx] = v0 + dt*(b*m.lv[l]+u0-v0)/tau
		}
	}

	EnforceNeumann(u)
	EnforceNeumann(v)
	return nil
}

func (m *Turing) laplacian(z *grid.Field, buf []float64) []float64 {
	if m.Workers > 1 {
		return ParallelLaplacian(z, m.Dx, buf, m.Workers)
	}
	return Laplacian(z, m.Dx, buf)
}

func (m *Turing) GetParams() map[string]float64 {
	return map[string]float64{"a": m.A, "b": m.B, "tau": m.Tau, "k": m.K}
}

func (m *Turing) SetParam(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite", dynamo.ErrInvalidParameter, name)
	}
	switch name {
	case "a", "b", "tau":
		if v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %g", dynamo.ErrInvalidParameter, name, v)
		}
	}
	switch name {
	case "a":
		m.A = v
	case "b":
		m.B = v
	case "tau":
		m.Tau = v
	case "k":
		m.K = v
	default:
		return fmt.Errorf("%w: unknown parameter %q", dynamo.ErrInvalidParameter, name)
	}
	return nil
}

// Package physics implements the numerical core of the reaction-diffusion
// model: the five-point [Laplacian], the Neumann boundary pass
// [EnforceNeumann] and the explicit [Turing] stepper.
//
// The stepper implements [dynamo.Stepper] and [dynamo.Configurable]:
//
//	p, _ := dynamo.Derive(cfg)
//	m := physics.NewTuring(p)
//	if err := m.Step(state.U, state.V); err != nil {
//	    return err
//	}
//
// # Numerics
//
// Only interior cells are integrated. After every step the edges of both
// fields are overwritten from their interior neighbours, so the Laplacian of
// the next step always reads current boundary values. The time step must
// respect dt ≤ dx²/2; [dynamo.Derive] guarantees it.
package physics

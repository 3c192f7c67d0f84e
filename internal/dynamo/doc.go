// Package dynamo provides the simulation driver for reaction-diffusion runs.
//
// The package owns the pieces shared by every run:
//
//   - [Config]: user-facing scalar parameters
//   - [Params]: derived, validated parameters (dx, dt, step count)
//   - [State]: the pair of concentration fields U and V
//   - [Stepper]: advances a state by one explicit time step
//   - [Simulator]: iterates a stepper for exactly Params.Steps steps
//
// # Example
//
//	p, err := dynamo.Derive(dynamo.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	sim := dynamo.New(p, physics.NewTuring(p))
//	state := dynamo.NewState(p.Size, grid.NewRNG(p.Seed))
//	result, err := sim.Run(ctx, state)
//
// # Stability
//
// The time step is derived as SafetyFactor·dx²/2 so the explicit scheme stays
// below its stability bound. Set Config.ValidateState to stop a run as soon as
// a field goes non-finite.
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For parallel runs over seeds or
// parameter values use [Ensemble] or [RunBatch], which give every run its own
// state and stepper.
package dynamo

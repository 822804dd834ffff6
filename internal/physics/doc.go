// Package physics provides the gravitational two-body model that drives
// the imaging pipeline.
//
//   - [Body]: a point mass with a rendered pixel radius
//   - [System]: exactly two bodies plus derived mass terms and the
//     immutable initial-condition vector
//   - [TwoBody]: the Newtonian right-hand side implementing [dynamo.System]
//   - [Trajectory]: sampled states with per-body accessors
//
// State layout is (x1, y1, x2, y2, vx1, vy1, vx2, vy2): all positions
// first, then all velocities, so the symplectic steppers in
// integrators apply directly.
//
// # Energy Conservation
//
// [TwoBody] implements [dynamo.Hamiltonian]:
//
//	sys, _ := physics.NewSystem(star, planet, physics.G)
//	traj, _ := sys.Integrate(times, integrators.DefaultOptions())
//	drift := traj.Energy(traj.Len()-1) - traj.Energy(0)
package physics

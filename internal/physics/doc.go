// Package physics holds the equations of motion of a spherical magnet moving
// in the field of a second magnet fixed at the origin.
//
// The state is [Dipole]; [Model] implements [dynamo.System] over its
// coordinates. All quantities are
// dimensionless: the sphere has unit mass and unit diameter, so the two
// magnets touch when r = 1.
//
// # Energy Conservation
//
// Every Dipole derived from an initial one carries the initial energy as a
// reference, so drift is always available:
//
//	d := physics.NewDipole(1.5, 0, math.Pi/2, 0, 0, 0)
//	next := d.WithCoords(x)
//	fmt.Println(next.DE())
package physics

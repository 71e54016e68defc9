// Package vector3 provides the 3-D vector arithmetic used throughout the
// integrator and event filter: x is downrange, y is vertical (positive
// up), z is crossrange (positive right).
//
// The underlying type is gonum's r3.Vec, matching the vector conventions
// already in use elsewhere in this module's lineage for 3-vector math;
// this package adds the ballistics-specific helpers (Magnitude, Unit with
// a ballistics-friendly zero case) on top.
package vector3

import "gonum.org/v1/gonum/spatial/r3"

// Vector3 is a position, velocity, or acceleration triple.
type Vector3 = r3.Vec

// New builds a Vector3 from its three components.
func New(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Zero is the additive identity.
var Zero = Vector3{}

// Add returns a+b.
func Add(a, b Vector3) Vector3 { return r3.Add(a, b) }

// Sub returns a-b.
func Sub(a, b Vector3) Vector3 { return r3.Sub(a, b) }

// Scale returns s*v.
func Scale(s float64, v Vector3) Vector3 { return r3.Scale(s, v) }

// Dot returns a·b.
func Dot(a, b Vector3) float64 { return r3.Dot(a, b) }

// Cross returns a×b.
func Cross(a, b Vector3) Vector3 { return r3.Cross(a, b) }

// Magnitude returns |v|.
func Magnitude(v Vector3) float64 { return r3.Norm(v) }

// Unit returns v/|v|, or Zero if v is the zero vector.
func Unit(v Vector3) Vector3 {
	m := Magnitude(v)
	if m == 0 {
		return Zero
	}
	return r3.Unit(v)
}

package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Sweep returns the time within the step at which two spheres first touch, given the position p and
// velocity v of the second relative to the first and their combined radius r.
//
// It solves |p + v·t| = r, i.e. a·t² + b·t + c = 0 with a = |v|², b = 2·v·p and c = |p|² - r².
// Spheres at rest relative to each other never collide. A double root is taken at b/(2a) and
// accepted for any t < dt, otherwise the earlier root must fall in (0, dt]. Both tangential rules
// are kept as they are because tuned gameplay depends on them.
func Sweep(p, v mgl32.Vec3, r, dt float32) (float32, bool) {
	a := v.Dot(v)
	b := 2 * v.Dot(p)
	c := p.Dot(p) - r*r

	if a == 0 {
		// Either v is zero or |v|² underflowed. b can still be a tiny non-zero value in the second
		// case, and dividing by a would give an infinite root the double-root rule accepts.
		// Motion this slow never reaches contact within a step, so report none.
		return 0, false
	}

	disc := b*b - 4*a*c
	switch {
	case disc < 0:
		return 0, false
	case disc == 0:
		t := b / (2 * a)
		return t, t < dt
	default:
		t := (-b - float32(math.Sqrt(float64(disc)))) / (2 * a)
		return t, t > 0 && t <= dt
	}
}

// Package physics advances rigid bodies stored in an ecs.Store and resolves sphere-sphere
// collisions between them with continuous collision detection.
//
// Both passes run once per fixed timestep: Integrate first, then ResolveCollisions. Impulses
// produced by a collision are written to the bodies' force accumulators and take effect on the
// next Integrate.
package physics

import (
	"github.com/argus-labs/astro/pkg/sim/component"
	"github.com/argus-labs/astro/pkg/sim/ecs"
)

type bodyRef struct {
	id        ecs.EntityID
	transform *component.Transform
	body      *component.PhysicalBody
}

var bodies = ecs.NewQuery1(func(r ecs.Row, b component.BodyCarrier) bodyRef { //nolint:gochecknoglobals // query
	return bodyRef{id: r.ID, transform: r.Transform, body: b.Body()}
})

// Integrate advances every entity carrying a PhysicalBody by dt and returns how many were visited.
//
// Position moves with the momentum held at the start of the step. The accumulated force is then
// added to momentum as-is (entries are per-step impulses, not rates), torque is scaled by dt, and
// both accumulators are cleared.
func Integrate(s *ecs.Store, dt float32) int {
	n := 0
	for ref := range bodies.Iter(s) {
		integrate(ref.transform, ref.body, dt)
		n++
	}
	return n
}

func integrate(t *component.Transform, b *component.PhysicalBody, dt float32) {
	advance(t, b, dt)
	b.Momentum = b.Momentum.Add(b.ResultantForce)
	b.AngularMomentum = b.AngularMomentum.Add(b.ResultantAngularForce.Mul(dt))
	b.ClearForces()
}

// advance moves t along b's current velocity for dt without touching b.
func advance(t *component.Transform, b *component.PhysicalBody, dt float32) {
	t.Position = t.Position.Add(b.Velocity().Mul(dt))
}

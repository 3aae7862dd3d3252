package physics

import (
	"github.com/argus-labs/astro/pkg/sim/component"
	"github.com/argus-labs/astro/pkg/sim/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

type colliderRef struct {
	id        ecs.EntityID
	transform *component.Transform
	collider  *component.Collider
	body      *component.PhysicalBody
}

var colliders = ecs.NewQuery2( //nolint:gochecknoglobals // query
	func(r ecs.Row, c component.ColliderCarrier, b component.BodyCarrier) colliderRef {
		return colliderRef{id: r.ID, transform: r.Transform, collider: c.Collider(), body: b.Body()}
	})

// Report summarizes one collision pass.
type Report struct {
	Pairs    int // Pairs tested, always n·(n-1)/2
	Contacts int // Pairs that touched within the step
}

// ResolveCollisions tests every pair of entities carrying both a Collider and a PhysicalBody for
// contact within the next dt. For each contact both bodies are moved to the time of impact, the
// colliders record the impact and fire their callbacks, and an elastic impulse along the contact
// axis is queued on each body's force accumulator.
//
// Contact callbacks run while the store is pinned and must not insert or remove entities.
func ResolveCollisions(s *ecs.Store, dt float32) Report {
	release := s.Pin()
	defer release()

	refs := colliders.Collect(s)

	var report Report
	for i := range refs {
		for j := i + 1; j < len(refs); j++ {
			report.Pairs++
			if collide(&refs[i], &refs[j], dt) {
				report.Contacts++
			}
		}
	}
	return report
}

func collide(a, b *colliderRef, dt float32) bool {
	p := b.transform.Position.Sub(a.transform.Position)
	v := b.body.Velocity().Sub(a.body.Velocity())
	r := a.collider.Radius + b.collider.Radius

	t, ok := Sweep(p, v, r, dt)
	if !ok {
		return false
	}

	advance(a.transform, a.body, t)
	advance(b.transform, b.body, t)

	axis := contactAxis(a.transform.Position, b.transform.Position)
	point := a.transform.Position.Add(axis.Mul(a.collider.Radius))

	a.collider.Contact(a.id, b.id, point, axis, t)
	b.collider.Contact(b.id, a.id, point, axis.Mul(-1), t)

	impulse := elasticImpulse(a.body, b.body, axis)
	a.body.AddForce(axis.Mul(impulse))
	b.body.AddForce(axis.Mul(-impulse))
	return true
}

// contactAxis is the unit vector from a to b, or zero when they coincide.
func contactAxis(a, b mgl32.Vec3) mgl32.Vec3 {
	d := b.Sub(a)
	if d.Len() == 0 {
		return mgl32.Vec3{}
	}
	return d.Normalize()
}

// elasticImpulse returns the impulse magnitude to apply to a along axis (b receives the
// negation). It treats a as stationary along the axis and b as approaching with the relative
// speed, which for a 1-D elastic collision gives 2·ma·mb·v/(ma+mb).
func elasticImpulse(a, b *component.PhysicalBody, axis mgl32.Vec3) float32 {
	v2 := axis.Dot(b.Velocity().Sub(a.Velocity()))
	return a.Mass * 2 * v2 * b.Mass / (a.Mass + b.Mass)
}

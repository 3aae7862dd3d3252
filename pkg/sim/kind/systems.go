package kind

import (
	"github.com/argus-labs/astro/pkg/sim"
	"github.com/argus-labs/astro/pkg/sim/component"
	"github.com/argus-labs/astro/pkg/sim/ecs"
)

// AgeBullets counts down every bullet's TTL and queues the removal of expired ones.
func AgeBullets(s *ecs.Store, dt float32, cmds *sim.Commands) {
	for b := range ecs.IterMut[Bullet](s) {
		b.Payload.TTL -= dt
		if b.Payload.TTL <= 0 {
			sim.Despawn[Bullet](cmds, b.ID)
		}
	}
}

// AgeExplosions advances every explosion and queues the removal of finished ones.
func AgeExplosions(s *ecs.Store, dt float32, cmds *sim.Commands) {
	for e := range ecs.IterMut[Explosion](s) {
		e.Payload.Age += dt
		if e.Payload.Age >= e.Payload.Duration {
			sim.Despawn[Explosion](cmds, e.ID)
		}
	}
}

var dampened = ecs.NewQuery1(func(_ ecs.Row, b component.BodyCarrier) *component.PhysicalBody { //nolint:gochecknoglobals // query
	return b.Body()
})

// ApplyDampening queues a drag impulse of -momentum·dampening·dt on every body, so Dampening is
// the fraction of momentum lost per second.
func ApplyDampening(s *ecs.Store, dt float32, _ *sim.Commands) {
	for body := range dampened.Iter(s) {
		if body.Dampening == 0 {
			continue
		}
		body.AddForce(body.Momentum.Mul(-body.Dampening * dt))
	}
}

// Thrust pushes the ship along its forward axis. The impulse is throttle·dt so a held throttle
// produces a steady force.
func Thrust(ship *ecs.Entity[Ship], throttle, dt float32) {
	ship.Payload.Physics.AddForce(ship.Transform.Forward().Mul(throttle * dt))
}

// Turn adds a yaw torque to the ship around its up axis.
func Turn(ship *ecs.Entity[Ship], torque float32) {
	ship.Payload.Physics.AddAngularForce(ship.Transform.Up().Mul(torque))
}

var spinning = ecs.NewQuery1(func(r ecs.Row, b component.BodyCarrier) spinner { //nolint:gochecknoglobals // query
	return spinner{transform: r.Transform, body: b.Body()}
})

type spinner struct {
	transform *component.Transform
	body      *component.PhysicalBody
}

// ApplySpin turns every body by its angular velocity, |ω|·dt radians around ω. This is the
// rotational counterpart of the position step in physics.Integrate.
func ApplySpin(s *ecs.Store, dt float32, _ *sim.Commands) {
	for sp := range spinning.Iter(s) {
		omega := sp.body.AngularVelocity()
		speed := omega.Len()
		if speed == 0 {
			continue
		}
		sp.transform.Rotate(speed*dt, omega)
	}
}

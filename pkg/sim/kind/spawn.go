package kind

import (
	"github.com/argus-labs/astro/pkg/sim"
	"github.com/argus-labs/astro/pkg/sim/component"
	"github.com/argus-labs/astro/pkg/sim/ecs"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rotisserie/eris"
)

const (
	shipMass      = 10
	shipInertia   = 4
	shipDampening = 0.5

	asteroidDensity = 1

	bulletMass   = 0.1
	bulletRadius = 0.1
	bulletTTL    = 2
	muzzleSpeed  = 40
	noseOffset   = 1.5

	explosionDuration = 0.6
)

// SpawnShip inserts a ship at rest.
func SpawnShip(s *ecs.Store, transform component.Transform) (ecs.EntityID, error) {
	body, err := component.NewPhysicalBody(shipMass, shipInertia, shipDampening)
	if err != nil {
		return 0, eris.Wrap(err, "failed to create ship body")
	}
	return ecs.Insert(s, Ship{Camera: component.DefaultCamera(), Physics: body}, transform), nil
}

// NewAsteroid builds an asteroid of the given size moving at velocity. The radius equals the size
// and the mass grows with the volume.
func NewAsteroid(size int, velocity mgl32.Vec3) (Asteroid, error) {
	if size <= 0 {
		return Asteroid{}, eris.Errorf("asteroid size must be positive, got %d", size)
	}
	radius := float32(size)
	mass := asteroidDensity * radius * radius * radius
	// Solid sphere: 2/5·m·r².
	body, err := component.NewPhysicalBody(mass, 0.4*mass*radius*radius, 0)
	if err != nil {
		return Asteroid{}, eris.Wrap(err, "failed to create asteroid body")
	}
	body.SetVelocity(velocity)

	hull, err := component.NewCollider(radius)
	if err != nil {
		return Asteroid{}, eris.Wrap(err, "failed to create asteroid collider")
	}
	return Asteroid{Size: size, Hull: hull, Physics: body}, nil
}

// SpawnAsteroid inserts an asteroid of the given size moving at velocity.
func SpawnAsteroid(s *ecs.Store, transform component.Transform, size int, velocity mgl32.Vec3) (ecs.EntityID, error) {
	a, err := NewAsteroid(size, velocity)
	if err != nil {
		return 0, err
	}
	return ecs.Insert(s, a, transform), nil
}

// NewBullet builds a bullet owned by owner. On its first contact the bullet despawns itself and
// leaves an explosion at the contact point, both through cmds.
func NewBullet(owner ecs.EntityID, velocity mgl32.Vec3, cmds *sim.Commands) (Bullet, error) {
	body, err := component.NewPhysicalBody(bulletMass, bulletMass, 0)
	if err != nil {
		return Bullet{}, eris.Wrap(err, "failed to create bullet body")
	}
	body.SetVelocity(velocity)

	hull, err := component.NewCollider(bulletRadius)
	if err != nil {
		return Bullet{}, eris.Wrap(err, "failed to create bullet collider")
	}
	hull.OnContact = func(self, _ ecs.EntityID, point mgl32.Vec3) {
		sim.Despawn[Bullet](cmds, self)
		SpawnExplosion(cmds, point, 1)
	}
	return Bullet{Owner: owner, TTL: bulletTTL, Hull: hull, Physics: body}, nil
}

// SpawnBullet inserts a bullet directly. Use FireBullet from inside a frame.
func SpawnBullet(
	s *ecs.Store, cmds *sim.Commands, owner ecs.EntityID, transform component.Transform, velocity mgl32.Vec3,
) (ecs.EntityID, error) {
	b, err := NewBullet(owner, velocity, cmds)
	if err != nil {
		return 0, err
	}
	return ecs.Insert(s, b, transform), nil
}

// SpawnExplosion queues an explosion at position.
func SpawnExplosion(cmds *sim.Commands, position mgl32.Vec3, radius float32) {
	sim.Spawn(cmds, Explosion{Duration: explosionDuration, Radius: radius}, component.NewTransform(position), nil)
}

// SpawnHUD inserts a HUD label.
func SpawnHUD(s *ecs.Store, label string, anchor mgl32.Vec2) ecs.EntityID {
	return ecs.Insert(s, HUDElement{Label: label, Anchor: anchor}, component.NewTransform(mgl32.Vec3{}))
}

// FireBullet queues a bullet leaving the nose of ship at the ship's velocity plus the muzzle speed
// along its forward axis. Returns false if the ship doesn't exist.
func FireBullet(s *ecs.Store, cmds *sim.Commands, ship ecs.EntityID) (bool, error) {
	rec, ok := ecs.Get[Ship](s, ship)
	if !ok {
		return false, nil
	}

	forward := rec.Transform.Forward()
	velocity := rec.Payload.Physics.Velocity().Add(forward.Mul(muzzleSpeed))
	b, err := NewBullet(ship, velocity, cmds)
	if err != nil {
		return false, err
	}

	transform := rec.Transform
	transform.Position = transform.Position.Add(forward.Mul(noseOffset))
	transform.Scale = mgl32.Vec3{1, 1, 1}
	sim.Spawn(cmds, b, transform, nil)
	return true, nil
}

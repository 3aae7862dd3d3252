package physics_test

import (
	"testing"

	"github.com/argus-labs/astro/pkg/sim/component"
	"github.com/argus-labs/astro/pkg/sim/ecs"
	"github.com/argus-labs/astro/pkg/sim/physics"
	"github.com/argus-labs/astro/pkg/testutils"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// puck is a solid body with a collider, drift is a body without one.

type puck struct {
	Phys component.PhysicalBody
	Hull component.Collider
}

func (puck) Name() string                     { return "puck" }
func (p *puck) Body() *component.PhysicalBody { return &p.Phys }
func (p *puck) Collider() *component.Collider { return &p.Hull }

type drift struct {
	Phys component.PhysicalBody
}

func (drift) Name() string                     { return "drift" }
func (d *drift) Body() *component.PhysicalBody { return &d.Phys }

func newPuck(t *testing.T, mass, radius float32, velocity mgl32.Vec3) puck {
	t.Helper()
	phys, err := component.NewPhysicalBody(mass, 1, 0)
	require.NoError(t, err)
	phys.SetVelocity(velocity)
	hull, err := component.NewCollider(radius)
	require.NoError(t, err)
	return puck{Phys: phys, Hull: hull}
}

func place(x, y, z float32) component.Transform {
	return component.NewTransform(mgl32.Vec3{x, y, z})
}

func TestIntegrate(t *testing.T) {
	t.Parallel()

	s := ecs.NewStore()
	phys, err := component.NewPhysicalBody(2, 1, 0)
	require.NoError(t, err)
	phys.Momentum = mgl32.Vec3{4, 0, 0}
	id := ecs.Insert(s, drift{Phys: phys}, place(0, 0, 0))

	assert.Equal(t, 1, physics.Integrate(s, 0.5))

	got, ok := ecs.Get[drift](s, id)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, got.Transform.Position)
	assert.Equal(t, mgl32.Vec3{4, 0, 0}, got.Payload.Phys.Momentum)
	assert.Equal(t, mgl32.Vec3{}, got.Payload.Phys.ResultantForce)
	assert.Equal(t, mgl32.Vec3{}, got.Payload.Phys.ResultantAngularForce)
}

func TestIntegrate_ForceAppliesAfterMove(t *testing.T) {
	t.Parallel()

	s := ecs.NewStore()
	phys, err := component.NewPhysicalBody(2, 4, 0)
	require.NoError(t, err)
	phys.AddForce(mgl32.Vec3{0, 6, 0})
	phys.AddAngularForce(mgl32.Vec3{0, 0, 8})
	id := ecs.Insert(s, drift{Phys: phys}, place(1, 1, 1))

	physics.Integrate(s, 0.25)

	got, _ := ecs.Get[drift](s, id)
	// Position used the momentum from before the force was added.
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, got.Transform.Position)
	// Force is added unscaled, torque is scaled by dt.
	assert.Equal(t, mgl32.Vec3{0, 6, 0}, got.Payload.Phys.Momentum)
	assert.Equal(t, mgl32.Vec3{0, 0, 2}, got.Payload.Phys.AngularMomentum)
	assert.Equal(t, mgl32.Vec3{}, got.Payload.Phys.ResultantForce)

	physics.Integrate(s, 0.25)
	got, _ = ecs.Get[drift](s, id)
	assert.Equal(t, mgl32.Vec3{1, 1.75, 1}, got.Transform.Position)
}

func TestIntegrate_EmptyStore(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, physics.Integrate(ecs.NewStore(), 1))
}

// Two unit spheres 4 apart closing at 2 units/s touch after exactly 1s.
func TestResolveCollisions_Boundary(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*ecs.Store, ecs.EntityID, ecs.EntityID) {
		t.Helper()
		s := ecs.NewStore()
		a := ecs.Insert(s, newPuck(t, 1, 1, mgl32.Vec3{1, 0, 0}), place(0, 0, 0))
		b := ecs.Insert(s, newPuck(t, 1, 1, mgl32.Vec3{-1, 0, 0}), place(4, 0, 0))
		return s, a, b
	}

	t.Run("step shorter than time to contact", func(t *testing.T) {
		t.Parallel()
		s, a, _ := setup(t)
		report := physics.ResolveCollisions(s, 0.5)
		assert.Equal(t, physics.Report{Pairs: 1, Contacts: 0}, report)

		got, _ := ecs.Get[puck](s, a)
		assert.Equal(t, mgl32.Vec3{0, 0, 0}, got.Transform.Position)
		assert.Equal(t, mgl32.Vec3{}, got.Payload.Phys.ResultantForce)
	})

	t.Run("contact exactly at the end of the step", func(t *testing.T) {
		t.Parallel()
		s, a, b := setup(t)

		var calls []string
		ra, _ := ecs.GetMut[puck](s, a)
		ra.Payload.Hull.OnContact = func(self, other component.EntityID, point mgl32.Vec3) {
			assert.Equal(t, a, self)
			assert.Equal(t, b, other)
			assert.Equal(t, mgl32.Vec3{2, 0, 0}, point)
			calls = append(calls, "a")
		}
		rb, _ := ecs.GetMut[puck](s, b)
		rb.Payload.Hull.OnContact = func(self, other component.EntityID, point mgl32.Vec3) {
			assert.Equal(t, b, self)
			assert.Equal(t, a, other)
			assert.Equal(t, mgl32.Vec3{2, 0, 0}, point)
			calls = append(calls, "b")
		}

		report := physics.ResolveCollisions(s, 1)
		assert.Equal(t, physics.Report{Pairs: 1, Contacts: 1}, report)
		assert.Equal(t, []string{"a", "b"}, calls)

		ga, _ := ecs.Get[puck](s, a)
		gb, _ := ecs.Get[puck](s, b)
		assert.Equal(t, mgl32.Vec3{1, 0, 0}, ga.Transform.Position)
		assert.Equal(t, mgl32.Vec3{3, 0, 0}, gb.Transform.Position)
		assert.Equal(t, mgl32.Vec3{1, 0, 0}, ga.Payload.Hull.LastImpact)
		assert.Equal(t, mgl32.Vec3{-1, 0, 0}, gb.Payload.Hull.LastImpact)
		assert.InDelta(t, 1, ga.Payload.Hull.TimeOfImpact, 1e-6)
		assert.InDelta(t, 1, gb.Payload.Hull.TimeOfImpact, 1e-6)

		// Momentum is untouched until the next integration.
		assert.Equal(t, mgl32.Vec3{1, 0, 0}, ga.Payload.Phys.Momentum)
		assert.Equal(t, mgl32.Vec3{-2, 0, 0}, ga.Payload.Phys.ResultantForce)
		assert.Equal(t, mgl32.Vec3{2, 0, 0}, gb.Payload.Phys.ResultantForce)
	})
}

func TestResolveCollisions_ImpulseConservesMomentum(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		ma, mb float32
		va, vb float32
	}{
		{name: "equal masses head on", ma: 3, mb: 3, va: 2, vb: -2},
		{name: "heavy and light", ma: 10, mb: 1, va: 1, vb: -3},
		{name: "one at rest", ma: 2, mb: 5, va: 4, vb: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := ecs.NewStore()
			a := ecs.Insert(s, newPuck(t, tc.ma, 1, mgl32.Vec3{tc.va, 0, 0}), place(0, 0, 0))
			b := ecs.Insert(s, newPuck(t, tc.mb, 1, mgl32.Vec3{tc.vb, 0, 0}), place(2.5, 0, 0))

			before := tc.ma*tc.va + tc.mb*tc.vb
			report := physics.ResolveCollisions(s, 1)
			require.Equal(t, 1, report.Contacts)
			physics.Integrate(s, 0)

			ga, _ := ecs.Get[puck](s, a)
			gb, _ := ecs.Get[puck](s, b)
			after := ga.Payload.Phys.Momentum.X() + gb.Payload.Phys.Momentum.X()
			assert.InDelta(t, before, after, 1e-4)

			relBefore := tc.vb - tc.va
			relAfter := gb.Payload.Phys.Velocity().X() - ga.Payload.Phys.Velocity().X()
			assert.Less(t, relBefore*relAfter, float32(0), "relative velocity must reverse")
			if tc.ma == tc.mb {
				assert.InDelta(t, -relBefore, relAfter, 1e-4)
			}
		})
	}
}

func TestResolveCollisions_PairCoverage(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 2, 5, 12} {
		s := ecs.NewStore()
		for i := range n {
			// Far apart and at rest, so no pair touches.
			ecs.Insert(s, newPuck(t, 1, 1, mgl32.Vec3{}), place(float32(i)*10, 0, 0))
			// Bodies without a collider don't take part.
			ecs.Insert(s, drift{Phys: component.PhysicalBody{Mass: 1, AngularInertia: 1}}, place(0, 0, 0))
		}
		report := physics.ResolveCollisions(s, 1)
		assert.Equal(t, physics.Report{Pairs: n * (n - 1) / 2}, report, "n=%d", n)
	}
}

func TestResolveCollisions_CallbackCannotMutateStore(t *testing.T) {
	t.Parallel()

	s := ecs.NewStore()
	p := newPuck(t, 1, 1, mgl32.Vec3{1, 0, 0})
	p.Hull.OnContact = func(_, _ component.EntityID, _ mgl32.Vec3) {
		ecs.Insert(s, drift{}, place(0, 0, 0))
	}
	ecs.Insert(s, p, place(0, 0, 0))
	ecs.Insert(s, newPuck(t, 1, 1, mgl32.Vec3{}), place(3, 0, 0))

	assert.Panics(t, func() { physics.ResolveCollisions(s, 1) })
	// The pin is released even after a panic.
	assert.NotPanics(t, func() { ecs.Insert(s, drift{}, place(0, 0, 0)) })
}

func TestSweep_Tangential(t *testing.T) {
	t.Parallel()

	// Grazing pass: the double root is taken at b/(2a) and has no lower bound.
	toi, ok := physics.Sweep(mgl32.Vec3{-4, 2, 0}, mgl32.Vec3{1, 0, 0}, 2, 1)
	assert.True(t, ok)
	assert.InDelta(t, -4, toi, 1e-6)

	_, ok = physics.Sweep(mgl32.Vec3{4, 2, 0}, mgl32.Vec3{1, 0, 0}, 2, 1)
	assert.False(t, ok)

	_, ok = physics.Sweep(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{}, 2, 1)
	assert.False(t, ok, "no relative motion")
}

func TestSweep_UnderflowingSpeed(t *testing.T) {
	t.Parallel()

	// |v|² underflows to zero while 2·v·p doesn't.
	v := mgl32.Vec3{-1e-23, 0, 0}
	p := mgl32.Vec3{4, 0, 0}
	require.Zero(t, v.Dot(v))
	require.NotZero(t, 2*v.Dot(p))

	_, ok := physics.Sweep(p, v, 0.5, 1)
	assert.False(t, ok)
	_, ok = physics.Sweep(p.Mul(-1), v, 0.5, 1)
	assert.False(t, ok)
}

// TestSweep_Exhaustive checks every small 1-D configuration against the closed form: separated
// spheres approaching each other touch after (|p|-r)/|v|, overlapping spheres never report contact.
func TestSweep_Exhaustive(t *testing.T) {
	t.Parallel()

	steps := []float32{0.5, 1, 2}
	cases := testutils.Exhaust(func(d *testutils.Draw) {
		p := float32(d.Between(-6, 6))
		v := float32(d.Between(-4, 4))
		r := float32(d.Between(1, 2))
		dt := testutils.Pick(d, steps)

		toi, ok := physics.Sweep(mgl32.Vec3{p, 0, 0}, mgl32.Vec3{v, 0, 0}, r, dt)

		dist := p
		if dist < 0 {
			dist = -dist
		}
		speed := v
		if speed < 0 {
			speed = -speed
		}

		switch {
		case dist <= r || v == 0 || p*v > 0:
			assert.False(t, ok, "p=%v v=%v r=%v dt=%v", p, v, r, dt)
		default:
			want := (dist - r) / speed
			assert.Equal(t, want <= dt, ok, "p=%v v=%v r=%v dt=%v", p, v, r, dt)
			assert.InDelta(t, want, toi, 1e-6)
		}
	})
	assert.Equal(t, 13*9*2*3, cases)
}

// Impulses are equal and opposite, so however many contacts a pass finds the total momentum
// after the next integration matches the total before it.
func TestResolveCollisions_RandomFieldConservesMomentum(t *testing.T) {
	t.Parallel()

	r := testutils.NewRand(t)
	s := ecs.NewStore()
	for range 40 {
		mass := 0.5 + r.Float32()*4
		radius := 0.5 + r.Float32()
		ecs.Insert(s, newPuck(t, mass, radius, testutils.RandVec3(r, 10)), component.NewTransform(testutils.RandVec3(r, 8)))
	}

	total := func() mgl32.Vec3 {
		var sum mgl32.Vec3
		for p := range ecs.Iter[puck](s) {
			sum = sum.Add(p.Payload.Phys.Momentum)
		}
		return sum
	}

	before := total()
	contacts := 0
	for range 20 {
		report := physics.ResolveCollisions(s, 0.05)
		assert.Equal(t, 40*39/2, report.Pairs)
		contacts += report.Contacts
		physics.Integrate(s, 0.05)
	}
	after := total()

	t.Logf("contacts: %d", contacts)
	for i := range 3 {
		assert.InDelta(t, before[i], after[i], 1e-2, "axis %d", i)
	}
}

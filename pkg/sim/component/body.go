package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rotisserie/eris"
)

// PhysicalBody carries the linear and angular state of a rigid body. ResultantForce and
// ResultantAngularForce accumulate contributions during a step and are cleared by the integrator.
//
// Mass and AngularInertia are strictly positive for any body built with NewPhysicalBody, which
// lets the integrator divide by them without guarding every step.
type PhysicalBody struct {
	Mass                  float32    `json:"mass"`
	Momentum              mgl32.Vec3 `json:"momentum"`
	AngularInertia        float32    `json:"angular_inertia"`
	AngularMomentum       mgl32.Vec3 `json:"angular_momentum"`
	Dampening             float32    `json:"dampening"`
	ResultantForce        mgl32.Vec3 `json:"resultant_force"`
	ResultantAngularForce mgl32.Vec3 `json:"resultant_angular_force"`
}

// NewPhysicalBody returns a body at rest.
func NewPhysicalBody(mass, angularInertia, dampening float32) (PhysicalBody, error) {
	body := PhysicalBody{
		Mass:           mass,
		AngularInertia: angularInertia,
		Dampening:      dampening,
	}
	if err := body.Validate(); err != nil {
		return PhysicalBody{}, err
	}
	return body, nil
}

// Validate reports whether the body's scalar parameters are usable by the integrator.
func (b *PhysicalBody) Validate() error {
	if !(b.Mass > 0) || math.IsInf(float64(b.Mass), 0) {
		return eris.Wrapf(ErrNonPositiveMass, "got %v", b.Mass)
	}
	if !(b.AngularInertia > 0) || math.IsInf(float64(b.AngularInertia), 0) {
		return eris.Wrapf(ErrNonPositiveInertia, "got %v", b.AngularInertia)
	}
	if b.Dampening < 0 || math.IsNaN(float64(b.Dampening)) {
		return eris.Wrapf(ErrNegativeDampening, "got %v", b.Dampening)
	}
	return nil
}

// Velocity is momentum / mass.
func (b *PhysicalBody) Velocity() mgl32.Vec3 {
	return b.Momentum.Mul(1 / b.Mass)
}

// AngularVelocity is angular momentum / angular inertia.
func (b *PhysicalBody) AngularVelocity() mgl32.Vec3 {
	return b.AngularMomentum.Mul(1 / b.AngularInertia)
}

// SetVelocity overwrites the momentum so that Velocity returns v.
func (b *PhysicalBody) SetVelocity(v mgl32.Vec3) {
	b.Momentum = v.Mul(b.Mass)
}

// AddForce accumulates a force entry for the next integration step. The integrator adds the
// accumulated value to momentum as-is, so entries are per-step impulses.
func (b *PhysicalBody) AddForce(f mgl32.Vec3) {
	b.ResultantForce = b.ResultantForce.Add(f)
}

// AddAngularForce accumulates a torque for the next integration step.
func (b *PhysicalBody) AddAngularForce(f mgl32.Vec3) {
	b.ResultantAngularForce = b.ResultantAngularForce.Add(f)
}

// ClearForces zeroes both accumulators.
func (b *PhysicalBody) ClearForces() {
	b.ResultantForce = mgl32.Vec3{}
	b.ResultantAngularForce = mgl32.Vec3{}
}

// Package component holds the plain data types entity kinds are built from: the spatial
// Transform, the PhysicalBody advanced by the integrator, the sphere Collider used by the
// collision pass, and the Camera read by the presentation layer.
package component

import "github.com/go-gl/mathgl/mgl32"

// EntityID identifies the entity a component belongs to. It is allocated by the entity store.
type EntityID uint64

// Transform is the position, orientation and scale of an entity in world space.
type Transform struct {
	Position mgl32.Vec3 `json:"position"`
	Rotation mgl32.Quat `json:"rotation"`
	Scale    mgl32.Vec3 `json:"scale"`
}

// NewTransform returns an unrotated, unit-scale transform at position.
func NewTransform(position mgl32.Vec3) Transform {
	return Transform{
		Position: position,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix returns the model matrix, translation * rotation * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(t.Rotation.Mat4()).Mul4(scale)
}

// LocalToWorldDirection rotates a local-space direction into world space. Directions ignore
// translation and scale.
func (t Transform) LocalToWorldDirection(dir mgl32.Vec3) mgl32.Vec3 {
	return t.Rotation.Rotate(dir)
}

// LocalToWorldPoint maps a local-space point into world space through the model matrix.
func (t Transform) LocalToWorldPoint(point mgl32.Vec3) mgl32.Vec3 {
	return t.Matrix().Mul4x1(point.Vec4(1)).Vec3()
}

// Forward is the world-space direction of local -Z.
func (t Transform) Forward() mgl32.Vec3 {
	return t.LocalToWorldDirection(mgl32.Vec3{0, 0, -1})
}

// Right is the world-space direction of local +X.
func (t Transform) Right() mgl32.Vec3 {
	return t.LocalToWorldDirection(mgl32.Vec3{1, 0, 0})
}

// Up is the world-space direction of local +Y.
func (t Transform) Up() mgl32.Vec3 {
	return t.LocalToWorldDirection(mgl32.Vec3{0, 1, 0})
}

// Rotate applies a world-space rotation of angle radians around axis on top of the current
// orientation.
func (t *Transform) Rotate(angle float32, axis mgl32.Vec3) {
	t.Rotation = mgl32.QuatRotate(angle, axis.Normalize()).Mul(t.Rotation).Normalize()
}

package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rotisserie/eris"
)

// ContactFunc is called synchronously by the collision pass when the owning entity touches
// another one. point is the contact point on the surface of the first body of the pair.
type ContactFunc func(self, other EntityID, point mgl32.Vec3)

// Collider is a bounding sphere centered on the owning entity's Transform position.
type Collider struct {
	Radius float32 `json:"radius"`

	// LastImpact is the unit contact normal of the most recent contact, pointing from this
	// entity toward the one it touched.
	LastImpact mgl32.Vec3 `json:"last_impact"`
	// TimeOfImpact is the offset into the physics step at which the most recent contact happened.
	TimeOfImpact float32 `json:"time_of_impact"`

	OnContact ContactFunc `json:"-"`
}

// NewCollider returns a collider of the given radius without a contact callback.
func NewCollider(radius float32) (Collider, error) {
	if !(radius > 0) || math.IsInf(float64(radius), 0) {
		return Collider{}, eris.Wrapf(ErrNonPositiveRadius, "got %v", radius)
	}
	return Collider{Radius: radius}, nil
}

// Contact records an impact and forwards it to the callback, if any.
func (c *Collider) Contact(self, other EntityID, point, normal mgl32.Vec3, toi float32) {
	c.LastImpact = normal
	c.TimeOfImpact = toi
	if c.OnContact != nil {
		c.OnContact(self, other, point)
	}
}

package component

// The carrier interfaces are the attributes entity queries are composed from. A kind carries
// an attribute when a pointer to its payload implements the interface; the returned pointer
// aliases the payload stored in the entity store.

// BodyCarrier is implemented by kinds that are moved by the integrator.
type BodyCarrier interface {
	Body() *PhysicalBody
}

// ColliderCarrier is implemented by kinds that take part in the collision pass.
type ColliderCarrier interface {
	Collider() *Collider
}

// CameraCarrier is implemented by kinds the scene can be viewed from.
type CameraCarrier interface {
	Lens() *Camera
}

package ecs

import "github.com/argus-labs/astro/pkg/sim/component"

// EntityID is a unique identifier for an entity. IDs are handed out in increasing order starting
// at 1 and are never reused by the store that allocated them.
type EntityID = component.EntityID

// Entity is the record stored for every live entity: its identity, its spatial state and the
// kind-specific payload.
type Entity[K Kind] struct {
	ID        EntityID            `json:"id"`
	Transform component.Transform `json:"transform"`
	Payload   K                   `json:"payload"`
}

// Row is a kind-erased view of one stored entity, handed to query projections. Transform and
// Payload point into the store and are valid until the next insert or remove on that store.
// Payload holds a *K for the entity's kind K.
type Row struct {
	ID        EntityID
	Transform *component.Transform
	Payload   any
}

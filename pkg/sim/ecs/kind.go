package ecs

import (
	"reflect"
	"sync"

	"github.com/argus-labs/astro/pkg/assert"
	"github.com/kelindar/bitmap"
)

// Kind is the interface all entity payload types implement. A kind bundles the components one
// category of game object needs.
type Kind interface { //nolint:iface // We may add more methods in the future.
	// Name returns a unique string identifier for the kind. It is used by snapshots and search and
	// must stay stable across program executions.
	Name() string
}

// attributeID is the bit assigned to an attribute type in query bitmaps.
type attributeID = uint32

// attributeRegistry assigns bitmap positions to attribute types. It is process-wide because
// queries are usually declared as package-level values before any store exists.
type attributeRegistry struct {
	mu    sync.Mutex
	ids   map[reflect.Type]attributeID
	types []reflect.Type
}

var attributes = attributeRegistry{ //nolint:gochecknoglobals // shared by all queries
	ids: make(map[reflect.Type]attributeID),
}

// id returns the attribute ID of t, assigning the next free one on first use.
func (r *attributeRegistry) id(t reflect.Type) attributeID {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.ids[t]; ok {
		return id
	}
	id := attributeID(len(r.types)) //nolint:gosec // won't overflow
	r.ids[t] = id
	r.types = append(r.types, t)
	return id
}

// typeOf returns the attribute type registered under id.
func (r *attributeRegistry) typeOf(id attributeID) reflect.Type {
	r.mu.Lock()
	defer r.mu.Unlock()

	assert.That(int(id) < len(r.types), "unknown attribute id %d", id)
	return r.types[id]
}

// attributeSet tracks which attributes a kind carries. Attributes are resolved lazily the first
// time a query asks about them, so kinds never need to declare what they carry.
type attributeSet struct {
	ptrType reflect.Type  // *K of the kind
	carried bitmap.Bitmap // Attributes *K is assignable to
	checked bitmap.Bitmap // Attributes that were already resolved
}

func newAttributeSet(kindType reflect.Type) attributeSet {
	return attributeSet{ptrType: reflect.PointerTo(kindType)}
}

// contains returns true if the kind carries every attribute in want.
func (a *attributeSet) contains(want bitmap.Bitmap) bool {
	want.Range(func(id uint32) {
		if a.checked.Contains(id) {
			return
		}
		a.checked.Set(id)
		if a.ptrType.AssignableTo(attributes.typeOf(id)) {
			a.carried.Set(id)
		}
	})

	intersect := want.Clone(nil)
	intersect.And(a.carried)
	return intersect.Count() == want.Count()
}

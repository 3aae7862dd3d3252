// Package ecs stores game entities by kind and composes typed queries across kinds.
//
// Every kind K (a payload type implementing Kind) owns one column in the Store: a contiguous
// slice of Entity[K] records. Columns are keyed by the kind's runtime type, so a lookup under
// one kind can never observe another kind's records, and a lookup under a kind that was never
// populated simply yields nothing.
package ecs

import (
	"iter"
	"reflect"

	"github.com/argus-labs/astro/pkg/assert"
	"github.com/argus-labs/astro/pkg/sim/component"
	"github.com/rotisserie/eris"
)

// Store owns all entity records, one column per kind.
type Store struct {
	nextID  EntityID             // The next ID to hand out
	columns []abstractColumn     // Columns in kind order (first seen first)
	byType  map[reflect.Type]int // Kind type -> index in columns
	byName  map[string]int       // Kind name -> index in columns
	pins    int                  // Number of open passes, structural mutation is illegal while > 0
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		nextID:  1,
		columns: make([]abstractColumn, 0),
		byType:  make(map[reflect.Type]int),
		byName:  make(map[string]int),
	}
}

// Register creates K's column if it doesn't exist yet. Kinds are registered implicitly by Insert,
// registering up front is only needed to restore snapshots or to fix the kind order.
func Register[K Kind](s *Store) error {
	_, err := columnFor[K](s, true)
	return err
}

// Insert appends a new K record and returns its ID. Panics if another type already uses K's kind
// name, call Register first to get that as an error.
func Insert[K Kind](s *Store, payload K, transform component.Transform) EntityID {
	s.assertMutable()

	col, err := columnFor[K](s, true)
	if err != nil {
		panic(eris.Wrap(err, "failed to insert entity"))
	}

	id := s.nextID
	s.nextID++
	col.push(Entity[K]{ID: id, Transform: transform, Payload: payload})
	return id
}

// Remove removes the K record with the given ID. Returns false if there is no such record, which
// includes the case where K was never inserted. Removing may reorder the remaining K records.
func Remove[K Kind](s *Store, id EntityID) bool {
	s.assertMutable()

	col, err := columnFor[K](s, false)
	if err != nil || col == nil {
		return false
	}
	return col.removeID(id)
}

// Get returns a copy of the K record with the given ID.
func Get[K Kind](s *Store, id EntityID) (Entity[K], bool) {
	rec, ok := GetMut[K](s, id)
	if !ok {
		return Entity[K]{}, false
	}
	return *rec, true
}

// GetMut returns a pointer to the K record with the given ID. The pointer is valid until the next
// Insert or Remove on the store.
func GetMut[K Kind](s *Store, id EntityID) (*Entity[K], bool) {
	col, err := columnFor[K](s, false)
	if err != nil || col == nil {
		return nil, false
	}
	row := col.find(id)
	if row < 0 {
		return nil, false
	}
	return &col.records[row], true
}

// Iter returns an iterator over copies of all K records in storage order.
func Iter[K Kind](s *Store) iter.Seq[Entity[K]] {
	return func(yield func(Entity[K]) bool) {
		for rec := range IterMut[K](s) {
			if !yield(*rec) {
				return
			}
		}
	}
}

// IterMut returns an iterator over pointers to all K records in storage order. Records may be
// modified in place; inserting or removing entities while iterating is not allowed.
func IterMut[K Kind](s *Store) iter.Seq[*Entity[K]] {
	return func(yield func(*Entity[K]) bool) {
		col, err := columnFor[K](s, false)
		if err != nil || col == nil {
			return
		}

		release := s.Pin()
		defer release()

		for i := range col.records {
			if !yield(&col.records[i]) {
				return
			}
		}
	}
}

// Len returns the number of live K records.
func Len[K Kind](s *Store) int {
	col, err := columnFor[K](s, false)
	if err != nil || col == nil {
		return 0
	}
	return col.len()
}

// Len returns the number of live entities across all kinds.
func (s *Store) Len() int {
	total := 0
	for _, col := range s.columns {
		total += col.len()
	}
	return total
}

// Kinds returns the names of all known kinds in kind order.
func (s *Store) Kinds() []string {
	names := make([]string, len(s.columns))
	for i, col := range s.columns {
		names[i] = col.name()
	}
	return names
}

// Clear removes every entity but keeps the known kinds and the ID counter, so IDs stay unique
// for the lifetime of the store.
func (s *Store) Clear() {
	s.assertMutable()
	for _, col := range s.columns {
		col.clear()
	}
}

// Pin marks the start of a pass over the store. Until the returned release function is called,
// Insert and Remove are invariant violations. Passes that hold on to Row pointers across calls
// into other code pin the store so those pointers stay valid.
func (s *Store) Pin() (release func()) {
	s.pins++
	released := false
	return func() {
		if released {
			return
		}
		released = true
		s.pins--
	}
}

func (s *Store) assertMutable() {
	assert.That(s.pins == 0, "structural mutation during an open pass over the store")
}

// columnFor returns K's column. When create is false and the kind is unknown it returns nil.
func columnFor[K Kind](s *Store, create bool) (*column[K], error) {
	typ := reflect.TypeFor[K]()
	if idx, ok := s.byType[typ]; ok {
		col, ok := s.columns[idx].(*column[K])
		assert.That(ok, "column registered under the wrong type")
		return col, nil
	}
	if !create {
		return nil, nil //nolint:nilnil // an unknown kind is not an error
	}

	col := newColumn[K]()
	if idx, exists := s.byName[col.name()]; exists {
		return nil, eris.Wrapf(ErrDuplicateKindName, "kind %s is used by %s and %s",
			col.name(), s.columns[idx].kindType(), typ)
	}

	s.byType[typ] = len(s.columns)
	s.byName[col.name()] = len(s.columns)
	s.columns = append(s.columns, col)
	return col, nil
}

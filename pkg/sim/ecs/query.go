package ecs

import (
	"iter"
	"reflect"

	"github.com/argus-labs/astro/pkg/assert"
	"github.com/kelindar/bitmap"
)

// Query is a typed, reusable view over every kind that carries a set of attributes. Attributes
// are interfaces implemented by a kind's payload pointer, e.g. component.BodyCarrier. A kind is
// included when *K implements all of them; kinds are visited in kind order and records within a
// kind in storage order.
//
// Queries hold no reference to a store and are usually declared once as package-level values:
//
//	var bodies = ecs.NewQuery1(func(r ecs.Row, b component.BodyCarrier) *component.PhysicalBody {
//		return b.Body()
//	})
type Query[T any] struct {
	attrs   bitmap.Bitmap
	project func(Row) T
}

// NewQuery creates a query over every entity of every kind.
func NewQuery[T any](project func(Row) T) *Query[T] {
	return &Query[T]{project: project}
}

// NewQuery1 creates a query over kinds carrying attribute A.
func NewQuery1[A any, T any](project func(Row, A) T) *Query[T] {
	q := &Query[T]{}
	q.require(reflect.TypeFor[A]())
	q.project = func(r Row) T {
		return project(r, attribute[A](r))
	}
	return q
}

// NewQuery2 creates a query over kinds carrying attributes A and B.
func NewQuery2[A, B any, T any](project func(Row, A, B) T) *Query[T] {
	q := &Query[T]{}
	q.require(reflect.TypeFor[A]())
	q.require(reflect.TypeFor[B]())
	q.project = func(r Row) T {
		return project(r, attribute[A](r), attribute[B](r))
	}
	return q
}

// NewQuery3 creates a query over kinds carrying attributes A, B and C.
func NewQuery3[A, B, C any, T any](project func(Row, A, B, C) T) *Query[T] {
	q := &Query[T]{}
	q.require(reflect.TypeFor[A]())
	q.require(reflect.TypeFor[B]())
	q.require(reflect.TypeFor[C]())
	q.project = func(r Row) T {
		return project(r, attribute[A](r), attribute[B](r), attribute[C](r))
	}
	return q
}

func (q *Query[T]) require(attr reflect.Type) {
	assert.That(attr.Kind() == reflect.Interface, "query attribute %s must be an interface type", attr)
	q.attrs.Set(attributes.id(attr))
}

// attribute views the row's payload as attribute A. The column filter guarantees the assertion
// holds.
func attribute[A any](r Row) A {
	a, ok := r.Payload.(A)
	assert.That(ok, "payload %T doesn't carry %s", r.Payload, reflect.TypeFor[A]())
	return a
}

// Iter returns a lazy sequence of projected tuples. The store is pinned while the sequence is
// being consumed, so the loop body may modify components but must not insert or remove
// entities. Breaking out early releases the pin.
func (q *Query[T]) Iter(s *Store) iter.Seq[T] {
	return func(yield func(T) bool) {
		release := s.Pin()
		defer release()

		for _, col := range s.columns {
			if !col.carries(q.attrs) {
				continue
			}
			for i := range col.len() {
				if !yield(q.project(col.row(i))) {
					return
				}
			}
		}
	}
}

// Collect materializes the query into a slice. Pointers inside the tuples stay valid until the
// next insert or remove on the store.
func (q *Query[T]) Collect(s *Store) []T {
	out := make([]T, 0, q.Count(s))
	for t := range q.Iter(s) {
		out = append(out, t)
	}
	return out
}

// Count returns the number of entities the query matches without projecting them.
func (q *Query[T]) Count(s *Store) int {
	n := 0
	for _, col := range s.columns {
		if col.carries(q.attrs) {
			n += col.len()
		}
	}
	return n
}

package ecs

import (
	"reflect"

	"github.com/argus-labs/astro/pkg/assert"
	"github.com/goccy/go-json"
	"github.com/kelindar/bitmap"
	"github.com/rotisserie/eris"
)

// abstractColumn is the kind-erased interface the store uses to manage columns uniformly.
type abstractColumn interface {
	len() int
	name() string
	kindType() reflect.Type

	row(i int) Row
	value(i int) (EntityID, any)
	removeID(id EntityID) bool
	carries(attrs bitmap.Bitmap) bool
	clear()

	marshal() (json.RawMessage, error)
	unmarshal(data json.RawMessage) error
}

var _ abstractColumn = &column[Kind]{}

// column is the contiguous, growable sequence of records of one kind.
type column[K Kind] struct {
	kindName string
	typ      reflect.Type
	records  []Entity[K]
	attrs    attributeSet
}

func newColumn[K Kind]() *column[K] {
	var zero K
	const initialCapacity = 16
	typ := reflect.TypeFor[K]()
	return &column[K]{
		kindName: zero.Name(),
		typ:      typ,
		records:  make([]Entity[K], 0, initialCapacity),
		attrs:    newAttributeSet(typ),
	}
}

func (c *column[K]) len() int {
	return len(c.records)
}

func (c *column[K]) name() string {
	return c.kindName
}

func (c *column[K]) kindType() reflect.Type {
	return c.typ
}

func (c *column[K]) push(record Entity[K]) {
	c.records = append(c.records, record)
}

// find returns the row of id, or -1.
func (c *column[K]) find(id EntityID) int {
	for i := range c.records {
		if c.records[i].ID == id {
			return i
		}
	}
	return -1
}

// row returns a view into the i-th record. Expects the caller to make sure the row is inside the
// column.
func (c *column[K]) row(i int) Row {
	assert.That(i < len(c.records), "row %d out of range", i)
	rec := &c.records[i]
	return Row{ID: rec.ID, Transform: &rec.Transform, Payload: &rec.Payload}
}

// value returns a copy of the i-th payload, boxed.
func (c *column[K]) value(i int) (EntityID, any) {
	assert.That(i < len(c.records), "row %d out of range", i)
	return c.records[i].ID, c.records[i].Payload
}

// removeID removes the record with the given id by swapping the last record into its row.
func (c *column[K]) removeID(id EntityID) bool {
	row := c.find(id)
	if row < 0 {
		return false
	}

	last := len(c.records) - 1
	c.records[row] = c.records[last]
	// Zero the vacated slot so payloads holding pointers or callbacks can be collected.
	c.records[last] = Entity[K]{}
	c.records = c.records[:last]
	return true
}

func (c *column[K]) carries(attrs bitmap.Bitmap) bool {
	return c.attrs.contains(attrs)
}

func (c *column[K]) clear() {
	clear(c.records)
	c.records = c.records[:0]
}

func (c *column[K]) marshal() (json.RawMessage, error) {
	data, err := json.Marshal(c.records)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to serialize kind %s", c.kindName)
	}
	return data, nil
}

func (c *column[K]) unmarshal(data json.RawMessage) error {
	var records []Entity[K]
	if err := json.Unmarshal(data, &records); err != nil {
		return eris.Wrapf(err, "failed to deserialize kind %s", c.kindName)
	}
	c.records = records
	return nil
}

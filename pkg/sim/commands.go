package sim

import (
	"github.com/argus-labs/astro/pkg/sim/component"
	"github.com/argus-labs/astro/pkg/sim/ecs"
)

// Commands buffers structural changes to the store that gameplay code requests while a pass is
// running. They are applied in the order they were queued when the frame ends.
type Commands struct {
	queue []func(*ecs.Store)
}

// Spawn queues the insertion of a K entity. onSpawn, if not nil, receives the new ID once the
// entity exists.
func Spawn[K ecs.Kind](c *Commands, payload K, transform component.Transform, onSpawn func(ecs.EntityID)) {
	c.queue = append(c.queue, func(s *ecs.Store) {
		id := ecs.Insert(s, payload, transform)
		if onSpawn != nil {
			onSpawn(id)
		}
	})
}

// Despawn queues the removal of the K entity with the given ID. Despawning an entity that is
// already gone is a no-op.
func Despawn[K ecs.Kind](c *Commands, id ecs.EntityID) {
	c.queue = append(c.queue, func(s *ecs.Store) {
		ecs.Remove[K](s, id)
	})
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.queue)
}

// Flush applies all queued commands to s and returns how many ran. Commands queued by a spawn
// callback during the flush run in the same flush.
func (c *Commands) Flush(s *ecs.Store) int {
	n := 0
	for len(c.queue) > 0 {
		cmd := c.queue[0]
		c.queue[0] = nil
		c.queue = c.queue[1:]
		cmd(s)
		n++
	}
	c.queue = c.queue[:0]
	return n
}

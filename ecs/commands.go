package ecs

import "slices"

// pendingChange collects every structural change requested for one entity
// since the last update. Later requests for the same component override
// earlier ones.
type pendingChange struct {
	entity  EntityId
	spawn   bool
	despawn bool
	inserts []ComponentValue
	removes []ComponentId
}

func (c *pendingChange) insert(v ComponentValue) {
	c.removes = slices.DeleteFunc(c.removes, func(id ComponentId) bool {
		return id == v.Id
	})
	for i := range c.inserts {
		if c.inserts[i].Id == v.Id {
			c.inserts[i] = v
			return
		}
	}
	c.inserts = append(c.inserts, v)
}

func (c *pendingChange) remove(id ComponentId) {
	c.inserts = slices.DeleteFunc(c.inserts, func(v ComponentValue) bool {
		return v.Id == id
	})
	if !slices.Contains(c.removes, id) {
		c.removes = append(c.removes, id)
	}
}

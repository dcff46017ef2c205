package ecs

import "github.com/TheBitDrifter/mask"

// Archetype is the set of component types an entity carries, one bit per
// ComponentId. Archetypes are comparable and key the world's table lookup.
type Archetype = mask.Mask

func archetypeOf(ids []ComponentId) Archetype {
	var m Archetype
	for _, id := range ids {
		m.Mark(uint32(id))
	}
	return m
}

// hasComponent reports whether the bit for id is set in m.
func hasComponent(m Archetype, id ComponentId) bool {
	return m.Contains(uint32(id))
}

var _ mask.Maskable = (*Table)(nil)

package ecs

import "fmt"

// EntityId encodes both the entity generation (upper 32 bits) and the slot
// index in the entity index (lower 32 bits). Generations start at 1, so the
// zero EntityId never names a live entity.
type EntityId uint64

// NewEntityId creates an EntityId from an index and a generation
func NewEntityId(index uint32, generation uint32) EntityId {
	return EntityId(uint64(generation)<<32 | uint64(index))
}

// Index extracts the slot index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Generation extracts the generation counter from the entity ID
func (e EntityId) Generation() uint32 {
	return uint32(e >> 32)
}

func (e EntityId) String() string {
	return fmt.Sprintf("%d#%d", e.Index(), e.Generation())
}

package ecs

import "fmt"

// Entity is a handle to one body, ring, tile or field singleton in a World.
// The low half is the storage slot, counted from 1. The high half is the
// slot's generation, bumped on destroy so stale handles stop matching.
type Entity uint64

// NoEntity is never alive.
const NoEntity Entity = 0

const slotBits = 32

func newEntity(slot, gen uint32) Entity {
	return Entity(uint64(gen)<<slotBits | uint64(slot))
}

func (e Entity) slot() uint32 {
	return uint32(e)
}

func (e Entity) gen() uint32 {
	return uint32(uint64(e) >> slotBits)
}

// String renders the handle as slot.generation, e.g. "12.0".
func (e Entity) String() string {
	if e == NoEntity {
		return "none"
	}
	return fmt.Sprintf("%d.%d", e.slot(), e.gen())
}

func (e Entity) Valid() bool {
	return e.slot() != 0
}

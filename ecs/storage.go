package ecs

// entityStore tracks slot generations, free slots and the order in which
// live entities were created. Slots start at 1 so NoEntity is never valid.
type entityStore struct {
	gen   []uint32
	alive []bool
	born  []uint64
	free  []uint32
	seq   uint64
	live  int
}

func (s *entityStore) create() Entity {
	if s == nil {
		return NoEntity
	}
	var slot uint32
	if n := len(s.free); n > 0 {
		slot = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gen = append(s.gen, 0)
		s.alive = append(s.alive, false)
		s.born = append(s.born, 0)
		slot = uint32(len(s.gen))
	}
	s.seq++
	s.alive[slot-1] = true
	s.born[slot-1] = s.seq
	s.live++
	return newEntity(slot, s.gen[slot-1])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	idx := e.slot() - 1
	s.alive[idx] = false
	s.gen[idx]++
	s.free = append(s.free, e.slot())
	s.live--
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	if s == nil || !e.Valid() {
		return false
	}
	slot := e.slot()
	if int(slot) > len(s.gen) {
		return false
	}
	return s.alive[slot-1] && s.gen[slot-1] == e.gen()
}

// order is e's creation sequence number; reused slots get a fresh one.
func (s *entityStore) order(e Entity) uint64 {
	if s == nil || !e.Valid() || int(e.slot()) > len(s.born) {
		return 0
	}
	return s.born[e.slot()-1]
}

func (s *entityStore) count() int {
	if s == nil {
		return 0
	}
	return s.live
}

package ecs

import (
	"fmt"
	"sort"

	"github.com/milk9111/mockups/ecs/component"
	"github.com/milk9111/mockups/render"
)

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// RenderSystem draws the world onto a surface.
type RenderSystem interface {
	Draw(w *World, dst render.Surface)
}

// World owns entities, components, and system order.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	systems  []System
	renders  []RenderSystem
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	if w == nil {
		return NoEntity
	}
	return w.entities.create()
}

// DestroyEntity removes an entity and all of its components.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return w.entities.count()
}

// Census counts stored components by registered name.
func (w *World) Census() map[string]int {
	if w == nil {
		return nil
	}
	out := make(map[string]int, len(w.stores))
	for id, s := range w.stores {
		if s.Len() == 0 {
			continue
		}
		name := component.Name(id)
		if name == "" {
			name = fmt.Sprintf("component#%d", id)
		}
		out[name] += s.Len()
	}
	return out
}

// AddSystem appends a system to the update order. Systems that also
// implement RenderSystem are drawn in the same order.
func (w *World) AddSystem(s System) {
	if w == nil || s == nil {
		return
	}
	w.systems = append(w.systems, s)
	if rs, ok := s.(RenderSystem); ok {
		w.renders = append(w.renders, rs)
	}
}

// AddRenderSystem appends a draw-only system.
func (w *World) AddRenderSystem(rs RenderSystem) {
	if w == nil || rs == nil {
		return
	}
	w.renders = append(w.renders, rs)
}

// Update runs all systems once.
func (w *World) Update() {
	if w == nil {
		return
	}
	for _, s := range w.systems {
		if s != nil {
			s.Update(w)
		}
	}
	w.events.flush()
}

// Draw calls all render systems.
func (w *World) Draw(dst render.Surface) {
	if w == nil || dst == nil {
		return
	}
	for _, rs := range w.renders {
		rs.Draw(w, dst)
	}
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w == nil {
		return nil
	}
	if w.stores == nil {
		if !create {
			return nil
		}
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// Query returns the entities that carry every given component kind, in
// creation order.
func (w *World) Query(kinds ...component.Kinded) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k.ID(), false)
		if s == nil || s.Len() == 0 {
			return nil
		}
		sets = append(sets, s)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Len() < sets[j].Len() })

	out := make([]Entity, 0, sets[0].Len())
outer:
	for _, e := range sets[0].Entities() {
		for _, s := range sets[1:] {
			if !s.Has(e) {
				continue outer
			}
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return w.entities.order(out[i]) < w.entities.order(out[j]) })
	return out
}

// First returns the first entity carrying kind.
func (w *World) First(kind component.Kinded) (Entity, bool) {
	ents := w.Query(kind)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}

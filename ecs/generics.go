package ecs

import "github.com/milk9111/mockups/ecs/component"

// Add attaches value to e, replacing any previous component of the same kind.
func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value *T) error {
	if !handle.Valid() {
		return component.ErrInvalidHandle
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !w.IsAlive(e) {
		return component.ErrEntityNotAlive
	}
	w.store(handle.ID(), true).Set(e, value)
	return nil
}

// Remove detaches the component of handle's kind from e.
func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	s := w.store(handle.ID(), false)
	if s == nil {
		return false
	}
	return s.Remove(e)
}

// Has reports whether e carries the component.
func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	s := w.store(handle.ID(), false)
	return s != nil && s.Has(e)
}

// Get returns e's component. The pointer aliases world storage, so writes
// through it are visible to later systems in the same frame.
func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (*T, bool) {
	s := w.store(handle.ID(), false)
	if s == nil {
		return nil, false
	}
	v, ok := s.Get(e).(*T)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// ForEach visits every entity carrying the component, in creation order.
func ForEach[T any](w *World, handle component.ComponentHandle[T], fn func(e Entity, v *T)) {
	for _, e := range w.Query(handle) {
		if v, ok := Get(w, e, handle); ok {
			fn(e, v)
		}
	}
}

// ForEach2 visits entities carrying both components.
func ForEach2[A, B any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], fn func(e Entity, a *A, b *B)) {
	for _, e := range w.Query(ha, hb) {
		a, okA := Get(w, e, ha)
		b, okB := Get(w, e, hb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

// Single returns the component of the first entity that carries it. It is
// used for per-world singletons such as the field and the pointer.
func Single[T any](w *World, handle component.ComponentHandle[T]) (*T, bool) {
	e, ok := w.First(handle)
	if !ok {
		return nil, false
	}
	return Get(w, e, handle)
}

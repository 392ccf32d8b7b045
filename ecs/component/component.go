package component

import (
	"errors"
	"sync"
	"sync/atomic"
)

var (
	ErrEntityNotAlive = errors.New("ecs: entity not alive")
	ErrNilComponent   = errors.New("ecs: component is nil")
	ErrInvalidHandle  = errors.New("ecs: invalid component handle")
)

// ComponentID identifies one component kind across every World.
type ComponentID uint32

var (
	nextID atomic.Uint32
	names  sync.Map // ComponentID -> string
)

// ComponentHandle is the typed key for one kind of component. Declare one
// per type at package level; the zero handle is invalid.
type ComponentHandle[T any] struct {
	id   ComponentID
	name string
}

// NewComponent registers a component kind under name. The name keys the
// world census.
func NewComponent[T any](name string) ComponentHandle[T] {
	id := ComponentID(nextID.Add(1))
	names.Store(id, name)
	return ComponentHandle[T]{id: id, name: name}
}

func (h ComponentHandle[T]) ID() ComponentID {
	return h.id
}

func (h ComponentHandle[T]) Valid() bool {
	return h.id != 0
}

func (h ComponentHandle[T]) String() string {
	return h.name
}

// Kinded is any component handle, whatever its type parameter.
type Kinded interface {
	ID() ComponentID
}

// Name returns the name id was registered under, or "".
func Name(id ComponentID) string {
	if v, ok := names.Load(id); ok {
		return v.(string)
	}
	return ""
}

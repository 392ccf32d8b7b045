package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/mockups/ecs"
	"github.com/milk9111/mockups/ecs/component"
	"github.com/milk9111/mockups/variants"
)

func loadSpec(t *testing.T, name string) *variants.Spec {
	t.Helper()
	spec, err := variants.ByName(name)
	require.NoError(t, err)
	return spec
}

// fieldWorld returns a world holding only the field and pointer entity.
func fieldWorld(t *testing.T, w, h float64, ptr cp.Vector) (*ecs.World, *component.Field, *component.Pointer) {
	t.Helper()
	world := ecs.NewWorld()
	e := world.CreateEntity()
	require.NoError(t, ecs.Add(world, e, component.FieldComponent, &component.Field{Width: w, Height: h, Scale: 1}))
	require.NoError(t, ecs.Add(world, e, component.PointerComponent, &component.Pointer{Raw: ptr, Target: ptr, Smooth: ptr}))
	field, _ := ecs.Single(world, component.FieldComponent)
	pointer, _ := ecs.Single(world, component.PointerComponent)
	return world, field, pointer
}

func addBody(t *testing.T, w *ecs.World, group int, b component.Body) (ecs.Entity, *component.Body) {
	t.Helper()
	e := w.CreateEntity()
	require.NoError(t, ecs.Add(w, e, component.BodyComponent, &b))
	require.NoError(t, ecs.Add(w, e, component.GroupComponent, &component.Group{Index: group}))
	got, ok := ecs.Get(w, e, component.BodyComponent)
	require.True(t, ok)
	return e, got
}

package system

import (
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/mockups/ecs"
	"github.com/milk9111/mockups/ecs/component"
	"github.com/milk9111/mockups/variants"
)

func TestCharge(t *testing.T) {
	node := variants.EnergySpec{Charge: true, Decay: 0.95, Gain: 0.08, Radius: 180, Max: 1}
	tile := variants.EnergySpec{Decay: 0.9, Gain: 0.11, Radius: 210, Max: 1.2}
	cases := []struct {
		name string
		e    float64
		pull float64
		spec variants.EnergySpec
		want float64
	}{
		{"charge_adds", 0.5, 0.5, node, 0.54},
		{"charge_clamps", 0.99, 1, node, 1},
		{"charge_decays_outside", 0.5, 0, node, 0.475},
		{"accumulate", 1, 0.5, tile, 0.9 + 0.055},
		{"accumulate_idle", 1, 0, tile, 0.9},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, Charge(c.e, c.pull, c.spec), 1e-12)
		})
	}
}

func TestPulsesAdvanceAndEnergizeTiles(t *testing.T) {
	spec := loadSpec(t, "planning-matrix")
	w, _, _ := fieldWorld(t, 800, 600, cp.Vector{X: -1000, Y: -1000})
	field, _ := w.First(component.FieldComponent)
	paths := [][]cp.Vector{
		{{X: 100, Y: 100}, {X: 200, Y: 100}, {X: 300, Y: 100}},
		{{X: 100, Y: 300}, {X: 300, Y: 300}},
	}
	require.NoError(t, ecs.Add(w, field, component.RoutesComponent, &component.Routes{Paths: paths}))

	pe, pulse := addBody(t, w, 0, component.Body{Size: 3})
	route := &component.Route{Index: 0, Segment: 0, Progress: 0.5, Speed: 0.01}
	require.NoError(t, ecs.Add(w, pe, component.RouteComponent, route))

	_, tile := addBody(t, w, 1, component.Body{Pos: cp.Vector{X: 150, Y: 110}, Anchor: cp.Vector{X: 150, Y: 110}})

	rs := NewRouteSystem(spec, rand.New(rand.NewSource(7)))
	rs.Update(w)
	assert.InDelta(t, 0.51, route.Progress, 1e-12)
	assert.InDelta(t, 151, pulse.Pos.X, 1e-9)
	assert.Equal(t, pulse.Pos, pulse.Anchor)
	assert.Greater(t, tile.Energy, 0.0)
	assert.Zero(t, pulse.Influence)

	route.Progress = 0.995
	rs.Update(w)
	assert.Equal(t, 1, route.Segment)
	assert.Zero(t, route.Progress)

	route.Progress = 0.995
	rs.Update(w)
	assert.Zero(t, route.Segment)
	assert.GreaterOrEqual(t, route.Speed, 0.007)
	assert.LessOrEqual(t, route.Speed, 0.019)
}

func TestPulsePoint(t *testing.T) {
	paths := [][]cp.Vector{{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}}
	cases := []struct {
		name  string
		route component.Route
		want  cp.Vector
	}{
		{"start", component.Route{}, cp.Vector{}},
		{"mid_first", component.Route{Progress: 0.5}, cp.Vector{X: 5}},
		{"mid_second", component.Route{Segment: 1, Progress: 0.25}, cp.Vector{X: 10, Y: 2.5}},
		{"past_end", component.Route{Segment: 5}, cp.Vector{X: 10, Y: 10}},
		{"bad_route", component.Route{Index: 4}, cp.Vector{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, PulsePoint(paths, &c.route))
		})
	}
}

func TestEnergySystemChargesNearPointer(t *testing.T) {
	spec := loadSpec(t, "cursor-network")
	w, _, _ := fieldWorld(t, 800, 600, cp.Vector{X: 100, Y: 100})
	_, near := addBody(t, w, 0, component.Body{Pos: cp.Vector{X: 110, Y: 100}})
	_, far := addBody(t, w, 0, component.Body{Pos: cp.Vector{X: 700, Y: 500}, Energy: 0.5})

	NewEnergySystem(spec).Update(w)
	assert.Greater(t, near.Energy, 0.0)
	assert.InDelta(t, 0.475, far.Energy, 1e-12)

}

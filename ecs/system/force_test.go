package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/mockups/common"
	"github.com/milk9111/mockups/ecs/component"
	"github.com/milk9111/mockups/variants"
)

func testBody(anchor cp.Vector) component.Body {
	return component.Body{
		Pos:    anchor.Add(cp.Vector{X: 6, Y: -4}),
		Vel:    cp.Vector{X: 1.5, Y: 2},
		Anchor: anchor,
		Z:      0.3,
		VZ:     0.05,
		Size:   4,
		RX:     9,
		RY:     7,
		Seed:   1.7,
		AngVel: cp.Vector{X: 0.01, Y: -0.02},
	}
}

func TestStepSettlesWithPointerFarAway(t *testing.T) {
	far := cp.Vector{X: 1e6, Y: 1e6}
	for _, name := range variants.List() {
		spec := loadSpec(t, name)
		for gi := range spec.Groups {
			g := &spec.Groups[gi]
			t.Run(name+"/"+g.Name, func(t *testing.T) {
				b := testBody(cp.Vector{X: 1, Y: 2})
				for i := 0; i < 3000; i++ {
					Step(&b, &g.Forces, far, 0, float64(i)/60)
				}
				assert.Less(t, b.Vel.Length(), 1e-4)
				assert.Less(t, math.Abs(b.VZ), 1e-4)
				if g.Forces.Spin.Coupling != 0 {
					assert.Less(t, b.AngVel.Length(), 1e-4)
				}
				if g.Forces.Spring > 0 {
					assert.Less(t, b.Pos.Sub(b.Anchor).Length(), 1e-3)
				}
			})
		}
	}
}

func TestStepSettlesWithStationaryPointerNearby(t *testing.T) {
	spec := loadSpec(t, "consensus-orbs")
	f := &spec.Groups[0].Forces
	anchor := cp.Vector{X: 400, Y: 300}

	cases := []struct {
		name string
		ptr  cp.Vector
	}{
		{"on anchor", anchor},
		{"half pixel", anchor.Add(cp.Vector{X: 0.5})},
		{"two pixels", anchor.Add(cp.Vector{X: 2})},
		{"five pixels", anchor.Add(cp.Vector{Y: 5})},
		{"forty pixels", anchor.Add(cp.Vector{X: 40})},
		{"diagonal", cp.Vector{X: 480, Y: 330}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := testBody(anchor)
			for i := 0; i < 6000; i++ {
				Step(&b, f, c.ptr, 0, float64(i)/60)
			}
			assert.Less(t, b.Vel.Length(), 1e-3)
			assert.Greater(t, b.Influence, 0.0)
		})
	}
}

func TestSwirlFadeRadius(t *testing.T) {
	cases := []struct {
		name string
		f    variants.ForceSpec
		want float64
	}{
		{"explicit", variants.ForceSpec{InfluenceRadius: 260, SwirlFade: 12}, 12},
		{"from radius", variants.ForceSpec{InfluenceRadius: 260}, 7.8},
		{"no radius", variants.ForceSpec{}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, c.f.SwirlFadeRadius(), 1e-9)
		})
	}
}

func TestStepPushesAwayFromPointer(t *testing.T) {
	spec := loadSpec(t, "consensus-orbs")
	f := &spec.Groups[0].Forces
	ptr := cp.Vector{X: 400, Y: 300}
	b := component.Body{Pos: cp.Vector{X: 430, Y: 300}, Anchor: cp.Vector{X: 430, Y: 300}, RX: 9, RY: 7}

	Step(&b, f, ptr, 0.5, 0)
	assert.Greater(t, b.Pos.X, 430.0)
	assert.InDelta(t, common.Falloff(30, f.InfluenceRadius), b.Influence, 1e-9)
}

func TestStepStaysFiniteOnPointer(t *testing.T) {
	for _, name := range variants.List() {
		spec := loadSpec(t, name)
		for gi := range spec.Groups {
			g := &spec.Groups[gi]
			t.Run(name+"/"+g.Name, func(t *testing.T) {
				ptr := cp.Vector{X: 3, Y: 4}
				b := component.Body{Pos: ptr, Anchor: ptr, Size: 1, RX: 1, RY: 1}
				for i := 0; i < 10; i++ {
					Step(&b, &g.Forces, ptr, 1.2, float64(i)/60)
					require.True(t, common.Finite(b.Pos.X, b.Pos.Y, b.Vel.X, b.Vel.Y, b.Z, b.VZ, b.Rot[0], b.Rot[1], b.Rot[2]))
				}
			})
		}
	}
}

func TestStepResetsNonFiniteBody(t *testing.T) {
	f := &variants.ForceSpec{Spring: 0.02, Damping: 0.9}
	b := component.Body{
		Pos:     cp.Vector{X: 1, Y: 1},
		Vel:     cp.Vector{X: math.NaN(), Y: 0},
		Anchor:  cp.Vector{X: 5, Y: 6},
		AnchorZ: -1,
		VZ:      math.Inf(1),
	}
	Step(&b, f, cp.Vector{}, 0, 0)
	assert.Equal(t, cp.Vector{X: 5, Y: 6}, b.Pos)
	assert.Equal(t, cp.Vector{}, b.Vel)
	assert.Equal(t, -1.0, b.Z)
	assert.Zero(t, b.VZ)
}

func TestStepResetsNonFiniteOrientation(t *testing.T) {
	f := &variants.ForceSpec{Spring: 0.02, Damping: 0.9}
	cases := []struct {
		name    string
		corrupt func(b *component.Body)
	}{
		{"angle", func(b *component.Body) { b.Angle = math.NaN() }},
		{"spin", func(b *component.Body) { b.Spin = math.Inf(-1) }},
		{"rot x", func(b *component.Body) { b.Rot[0] = math.Inf(1) }},
		{"rot z", func(b *component.Body) { b.Rot[2] = math.NaN() }},
		{"energy", func(b *component.Body) { b.Energy = math.NaN() }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := component.Body{
				Pos:    cp.Vector{X: 3, Y: 3},
				Vel:    cp.Vector{X: 1},
				Anchor: cp.Vector{X: 5, Y: 6},
				Rot:    [3]float64{0.1, 0.2, 0.3},
				Energy: 0.4,
			}
			c.corrupt(&b)
			Step(&b, f, cp.Vector{X: 1e6}, 0, 0)
			assert.Equal(t, cp.Vector{X: 5, Y: 6}, b.Pos)
			assert.Equal(t, cp.Vector{}, b.Vel)
			assert.True(t, common.Finite(b.Angle, b.Spin, b.Rot[0], b.Rot[1], b.Rot[2], b.Energy))
		})
	}
}

func TestSeparateSplitsOverlappingBodies(t *testing.T) {
	sep := variants.SeparationSpec{Factor: 0.9, Strength: 0.014}
	cases := []struct {
		name string
		a, b cp.Vector
	}{
		{"overlapping", cp.Vector{X: 10, Y: 10}, cp.Vector{X: 14, Y: 10}},
		{"coincident", cp.Vector{X: 10, Y: 10}, cp.Vector{X: 10, Y: 10}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := &component.Body{Pos: c.a, RX: 9}
			b := &component.Body{Pos: c.b, RX: 9}
			Separate([]*component.Body{a, b}, sep, 1e-4)

			require.True(t, common.Finite(a.Vel.X, a.Vel.Y, b.Vel.X, b.Vel.Y))
			assert.Greater(t, a.Vel.Length(), 0.0)
			assert.InDelta(t, 0, a.Vel.Add(b.Vel).Length(), 1e-12)
			if c.a != c.b {
				assert.Less(t, a.Vel.X, 0.0)
			}

			// Same inputs, same split.
			a2 := &component.Body{Pos: c.a, RX: 9}
			b2 := &component.Body{Pos: c.b, RX: 9}
			Separate([]*component.Body{a2, b2}, sep, 1e-4)
			assert.Equal(t, a.Vel, a2.Vel)
		})
	}
}

func TestSeparateIgnoresDistantBodies(t *testing.T) {
	a := &component.Body{Pos: cp.Vector{}, RX: 9}
	b := &component.Body{Pos: cp.Vector{X: 40}, RX: 9}
	Separate([]*component.Body{a, b}, variants.SeparationSpec{Factor: 0.9, Strength: 0.014}, 1e-4)
	assert.Equal(t, cp.Vector{}, a.Vel)
	assert.Equal(t, cp.Vector{}, b.Vel)
}

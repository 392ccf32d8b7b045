package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/mockups/ecs"
	"github.com/milk9111/mockups/ecs/component"
	"github.com/milk9111/mockups/variants"
)

func TestIdlePathPeriod(t *testing.T) {
	cases := []struct {
		name   string
		path   IdlePath
		period float64
		still  bool
	}{
		{"two_axes", IdlePath{Center: [2]float64{0.55, 0.5}, Amplitude: [2]float64{0.07, 0.1}, Freq: [2]float64{0.42, 0.5}}, 100 * math.Pi, false},
		{"equal_freqs", IdlePath{Center: [2]float64{0.5, 0.5}, Amplitude: [2]float64{0.1, 0.1}, Freq: [2]float64{0.5, 0.5}}, 4 * math.Pi, false},
		{"one_axis", IdlePath{Center: [2]float64{0.5, 0.5}, Amplitude: [2]float64{0.1, 0}, Freq: [2]float64{0.5, 0.7}}, 4 * math.Pi, false},
		{"stationary", IdlePath{Center: [2]float64{0.5, 0.5}}, 0, true},
		{"no_freq", IdlePath{Center: [2]float64{0.5, 0.5}, Amplitude: [2]float64{0.1, 0.1}}, 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := c.path.Period()
			assert.InDelta(t, c.period, p, 1e-6)
			assert.Equal(t, c.still, c.path.Still())
			for _, at := range []float64{0, 1.3, 17.25} {
				a := c.path.At(at, 800, 600)
				b := c.path.At(at+p, 800, 600)
				assert.InDelta(t, a.X, b.X, 1e-6)
				assert.InDelta(t, a.Y, b.Y, 1e-6)
			}
		})
	}
}

func TestIdlePathIsContinuous(t *testing.T) {
	for _, name := range variants.List() {
		t.Run(name, func(t *testing.T) {
			spec := loadSpec(t, name)
			path := NewIdlePath(spec.Pointer.Idle)
			prev := path.At(0, 800, 600)
			for i := 1; i <= 2000; i++ {
				cur := path.At(float64(i)/60, 800, 600)
				// One frame never moves further than the amplitude times the
				// frequency allows.
				assert.Less(t, cur.Sub(prev).Length(), 5.0)
				prev = cur
			}
		})
	}
}

func TestPointerTrackApproachesTarget(t *testing.T) {
	for _, k := range []float64{0.05, 0.11, 1} {
		ps := &PointerSystem{spec: variants.PointerSpec{Smoothing: k, SpeedGain: 1}}
		p := &component.Pointer{}
		target := cp.Vector{X: 300, Y: -120}
		prev := target.Length()
		for i := 0; i < 400; i++ {
			ps.Track(p, target)
			d := p.Smooth.Sub(target).Length()
			require.LessOrEqual(t, d, prev, "smoothing %v frame %d", k, i)
			// Never overshoots: every step lands on the segment towards the
			// target.
			require.LessOrEqual(t, p.Smooth.Length(), target.Length()+1e-9)
			prev = d
		}
		assert.InDelta(t, 0, prev, 1e-3)
	}
}

func TestPointerSpeedCapAndSmoothing(t *testing.T) {
	ps := &PointerSystem{spec: variants.PointerSpec{Smoothing: 1, SpeedGain: 2.2, SpeedCap: 1.2, SpeedSmoothing: 0.15}}
	p := &component.Pointer{}
	ps.Track(p, cp.Vector{X: 10})
	assert.InDelta(t, 1.2*0.15, p.Speed, 1e-9)

	for i := 0; i < 200; i++ {
		ps.Track(p, cp.Vector{X: 10 + float64(i+1)*10})
	}
	assert.InDelta(t, 1.2, p.Speed, 1e-6)

	for i := 0; i < 400; i++ {
		ps.Track(p, p.Smooth)
	}
	assert.InDelta(t, 0, p.Speed, 1e-6)
}

func TestPointerSystemEvents(t *testing.T) {
	spec := loadSpec(t, "consensus-orbs")
	w, field, p := fieldWorld(t, 800, 600, cp.Vector{X: 448, Y: 300})
	ps := NewPointerSystem(spec)
	w.AddSystem(ps)

	w.Events().Push(ecs.Event{Kind: ecs.EventPointerEnter, X: 400, Y: 300})
	w.Update()
	assert.True(t, p.Active)
	assert.Equal(t, cp.Vector{X: 400, Y: 300}, p.Target)

	w.Events().Push(ecs.Event{Kind: ecs.EventPointerMove, X: 450, Y: 320})
	w.Update()
	assert.Equal(t, cp.Vector{X: 450, Y: 320}, p.Raw)
	assert.Greater(t, p.Speed, 0.0)

	w.Events().Push(ecs.Event{Kind: ecs.EventPointerLeave})
	before := p.Smooth
	w.Update()
	assert.False(t, p.Active)
	assert.Equal(t, ps.Idle.At(field.Time, 800, 600), p.Target)
	// Switching to the idle path only moves the smoothed pointer a fraction
	// of the way.
	assert.LessOrEqual(t, p.Smooth.Sub(before).Length(), before.Sub(p.Target).Length()*spec.Pointer.Smoothing+1e-9)
	assert.Zero(t, w.Events().Len())
}

func TestPointerSystemHoldsTargetWithStillIdle(t *testing.T) {
	spec := loadSpec(t, "liquid-glass")
	ps := NewPointerSystem(spec)
	require.True(t, ps.Idle.Still())

	home := ps.mapping.ToField(cp.Vector{X: 640, Y: 360}, 1280, 720)
	w, _, p := fieldWorld(t, 1280, 720, home)
	w.AddSystem(ps)

	w.Events().Push(ecs.Event{Kind: ecs.EventPointerEnter, X: 1100, Y: 120})
	w.Update()
	held := ps.mapping.ToField(cp.Vector{X: 1100, Y: 120}, 1280, 720)
	assert.Equal(t, held, p.Target)

	w.Events().Push(ecs.Event{Kind: ecs.EventPointerLeave})
	for i := 0; i < 600; i++ {
		w.Update()
		require.Equal(t, held, p.Target)
	}
	assert.False(t, p.Active)
	assert.InDelta(t, held.X, p.Smooth.X, 1e-6)
	assert.InDelta(t, held.Y, p.Smooth.Y, 1e-6)
}

func TestMappingToField(t *testing.T) {
	world := Mapping{Space: variants.SpaceWorld, Extent: [2]float64{5.2, 3.1}}
	cases := []struct {
		name string
		m    Mapping
		px   cp.Vector
		want cp.Vector
	}{
		{"screen_identity", Mapping{Space: variants.SpaceScreen}, cp.Vector{X: 12, Y: 34}, cp.Vector{X: 12, Y: 34}},
		{"world_center", world, cp.Vector{X: 400, Y: 300}, cp.Vector{}},
		{"world_top_left", world, cp.Vector{}, cp.Vector{X: -5.2, Y: 3.1}},
		{"world_bottom_right", world, cp.Vector{X: 800, Y: 600}, cp.Vector{X: 5.2, Y: -3.1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.m.ToField(c.px, 800, 600)
			assert.InDelta(t, c.want.X, got.X, 1e-9)
			assert.InDelta(t, c.want.Y, got.Y, 1e-9)
		})
	}
}

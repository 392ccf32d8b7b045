package system

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/mockups/common"
	"github.com/milk9111/mockups/ecs"
	"github.com/milk9111/mockups/ecs/component"
	"github.com/milk9111/mockups/variants"
)

// Lane ribbons wrap bodies from the right edge back to the left.
const (
	LaneWrapEnd   = 1.02
	LaneWrapStart = -0.02
)

// LanePoint returns the point at parameter t along lane l at time seconds.
func LanePoint(l variants.LaneSpec, t, time, w, h float64) cp.Vector {
	waveA := math.Sin(t*math.Pi*2.1+time*l.Speed+l.Phase) * l.Amplitude * h
	waveB := math.Sin(t*math.Pi*7.4+time*(l.Speed+0.4)+l.Phase) * l.Amplitude * h * 0.35
	return cp.Vector{X: t * w, Y: l.YRatio*h + waveA + waveB}
}

// RingCenter is the rest centre of every ring of a ring layout.
func RingCenter(r variants.RingSpec, w, h float64) cp.Vector {
	return cp.Vector{X: r.Center[0] * w, Y: r.Center[1] * h}
}

// OrbitAnchor is the drifting orbit of the liquid glass orbs.
func OrbitAnchor(o *component.Orbit, phase, seed, t float64) (cp.Vector, float64) {
	ot := t*(0.14+o.Layer*0.08) + phase
	drift := 0.78 + math.Sin(t*0.24+seed)*0.24
	x := math.Cos(ot) * o.Radius * drift
	y := math.Sin(ot*1.1+seed)*o.Height + math.Sin(t*0.46+seed)*0.28
	z := math.Sin(t*0.6+phase)*0.9 + o.Depth
	return cp.Vector{X: x, Y: y}, z
}

// CurrentAnchor is the staggered orbit of the glass current capsules.
func CurrentAnchor(o *component.Orbit, phase, seed, t float64) (cp.Vector, float64) {
	tt := t*(0.16+float64(o.Slot%5+1)*0.015) + phase
	x := math.Cos(tt)*o.Radius + math.Sin(t*0.27+seed)*0.24
	y := math.Sin(tt*1.14+seed)*o.Height + math.Cos(t*0.34+seed)*0.2
	z := math.Sin(t*0.5+phase)*0.8 + o.Depth
	return cp.Vector{X: x, Y: y}, z
}

// PathSystem moves anchors along each layout's path. Carried layouts (ring
// tokens, lane particles) shift the body by the anchor delta so it keeps
// its pointer-induced offset.
type PathSystem struct {
	spec *variants.Spec
}

func NewPathSystem(spec *variants.Spec) *PathSystem {
	return &PathSystem{spec: spec}
}

func (ps *PathSystem) Update(w *ecs.World) {
	if ps == nil || ps.spec == nil || w == nil {
		return
	}
	field, ok := ecs.Single(w, component.FieldComponent)
	if !ok {
		return
	}
	pointer, ok := ecs.Single(w, component.PointerComponent)
	if !ok {
		return
	}
	t := field.Time

	type ringRef struct {
		body *component.Body
		ring *component.Ring
	}
	rings := make(map[int]ringRef)
	ringCount := map[int]int{}
	ecs.ForEach2(w, component.RingComponent, component.GroupComponent, func(_ ecs.Entity, _ *component.Ring, g *component.Group) {
		ringCount[g.Index]++
	})

	ecs.ForEach2(w, component.BodyComponent, component.GroupComponent, func(e ecs.Entity, b *component.Body, g *component.Group) {
		if g.Index < 0 || g.Index >= len(ps.spec.Groups) {
			return
		}
		layout := &ps.spec.Groups[g.Index].Layout
		switch layout.Kind {
		case variants.LayoutGrid3D:
			wave, ok := ecs.Get(w, e, component.WaveComponent)
			if !ok {
				return
			}
			b.Anchor = cp.Vector{
				X: wave.Home[0] + math.Sin(t*layout.WaveFreq[0]+wave.Seed)*layout.Wave[0],
				Y: wave.Home[1] + math.Cos(t*layout.WaveFreq[1]+wave.Seed)*layout.Wave[1],
			}
			b.AnchorZ = wave.Home[2] + math.Sin(t*layout.WaveFreq[2]+wave.Seed)*layout.Wave[2]

		case variants.LayoutOrbit, variants.LayoutCurrent:
			orbit, ok := ecs.Get(w, e, component.OrbitComponent)
			if !ok {
				return
			}
			if layout.Kind == variants.LayoutOrbit {
				b.Anchor, b.AnchorZ = OrbitAnchor(orbit, b.Phase, b.Seed, t)
			} else {
				b.Anchor, b.AnchorZ = CurrentAnchor(orbit, b.Phase, b.Seed, t)
			}

		case variants.LayoutRing:
			ring, ok := ecs.Get(w, e, component.RingComponent)
			if !ok {
				return
			}
			rs := layout.Ring
			gain := ps.spec.Groups[g.Index].Forces.PointerGain()
			center := RingCenter(rs, field.Width, field.Height)
			depth := 1 - float64(ring.Index)/math.Max(1, float64(ringCount[g.Index]))
			i := float64(ring.Index)
			desired := cp.Vector{
				X: (pointer.Smooth.X-center.X)*rs.Couple[0]*depth*gain +
					math.Cos(t*(rs.WobbleFreq[0]+i*rs.WobbleFreq[1])+ring.Phase)*rs.Wobble[0],
				Y: (pointer.Smooth.Y-center.Y)*rs.Couple[1]*depth*gain +
					math.Sin(t*(rs.WobbleFreq[2]+i*rs.WobbleFreq[3])+ring.Phase)*rs.Wobble[1],
			}
			b.Anchor = center.Add(desired)
			rings[ring.Index] = ringRef{body: b, ring: ring}

		case variants.LayoutRingToken:
			tok, ok := ecs.Get(w, e, component.RingTokenComponent)
			if !ok {
				return
			}
			ref, ok := rings[tok.Ring]
			if !ok {
				return
			}
			tok.Angle += tok.Speed + ref.ring.Speed*layout.Rate
			carry(b, RingTokenBase(ref.body.Pos, ref.ring, tok.Angle))

		case variants.LayoutLane:
			lane, ok := ecs.Get(w, e, component.LaneComponent)
			if !ok || ps.spec.Decor.Lanes == nil {
				return
			}
			lanes := ps.spec.Decor.Lanes.Lanes
			if lane.Index < 0 || lane.Index >= len(lanes) {
				return
			}
			spec := lanes[lane.Index]
			lane.T += lane.Speed + spec.Speed*layout.Rate
			if lane.T > LaneWrapEnd {
				lane.T = LaneWrapStart
				pt := LanePoint(spec, lane.T, t, field.Width, field.Height)
				b.Anchor, b.Pos, b.Vel = pt, pt, cp.Vector{}
				return
			}
			carry(b, LanePoint(spec, lane.T, t, field.Width, field.Height))

		case variants.LayoutDrift:
			drift, ok := ecs.Get(w, e, component.DriftComponent)
			if !ok {
				return
			}
			b.Pos = b.Pos.Add(drift.Vel).Add(cp.Vector{
				X: math.Cos(t*layout.WaveFreq[0]+b.Phase) * layout.Wobble,
				Y: math.Sin(t*layout.WaveFreq[1]+b.Phase) * layout.Wobble,
			})
			if b.Pos.X < 0 || b.Pos.X > field.Width {
				drift.Vel.X = -drift.Vel.X
				b.Pos.X = common.Clamp(b.Pos.X, 0, field.Width)
			}
			if b.Pos.Y < 0 || b.Pos.Y > field.Height {
				drift.Vel.Y = -drift.Vel.Y
				b.Pos.Y = common.Clamp(b.Pos.Y, 0, field.Height)
			}
			b.Anchor = b.Pos
		}
	})
}

// RingTokenBase is the point at angle on ring r centred at centre.
func RingTokenBase(centre cp.Vector, r *component.Ring, angle float64) cp.Vector {
	return cp.Vector{
		X: centre.X + math.Cos(angle+r.Phase)*r.RX,
		Y: centre.Y + math.Sin(angle+r.Phase)*r.RY,
	}
}

func carry(b *component.Body, anchor cp.Vector) {
	b.Pos = b.Pos.Add(anchor.Sub(b.Anchor))
	b.Anchor = anchor
}

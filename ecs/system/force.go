package system

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/mockups/common"
	"github.com/milk9111/mockups/ecs"
	"github.com/milk9111/mockups/ecs/component"
	"github.com/milk9111/mockups/variants"
)

// ForceSystem applies the pointer forces, the anchor spring and damping to
// every body, then integrates one frame.
type ForceSystem struct {
	spec *variants.Spec
}

func NewForceSystem(spec *variants.Spec) *ForceSystem {
	return &ForceSystem{spec: spec}
}

func (fs *ForceSystem) Update(w *ecs.World) {
	if fs == nil || fs.spec == nil || w == nil {
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

	ecs.ForEach2(w, component.BodyComponent, component.GroupComponent, func(_ ecs.Entity, b *component.Body, g *component.Group) {
		if g.Index < 0 || g.Index >= len(fs.spec.Groups) {
			return
		}
		group := &fs.spec.Groups[g.Index]
		if group.Layout.Kind == variants.LayoutRoute {
			return
		}
		Step(b, &group.Forces, pointer.Smooth, pointer.Speed, field.Time)
	})
}

// Step advances one body by one frame under forces f with the smoothed
// pointer at ptr moving at speed. t is the field time in seconds.
func Step(b *component.Body, f *variants.ForceSpec, ptr cp.Vector, speed, t float64) {
	eps := f.Eps()
	gain := f.PointerGain()

	d := b.Pos.Sub(ptr)
	dist := d.Length()
	infl := common.Falloff(dist, f.InfluenceRadius)
	b.Influence = infl

	if infl > 0 {
		if f.Push.Active() {
			b.Vel = b.Vel.Add(d.Mult(infl * f.Push.Magnitude(speed) * gain / (dist + eps)))
		}
		if f.Swirl.Active() {
			fade := 1.0
			if r := f.SwirlFadeRadius(); r > 0 {
				fade = math.Min(1, b.Anchor.Sub(ptr).Length()/r)
			}
			b.Vel = b.Vel.Add(d.Perp().Mult(infl * f.Swirl.Magnitude(speed) * gain * fade))
		}
		if f.Pull.Active() {
			b.Vel = b.Vel.Sub(d.Mult(infl * f.Pull.Magnitude(speed) * gain))
		}
		if dp := f.Depth; dp.Base != 0 || dp.Speed != 0 {
			b.VZ += (dp.Target - b.Z) * infl * (dp.Base + dp.Speed*speed)
		}
		if f.Lift.Active() {
			b.VZ += infl * f.Lift.Magnitude(speed)
		}
		if c := f.Spin.Coupling; c != 0 {
			b.AngVel.X += d.Y * infl * c
			b.AngVel.Y += d.X * infl * c
		}
	}

	if r := f.Repel.Radius; r > 0 && dist < r {
		mag := (1 - dist/r) * (f.Repel.Base + f.Repel.Speed*speed + f.Repel.Size*b.Size) * gain
		b.Vel = b.Vel.Add(d.Mult(mag / (dist + eps)))
	}

	if r := f.Nudge.Radius; r > 0 {
		if pull := common.Falloff(dist, r); pull > 0 {
			b.Pos = b.Pos.Sub(d.Mult(f.Nudge.Scale * pull))
		}
	}

	b.Vel = b.Vel.Add(b.Anchor.Sub(b.Pos).Mult(f.Spring))
	b.VZ += (b.AnchorZ - b.Z) * f.SpringZ
	b.Vel = b.Vel.Mult(f.Damping)
	b.VZ *= f.Damping
	b.Pos = b.Pos.Add(b.Vel)
	b.Z += b.VZ

	b.Angle += b.Spin
	if sp := f.Spin; sp.Coupling != 0 || sp.Rate != [3]float64{} {
		b.AngVel = b.AngVel.Mult(sp.Damping)
		b.Rot[0] += sp.Rate[0] + b.AngVel.X
		b.Rot[1] += sp.Rate[1] + b.AngVel.Y
		b.Rot[2] += sp.Rate[2] + math.Sin(t*sp.Wobble[1]+b.Seed)*sp.Wobble[0]
	}

	if !common.Finite(b.Pos.X, b.Pos.Y, b.Vel.X, b.Vel.Y, b.Z, b.VZ, b.AngVel.X, b.AngVel.Y,
		b.Angle, b.Spin, b.Rot[0], b.Rot[1], b.Rot[2], b.Energy) {
		Reset(b)
	}
}

// Reset puts a body back on its anchor at rest.
func Reset(b *component.Body) {
	b.Pos = b.Anchor
	b.Z = b.AnchorZ
	b.Vel = cp.Vector{}
	b.VZ = 0
	b.AngVel = cp.Vector{}
	b.Influence = 0
	if !common.Finite(b.Angle, b.Spin) {
		b.Angle, b.Spin = 0, 0
	}
	if !common.Finite(b.Rot[0], b.Rot[1], b.Rot[2]) {
		b.Rot = [3]float64{}
	}
	if !common.Finite(b.Energy) {
		b.Energy = 0
	}
}

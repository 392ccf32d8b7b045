package system

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/mockups/common"
	"github.com/milk9111/mockups/ecs"
	"github.com/milk9111/mockups/ecs/component"
	"github.com/milk9111/mockups/variants"
)

// IdlePath is the pointer target used while no input is available. Centre
// and amplitude are fractions of the container; frequencies are radians per
// second for x (cosine) and y (sine).
type IdlePath struct {
	Center    [2]float64
	Amplitude [2]float64
	Freq      [2]float64
}

func NewIdlePath(spec variants.IdleSpec) IdlePath {
	return IdlePath{Center: spec.Center, Amplitude: spec.Amplitude, Freq: spec.Freq}
}

// At returns the idle target in container pixels at time t seconds.
func (p IdlePath) At(t, w, h float64) cp.Vector {
	return cp.Vector{
		X: p.Center[0]*w + math.Cos(t*p.Freq[0])*p.Amplitude[0]*w,
		Y: p.Center[1]*h + math.Sin(t*p.Freq[1])*p.Amplitude[1]*h,
	}
}

// Still reports whether the path never moves.
func (p IdlePath) Still() bool {
	for i := 0; i < 2; i++ {
		if p.Amplitude[i] != 0 && p.Freq[i] != 0 {
			return false
		}
	}
	return true
}

// Period returns the smallest T > 0 with At(t+T) == At(t), or 0 when the
// path does not move.
func (p IdlePath) Period() float64 {
	const res = 1e4
	var g int64
	for i := 0; i < 2; i++ {
		if p.Amplitude[i] == 0 || p.Freq[i] == 0 {
			continue
		}
		f := int64(math.Round(math.Abs(p.Freq[i]) * res))
		if f == 0 {
			continue
		}
		g = gcd(g, f)
	}
	if g == 0 {
		return 0
	}
	return 2 * math.Pi * res / float64(g)
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Mapping converts container pixels to field coordinates.
type Mapping struct {
	Space  variants.Space
	Extent [2]float64
}

func NewMapping(spec *variants.Spec) Mapping {
	return Mapping{Space: spec.Space, Extent: spec.Camera.Extent}
}

// ToField maps a container pixel into field space: identity for screen
// variants, normalized device coordinates times Extent (y up) for world
// variants.
func (m Mapping) ToField(px cp.Vector, w, h float64) cp.Vector {
	if m.Space != variants.SpaceWorld {
		return px
	}
	if w <= 0 || h <= 0 {
		return cp.Vector{}
	}
	return cp.Vector{
		X: (px.X/w*2 - 1) * m.Extent[0],
		Y: -(px.Y/h*2 - 1) * m.Extent[1],
	}
}

// PointerSystem smooths the raw pointer (or the idle path) into the field's
// pointer state and derives its speed.
type PointerSystem struct {
	spec    variants.PointerSpec
	mapping Mapping
	Idle    IdlePath
}

func NewPointerSystem(spec *variants.Spec) *PointerSystem {
	return &PointerSystem{
		spec:    spec.Pointer,
		mapping: NewMapping(spec),
		Idle:    NewIdlePath(spec.Pointer.Idle),
	}
}

func (ps *PointerSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	field, ok := ecs.Single(w, component.FieldComponent)
	if !ok {
		return
	}
	p, ok := ecs.Single(w, component.PointerComponent)
	if !ok {
		return
	}

	for _, evt := range w.Events().Drain() {
		switch evt.Kind {
		case ecs.EventPointerEnter, ecs.EventPointerMove:
			p.Active = true
			p.Raw = cp.Vector{X: evt.X, Y: evt.Y}
		case ecs.EventPointerLeave:
			p.Active = false
		}
	}

	// A still idle path holds the last target instead of snapping back to
	// its centre.
	if !p.Active && ps.Idle.Still() {
		ps.Track(p, p.Target)
		return
	}
	target := ps.Idle.At(field.Time, field.Width, field.Height)
	if p.Active {
		target = p.Raw
	}
	ps.Track(p, ps.mapping.ToField(target, field.Width, field.Height))
}

// Track moves the smoothed pointer one frame toward target (field space).
func (ps *PointerSystem) Track(p *component.Pointer, target cp.Vector) {
	p.Target = target
	prev := p.Smooth
	p.Smooth = p.Smooth.Add(target.Sub(p.Smooth).Mult(ps.spec.Smoothing))
	p.Vel = p.Smooth.Sub(prev)

	gain := ps.spec.SpeedGain
	if gain == 0 {
		gain = 1
	}
	raw := p.Vel.Length() * gain
	if ps.spec.SpeedCap > 0 {
		raw = math.Min(raw, ps.spec.SpeedCap)
	}
	if s := ps.spec.SpeedSmoothing; s > 0 {
		p.Speed = common.Lerp(p.Speed, raw, s)
	} else {
		p.Speed = raw
	}
}

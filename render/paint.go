package render

import (
	"image/color"
	"math"
	"sort"

	"github.com/jakecoffman/cp"
)

// Paint yields a non-premultiplied colour for a point in logical pixels.
type Paint interface {
	ColorAt(x, y float64) color.NRGBA
}

// Solid paints one colour everywhere.
type Solid color.NRGBA

func (s Solid) ColorAt(_, _ float64) color.NRGBA {
	return color.NRGBA(s)
}

type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// Stops is a sorted colour ramp over [0,1].
type Stops []Stop

// NewStops copies and sorts stops by offset.
func NewStops(stops ...Stop) Stops {
	out := make(Stops, len(stops))
	copy(out, stops)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

// At samples the ramp at t, interpolating in premultiplied space.
func (s Stops) At(t float64) color.NRGBA {
	switch {
	case len(s) == 0:
		return color.NRGBA{}
	case t <= s[0].Offset:
		return s[0].Color
	case t >= s[len(s)-1].Offset:
		return s[len(s)-1].Color
	}
	i := sort.Search(len(s), func(i int) bool { return s[i].Offset >= t })
	a, b := s[i-1], s[i]
	span := b.Offset - a.Offset
	if span <= 0 {
		return b.Color
	}
	return MixColor(a.Color, b.Color, (t-a.Offset)/span)
}

// MixColor blends two colours in premultiplied space.
func MixColor(a, b color.NRGBA, t float64) color.NRGBA {
	aa := float64(a.A) / 255
	ba := float64(b.A) / 255
	alpha := aa + (ba-aa)*t
	if alpha <= 0 {
		return color.NRGBA{}
	}
	ch := func(x, y uint8) uint8 {
		pa := float64(x) * aa
		pb := float64(y) * ba
		return clampByte((pa + (pb-pa)*t) / alpha)
	}
	return color.NRGBA{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B), A: clampByte(alpha * 255)}
}

// RadialGradient is a two-circle gradient whose inner circle is the point
// Focal and whose outer circle is centred at Center with Radius, like a
// canvas radial gradient with r0 = 0.
type RadialGradient struct {
	Focal  cp.Vector
	Center cp.Vector
	Radius float64
	Stops  Stops
}

func (g RadialGradient) ColorAt(x, y float64) color.NRGBA {
	return g.Stops.At(g.T(x, y))
}

// T solves |p - (F + t(C-F))| = t*R for the largest t, clamped to [0,1].
func (g RadialGradient) T(x, y float64) float64 {
	if g.Radius <= 0 {
		return 1
	}
	cd := g.Center.Sub(g.Focal)
	pd := cp.Vector{X: x - g.Focal.X, Y: y - g.Focal.Y}
	a := cd.Dot(cd) - g.Radius*g.Radius
	b := pd.Dot(cd)
	c := pd.Dot(pd)
	if math.Abs(a) < 1e-9 {
		if b == 0 {
			return 1
		}
		return clamp01(c / (2 * b))
	}
	disc := b*b - a*c
	if disc < 0 {
		return 1
	}
	root := math.Sqrt(disc)
	t := math.Max((b+root)/a, (b-root)/a)
	if t < 0 {
		return 1
	}
	return clamp01(t)
}

// LinearGradient ramps from From (t=0) to To (t=1).
type LinearGradient struct {
	From, To cp.Vector
	Stops    Stops
}

func (g LinearGradient) ColorAt(x, y float64) color.NRGBA {
	d := g.To.Sub(g.From)
	l2 := d.Dot(d)
	if l2 == 0 {
		return g.Stops.At(0)
	}
	t := cp.Vector{X: x - g.From.X, Y: y - g.From.Y}.Dot(d) / l2
	return g.Stops.At(clamp01(t))
}

// WithAlpha returns c with its alpha replaced by a in [0,1].
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = clampByte(a * 255)
	return c
}

// ScaleAlpha multiplies c's alpha by k.
func ScaleAlpha(c color.NRGBA, k float64) color.NRGBA {
	c.A = clampByte(float64(c.A) * k)
	return c
}

func clampByte(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

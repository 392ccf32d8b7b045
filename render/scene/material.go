package scene

import (
	"image/color"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/mockups/render"
)

type LightKind string

const (
	Ambient     LightKind = "ambient"
	Directional LightKind = "directional"
	Point       LightKind = "point"
)

type Light struct {
	Kind      LightKind
	Position  Vec3
	Intensity float64
	Color     color.NRGBA
}

// Material is a reduced physical material: enough to shade glossy glass and
// pearl spheres into a handful of gradient stops.
type Material struct {
	Color             color.NRGBA
	Roughness         float64
	Metalness         float64
	Transmission      float64
	Clearcoat         float64
	Sheen             float64
	SheenColor        color.NRGBA
	Emissive          color.NRGBA
	EmissiveIntensity float64
	Opacity           float64
}

// Shader turns a sphere silhouette into a radial gradient lit by Lights and
// viewed from Camera.
type Shader struct {
	Camera Camera
	Lights []Light
}

var shadeSamples = [...]float64{0, 0.22, 0.45, 0.68, 0.86, 1}

// Sphere shades a round body at world position pos whose silhouette on
// screen is e. tint multiplies the material colour.
func (s Shader) Sphere(m Material, tint color.NRGBA, pos Vec3, e render.Ellipse) render.RadialGradient {
	view := Vec3{0, 0, s.Camera.Z}.Sub(pos).Normalize()
	key := s.keyDirection(pos)

	// The brightest point of the silhouette sits halfway between the key
	// light and the viewer.
	h := key.Add(view).Normalize()
	hx, hy := clampDisk(h.X*0.62, -h.Y*0.62)
	focal := e.Point(hx, hy)

	base := toVec(m.Color).Hadamard(toVec(tint))
	stops := make([]render.Stop, 0, len(shadeSamples))
	rimU, rimV := 0.0, 1.0
	if l := math.Hypot(hx, hy); l > 1e-6 {
		rimU, rimV = -hx/l, -hy/l
	}
	for _, t := range shadeSamples {
		// Walk from the highlight to the far rim, away from the key light.
		u := hx + (rimU-hx)*t
		v := hy + (rimV-hy)*t
		u, v = clampDisk(u, v)
		nz := math.Sqrt(math.Max(0, 1-u*u-v*v))
		n := Vec3{u, -v, nz}
		c, a := s.shade(m, base, n, view, pos)
		stops = append(stops, render.Stop{Offset: t, Color: toNRGBA(c, a)})
	}
	return render.RadialGradient{
		Focal:  focal,
		Center: cp.Vector{X: e.CX, Y: e.CY},
		Radius: math.Max(e.RX, e.RY),
		Stops:  render.NewStops(stops...),
	}
}

func (s Shader) keyDirection(pos Vec3) Vec3 {
	best := Vec3{0.4, 0.5, 0.75}.Normalize()
	bestI := -1.0
	for _, l := range s.Lights {
		var dir Vec3
		switch l.Kind {
		case Directional:
			dir = l.Position.Normalize()
		case Point:
			dir = l.Position.Sub(pos).Normalize()
		default:
			continue
		}
		if l.Intensity > bestI {
			best, bestI = dir, l.Intensity
		}
	}
	return best
}

func (s Shader) shade(m Material, base, n, view, pos Vec3) (Vec3, float64) {
	shininess := 2 / math.Max(m.Roughness*m.Roughness, 0.002)
	diffuse := Vec3{}
	spec := Vec3{}
	for _, l := range s.Lights {
		lc := toVec(l.Color).Mul(l.Intensity)
		var dir Vec3
		switch l.Kind {
		case Ambient:
			diffuse = diffuse.Add(lc)
			continue
		case Directional:
			dir = l.Position.Normalize()
		case Point:
			d := l.Position.Sub(pos)
			dir = d.Normalize()
			lc = lc.Mul(1 / (1 + 0.02*d.Dot(d)))
		default:
			continue
		}
		ndl := math.Max(0, n.Dot(dir))
		diffuse = diffuse.Add(lc.Mul(ndl))
		h := dir.Add(view).Normalize()
		ndh := math.Max(0, n.Dot(h))
		strength := math.Pow(ndh, shininess) * (0.25 + m.Clearcoat*0.75)
		spec = spec.Add(lc.Mul(strength))
	}

	ndv := math.Max(0, n.Dot(view))
	fresnel := math.Pow(1-ndv, 3)

	albedo := base.Mul(1 - m.Metalness*0.5)
	c := albedo.Hadamard(diffuse).Mul(0.55)
	c = c.Add(spec.Mul(0.9))
	c = c.Add(toVec(m.Emissive).Mul(m.EmissiveIntensity))
	sheen := m.SheenColor
	if sheen.A == 0 {
		sheen = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	c = c.Add(toVec(sheen).Mul(m.Sheen * fresnel * 0.35))

	opacity := m.Opacity
	if opacity == 0 {
		opacity = 1
	}
	// Transmissive materials let more of the background through near the
	// centre than at grazing angles.
	alpha := opacity * (1 - m.Transmission*0.6*ndv)
	return c, alpha
}

func clampDisk(u, v float64) (float64, float64) {
	l := math.Hypot(u, v)
	if l <= 0.98 {
		return u, v
	}
	return u * 0.98 / l, v * 0.98 / l
}

func toVec(c color.NRGBA) Vec3 {
	return Vec3{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

func toNRGBA(v Vec3, a float64) color.NRGBA {
	ch := func(x float64) uint8 {
		// Soft shoulder so highlights roll off instead of clipping flat.
		x = 1 - math.Exp(-1.6*math.Max(0, x))
		return uint8(math.Min(255, x*255/(1-math.Exp(-1.6))+0.5))
	}
	return color.NRGBA{R: ch(v.X), G: ch(v.Y), B: ch(v.Z), A: uint8(math.Max(0, math.Min(1, a))*255 + 0.5)}
}

package render

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Segments picks a polygon resolution for a curve of radius r pixels.
func Segments(r float64) int {
	n := int(math.Ceil(r * 0.9))
	if n < 16 {
		return 16
	}
	if n > 96 {
		return 96
	}
	return n
}

// Outline returns n points around the ellipse, counter-clockwise in y-down
// screen space.
func (e Ellipse) Outline(n int) []cp.Vector {
	if n < 3 {
		n = 3
	}
	sin, cos := math.Sincos(e.Angle)
	pts := make([]cp.Vector, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		x := math.Cos(a) * e.RX
		y := math.Sin(a) * e.RY
		pts[i] = cp.Vector{X: e.CX + x*cos - y*sin, Y: e.CY + x*sin + y*cos}
	}
	return pts
}

// Point maps unit-disk coordinates (u, v) to the ellipse.
func (e Ellipse) Point(u, v float64) cp.Vector {
	sin, cos := math.Sincos(e.Angle)
	x := u * e.RX
	y := v * e.RY
	return cp.Vector{X: e.CX + x*cos - y*sin, Y: e.CY + x*sin + y*cos}
}

// Outline returns the rounded rectangle as a closed polygon.
func (r Rect) Outline(radius float64) []cp.Vector {
	radius = math.Max(0, math.Min(radius, math.Min(r.W, r.H)/2))
	if radius == 0 {
		return []cp.Vector{
			{X: r.X, Y: r.Y}, {X: r.X + r.W, Y: r.Y},
			{X: r.X + r.W, Y: r.Y + r.H}, {X: r.X, Y: r.Y + r.H},
		}
	}
	const arc = 6
	corners := [4]struct {
		c     cp.Vector
		start float64
	}{
		{cp.Vector{X: r.X + r.W - radius, Y: r.Y + radius}, -math.Pi / 2},
		{cp.Vector{X: r.X + r.W - radius, Y: r.Y + r.H - radius}, 0},
		{cp.Vector{X: r.X + radius, Y: r.Y + r.H - radius}, math.Pi / 2},
		{cp.Vector{X: r.X + radius, Y: r.Y + radius}, math.Pi},
	}
	pts := make([]cp.Vector, 0, 4*(arc+1))
	for _, k := range corners {
		for i := 0; i <= arc; i++ {
			a := k.start + (math.Pi/2)*float64(i)/arc
			pts = append(pts, cp.Vector{X: k.c.X + math.Cos(a)*radius, Y: k.c.Y + math.Sin(a)*radius})
		}
	}
	return pts
}

// Center returns the middle of the rectangle.
func (r Rect) Center() cp.Vector {
	return cp.Vector{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// StrokeStrip offsets a polyline by half the width on both sides and returns
// the left and right edge points. Joints are mitered, with the miter length
// capped at twice the half width. Closed strips repeat the first pair at the
// end.
func StrokeStrip(pts []cp.Vector, width float64, closed bool) (left, right []cp.Vector) {
	pts = dedupe(pts)
	if len(pts) < 2 || width <= 0 {
		return nil, nil
	}
	half := width / 2
	n := len(pts)
	left = make([]cp.Vector, 0, n+1)
	right = make([]cp.Vector, 0, n+1)
	segNormal := func(i int) cp.Vector {
		a := pts[i]
		b := pts[(i+1)%n]
		d := b.Sub(a)
		l := d.Length()
		if l == 0 {
			return cp.Vector{}
		}
		return d.Perp().Mult(1 / l)
	}
	for i := 0; i < n; i++ {
		var nrm cp.Vector
		switch {
		case !closed && i == 0:
			nrm = segNormal(0)
		case !closed && i == n-1:
			nrm = segNormal(n - 2)
		default:
			prev := segNormal((i - 1 + n) % n)
			next := segNormal(i)
			sum := prev.Add(next)
			l := sum.Length()
			if l < 1e-9 {
				nrm = next
				break
			}
			m := sum.Mult(1 / l)
			cos := m.Dot(next)
			scale := 2.0
			if cos > 0.5 {
				scale = 1 / cos
			}
			nrm = m.Mult(scale)
		}
		left = append(left, pts[i].Add(nrm.Mult(half)))
		right = append(right, pts[i].Sub(nrm.Mult(half)))
	}
	if closed {
		left = append(left, left[0])
		right = append(right, right[0])
	}
	return left, right
}

// StrokeQuads splits a stroke strip into quads with consistent winding.
func StrokeQuads(pts []cp.Vector, width float64, closed bool) [][4]cp.Vector {
	left, right := StrokeStrip(pts, width, closed)
	if len(left) < 2 {
		return nil
	}
	quads := make([][4]cp.Vector, 0, len(left)-1)
	for i := 0; i+1 < len(left); i++ {
		quads = append(quads, [4]cp.Vector{left[i], left[i+1], right[i+1], right[i]})
	}
	return quads
}

func dedupe(pts []cp.Vector) []cp.Vector {
	if len(pts) < 2 {
		return pts
	}
	out := make([]cp.Vector, 0, len(pts))
	for i, p := range pts {
		if i > 0 && p.Sub(out[len(out)-1]).Length() < 1e-9 {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Package screen implements render.Surface on an ebiten offscreen image.
package screen

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/mockups/render"
)

const (
	gradientRings = 8
	rectGrid      = 24
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// Surface draws into an offscreen image sized to the container times the
// device scale. The game copies Image onto the screen each frame.
type Surface struct {
	target *ebiten.Image
	w, h   float64
	scale  float64

	mask    *ebiten.Image
	maskKey render.Mask

	vs []ebiten.Vertex
	is []uint16
}

func New(w, h, scale float64) (*Surface, error) {
	s := &Surface{}
	if err := s.Resize(w, h, scale); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Surface) Resize(w, h, scale float64) error {
	if scale <= 0 {
		scale = 1
	}
	dw := int(math.Floor(w * scale))
	dh := int(math.Floor(h * scale))
	if dw <= 0 || dh <= 0 {
		return fmt.Errorf("screen: resize %.0fx%.0f: %w", w, h, render.ErrSurfaceUnavailable)
	}
	s.w, s.h, s.scale = w, h, scale
	if s.target != nil {
		b := s.target.Bounds()
		if b.Dx() == dw && b.Dy() == dh {
			return nil
		}
		s.target.Deallocate()
	}
	s.target = ebiten.NewImage(dw, dh)
	if s.mask != nil {
		s.mask.Deallocate()
		s.mask = nil
	}
	return nil
}

// Image is the offscreen frame.
func (s *Surface) Image() *ebiten.Image {
	return s.target
}

func (s *Surface) Scale() float64 {
	return s.scale
}

func (s *Surface) Size() (float64, float64) {
	return s.w, s.h
}

func (s *Surface) Clear() {
	if s.target != nil {
		s.target.Clear()
	}
}

func (s *Surface) FillRect(r render.Rect, p render.Paint) {
	if _, ok := p.(render.Solid); ok {
		s.fillConvex(r.Center(), r.Outline(0), p)
		return
	}
	s.fillGrid(r, p)
}

func (s *Surface) FillEllipse(e render.Ellipse, p render.Paint) {
	n := render.Segments(math.Max(e.RX, e.RY) * s.scale)
	if _, ok := p.(render.Solid); ok {
		s.fillConvex(cp.Vector{X: e.CX, Y: e.CY}, e.Outline(n), p)
		return
	}
	s.fillRings(e, n, p)
}

func (s *Surface) StrokeEllipse(e render.Ellipse, width float64, c color.NRGBA) {
	n := render.Segments(math.Max(e.RX, e.RY) * s.scale)
	s.stroke(e.Outline(n), width, true, c)
}

func (s *Surface) FillRoundedRect(r render.Rect, radius float64, p render.Paint) {
	s.fillConvex(r.Center(), r.Outline(radius), p)
}

func (s *Surface) StrokeRoundedRect(r render.Rect, radius, width float64, c color.NRGBA) {
	s.stroke(r.Outline(radius), width, true, c)
}

func (s *Surface) StrokeLine(a, b cp.Vector, width float64, c color.NRGBA) {
	s.stroke([]cp.Vector{a, b}, width, false, c)
}

func (s *Surface) StrokePolyline(pts []cp.Vector, width float64, c color.NRGBA) {
	s.stroke(pts, width, false, c)
}

func (s *Surface) ApplyMask(m render.Mask) {
	if s.target == nil {
		return
	}
	if s.mask == nil || s.maskKey != m {
		s.buildMask(m)
	}
	op := &ebiten.DrawImageOptions{Blend: ebiten.BlendDestinationIn}
	s.target.DrawImage(s.mask, op)
}

func (s *Surface) buildMask(m render.Mask) {
	b := s.target.Bounds()
	if s.mask == nil {
		s.mask = ebiten.NewImage(b.Dx(), b.Dy())
	}
	pix := make([]byte, 4*b.Dx()*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		ly := (float64(y) + 0.5) / s.scale
		for x := 0; x < b.Dx(); x++ {
			a := uint8(m.AlphaAt((float64(x)+0.5)/s.scale, ly)*255 + 0.5)
			i := 4 * (y*b.Dx() + x)
			pix[i], pix[i+1], pix[i+2], pix[i+3] = a, a, a, a
		}
	}
	s.mask.WritePixels(pix)
	s.maskKey = m
}

func (s *Surface) vertex(p cp.Vector, c color.NRGBA) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   float32(p.X * s.scale),
		DstY:   float32(p.Y * s.scale),
		SrcX:   1,
		SrcY:   1,
		ColorR: float32(c.R) / 255,
		ColorG: float32(c.G) / 255,
		ColorB: float32(c.B) / 255,
		ColorA: float32(c.A) / 255,
	}
}

func (s *Surface) flush() {
	if s.target == nil || len(s.is) == 0 {
		s.vs, s.is = s.vs[:0], s.is[:0]
		return
	}
	s.target.DrawTriangles(s.vs, s.is, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
	s.vs, s.is = s.vs[:0], s.is[:0]
}

// fillConvex draws a fan from centre over a convex outline.
func (s *Surface) fillConvex(centre cp.Vector, outline []cp.Vector, p render.Paint) {
	if p == nil || len(outline) < 3 {
		return
	}
	s.vs = append(s.vs, s.vertex(centre, p.ColorAt(centre.X, centre.Y)))
	for _, pt := range outline {
		s.vs = append(s.vs, s.vertex(pt, p.ColorAt(pt.X, pt.Y)))
	}
	n := uint16(len(outline))
	for i := uint16(0); i < n; i++ {
		s.is = append(s.is, 0, 1+i, 1+(i+1)%n)
	}
	s.flush()
}

// fillRings tessellates an ellipse into concentric rings so gradient colours
// are sampled densely enough to look smooth.
func (s *Surface) fillRings(e render.Ellipse, n int, p render.Paint) {
	centre := cp.Vector{X: e.CX, Y: e.CY}
	s.vs = append(s.vs, s.vertex(centre, p.ColorAt(centre.X, centre.Y)))
	for ring := 1; ring <= gradientRings; ring++ {
		f := float64(ring) / gradientRings
		for i := 0; i < n; i++ {
			a := 2 * math.Pi * float64(i) / float64(n)
			pt := e.Point(math.Cos(a)*f, math.Sin(a)*f)
			s.vs = append(s.vs, s.vertex(pt, p.ColorAt(pt.X, pt.Y)))
		}
	}
	idx := func(ring, i int) uint16 {
		return uint16(1 + (ring-1)*n + i%n)
	}
	for i := 0; i < n; i++ {
		s.is = append(s.is, 0, idx(1, i), idx(1, i+1))
	}
	for ring := 2; ring <= gradientRings; ring++ {
		for i := 0; i < n; i++ {
			a, b := idx(ring-1, i), idx(ring-1, i+1)
			c, d := idx(ring, i), idx(ring, i+1)
			s.is = append(s.is, a, c, d, a, d, b)
		}
	}
	s.flush()
}

func (s *Surface) fillGrid(r render.Rect, p render.Paint) {
	const n = rectGrid
	for j := 0; j <= n; j++ {
		y := r.Y + r.H*float64(j)/n
		for i := 0; i <= n; i++ {
			x := r.X + r.W*float64(i)/n
			s.vs = append(s.vs, s.vertex(cp.Vector{X: x, Y: y}, p.ColorAt(x, y)))
		}
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			a := uint16(j*(n+1) + i)
			b := a + 1
			c := a + n + 1
			d := c + 1
			s.is = append(s.is, a, c, d, a, d, b)
		}
	}
	s.flush()
}

func (s *Surface) stroke(pts []cp.Vector, width float64, closed bool, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	if dw := width * s.scale; dw < 1 && dw > 0 {
		c = render.ScaleAlpha(c, dw)
		width = 1 / s.scale
	}
	left, right := render.StrokeStrip(pts, width, closed)
	if len(left) < 2 {
		return
	}
	for i := range left {
		s.vs = append(s.vs, s.vertex(left[i], c), s.vertex(right[i], c))
	}
	for i := 0; i+1 < len(left); i++ {
		l0, r0 := uint16(2*i), uint16(2*i+1)
		l1, r1 := l0+2, r0+2
		s.is = append(s.is, l0, l1, r1, l0, r1, r0)
	}
	s.flush()
}

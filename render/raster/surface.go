// Package raster draws onto an in-memory RGBA image. It backs headless
// snapshots, tests and the software window mode.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/jakecoffman/cp"
	"golang.org/x/image/vector"

	"github.com/milk9111/mockups/render"
)

// Surface is a render.Surface over an *image.RGBA. Logical coordinates are
// multiplied by the scale factor before rasterizing.
type Surface struct {
	img   *image.RGBA
	w, h  float64
	scale float64
	z     *vector.Rasterizer
}

// New allocates a surface of w x h logical pixels at the given scale.
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
		return fmt.Errorf("raster: resize %.0fx%.0f: %w", w, h, render.ErrSurfaceUnavailable)
	}
	s.w, s.h, s.scale = w, h, scale
	if s.img != nil && s.img.Bounds().Dx() == dw && s.img.Bounds().Dy() == dh {
		return nil
	}
	s.img = image.NewRGBA(image.Rect(0, 0, dw, dh))
	s.z = vector.NewRasterizer(dw, dh)
	return nil
}

// Image returns the backing image. It is overwritten by later frames.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

func (s *Surface) Scale() float64 {
	return s.scale
}

func (s *Surface) Size() (float64, float64) {
	return s.w, s.h
}

// WritePNG encodes the current frame.
func (s *Surface) WritePNG(w io.Writer) error {
	if s.img == nil {
		return render.ErrSurfaceUnavailable
	}
	if err := png.Encode(w, s.img); err != nil {
		return fmt.Errorf("raster: encode png: %w", err)
	}
	return nil
}

func (s *Surface) Clear() {
	if s.img == nil {
		return
	}
	clear(s.img.Pix)
}

func (s *Surface) FillRect(r render.Rect, p render.Paint) {
	s.fill([][]cp.Vector{r.Outline(0)}, p)
}

func (s *Surface) FillEllipse(e render.Ellipse, p render.Paint) {
	n := render.Segments(math.Max(e.RX, e.RY) * s.scale)
	s.fill([][]cp.Vector{e.Outline(n)}, p)
}

func (s *Surface) StrokeEllipse(e render.Ellipse, width float64, c color.NRGBA) {
	n := render.Segments(math.Max(e.RX, e.RY) * s.scale)
	s.stroke(e.Outline(n), width, true, c)
}

func (s *Surface) FillRoundedRect(r render.Rect, radius float64, p render.Paint) {
	s.fill([][]cp.Vector{r.Outline(radius)}, p)
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

func (s *Surface) stroke(pts []cp.Vector, width float64, closed bool, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	// Hairlines thinner than a device pixel fade out instead of vanishing.
	if dw := width * s.scale; dw < 1 && dw > 0 {
		c = render.ScaleAlpha(c, dw)
		width = 1 / s.scale
	}
	quads := render.StrokeQuads(pts, width, closed)
	polys := make([][]cp.Vector, len(quads))
	for i := range quads {
		polys[i] = quads[i][:]
	}
	s.fill(polys, render.Solid(c))
}

// fill rasterizes the polygons as one path so overlaps are not blended
// twice.
func (s *Surface) fill(polys [][]cp.Vector, p render.Paint) {
	if s.img == nil || p == nil || len(polys) == 0 {
		return
	}
	b := s.img.Bounds()
	s.z.Reset(b.Dx(), b.Dy())
	s.z.DrawOp = draw.Over
	drawn := false
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		s.z.MoveTo(s.dev(poly[0]))
		for _, pt := range poly[1:] {
			s.z.LineTo(s.dev(pt))
		}
		s.z.ClosePath()
		drawn = true
	}
	if !drawn {
		return
	}
	s.z.Draw(s.img, b, s.source(p), image.Point{})
}

func (s *Surface) dev(v cp.Vector) (float32, float32) {
	return float32(v.X * s.scale), float32(v.Y * s.scale)
}

func (s *Surface) source(p render.Paint) image.Image {
	if solid, ok := p.(render.Solid); ok {
		return image.NewUniform(color.NRGBA(solid))
	}
	return &paintImage{paint: p, scale: s.scale, bounds: s.img.Bounds()}
}

func (s *Surface) ApplyMask(m render.Mask) {
	if s.img == nil {
		return
	}
	b := s.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		ly := (float64(y) + 0.5) / s.scale
		row := s.img.Pix[(y-b.Min.Y)*s.img.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			i := (x - b.Min.X) * 4
			if row[i+3] == 0 {
				continue
			}
			a := m.AlphaAt((float64(x)+0.5)/s.scale, ly)
			if a >= 1 {
				continue
			}
			for k := 0; k < 4; k++ {
				row[i+k] = uint8(float64(row[i+k])*a + 0.5)
			}
		}
	}
}

// AlphaAt returns the alpha of the device pixel under logical (x, y).
func (s *Surface) AlphaAt(x, y float64) uint8 {
	if s.img == nil {
		return 0
	}
	px := int(x * s.scale)
	py := int(y * s.scale)
	if !image.Pt(px, py).In(s.img.Bounds()) {
		return 0
	}
	return s.img.RGBAAt(px, py).A
}

// paintImage adapts a render.Paint to image.Image in device pixels.
type paintImage struct {
	paint  render.Paint
	scale  float64
	bounds image.Rectangle
}

func (p *paintImage) ColorModel() color.Model { return color.NRGBAModel }

func (p *paintImage) Bounds() image.Rectangle { return p.bounds }

func (p *paintImage) At(x, y int) color.Color {
	return p.paint.ColorAt((float64(x)+0.5)/p.scale, (float64(y)+0.5)/p.scale)
}

package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/mockups/render"
)

func TestNewRejectsEmptySize(t *testing.T) {
	_, err := New(0, 100, 1)
	require.ErrorIs(t, err, render.ErrSurfaceUnavailable)
}

func TestFillAndMask(t *testing.T) {
	s, err := New(200, 100, 2)
	require.NoError(t, err)
	require.Equal(t, 400, s.Image().Bounds().Dx())

	s.Clear()
	s.FillRect(render.Rect{W: 200, H: 100}, render.Solid(color.NRGBA{R: 255, G: 255, B: 255, A: 255}))
	assert.Equal(t, uint8(255), s.AlphaAt(100, 50))
	assert.Equal(t, uint8(255), s.AlphaAt(0.2, 0.2))

	s.ApplyMask(render.Mask{W: 200, H: 100, Edge: 30})
	assert.Equal(t, uint8(255), s.AlphaAt(100, 50))
	assert.LessOrEqual(t, s.AlphaAt(0, 0), uint8(1))
	assert.LessOrEqual(t, s.AlphaAt(199.9, 99.9), uint8(1))
	mid := s.AlphaAt(15, 50)
	assert.Greater(t, mid, uint8(100))
	assert.Less(t, mid, uint8(160))
}

func TestEllipseCoverage(t *testing.T) {
	s, err := New(100, 100, 1)
	require.NoError(t, err)
	s.FillEllipse(render.Circle(50, 50, 20), render.Solid(color.NRGBA{R: 200, A: 255}))
	assert.Equal(t, uint8(255), s.AlphaAt(50, 50))
	assert.Equal(t, uint8(0), s.AlphaAt(50, 75))
	assert.Equal(t, uint8(0), s.AlphaAt(10, 10))
}

func TestGradientAndStroke(t *testing.T) {
	s, err := New(120, 80, 1)
	require.NoError(t, err)
	grad := render.RadialGradient{
		Focal:  cp.Vector{X: 55, Y: 35},
		Center: cp.Vector{X: 60, Y: 40},
		Radius: 30,
		Stops: render.NewStops(
			render.Stop{Offset: 0, Color: color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
			render.Stop{Offset: 1, Color: color.NRGBA{R: 0, G: 0, B: 255, A: 255}},
		),
	}
	s.FillEllipse(render.Circle(60, 40, 25), grad)
	centre := s.Image().RGBAAt(55, 35)
	edge := s.Image().RGBAAt(60, 63)
	assert.Greater(t, centre.R, edge.R)

	s.Clear()
	s.StrokeLine(cp.Vector{X: 10, Y: 10}, cp.Vector{X: 110, Y: 10}, 4, color.NRGBA{G: 255, A: 255})
	assert.Equal(t, uint8(255), s.AlphaAt(60, 10))
	assert.Equal(t, uint8(0), s.AlphaAt(60, 20))

	s.Clear()
	s.StrokeEllipse(render.Ellipse{CX: 60, CY: 40, RX: 30, RY: 20}, 2, color.NRGBA{B: 255, A: 255})
	assert.Equal(t, uint8(0), s.AlphaAt(60, 40))
	assert.Greater(t, s.AlphaAt(90, 40), uint8(100))
}

func TestWritePNG(t *testing.T) {
	s, err := New(16, 8, 1)
	require.NoError(t, err)
	s.FillRoundedRect(render.Rect{X: 2, Y: 2, W: 12, H: 4}, 2, render.Solid(color.NRGBA{R: 10, A: 255}))

	var buf bytes.Buffer
	require.NoError(t, s.WritePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
}

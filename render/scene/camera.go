// Package scene projects world-space bodies through a perspective camera and
// shades them into gradient paints.
package scene

import (
	"math"

	"github.com/jakecoffman/cp"
)

const near = 0.1

// Camera looks down -Z from (0, 0, Z) with a vertical field of view in
// degrees, onto a viewport of W x H logical pixels.
type Camera struct {
	Z    float64
	FOV  float64
	W, H float64
}

// PixelsPerUnit returns the projected size of one world unit at depth z.
func (c Camera) PixelsPerUnit(z float64) (float64, bool) {
	dist := c.Z - z
	if dist <= near || c.H <= 0 {
		return 0, false
	}
	half := math.Tan(c.FOV * math.Pi / 360)
	if half <= 0 {
		return 0, false
	}
	return (c.H / 2) / (half * dist), true
}

// Project maps a world point to screen pixels (y down).
func (c Camera) Project(x, y, z float64) (cp.Vector, float64, bool) {
	ppu, ok := c.PixelsPerUnit(z)
	if !ok {
		return cp.Vector{}, 0, false
	}
	return cp.Vector{X: c.W/2 + x*ppu, Y: c.H/2 - y*ppu}, ppu, true
}

// Unproject maps a screen pixel back onto the plane at depth z.
func (c Camera) Unproject(px, py, z float64) (cp.Vector, bool) {
	ppu, ok := c.PixelsPerUnit(z)
	if !ok {
		return cp.Vector{}, false
	}
	return cp.Vector{X: (px - c.W/2) / ppu, Y: (c.H/2 - py) / ppu}, true
}

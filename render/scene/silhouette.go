package scene

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/mockups/render"
)

// Capsule geometry: unit radius hemispheres joined by a cylinder of this
// half length.
const capsuleHalfLength = 0.6

// SphereSilhouette returns the screen ellipse of a sphere of world radius
// size scaled by sx along x and sy along y.
func SphereSilhouette(center cp.Vector, ppu, size, sx, sy float64) render.Ellipse {
	return render.Ellipse{CX: center.X, CY: center.Y, RX: size * sx * ppu, RY: size * sy * ppu}
}

// CapsuleSilhouette approximates the outline of a capsule of radius size
// whose long axis is stretched by elong and rotated by rot.
func CapsuleSilhouette(center cp.Vector, ppu, size, elong float64, rot [3]float64) render.Ellipse {
	axis := Vec3{0, 1, 0}.Rotate(rot[0], rot[1], rot[2])
	// Screen y points down.
	sx, sy := axis.X, -axis.Y
	visible := math.Hypot(sx, sy)
	half := size * elong * (1 + capsuleHalfLength)
	radius := size * ppu
	long := math.Max(radius, (size+(half-size)*visible)*ppu)
	angle := 0.0
	if visible > 1e-6 {
		angle = math.Atan2(sy, sx)
	}
	return render.Ellipse{CX: center.X, CY: center.Y, RX: long, RY: radius, Angle: angle}
}

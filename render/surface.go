package render

import (
	"errors"
	"image/color"

	"github.com/jakecoffman/cp"
)

// ErrSurfaceUnavailable is returned when a drawing surface cannot be
// acquired. Callers treat it as "render nothing".
var ErrSurfaceUnavailable = errors.New("render: surface unavailable")

// Ellipse is centred at (CX, CY) and rotated by Angle radians.
type Ellipse struct {
	CX, CY float64
	RX, RY float64
	Angle  float64
}

// Circle returns an unrotated ellipse with equal radii.
func Circle(cx, cy, r float64) Ellipse {
	return Ellipse{CX: cx, CY: cy, RX: r, RY: r}
}

type Rect struct {
	X, Y float64
	W, H float64
}

// Surface is the drawing capability the renderer needs. Coordinates are
// logical container pixels; implementations apply their own device scale.
type Surface interface {
	Size() (w, h float64)
	Clear()
	FillRect(r Rect, p Paint)
	FillEllipse(e Ellipse, p Paint)
	StrokeEllipse(e Ellipse, width float64, c color.NRGBA)
	FillRoundedRect(r Rect, radius float64, p Paint)
	StrokeRoundedRect(r Rect, radius, width float64, c color.NRGBA)
	StrokeLine(a, b cp.Vector, width float64, c color.NRGBA)
	StrokePolyline(pts []cp.Vector, width float64, c color.NRGBA)
	// ApplyMask multiplies the alpha of everything drawn so far.
	ApplyMask(m Mask)
}

// Resizable surfaces reallocate their backing store on resize.
type Resizable interface {
	Resize(w, h, scale float64) error
}

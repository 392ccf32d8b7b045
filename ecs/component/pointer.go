package component

import "github.com/jakecoffman/cp"

// Pointer is the smoothed pointer state in field coordinates.
type Pointer struct {
	Active bool
	// Raw is the last input position in container pixels.
	Raw    cp.Vector
	Target cp.Vector
	Smooth cp.Vector
	Vel    cp.Vector
	Speed  float64
}

var PointerComponent = NewComponent[Pointer]("pointer")

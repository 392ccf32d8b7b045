package component

import "github.com/jakecoffman/cp"

// Route moves a pulse along segment Segment of route Index.
type Route struct {
	Index    int
	Segment  int
	Progress float64
	Speed    float64
}

var RouteComponent = NewComponent[Route]("route")

// Routes holds the polylines pulses travel on. It lives on the field entity
// and is rebuilt on resize.
type Routes struct {
	Paths [][]cp.Vector
}

var RoutesComponent = NewComponent[Routes]("routes")

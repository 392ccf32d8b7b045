package component

import "github.com/jakecoffman/cp"

// Drift is the free wandering velocity of a network node. It bounces off the
// field edges.
type Drift struct {
	Vel cp.Vector
}

var DriftComponent = NewComponent[Drift]("drift")

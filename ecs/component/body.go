package component

import (
	"image/color"

	"github.com/jakecoffman/cp"
)

// Body is one simulated visual element. Screen-space variants ignore the Z
// fields; world-space variants use them for depth.
type Body struct {
	Pos    cp.Vector
	Vel    cp.Vector
	Anchor cp.Vector

	Z       float64
	VZ      float64
	AnchorZ float64

	Size float64
	RX   float64
	RY   float64

	Phase float64
	Seed  float64

	Angle float64
	Spin  float64

	// Rot is the 3D orientation (x, y, z radians) and AngVel the pointer
	// induced spin around x and y.
	Rot    [3]float64
	AngVel cp.Vector

	// Influence is the pointer influence from the latest integration step.
	Influence float64
	Energy    float64

	// Tint is the per-body base colour of world-space skins.
	Tint color.NRGBA
}

var BodyComponent = NewComponent[Body]("body")

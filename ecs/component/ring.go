package component

// Ring is an orbit ellipse. Its centre is the Body position of the same
// entity, which springs toward a pointer dependent target.
type Ring struct {
	Index int
	RX    float64
	RY    float64
	Phase float64
	Speed float64
	Width float64
}

var RingComponent = NewComponent[Ring]("ring")

// RingToken rides the ellipse of ring Ring at Angle.
type RingToken struct {
	Ring  int
	Angle float64
	Speed float64
}

var RingTokenComponent = NewComponent[RingToken]("ring_token")

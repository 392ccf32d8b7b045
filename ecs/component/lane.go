package component

// Lane places a body on a ribbon lane at parameter T in [-0.02, 1.02].
type Lane struct {
	Index int
	T     float64
	Speed float64
}

var LaneComponent = NewComponent[Lane]("lane")

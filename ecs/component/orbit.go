package component

// Orbit drives the anchor of a world-space body around the scene origin.
type Orbit struct {
	Radius     float64
	Height     float64
	Depth      float64
	Layer      float64
	Elongation float64
	// Slot is the body's index inside its group; some orbit layouts use it
	// to stagger speeds.
	Slot int
}

var OrbitComponent = NewComponent[Orbit]("orbit")

// Wave drifts a fixed home position on small sinusoids.
type Wave struct {
	Home  [3]float64
	Seed  float64
	Drift float64
}

var WaveComponent = NewComponent[Wave]("wave")

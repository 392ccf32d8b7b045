package component

// Dust is the background point cloud of world-space variants.
type Dust struct {
	Points [][3]float64
}

var DustComponent = NewComponent[Dust]("dust")

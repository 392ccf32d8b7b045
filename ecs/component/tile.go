package component

// Tile is a grid cell drawn as a rounded rectangle of W x H.
type Tile struct {
	W float64
	H float64
}

var TileComponent = NewComponent[Tile]("tile")

package component

// Field describes the container the variant renders into. One field entity
// exists per world.
type Field struct {
	Width  float64
	Height float64
	// Scale is the backing store scale factor, already capped.
	Scale float64
	// Time is seconds since mount.
	Time  float64
	Frame int
}

var FieldComponent = NewComponent[Field]("field")

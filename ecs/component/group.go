package component

// Group ties a body to the body group of its variant that configures its
// layout, forces and skin.
type Group struct {
	Index int
}

var GroupComponent = NewComponent[Group]("group")

package components

// Position represents an entity's world position.
type Position struct {
	X, Y float32
}

// Velocity represents an entity's displacement per tick.
type Velocity struct {
	X, Y float32
}

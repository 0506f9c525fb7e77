package components

// Body holds physical properties of a circular entity.
type Body struct {
	Radius float32
}

package ptr

// New returns a pointer to the provided value.
func New[T any](v T) *T { return &v }

package domain

// Ptr returns a pointer to v, for building a TaskPatch inline.
func Ptr[T any](v T) *T {
	return &v
}

// CoalescePtr dereferences p, or returns fallback when p is nil.
func CoalescePtr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

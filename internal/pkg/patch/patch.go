package patch

// Coalesce returns the value pointed to by ptr if it's not nil, otherwise returns fallback
func Coalesce[T any](ptr *T, fallback T) T {
	if ptr != nil {
		return *ptr
	}
	return fallback
}

// Optional keeps a nullable field when the patch leaves it out.
// clear wins over value so a client can reset the field to nil.
func Optional[T any](value *T, clear bool, current *T) *T {
	if clear {
		return nil
	}
	if value != nil {
		return value
	}
	return current
}

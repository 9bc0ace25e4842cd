package util

// InPlaceFilter keeps the elements of s matching keep, reusing the backing array
func InPlaceFilter[T any](s []T, keep func(T) bool) []T {
	n := 0
	for _, item := range s {
		if keep(item) {
			s[n] = item
			n++
		}
	}

	var zero T
	for i := n; i < len(s); i++ {
		s[i] = zero
	}

	return s[:n]
}

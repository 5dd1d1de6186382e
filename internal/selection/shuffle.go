package selection

import "math/rand"

// Shuffle returns a uniformly permuted copy of xs (Fisher–Yates). The input
// is left untouched.
func Shuffle[T any](r *rand.Rand, xs []T) []T {
	shuffled := make([]T, len(xs))
	copy(shuffled, xs)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// take returns the first n elements, or all of them when n <= 0.
func take[T any](xs []T, n int) []T {
	if n <= 0 || n > len(xs) {
		return xs
	}
	return xs[:n]
}

package trivia

import "math/rand"

// Shuffle returns a uniformly permuted copy of in. The input is not modified.
func Shuffle[T any](in []T) []T {
	return ShuffleWith(rand.Intn, in)
}

// ShuffleWith is Shuffle with an explicit source; intn(n) must return a value
// in [0, n).
func ShuffleWith[T any](intn func(n int) int, in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j := intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

package auth

// constantTimeEqual reports whether a and b are equal without branching on
// their contents.
func constantTimeEqual(a, b []byte) bool {
	equal, _ := compareBytes(a, b)

	return equal
}

// compareBytes folds the length difference and every byte difference over the
// shorter span into one accumulator. It never exits early; visited is the
// number of byte positions examined and always equals min(len(a), len(b)).
func compareBytes(a, b []byte) (equal bool, visited int) {
	diff := uint(len(a) ^ len(b))

	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		diff |= uint(a[i] ^ b[i])
		visited++
	}

	return diff == 0, visited
}

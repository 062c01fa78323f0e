package mc

import "math/rand"

// defaultRNGSeed is used when callers pass seed==0.
const defaultRNGSeed int64 = 1

// rngFromSeed returns a deterministic *rand.Rand.
// Policy: seed==0 ⇒ defaultRNGSeed; otherwise the seed verbatim.
//
// The returned generator is NOT goroutine-safe; each optimizer owns one.
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultRNGSeed
	}

	return rand.New(rand.NewSource(seed))
}

// restartSeed returns the RNG seed of restart i of a RunRestarts batch.
// Restart 0 keeps base, so it reproduces a standalone run with the same
// Parameters. Later restarts get base and i pushed through mix64:
// math/rand sources seeded with neighbouring integers start out
// correlated, and restarts that walk similar move sequences waste the
// batch.
//
// Complexity: O(1).
func restartSeed(base int64, i int) int64 {
	if i == 0 {
		return base
	}

	return int64(mix64(uint64(base) + uint64(i)*golden))
}

// golden is the SplitMix64 increment, 2⁶⁴/φ.
const golden uint64 = 0x9e3779b97f4a7c15

// mix64 is the SplitMix64 output finalizer; every input bit affects every
// output bit.
func mix64(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb

	return z ^ (z >> 31)
}

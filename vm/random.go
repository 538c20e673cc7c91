package vm

import "math/rand"

// RandomSource is the external random-number capability spec.md §6
// requires: "an abstract provider exposing next_digit() -> integer in
// [0,9]". It is injected rather than global so tests can supply a
// deterministic stand-in (spec.md §9 "Randomness").
type RandomSource interface {
	NextDigit() int32
}

// DefaultRandomSource is the production implementation: a seedable,
// non-cryptographic PRNG, grounded the same way the teacher emulator's
// SWI_RANDOM syscall handler calls rand.Uint32() directly rather than
// reaching for crypto/rand.
type DefaultRandomSource struct {
	rng *rand.Rand
}

// NewDefaultRandomSource returns a RandomSource seeded with seed. Tests
// and the CLI's -seed flag both go through here for reproducible runs.
func NewDefaultRandomSource(seed int64) *DefaultRandomSource {
	return &DefaultRandomSource{rng: rand.New(rand.NewSource(seed))} // #nosec G404 -- non-cryptographic by design, spec.md §6
}

func (d *DefaultRandomSource) NextDigit() int32 {
	return int32(d.rng.Intn(10))
}

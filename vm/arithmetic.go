package vm

// Wrapping arithmetic helpers (spec.md §4.4, §9 "Overflow policy").
// Go's signed integer operators already wrap using two's complement on
// overflow, the same semantics ARM2's flag-calculation helpers in the
// teacher emulator compute explicitly bit-by-bit; these wrappers exist
// only to name the operations the way the opcode table does, not to add
// behavior beyond what + / - / * / already give us.

func wrappingIncrement(v int32) int32 {
	return v + 1
}

func wrappingDecrement(v int32) int32 {
	return v - 1
}

// wrappingNegate multiplies by -1. math.MinInt32 has no positive
// counterpart in 32 bits, so it wraps back to itself — the idempotent
// double-negate law's one fixed point (spec.md §8).
func wrappingNegate(v int32) int32 {
	return -v
}

func wrappingDouble(v int32) int32 {
	return v * 2
}

// wrappingHalve truncates toward zero, discarding the remainder, the
// same as Go's native signed division (spec.md §4.4 "Halve").
func wrappingHalve(v int32) int32 {
	return v / 2
}

func wrappingAdd(a, b int32) int32 {
	return a + b
}

func wrappingSubtract(a, b int32) int32 {
	return a - b
}

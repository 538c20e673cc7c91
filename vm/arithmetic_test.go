package vm

import (
	"math"
	"testing"
)

func TestWrappingIncrementAtMaxInt32(t *testing.T) {
	got := wrappingIncrement(math.MaxInt32)
	if got != math.MinInt32 {
		t.Fatalf("expected increment past MaxInt32 to wrap to MinInt32, got %d", got)
	}
}

func TestWrappingDecrementAtMinInt32(t *testing.T) {
	got := wrappingDecrement(math.MinInt32)
	if got != math.MaxInt32 {
		t.Fatalf("expected decrement below MinInt32 to wrap to MaxInt32, got %d", got)
	}
}

func TestWrappingNegateMinInt32IsItsOwnInverse(t *testing.T) {
	got := wrappingNegate(math.MinInt32)
	if got != math.MinInt32 {
		t.Fatalf("expected MinInt32 to negate to itself, got %d", got)
	}
}

func TestWrappingDoubleOverflows(t *testing.T) {
	// 2147483647*2 = 4294967294, which wraps to -2 in 32-bit two's complement.
	got := wrappingDouble(math.MaxInt32)
	if got != -2 {
		t.Fatalf("expected wrapping multiplication to give -2, got %d", got)
	}
}

func TestWrappingHalveTruncatesTowardZero(t *testing.T) {
	if got := wrappingHalve(7); got != 3 {
		t.Fatalf("expected 7/2=3, got %d", got)
	}
	if got := wrappingHalve(-7); got != -3 {
		t.Fatalf("expected -7/2=-3 (truncation toward zero), got %d", got)
	}
}

func TestWrappingAddOverflows(t *testing.T) {
	got := wrappingAdd(math.MaxInt32, 1)
	if got != math.MinInt32 {
		t.Fatalf("expected MaxInt32+1 to wrap to MinInt32, got %d", got)
	}
}

func TestWrappingSubtractUnderflows(t *testing.T) {
	got := wrappingSubtract(math.MinInt32, 1)
	if got != math.MaxInt32 {
		t.Fatalf("expected MinInt32-1 to wrap to MaxInt32, got %d", got)
	}
}

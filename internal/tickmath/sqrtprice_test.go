package tickmath

import (
	"errors"
	"math/big"
	"testing"
)

func TestSqrtRatioAtTickSpotValues(t *testing.T) {
	q96 := new(big.Int).Lsh(big.NewInt(1), 96)

	got, err := SqrtRatioAtTick(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cmp(q96) != 0 {
		t.Fatalf("SqrtRatioAtTick(0) = %s, want %s", got, q96)
	}

	got, err = SqrtRatioAtTick(MinTick)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cmp(MinSqrtRatio) != 0 {
		t.Fatalf("SqrtRatioAtTick(MinTick) = %s, want %s", got, MinSqrtRatio)
	}

	got, err = SqrtRatioAtTick(MaxTick)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cmp(MaxSqrtRatio) != 0 {
		t.Fatalf("SqrtRatioAtTick(MaxTick) = %s, want %s", got, MaxSqrtRatio)
	}
}

func TestSqrtRatioAtTickMonotonic(t *testing.T) {
	prev, err := SqrtRatioAtTick(-1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for tick := int32(-999); tick <= 1000; tick += 7 {
		cur, err := SqrtRatioAtTick(tick)
		if err != nil {
			t.Fatalf("SqrtRatioAtTick(%d): %v", tick, err)
		}
		if cur.Cmp(prev) <= 0 {
			t.Fatalf("ratio not increasing at tick %d: %s <= %s", tick, cur, prev)
		}
		prev = cur
	}
}

func TestSqrtRatioAtTickOutOfBounds(t *testing.T) {
	var boundsErr *TickBoundsError
	if _, err := SqrtRatioAtTick(MaxTick + 1); !errors.As(err, &boundsErr) {
		t.Fatalf("expected TickBoundsError, got %v", err)
	}
	if _, err := SqrtRatioAtTick(MinTick - 1); !errors.As(err, &boundsErr) {
		t.Fatalf("expected TickBoundsError, got %v", err)
	}
}

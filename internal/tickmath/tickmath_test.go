package tickmath

import (
	"errors"
	"testing"
)

func TestAlignDownUp(t *testing.T) {
	cases := []struct {
		tick, spacing, down, up int32
	}{
		{0, 60, 0, 0},
		{1, 60, 0, 60},
		{-1, 60, -60, 0},
		{599, 60, 540, 600},
		{-599, 60, -600, -540},
		{120, 60, 120, 120},
		{887271, 60, 887220, 887280},
	}
	for _, c := range cases {
		down, err := AlignDown(c.tick, c.spacing)
		if err != nil {
			t.Fatalf("AlignDown(%d, %d): %v", c.tick, c.spacing, err)
		}
		if down != c.down {
			t.Fatalf("AlignDown(%d, %d) = %d, want %d", c.tick, c.spacing, down, c.down)
		}
		up, err := AlignUp(c.tick, c.spacing)
		if err != nil {
			t.Fatalf("AlignUp(%d, %d): %v", c.tick, c.spacing, err)
		}
		if up != c.up {
			t.Fatalf("AlignUp(%d, %d) = %d, want %d", c.tick, c.spacing, up, c.up)
		}
	}
}

func TestAlignBracketsTick(t *testing.T) {
	spacings := []int32{1, 10, 60, 200}
	for _, spacing := range spacings {
		for tick := int32(-1000); tick <= 1000; tick += 7 {
			down, err := AlignDown(tick, spacing)
			if err != nil {
				t.Fatalf("AlignDown(%d, %d): %v", tick, spacing, err)
			}
			if down > tick || tick >= down+spacing {
				t.Fatalf("AlignDown(%d, %d) = %d out of bracket", tick, spacing, down)
			}
			up, err := AlignUp(tick, spacing)
			if err != nil {
				t.Fatalf("AlignUp(%d, %d): %v", tick, spacing, err)
			}
			if up < tick || tick <= up-spacing {
				t.Fatalf("AlignUp(%d, %d) = %d out of bracket", tick, spacing, up)
			}
		}
	}
}

func TestAlignInvalidSpacing(t *testing.T) {
	var spacingErr *SpacingError
	if _, err := AlignDown(100, 0); !errors.As(err, &spacingErr) {
		t.Fatalf("expected SpacingError, got %v", err)
	}
	if _, err := AlignUp(100, -60); !errors.As(err, &spacingErr) {
		t.Fatalf("expected SpacingError, got %v", err)
	}
}

func TestComputeBootstrapTicksInRange(t *testing.T) {
	r, err := ComputeBootstrapTicks(599, 60, 1200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Lower != -60 || r.Upper != 1200 {
		t.Fatalf("range = [%d, %d], want [-60, 1200]", r.Lower, r.Upper)
	}
	if r.Mode != InRange {
		t.Fatalf("mode = %s, want in_range", r.Mode)
	}
	if r.Lower > 599 || 599 >= r.Upper {
		t.Fatalf("range [%d, %d] does not bracket tick", r.Lower, r.Upper)
	}
}

func TestComputeBootstrapTicksPinnedAboveMax(t *testing.T) {
	r, err := ComputeBootstrapTicks(887271, 60, 1200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.MaxAligned != 887220 || r.MinAligned != -887220 {
		t.Fatalf("aligned bounds = [%d, %d], want [-887220, 887220]", r.MinAligned, r.MaxAligned)
	}
	if r.Lower != 886020 || r.Upper != 887220 {
		t.Fatalf("range = [%d, %d], want [886020, 887220]", r.Lower, r.Upper)
	}
	if r.Mode != AboveMax {
		t.Fatalf("mode = %s, want above_max", r.Mode)
	}
}

func TestComputeBootstrapTicksPinnedBelowMin(t *testing.T) {
	r, err := ComputeBootstrapTicks(-887271, 60, 1200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Lower != -887220 || r.Upper != -886020 {
		t.Fatalf("range = [%d, %d], want [-887220, -886020]", r.Lower, r.Upper)
	}
	if r.Mode != BelowMin {
		t.Fatalf("mode = %s, want below_min", r.Mode)
	}
}

func TestComputeBootstrapTicksPinnedWithoutCrossing(t *testing.T) {
	// Window alignment pushes past the bound but the raw tick stays inside,
	// so the range is pinned without switching to a one-sided mode.
	r, err := ComputeBootstrapTicks(887219, 60, 1200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Upper != 887220 || r.Lower != 886020 {
		t.Fatalf("range = [%d, %d], want [886020, 887220]", r.Lower, r.Upper)
	}
	if r.Mode != InRange {
		t.Fatalf("mode = %s, want in_range", r.Mode)
	}
}

func TestComputeBootstrapTicksInvalidWidth(t *testing.T) {
	var widthErr *WidthError
	if _, err := ComputeBootstrapTicks(0, 60, 0); !errors.As(err, &widthErr) {
		t.Fatalf("expected WidthError for zero width, got %v", err)
	}
	if _, err := ComputeBootstrapTicks(0, 60, 1210); !errors.As(err, &widthErr) {
		t.Fatalf("expected WidthError for unaligned width, got %v", err)
	}
	if _, err := ComputeBootstrapTicks(0, 60, 1774500); !errors.As(err, &widthErr) {
		t.Fatalf("expected WidthError for oversized width, got %v", err)
	}
}

func TestComputeRangeTicks(t *testing.T) {
	r, err := ComputeRangeTicks(599, 60, 1200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Lower != -60 || r.Upper != 1200 || r.Mode != InRange {
		t.Fatalf("range = [%d, %d] %s, want [-60, 1200] in_range", r.Lower, r.Upper, r.Mode)
	}
}

func TestComputeRangeTicksUnalignedWidth(t *testing.T) {
	var widthErr *WidthError
	if _, err := ComputeRangeTicks(0, 60, 1210); !errors.As(err, &widthErr) {
		t.Fatalf("expected WidthError, got %v", err)
	}
}

func TestComputeRangeTicksOutsideBounds(t *testing.T) {
	var boundsErr *TickBoundsError
	if _, err := ComputeRangeTicks(887271, 60, 1200); !errors.As(err, &boundsErr) {
		t.Fatalf("expected TickBoundsError, got %v", err)
	}
	if boundsErr.Tick != 887271 || boundsErr.MaxAligned != 887220 {
		t.Fatalf("unexpected error context: %+v", boundsErr)
	}
}

func TestComputeRangeTicksClampsNearBound(t *testing.T) {
	r, err := ComputeRangeTicks(887200, 60, 1200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Upper != 887220 || r.Lower != 886020 {
		t.Fatalf("range = [%d, %d], want [886020, 887220]", r.Lower, r.Upper)
	}
	if r.Mode != InRange {
		t.Fatalf("mode = %s, want in_range", r.Mode)
	}
}

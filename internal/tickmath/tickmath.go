package tickmath

import "fmt"

// MinTick and MaxTick bound the usable tick grid of the external protocol.
const (
	MinTick int32 = -887272
	MaxTick int32 = 887272
)

// BoundaryMode classifies where the current tick sits relative to the
// aligned global bounds for a given spacing.
type BoundaryMode int

const (
	InRange BoundaryMode = iota
	AboveMax
	BelowMin
)

func (m BoundaryMode) String() string {
	switch m {
	case InRange:
		return "in_range"
	case AboveMax:
		return "above_max"
	case BelowMin:
		return "below_min"
	default:
		return fmt.Sprintf("boundary_mode(%d)", int(m))
	}
}

// Range is a computed position range. Lower and Upper are multiples of
// Spacing with Lower < Upper; MinAligned and MaxAligned are the aligned
// global bounds the range was clamped against.
type Range struct {
	Lower      int32
	Upper      int32
	Spacing    int32
	Mode       BoundaryMode
	MinAligned int32
	MaxAligned int32
}

// SpacingError reports a non-positive tick spacing.
type SpacingError struct {
	Spacing int32
}

func (e *SpacingError) Error() string {
	return fmt.Sprintf("tick spacing must be positive: %d", e.Spacing)
}

// WidthError reports a range width that cannot be used with the given
// spacing or does not fit between the aligned global bounds.
type WidthError struct {
	Width   int32
	Spacing int32
	Span    int32
	Reason  string
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("invalid range width %d (spacing %d, span %d): %s", e.Width, e.Spacing, e.Span, e.Reason)
}

// TickBoundsError reports a tick outside the aligned global bounds.
type TickBoundsError struct {
	Tick       int32
	MinAligned int32
	MaxAligned int32
}

func (e *TickBoundsError) Error() string {
	return fmt.Sprintf("tick %d outside supported range [%d, %d]", e.Tick, e.MinAligned, e.MaxAligned)
}

// AlignDown rounds tick down to the nearest multiple of spacing.
func AlignDown(tick, spacing int32) (int32, error) {
	if spacing <= 0 {
		return 0, &SpacingError{Spacing: spacing}
	}
	q := tick / spacing
	if tick%spacing != 0 && tick < 0 {
		q--
	}
	return q * spacing, nil
}

// AlignUp rounds tick up to the nearest multiple of spacing.
func AlignUp(tick, spacing int32) (int32, error) {
	if spacing <= 0 {
		return 0, &SpacingError{Spacing: spacing}
	}
	q := tick / spacing
	if tick%spacing != 0 && tick > 0 {
		q++
	}
	return q * spacing, nil
}

// MinAlignedTick returns the smallest usable tick for the spacing.
func MinAlignedTick(spacing int32) (int32, error) {
	return AlignUp(MinTick, spacing)
}

// MaxAlignedTick returns the largest usable tick for the spacing.
func MaxAlignedTick(spacing int32) (int32, error) {
	return AlignDown(MaxTick, spacing)
}

func validateWidth(width, spacing int32) error {
	if width <= 0 {
		return &WidthError{Width: width, Spacing: spacing, Reason: "width must be positive"}
	}
	if width%spacing != 0 {
		return &WidthError{Width: width, Spacing: spacing, Reason: "width must be a multiple of spacing"}
	}
	return nil
}

// ComputeBootstrapTicks builds a half-width window centered on tick,
// aligning the lower bound down and the upper bound up. A window that
// would cross an aligned global bound is pinned flush against it; the
// mode reports a boundary crossing only when the raw tick itself lies
// beyond the aligned bound, which forces a one-sided mint.
func ComputeBootstrapTicks(tick, spacing, width int32) (Range, error) {
	if spacing <= 0 {
		return Range{}, &SpacingError{Spacing: spacing}
	}
	if err := validateWidth(width, spacing); err != nil {
		return Range{}, err
	}

	minAligned, err := MinAlignedTick(spacing)
	if err != nil {
		return Range{}, err
	}
	maxAligned, err := MaxAlignedTick(spacing)
	if err != nil {
		return Range{}, err
	}
	span := maxAligned - minAligned
	if width > span {
		return Range{}, &WidthError{Width: width, Spacing: spacing, Span: span, Reason: "width exceeds aligned tick span"}
	}

	half := width / 2
	lower, err := AlignDown(tick-half, spacing)
	if err != nil {
		return Range{}, err
	}
	upper, err := AlignUp(tick+half, spacing)
	if err != nil {
		return Range{}, err
	}

	mode := InRange
	switch {
	case upper > maxAligned:
		upper = maxAligned
		lower = upper - width
		if tick > maxAligned {
			mode = AboveMax
		}
	case lower < minAligned:
		lower = minAligned
		upper = lower + width
		if tick < minAligned {
			mode = BelowMin
		}
	}

	return Range{
		Lower:      lower,
		Upper:      upper,
		Spacing:    spacing,
		Mode:       mode,
		MinAligned: minAligned,
		MaxAligned: maxAligned,
	}, nil
}

// ComputeRangeTicks re-centers a window on tick for an existing position.
// Unlike ComputeBootstrapTicks it rejects ticks beyond the aligned global
// bounds instead of pinning a one-sided range against them.
func ComputeRangeTicks(tick, spacing, width int32) (Range, error) {
	if spacing <= 0 {
		return Range{}, &SpacingError{Spacing: spacing}
	}
	if err := validateWidth(width, spacing); err != nil {
		return Range{}, err
	}

	minAligned, err := MinAlignedTick(spacing)
	if err != nil {
		return Range{}, err
	}
	maxAligned, err := MaxAlignedTick(spacing)
	if err != nil {
		return Range{}, err
	}
	if tick < minAligned || tick > maxAligned {
		return Range{}, &TickBoundsError{Tick: tick, MinAligned: minAligned, MaxAligned: maxAligned}
	}
	span := maxAligned - minAligned
	if width > span {
		return Range{}, &WidthError{Width: width, Spacing: spacing, Span: span, Reason: "width exceeds aligned tick span"}
	}

	half := width / 2
	lower, err := AlignDown(tick-half, spacing)
	if err != nil {
		return Range{}, err
	}
	upper, err := AlignUp(tick+half, spacing)
	if err != nil {
		return Range{}, err
	}

	if upper > maxAligned {
		upper = maxAligned
		lower = upper - width
	} else if lower < minAligned {
		lower = minAligned
		upper = lower + width
	}

	return Range{
		Lower:      lower,
		Upper:      upper,
		Spacing:    spacing,
		Mode:       InRange,
		MinAligned: minAligned,
		MaxAligned: maxAligned,
	}, nil
}

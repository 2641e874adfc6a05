package liquidity

import (
	"fmt"
	"math/big"

	"rangekeeper/internal/tickmath"
)

// Q96 is the fixed-point base of the protocol's sqrt price representation.
var Q96 = new(big.Int).Lsh(big.NewInt(1), 96)

// Ratios holds the sqrt prices at a range's bounds.
type Ratios struct {
	SqrtLower *big.Int
	SqrtUpper *big.Int
	Diff      *big.Int
}

// TickOrderError reports a range whose upper sqrt ratio does not exceed
// the lower one.
type TickOrderError struct {
	Lower int32
	Upper int32
}

func (e *TickOrderError) Error() string {
	return fmt.Sprintf("tick order invalid: lower %d, upper %d", e.Lower, e.Upper)
}

// ModeError reports a boundary operation invoked with an in-range mode.
type ModeError struct {
	Mode tickmath.BoundaryMode
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("boundary liquidity undefined for mode %s", e.Mode)
}

// AmountError reports a missing or non-positive deposit amount for the
// token the boundary mode requires.
type AmountError struct {
	Mode  tickmath.BoundaryMode
	Token int
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("mode %s requires a positive token%d amount", e.Mode, e.Token)
}

// BoundaryRatios computes the sqrt prices at the range bounds and their
// difference.
func BoundaryRatios(lower, upper int32) (Ratios, error) {
	sqrtLower, err := tickmath.SqrtRatioAtTick(lower)
	if err != nil {
		return Ratios{}, err
	}
	sqrtUpper, err := tickmath.SqrtRatioAtTick(upper)
	if err != nil {
		return Ratios{}, err
	}
	if sqrtUpper.Cmp(sqrtLower) <= 0 {
		return Ratios{}, &TickOrderError{Lower: lower, Upper: upper}
	}
	return Ratios{
		SqrtLower: sqrtLower,
		SqrtUpper: sqrtUpper,
		Diff:      new(big.Int).Sub(sqrtUpper, sqrtLower),
	}, nil
}

// ForBoundary computes the liquidity minted by a one-sided deposit pinned
// at a global bound. AboveMax ranges hold only token1, BelowMin ranges
// only token0; the in-range case must go through ForAmounts instead.
func ForBoundary(lower, upper int32, amount0, amount1 *big.Int, mode tickmath.BoundaryMode) (*big.Int, error) {
	ratios, err := BoundaryRatios(lower, upper)
	if err != nil {
		return nil, err
	}

	switch mode {
	case tickmath.AboveMax:
		if amount1 == nil || amount1.Sign() <= 0 {
			return nil, &AmountError{Mode: mode, Token: 1}
		}
		l := new(big.Int).Mul(amount1, Q96)
		return l.Quo(l, ratios.Diff), nil
	case tickmath.BelowMin:
		if amount0 == nil || amount0.Sign() <= 0 {
			return nil, &AmountError{Mode: mode, Token: 0}
		}
		num := new(big.Int).Mul(amount0, ratios.SqrtLower)
		num.Mul(num, ratios.SqrtUpper)
		den := new(big.Int).Mul(Q96, ratios.Diff)
		return num.Quo(num, den), nil
	case tickmath.InRange:
		return nil, &ModeError{Mode: mode}
	default:
		return nil, &ModeError{Mode: mode}
	}
}

// MinAmountForLiquidityOne returns the smallest one-sided deposit that
// still mints at least one unit of liquidity, the ceiling-division inverse
// of ForBoundary.
func MinAmountForLiquidityOne(lower, upper int32, mode tickmath.BoundaryMode) (*big.Int, error) {
	ratios, err := BoundaryRatios(lower, upper)
	if err != nil {
		return nil, err
	}

	switch mode {
	case tickmath.AboveMax:
		return ceilDiv(ratios.Diff, Q96), nil
	case tickmath.BelowMin:
		num := new(big.Int).Mul(Q96, ratios.Diff)
		den := new(big.Int).Mul(ratios.SqrtLower, ratios.SqrtUpper)
		return ceilDiv(num, den), nil
	case tickmath.InRange:
		return nil, &ModeError{Mode: mode}
	default:
		return nil, &ModeError{Mode: mode}
	}
}

// ForAmounts computes two-sided liquidity for a range straddled by the
// current sqrt price: the lesser of the token0- and token1-implied
// liquidities, so neither deposit is exceeded. Outside the range it
// degenerates to the single-token formula.
func ForAmounts(sqrtPrice *big.Int, lower, upper int32, amount0, amount1 *big.Int) (*big.Int, error) {
	ratios, err := BoundaryRatios(lower, upper)
	if err != nil {
		return nil, err
	}
	if sqrtPrice == nil || sqrtPrice.Sign() <= 0 {
		return nil, fmt.Errorf("sqrt price must be positive")
	}
	if amount0 == nil || amount1 == nil || amount0.Sign() < 0 || amount1.Sign() < 0 {
		return nil, fmt.Errorf("amounts must be non-negative")
	}

	switch {
	case sqrtPrice.Cmp(ratios.SqrtLower) <= 0:
		return liquidityForAmount0(ratios.SqrtLower, ratios.SqrtUpper, amount0), nil
	case sqrtPrice.Cmp(ratios.SqrtUpper) < 0:
		l0 := liquidityForAmount0(sqrtPrice, ratios.SqrtUpper, amount0)
		l1 := liquidityForAmount1(ratios.SqrtLower, sqrtPrice, amount1)
		if l0.Cmp(l1) < 0 {
			return l0, nil
		}
		return l1, nil
	default:
		return liquidityForAmount1(ratios.SqrtLower, ratios.SqrtUpper, amount1), nil
	}
}

func liquidityForAmount0(sqrtA, sqrtB *big.Int, amount0 *big.Int) *big.Int {
	num := new(big.Int).Mul(amount0, sqrtA)
	num.Mul(num, sqrtB)
	den := new(big.Int).Sub(sqrtB, sqrtA)
	den.Mul(den, Q96)
	return num.Quo(num, den)
}

func liquidityForAmount1(sqrtA, sqrtB *big.Int, amount1 *big.Int) *big.Int {
	num := new(big.Int).Mul(amount1, Q96)
	den := new(big.Int).Sub(sqrtB, sqrtA)
	return num.Quo(num, den)
}

func ceilDiv(num, den *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

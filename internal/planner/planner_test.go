package planner

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"rangekeeper/internal/tickmath"
)

func exp10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

func TestPlanMintInRange(t *testing.T) {
	sqrtPrice, err := tickmath.SqrtRatioAtTick(599)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := New(doubleQuoter(), nil)
	plan, err := p.PlanMint(context.Background(), PlanInput{
		CurrentTick:  599,
		SqrtPriceX96: sqrtPrice,
		Spacing:      60,
		Width:        1200,
		Selector: SelectorInput{
			Balance0:        exp10(18),
			Balance1:        exp10(18),
			UseFullBalances: true,
			MaxSpendBps:     10000,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Range.Lower != -60 || plan.Range.Upper != 1200 || plan.Range.Mode != tickmath.InRange {
		t.Fatalf("range = [%d, %d] %s", plan.Range.Lower, plan.Range.Upper, plan.Range.Mode)
	}
	if plan.Amounts.Amount0.Sign() <= 0 || plan.Amounts.Amount1.Sign() <= 0 {
		t.Fatalf("straddling mint needs both amounts positive: (%s, %s)", plan.Amounts.Amount0, plan.Amounts.Amount1)
	}
	if plan.Amounts.Liquidity.Sign() <= 0 {
		t.Fatalf("liquidity = %s, want > 0", plan.Amounts.Liquidity)
	}
}

func TestPlanMintBoundaryAboveMax(t *testing.T) {
	p := New(doubleQuoter(), nil)
	plan, err := p.PlanMint(context.Background(), PlanInput{
		CurrentTick: 887271,
		Spacing:     60,
		Width:       1200,
		Selector: SelectorInput{
			Balance0:        exp10(21),
			Balance1:        exp10(21),
			UseFullBalances: true,
			MaxSpendBps:     10000,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Range.Mode != tickmath.AboveMax {
		t.Fatalf("mode = %s, want above_max", plan.Range.Mode)
	}
	if plan.Amounts.Amount0.Sign() != 0 {
		t.Fatalf("amount0 = %s, want 0 for a token1-only mint", plan.Amounts.Amount0)
	}
	if plan.Amounts.Amount1.Sign() <= 0 || plan.Amounts.Liquidity.Sign() <= 0 {
		t.Fatalf("amount1 = %s, liquidity = %s", plan.Amounts.Amount1, plan.Amounts.Liquidity)
	}
}

func TestPlanMintBoundaryBumpsToMinimum(t *testing.T) {
	p := New(doubleQuoter(), nil)
	plan, err := p.PlanMint(context.Background(), PlanInput{
		CurrentTick: 887271,
		Spacing:     60,
		Width:       1200,
		Selector: SelectorInput{
			Balance0:    exp10(21),
			Balance1:    exp10(21),
			Amount0In:   big.NewInt(1),
			Amount1In:   big.NewInt(1),
			MaxSpendBps: 10000,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Amounts.Liquidity.Cmp(big.NewInt(1)) < 0 {
		t.Fatalf("liquidity = %s, want >= 1 after bump", plan.Amounts.Liquidity)
	}
	if len(plan.Amounts.Warnings) == 0 {
		t.Fatalf("bump must emit a warning")
	}
}

func TestPlanMintBoundaryInsufficientBalance(t *testing.T) {
	p := New(doubleQuoter(), nil)
	var zeroErr *ZeroLiquidityError
	_, err := p.PlanMint(context.Background(), PlanInput{
		CurrentTick: 887271,
		Spacing:     60,
		Width:       1200,
		Selector: SelectorInput{
			Balance0:        exp10(18),
			Balance1:        big.NewInt(0),
			UseFullBalances: true,
			MaxSpendBps:     10000,
		},
	})
	if !errors.As(err, &zeroErr) {
		t.Fatalf("expected ZeroLiquidityError, got %v", err)
	}
}

func TestPlanMintZeroAmountsFailLoudly(t *testing.T) {
	sqrtPrice, err := tickmath.SqrtRatioAtTick(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := New(doubleQuoter(), nil)
	var zeroErr *ZeroLiquidityError
	_, err = p.PlanMint(context.Background(), PlanInput{
		CurrentTick:  0,
		SqrtPriceX96: sqrtPrice,
		Spacing:      60,
		Width:        1200,
		Selector: SelectorInput{
			Balance0:    exp10(18),
			Balance1:    exp10(18),
			Amount0In:   big.NewInt(0),
			Amount1In:   big.NewInt(0),
			MaxSpendBps: 10000,
		},
	})
	if !errors.As(err, &zeroErr) {
		t.Fatalf("expected ZeroLiquidityError, got %v", err)
	}
}

func TestPlanMintRecenterRejectsBoundaryTick(t *testing.T) {
	p := New(doubleQuoter(), nil)
	var boundsErr *tickmath.TickBoundsError
	_, err := p.PlanMint(context.Background(), PlanInput{
		CurrentTick: 887271,
		Spacing:     60,
		Width:       1200,
		Recenter:    true,
		Selector: SelectorInput{
			Balance0:        exp10(18),
			Balance1:        exp10(18),
			UseFullBalances: true,
			MaxSpendBps:     10000,
		},
	})
	if !errors.As(err, &boundsErr) {
		t.Fatalf("expected TickBoundsError, got %v", err)
	}
}

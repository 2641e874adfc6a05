package planner

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"rangekeeper/internal/liquidity"
	"rangekeeper/internal/tickmath"
)

// Planner sizes a position range and its deposit amounts. All methods are
// pure over their inputs except quote calls through the injected Quoter.
type Planner struct {
	quoter Quoter
	logger *zap.Logger
}

// New builds a Planner. A nil logger is replaced with a no-op one.
func New(quoter Quoter, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{quoter: quoter, logger: logger}
}

// PlanInput carries the pool snapshot and sizing intent for a mint.
type PlanInput struct {
	CurrentTick  int32
	SqrtPriceX96 *big.Int
	Spacing      int32
	Width        int32

	// Recenter selects the stricter re-centering tick computation used
	// when an existing position is being moved.
	Recenter bool

	Token0 common.Address
	Token1 common.Address

	Selector SelectorInput
}

// MintPlan is the planner's structured output: the tick range and the
// sized amounts with their liquidity.
type MintPlan struct {
	Range   tickmath.Range
	Amounts AmountPlan
}

// ZeroLiquidityError reports amounts that mint no liquidity at all.
type ZeroLiquidityError struct {
	Amount0 *big.Int
	Amount1 *big.Int
	Mode    tickmath.BoundaryMode
}

func (e *ZeroLiquidityError) Error() string {
	return fmt.Sprintf("amounts (%s, %s) mint zero liquidity in mode %s", e.Amount0, e.Amount1, e.Mode)
}

// PlanMint computes the target range, selects amounts, and computes the
// resulting liquidity. Boundary ranges are sized one-sided; in-range
// mints require both amounts to be positive.
func (p *Planner) PlanMint(ctx context.Context, in PlanInput) (*MintPlan, error) {
	if p.quoter == nil {
		return nil, fmt.Errorf("quoter is required")
	}

	var (
		rng tickmath.Range
		err error
	)
	if in.Recenter {
		rng, err = tickmath.ComputeRangeTicks(in.CurrentTick, in.Spacing, in.Width)
	} else {
		rng, err = tickmath.ComputeBootstrapTicks(in.CurrentTick, in.Spacing, in.Width)
	}
	if err != nil {
		return nil, err
	}

	sel := in.Selector
	sel.Token0 = in.Token0
	sel.Token1 = in.Token1

	amounts, err := p.SelectAmounts(ctx, sel)
	if err != nil {
		return nil, err
	}

	switch rng.Mode {
	case tickmath.AboveMax:
		if err := p.sizeBoundary(rng, &amounts, sel, 1); err != nil {
			return nil, err
		}
	case tickmath.BelowMin:
		if err := p.sizeBoundary(rng, &amounts, sel, 0); err != nil {
			return nil, err
		}
	case tickmath.InRange:
		if in.SqrtPriceX96 == nil || in.SqrtPriceX96.Sign() <= 0 {
			return nil, fmt.Errorf("sqrt price is required for an in-range mint")
		}
		l, err := liquidity.ForAmounts(in.SqrtPriceX96, rng.Lower, rng.Upper, amounts.Amount0, amounts.Amount1)
		if err != nil {
			return nil, err
		}
		if l.Sign() == 0 {
			return nil, &ZeroLiquidityError{Amount0: amounts.Amount0, Amount1: amounts.Amount1, Mode: rng.Mode}
		}
		amounts.Liquidity = l
	}

	p.logger.Info("mint planned",
		zap.Int32("lower", rng.Lower),
		zap.Int32("upper", rng.Upper),
		zap.String("mode", rng.Mode.String()),
		zap.String("amount0", amounts.Amount0.String()),
		zap.String("amount1", amounts.Amount1.String()),
		zap.String("liquidity", amounts.Liquidity.String()),
		zap.Bool("scaled", amounts.Scaled),
	)

	return &MintPlan{Range: rng, Amounts: amounts}, nil
}

// sizeBoundary zeroes the unused side of a one-sided mint, bumps an
// undersized deposit up to the minimum mintable amount when the spend
// limit allows, and computes the boundary liquidity.
func (p *Planner) sizeBoundary(rng tickmath.Range, amounts *AmountPlan, sel SelectorInput, token int) error {
	minAmount, err := liquidity.MinAmountForLiquidityOne(rng.Lower, rng.Upper, rng.Mode)
	if err != nil {
		return err
	}

	var deposit, limit *big.Int
	if token == 0 {
		deposit = amounts.Amount0
		limit = SpendLimit(sel.Balance0, sel.MaxSpendBps)
		amounts.Amount1 = new(big.Int)
	} else {
		deposit = amounts.Amount1
		limit = SpendLimit(sel.Balance1, sel.MaxSpendBps)
		amounts.Amount0 = new(big.Int)
	}

	if deposit.Cmp(minAmount) < 0 {
		if limit.Cmp(minAmount) < 0 {
			return &ZeroLiquidityError{Amount0: amounts.Amount0, Amount1: amounts.Amount1, Mode: rng.Mode}
		}
		amounts.Warnings = append(amounts.Warnings, fmt.Sprintf(
			"token%d deposit %s below minimum mintable %s; bumped to minimum", token, deposit, minAmount))
		deposit = new(big.Int).Set(minAmount)
		if token == 0 {
			amounts.Amount0 = deposit
		} else {
			amounts.Amount1 = deposit
		}
	}

	l, err := liquidity.ForBoundary(rng.Lower, rng.Upper, amounts.Amount0, amounts.Amount1, rng.Mode)
	if err != nil {
		return err
	}
	if l.Sign() == 0 {
		return &ZeroLiquidityError{Amount0: amounts.Amount0, Amount1: amounts.Amount1, Mode: rng.Mode}
	}
	amounts.Liquidity = l
	return nil
}

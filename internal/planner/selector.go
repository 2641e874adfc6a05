package planner

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

const (
	bpsDenominator = 10000

	// maxRescaleAttempts bounds the quote round-trips when a derived
	// amount overshoots its balance limit.
	maxRescaleAttempts = 5

	// rescaleMarginNum/Den apply a 0.5% margin below the proportional
	// fit on each rescale.
	rescaleMarginNum = 995
	rescaleMarginDen = 1000
)

// SelectorInput carries the balances and intent for amount selection.
// Amount0In/Amount1In are in native smallest units; nil means the side
// was not specified.
type SelectorInput struct {
	Token0          common.Address
	Token1          common.Address
	Balance0        *big.Int
	Balance1        *big.Int
	Amount0In       *big.Int
	Amount1In       *big.Int
	UseFullBalances bool
	BufferBps       uint32
	MaxSpendBps     uint32
}

// AmountPlan is the sized deposit produced by amount selection.
type AmountPlan struct {
	Amount0   *big.Int
	Amount1   *big.Int
	Liquidity *big.Int
	Derived   bool
	Scaled    bool
	Warnings  []string
	Quote     *QuoteInfo
}

// NoFallbackBalanceError reports a quote failure with no derived-side
// balance to fall back on.
type NoFallbackBalanceError struct {
	Direction string
	AmountIn  *big.Int
	Cause     error
}

func (e *NoFallbackBalanceError) Error() string {
	return fmt.Sprintf("quote %s for %s failed with no fallback balance: %v", e.Direction, e.AmountIn, e.Cause)
}

func (e *NoFallbackBalanceError) Unwrap() error { return e.Cause }

// ScalingExhaustedError reports a rescale loop that did not fit the
// derived amount under its limit.
type ScalingExhaustedError struct {
	Attempts    int
	LastInput   *big.Int
	LastDerived *big.Int
	Limit       *big.Int
}

func (e *ScalingExhaustedError) Error() string {
	return fmt.Sprintf("amount selection failed after %d rescales: input %s, derived %s, limit %s",
		e.Attempts, e.LastInput, e.LastDerived, e.Limit)
}

// SpendLimit caps a balance by the max-spend basis points. At or above
// 10000 bps the full balance is spendable.
func SpendLimit(balance *big.Int, maxSpendBps uint32) *big.Int {
	if balance == nil {
		return new(big.Int)
	}
	if maxSpendBps >= bpsDenominator {
		return new(big.Int).Set(balance)
	}
	limit := new(big.Int).Mul(balance, big.NewInt(int64(maxSpendBps)))
	return limit.Quo(limit, big.NewInt(bpsDenominator))
}

// SelectAmounts derives the final deposit amounts from balances, optional
// explicit amounts, and the quoter. Exactly one explicit amount triggers
// quote-based derivation of the other side with iterative rescaling to
// fit the derived side's spend limit.
func (p *Planner) SelectAmounts(ctx context.Context, in SelectorInput) (AmountPlan, error) {
	if err := validateSelectorInput(in); err != nil {
		return AmountPlan{}, err
	}

	limit0 := SpendLimit(in.Balance0, in.MaxSpendBps)
	limit1 := SpendLimit(in.Balance1, in.MaxSpendBps)

	if in.UseFullBalances {
		amount0 := new(big.Int).Set(limit0)
		amount1 := new(big.Int).Set(limit1)
		if in.Amount0In != nil && in.Amount0In.Cmp(amount0) < 0 {
			amount0.Set(in.Amount0In)
		}
		if in.Amount1In != nil && in.Amount1In.Cmp(amount1) < 0 {
			amount1.Set(in.Amount1In)
		}
		return AmountPlan{Amount0: amount0, Amount1: amount1}, nil
	}

	if in.Amount0In != nil && in.Amount1In != nil {
		return AmountPlan{
			Amount0: bigMin(in.Amount0In, limit0),
			Amount1: bigMin(in.Amount1In, limit1),
		}, nil
	}

	if in.Amount0In == nil && in.Amount1In == nil {
		return AmountPlan{}, fmt.Errorf("no amounts specified and full-balance mode disabled")
	}

	// Exactly one side specified: derive the other from a quote.
	var (
		input      *big.Int
		derivLimit *big.Int
		assetIn    common.Address
		assetOut   common.Address
		direction  string
		zeroIsIn0  bool
	)
	if in.Amount0In != nil {
		input = bigMin(in.Amount0In, limit0)
		derivLimit = limit1
		assetIn, assetOut = in.Token0, in.Token1
		direction = "token0->token1"
		zeroIsIn0 = true
	} else {
		input = bigMin(in.Amount1In, limit1)
		derivLimit = limit0
		assetIn, assetOut = in.Token1, in.Token0
		direction = "token1->token0"
	}

	plan := AmountPlan{Derived: true}

	out, err := p.quoter.Quote(ctx, assetIn, assetOut, input)
	if err != nil {
		if derivLimit.Sign() == 0 {
			return AmountPlan{}, &NoFallbackBalanceError{Direction: direction, AmountIn: input, Cause: err}
		}
		warning := fmt.Sprintf("quote %s failed (%v); using full derived-side limit %s", direction, err, derivLimit)
		p.logger.Warn("quote failed, falling back to spend limit",
			zap.String("direction", direction), zap.Error(err))
		plan.Warnings = append(plan.Warnings, warning)
		return finishDerived(plan, input, new(big.Int).Set(derivLimit), zeroIsIn0), nil
	}

	derived := applyBuffer(out, in.BufferBps)
	plan.Quote = newQuoteInfo(direction, input, out, in.BufferBps)

	for attempt := 0; derived.Cmp(derivLimit) > 0; attempt++ {
		if attempt >= maxRescaleAttempts {
			return AmountPlan{}, &ScalingExhaustedError{
				Attempts:    attempt,
				LastInput:   input,
				LastDerived: derived,
				Limit:       derivLimit,
			}
		}

		// input' = input * limit * 995 / (derived * 1000)
		next := new(big.Int).Mul(input, derivLimit)
		next.Mul(next, big.NewInt(rescaleMarginNum))
		den := new(big.Int).Mul(derived, big.NewInt(rescaleMarginDen))
		next.Quo(next, den)

		if next.Sign() == 0 {
			return AmountPlan{}, &ScalingExhaustedError{
				Attempts:    attempt + 1,
				LastInput:   next,
				LastDerived: derived,
				Limit:       derivLimit,
			}
		}

		plan.Scaled = true
		plan.Warnings = append(plan.Warnings, fmt.Sprintf(
			"rescaled %s input %s -> %s to fit derived limit %s", direction, input, next, derivLimit))
		p.logger.Debug("rescaling input amount",
			zap.Int("attempt", attempt+1),
			zap.String("direction", direction),
			zap.String("input", next.String()),
			zap.String("limit", derivLimit.String()),
		)

		input = next
		out, err = p.quoter.Quote(ctx, assetIn, assetOut, input)
		if err != nil {
			warning := fmt.Sprintf("quote %s failed during rescale (%v); using full derived-side limit %s", direction, err, derivLimit)
			p.logger.Warn("quote failed during rescale, falling back to spend limit",
				zap.String("direction", direction), zap.Error(err))
			plan.Warnings = append(plan.Warnings, warning)
			plan.Quote = nil
			return finishDerived(plan, input, new(big.Int).Set(derivLimit), zeroIsIn0), nil
		}
		derived = applyBuffer(out, in.BufferBps)
		plan.Quote = newQuoteInfo(direction, input, out, in.BufferBps)
	}

	return finishDerived(plan, input, derived, zeroIsIn0), nil
}

func finishDerived(plan AmountPlan, input, derived *big.Int, inputIsToken0 bool) AmountPlan {
	if inputIsToken0 {
		plan.Amount0 = input
		plan.Amount1 = derived
	} else {
		plan.Amount0 = derived
		plan.Amount1 = input
	}
	return plan
}

func validateSelectorInput(in SelectorInput) error {
	if in.Balance0 == nil || in.Balance1 == nil {
		return fmt.Errorf("both balances are required")
	}
	if in.Balance0.Sign() < 0 || in.Balance1.Sign() < 0 {
		return fmt.Errorf("balances must be non-negative")
	}
	if in.Amount0In != nil && in.Amount0In.Sign() < 0 {
		return fmt.Errorf("amount0 must be non-negative")
	}
	if in.Amount1In != nil && in.Amount1In.Sign() < 0 {
		return fmt.Errorf("amount1 must be non-negative")
	}
	return nil
}

func applyBuffer(amount *big.Int, bufferBps uint32) *big.Int {
	buffered := new(big.Int).Mul(amount, big.NewInt(int64(bpsDenominator)+int64(bufferBps)))
	return buffered.Quo(buffered, big.NewInt(bpsDenominator))
}

func bigMin(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}

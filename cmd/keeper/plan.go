package main

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"rangekeeper/internal/chain"
	"rangekeeper/internal/model"
	"rangekeeper/internal/payload"
	"rangekeeper/internal/planner"
)

// planMint sizes a mint against the pool snapshot: wallet balances and
// decimals are read on-chain, human amounts are converted to native
// units, and the planner does the rest.
func (rt *runtime) planMint(ctx context.Context, snap chain.PoolSnapshot, tick int32, recenter bool) (*planner.MintPlan, error) {
	if !common.IsHexAddress(rt.cfg.Quoter) {
		return nil, fmt.Errorf("quoter address is required")
	}
	if rt.cfg.MaxSpendBps < 0 || rt.cfg.MaxSpendBps > 10000 {
		return nil, fmt.Errorf("max-spend-bps must be within [0, 10000]")
	}
	if rt.cfg.BufferBps < 0 || rt.cfg.BufferBps > 10000 {
		return nil, fmt.Errorf("buffer-bps must be within [0, 10000]")
	}

	balance0, err := chain.FetchBalance(ctx, rt.client, snap.Token0, rt.owner)
	if err != nil {
		return nil, fmt.Errorf("fetch token0 balance: %w", err)
	}
	balance1, err := chain.FetchBalance(ctx, rt.client, snap.Token1, rt.owner)
	if err != nil {
		return nil, fmt.Errorf("fetch token1 balance: %w", err)
	}
	decimals0, err := chain.FetchDecimals(ctx, rt.client, snap.Token0)
	if err != nil {
		return nil, fmt.Errorf("fetch token0 decimals: %w", err)
	}
	decimals1, err := chain.FetchDecimals(ctx, rt.client, snap.Token1)
	if err != nil {
		return nil, fmt.Errorf("fetch token1 decimals: %w", err)
	}

	amount0, err := parseAmount(rt.cfg.Amount0, decimals0)
	if err != nil {
		return nil, err
	}
	amount1, err := parseAmount(rt.cfg.Amount1, decimals1)
	if err != nil {
		return nil, err
	}

	quoter := chain.NewQuoterClient(rt.client, common.HexToAddress(rt.cfg.Quoter), snap.Fee, rt.logger)
	p := planner.New(quoter, rt.logger)

	rt.logger.Debug("planning mint",
		zap.Int32("tick", tick),
		zap.Int32("spacing", snap.TickSpacing),
		zap.Int("width", rt.cfg.Width),
		zap.Bool("recenter", recenter),
		zap.String("balance0", balance0.String()),
		zap.String("balance1", balance1.String()),
	)

	return p.PlanMint(ctx, planner.PlanInput{
		CurrentTick:  tick,
		SqrtPriceX96: snap.SqrtPriceX96,
		Spacing:      snap.TickSpacing,
		Width:        int32(rt.cfg.Width),
		Recenter:     recenter,
		Token0:       snap.Token0,
		Token1:       snap.Token1,
		Selector: planner.SelectorInput{
			Balance0:        balance0,
			Balance1:        balance1,
			Amount0In:       amount0,
			Amount1In:       amount1,
			UseFullBalances: rt.cfg.UseFullBalances,
			BufferBps:       uint32(rt.cfg.BufferBps),
			MaxSpendBps:     uint32(rt.cfg.MaxSpendBps),
		},
	})
}

// poolKey builds the instruction pool key from the snapshot.
func (rt *runtime) poolKey(snap chain.PoolSnapshot) payload.PoolKey {
	return payload.PoolKey{
		Currency0:   snap.Token0,
		Currency1:   snap.Token1,
		Fee:         new(big.Int).SetUint64(uint64(snap.Fee)),
		TickSpacing: big.NewInt(int64(snap.TickSpacing)),
		Hooks:       rt.hooksAddress(),
	}
}

// mintParams converts a plan into mint instruction parameters. The
// selected amounts become the slippage maxima.
func (rt *runtime) mintParams(snap chain.PoolSnapshot, plan *planner.MintPlan) payload.MintPositionParams {
	return payload.MintPositionParams{
		PoolKey:    rt.poolKey(snap),
		TickLower:  plan.Range.Lower,
		TickUpper:  plan.Range.Upper,
		Liquidity:  plan.Amounts.Liquidity,
		Amount0Max: plan.Amounts.Amount0,
		Amount1Max: plan.Amounts.Amount1,
		Owner:      rt.owner,
	}
}

// mintReport builds the audit record for a mint-producing plan.
func mintReport(plan *planner.MintPlan, unlockData string) model.PlanReport {
	report := model.PlanReport{
		Mode:        plan.Range.Mode.String(),
		TickLower:   plan.Range.Lower,
		TickUpper:   plan.Range.Upper,
		TickSpacing: plan.Range.Spacing,
		Amount0:     plan.Amounts.Amount0.String(),
		Amount1:     plan.Amounts.Amount1.String(),
		Liquidity:   plan.Amounts.Liquidity.String(),
		Derived:     plan.Amounts.Derived,
		Scaled:      plan.Amounts.Scaled,
		Warnings:    plan.Amounts.Warnings,
		UnlockData:  unlockData,
	}
	if q := plan.Amounts.Quote; q != nil {
		report.Quote = &model.QuoteRecord{
			Direction: q.Direction,
			AmountIn:  q.AmountIn.String(),
			AmountOut: q.AmountOut.String(),
			BufferBps: q.BufferBps,
			Price:     q.Price,
		}
	}
	return report
}

package main

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"rangekeeper/internal/chain"
	"rangekeeper/internal/payload"
)

func runRebalance(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	rt, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	if rt.cfg.TokenID == 0 {
		return fmt.Errorf("token-id is required")
	}
	if rt.cfg.Liquidity == "" {
		return fmt.Errorf("liquidity is required")
	}
	withdraw, err := parseUint("liquidity", rt.cfg.Liquidity)
	if err != nil {
		return err
	}

	ready, err := rt.checkCooldown(ctx, "rebalance")
	if err != nil || !ready {
		return err
	}

	snap, err := chain.FetchPoolSnapshot(ctx, rt.client, rt.pool)
	if err != nil {
		return fmt.Errorf("fetch pool snapshot: %w", err)
	}

	tick := snap.Tick
	if cmd.Flags().Changed("recenter") {
		tick = int32(rt.cfg.Recenter)
	}

	plan, err := rt.planMint(ctx, snap, tick, true)
	if err != nil {
		return err
	}

	dec := payload.DecreaseLiquidityParams{
		TokenID:   new(big.Int).SetUint64(rt.cfg.TokenID),
		Liquidity: withdraw,
	}
	list, err := payload.Rebalance(dec, rt.mintParams(snap, plan), snap.Token0, snap.Token1)
	if err != nil {
		return err
	}
	data, err := list.Encode()
	if err != nil {
		return err
	}

	return rt.emit(ctx, "rebalance", mintReport(plan, encodeHex(data)))
}

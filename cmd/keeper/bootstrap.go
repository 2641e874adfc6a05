package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rangekeeper/internal/chain"
	"rangekeeper/internal/payload"
)

func runBootstrap(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	rt, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	ready, err := rt.checkCooldown(ctx, "bootstrap")
	if err != nil || !ready {
		return err
	}

	snap, err := chain.FetchPoolSnapshot(ctx, rt.client, rt.pool)
	if err != nil {
		return fmt.Errorf("fetch pool snapshot: %w", err)
	}

	plan, err := rt.planMint(ctx, snap, snap.Tick, false)
	if err != nil {
		return err
	}

	list, err := payload.Bootstrap(rt.mintParams(snap, plan), payload.TakePairParams{
		Currency0: snap.Token0,
		Currency1: snap.Token1,
		Recipient: rt.owner,
	})
	if err != nil {
		return err
	}
	data, err := list.Encode()
	if err != nil {
		return err
	}

	return rt.emit(ctx, "bootstrap", mintReport(plan, encodeHex(data)))
}

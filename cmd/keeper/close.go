package main

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"rangekeeper/internal/chain"
	"rangekeeper/internal/model"
	"rangekeeper/internal/payload"
)

func runClose(cmd *cobra.Command, _ []string) error {
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

	ready, err := rt.checkCooldown(ctx, "close")
	if err != nil || !ready {
		return err
	}

	snap, err := chain.FetchPoolSnapshot(ctx, rt.client, rt.pool)
	if err != nil {
		return fmt.Errorf("fetch pool snapshot: %w", err)
	}

	burn := payload.BurnPositionParams{
		TokenID: new(big.Int).SetUint64(rt.cfg.TokenID),
	}
	list, err := payload.Close(burn, payload.TakePairParams{
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

	return rt.emit(ctx, "close", model.PlanReport{UnlockData: encodeHex(data)})
}

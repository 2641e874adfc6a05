package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "keeper",
		Short:        "Liquidity range planner and transaction assembler",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	bootstrapCmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Plan an initial mint around the current pool tick",
		RunE:  runBootstrap,
	}
	addPlanFlags(bootstrapCmd)
	root.AddCommand(bootstrapCmd)

	rebalanceCmd := &cobra.Command{
		Use:   "rebalance",
		Short: "Plan a decrease + mint that re-centers an existing position",
		RunE:  runRebalance,
	}
	addPlanFlags(rebalanceCmd)
	rebalanceCmd.Flags().Uint64("token-id", 0, "position token id to decrease")
	rebalanceCmd.Flags().String("liquidity", "", "liquidity to withdraw from the old position")
	rebalanceCmd.Flags().Int64("recenter", 0, "target tick to center the new range on (defaults to current tick)")
	root.AddCommand(rebalanceCmd)

	collectCmd := &cobra.Command{
		Use:   "collect",
		Short: "Plan a fee collection for an existing position",
		RunE:  runCollect,
	}
	addCommonFlags(collectCmd)
	collectCmd.Flags().Uint64("token-id", 0, "position token id")
	root.AddCommand(collectCmd)

	closeCmd := &cobra.Command{
		Use:   "close",
		Short: "Plan a full burn of an existing position",
		RunE:  runClose,
	}
	addCommonFlags(closeCmd)
	closeCmd.Flags().Uint64("token-id", 0, "position token id")
	root.AddCommand(closeCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// addCommonFlags registers the flags every subcommand shares.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "", "RPC URL")
	cmd.Flags().String("pool", "", "pool contract address")
	cmd.Flags().String("owner", "", "recipient / position owner address")
	cmd.Flags().String("hooks", "", "hooks contract address (zero address if empty)")
	cmd.Flags().Duration("cooldown", 0, "minimum interval between recorded actions (0 disables)")
	cmd.Flags().String("state", "./data/cooldown.json", "cooldown state file path")
	cmd.Flags().String("out", "./data/plans.jsonl", "output JSONL path for plan reports")
	cmd.Flags().String("database-url", "", "optional Postgres DSN for state and reports")
	cmd.Flags().Bool("force", false, "bypass the cooldown check (the action is still recorded)")
	cmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

// addPlanFlags registers the sizing flags used by mint-producing commands.
func addPlanFlags(cmd *cobra.Command) {
	addCommonFlags(cmd)
	cmd.Flags().String("quoter", "", "quoter contract address")
	cmd.Flags().Int("width", 1200, "range width in ticks")
	cmd.Flags().Int64("max-spend-bps", 10000, "per-token spend cap in basis points of balance")
	cmd.Flags().Int64("buffer-bps", 0, "headroom added to quote-derived amounts in basis points")
	cmd.Flags().String("amount0", "", "token0 deposit in human units")
	cmd.Flags().String("amount1", "", "token1 deposit in human units")
	cmd.Flags().Bool("use-full-balances", false, "size the deposit from full wallet balances")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

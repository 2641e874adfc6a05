package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rangekeeper/internal/chain"
	"rangekeeper/internal/config"
	"rangekeeper/internal/cooldown"
	"rangekeeper/internal/model"
	"rangekeeper/internal/storage"
	"rangekeeper/internal/storage/postgres"
)

// runtime bundles the per-invocation dependencies every subcommand needs.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
	client *chain.Client
	gate   *cooldown.Gate
	sink   storage.ReportSink
	db     *postgres.Store
	pool   common.Address
	owner  common.Address
}

// setup loads configuration, connects the chain client, and wires the
// cooldown gate and report sink. Callers must defer rt.close().
func setup(ctx context.Context, cmd *cobra.Command) (*runtime, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	if !common.IsHexAddress(cfg.Pool) {
		return nil, fmt.Errorf("pool address is required")
	}
	if !common.IsHexAddress(cfg.Owner) {
		return nil, fmt.Errorf("owner address is required")
	}

	client, err := chain.NewClient(ctx, cfg.RPCURL, cfg.MaxRetries, cfg.RetryBackoff)
	if err != nil {
		return nil, fmt.Errorf("connect rpc: %w", err)
	}

	rt := &runtime{
		cfg:    cfg,
		logger: logger,
		client: client,
		sink:   storage.NewJsonlStorage(cfg.Out),
		pool:   common.HexToAddress(cfg.Pool),
		owner:  common.HexToAddress(cfg.Owner),
	}

	var store cooldown.StateStore
	if cfg.DatabaseURL != "" {
		db, err := postgres.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		rt.db = db
		store = &cooldown.DBStateStore{Store: db}
	} else {
		store = &cooldown.FileStore{Path: cfg.StatePath}
	}
	rt.gate = cooldown.New(store, logger)

	return rt, nil
}

func (rt *runtime) close() {
	if rt.db != nil {
		rt.db.Close()
	}
	rt.client.Close()
	rt.logger.Sync()
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// target is the cooldown key for one operation against one pool.
func (rt *runtime) target(operation string) string {
	return strings.ToLower(rt.pool.Hex()) + ":" + operation
}

// checkCooldown asserts the gate unless --force is set. An active
// cooldown is a skip, not a failure.
func (rt *runtime) checkCooldown(ctx context.Context, operation string) (bool, error) {
	if rt.cfg.Force {
		rt.logger.Warn("cooldown check bypassed", zap.String("target", rt.target(operation)))
		return true, nil
	}
	err := rt.gate.AssertReady(ctx, rt.target(operation), rt.cfg.Cooldown)
	if err != nil {
		var active *cooldown.ActiveError
		if errors.As(err, &active) {
			rt.logger.Warn("cooldown active, skipping",
				zap.String("target", active.Target),
				zap.Duration("remaining", active.Remaining),
			)
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// emit writes the plan report to the JSONL sink (and Postgres when
// configured) and records the action against the cooldown gate.
func (rt *runtime) emit(ctx context.Context, operation string, report model.PlanReport) error {
	report.Target = rt.target(operation)
	report.Operation = operation
	report.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := rt.sink.PutReports([]model.PlanReport{report}); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if rt.db != nil {
		if err := rt.db.InsertReports(ctx, []model.PlanReport{report}); err != nil {
			return fmt.Errorf("insert report: %w", err)
		}
	}
	if err := rt.gate.RecordAction(ctx, rt.target(operation), rt.cfg.Cooldown); err != nil {
		return fmt.Errorf("record action: %w", err)
	}

	rt.logger.Info("plan assembled",
		zap.String("operation", operation),
		zap.String("out", rt.cfg.Out),
		zap.Int("unlock_data_bytes", len(report.UnlockData)/2-1),
	)
	return nil
}

// hooksAddress returns the configured hooks address, or the zero
// address when none is set.
func (rt *runtime) hooksAddress() common.Address {
	if common.IsHexAddress(rt.cfg.Hooks) {
		return common.HexToAddress(rt.cfg.Hooks)
	}
	return common.Address{}
}

func encodeHex(data []byte) string {
	return "0x" + hex.EncodeToString(data)
}

// parseAmount converts a human decimal amount into native smallest
// units, truncating fractions beyond the token's decimals.
func parseAmount(value string, decimals uint8) (*big.Int, error) {
	if value == "" {
		return nil, nil
	}
	rat, ok := new(big.Rat).SetString(value)
	if !ok || rat.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	scaled := new(big.Rat).Mul(rat, new(big.Rat).SetInt(scale))
	return new(big.Int).Quo(scaled.Num(), scaled.Denom()), nil
}

// parseUint converts a decimal string into a non-negative big.Int.
func parseUint(field, value string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(value, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("invalid %s %q", field, value)
	}
	return n, nil
}

package cooldown

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// StateStore persists the last-action timestamp per target. Implementations
// back it with memory, a local file, or Postgres.
type StateStore interface {
	Load(ctx context.Context, target string) (int64, bool, error)
	Save(ctx context.Context, target string, unixSeconds int64) error
}

// ActiveError signals that a target is still cooling down. Call sites treat
// it as a skip, not a failure.
type ActiveError struct {
	Target      string
	Remaining   time.Duration
	NextAllowed time.Time
}

func (e *ActiveError) Error() string {
	return fmt.Sprintf("cooldown active for %s: %s remaining (next allowed at %s)",
		e.Target, e.Remaining, e.NextAllowed.UTC().Format(time.RFC3339))
}

// Gate throttles repeated actions against the same target. The load/save
// pair is check-then-act, so concurrent processes can race through it;
// treat the gate as best-effort throttling, not a single-flight lock.
type Gate struct {
	store  StateStore
	now    func() time.Time
	logger *zap.Logger
}

// New builds a Gate over the given store.
func New(store StateStore, logger *zap.Logger) *Gate {
	return NewWithClock(store, logger, time.Now)
}

// NewWithClock builds a Gate with an injected clock for tests.
func NewWithClock(store StateStore, logger *zap.Logger, now func() time.Time) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Gate{store: store, now: now, logger: logger}
}

// AssertReady returns nil when the target may act, or an ActiveError with
// the remaining wait. A non-positive cooldown disables the gate.
func (g *Gate) AssertReady(ctx context.Context, target string, cooldown time.Duration) error {
	if cooldown <= 0 {
		return nil
	}
	last, ok, err := g.store.Load(ctx, target)
	if err != nil {
		return fmt.Errorf("load cooldown state: %w", err)
	}
	if !ok {
		return nil
	}

	nextAllowed := time.Unix(last, 0).Add(cooldown)
	now := g.now()
	if now.Before(nextAllowed) {
		return &ActiveError{
			Target:      target,
			Remaining:   nextAllowed.Sub(now).Round(time.Second),
			NextAllowed: nextAllowed,
		}
	}
	return nil
}

// RecordAction stamps the target with the current time. It is a no-op when
// the cooldown is disabled, and must run even for operator-forced actions
// that bypassed AssertReady.
func (g *Gate) RecordAction(ctx context.Context, target string, cooldown time.Duration) error {
	if cooldown <= 0 {
		return nil
	}
	now := g.now()
	if err := g.store.Save(ctx, target, now.Unix()); err != nil {
		return fmt.Errorf("save cooldown state: %w", err)
	}
	g.logger.Debug("action recorded", zap.String("target", target), zap.Time("at", now))
	return nil
}

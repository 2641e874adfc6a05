package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rangekeeper/internal/model"
)

// Store provides Postgres persistence for cooldown state and plan reports.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// LoadAction returns the last action timestamp for a target.
func (s *Store) LoadAction(ctx context.Context, target string) (int64, bool, error) {
	if target == "" {
		return 0, false, fmt.Errorf("target required")
	}
	var ts int64
	row := s.pool.QueryRow(ctx, `SELECT last_action_at FROM cooldown_state WHERE target=$1`, target)
	if err := row.Scan(&ts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return ts, true, nil
}

// SaveAction upserts the last action timestamp for a target.
func (s *Store) SaveAction(ctx context.Context, target string, unixSeconds int64) error {
	if target == "" {
		return fmt.Errorf("target required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cooldown_state (target, last_action_at, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (target) DO UPDATE
		SET last_action_at = EXCLUDED.last_action_at, updated_at = now()
	`, target, unixSeconds)
	return err
}

// InsertReports appends executed plan reports.
func (s *Store) InsertReports(ctx context.Context, reports []model.PlanReport) error {
	if len(reports) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range reports {
		batch.Queue(`
			INSERT INTO plan_reports (
				target, operation, mode, tick_lower, tick_upper, tick_spacing,
				amount0, amount1, liquidity, derived, scaled, warnings, unlock_data, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,now())
		`,
			r.Target,
			r.Operation,
			r.Mode,
			r.TickLower,
			r.TickUpper,
			r.TickSpacing,
			r.Amount0,
			r.Amount1,
			r.Liquidity,
			r.Derived,
			r.Scaled,
			r.Warnings,
			r.UnlockData,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range reports {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

package cooldown

import (
	"context"

	"rangekeeper/internal/storage/postgres"
)

// DBStateStore stores per-target timestamps in the cooldown_state table.
type DBStateStore struct {
	Store *postgres.Store
}

func (s *DBStateStore) Load(ctx context.Context, target string) (int64, bool, error) {
	if s == nil || s.Store == nil {
		return 0, false, nil
	}
	return s.Store.LoadAction(ctx, target)
}

func (s *DBStateStore) Save(ctx context.Context, target string, unixSeconds int64) error {
	if s == nil || s.Store == nil {
		return nil
	}
	return s.Store.SaveAction(ctx, target, unixSeconds)
}

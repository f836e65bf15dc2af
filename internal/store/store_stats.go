package store

import (
	"context"
	"database/sql"
	"fmt"
)

type StoreStats struct {
	Records  int64
	Users    int64
	FirstDay string
	LastDay  string
}

func (s *Store) Stats(ctx context.Context) (StoreStats, error) {
	if s == nil || s.db == nil {
		return StoreStats{}, fmt.Errorf("store: not initialized")
	}
	var stats StoreStats
	var first, last sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT user_id), MIN(day), MAX(day) FROM usage_records`,
	).Scan(&stats.Records, &stats.Users, &first, &last)
	if err != nil {
		return StoreStats{}, fmt.Errorf("store: stats: %w", err)
	}
	stats.FirstDay = first.String
	stats.LastDay = last.String
	return stats, nil
}

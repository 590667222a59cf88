package admin

import (
	"context"
	"fmt"

	"gabber/db"
)

func collectStoredCountsPostgres(pool *db.DBPool, ctx context.Context) (*StoredCounts, error) {
	var counts StoredCounts

	if err := pool.PgxPool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&counts.Users); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := pool.PgxPool.QueryRow(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&counts.Rooms); err != nil {
		return nil, fmt.Errorf("failed to count rooms: %w", err)
	}
	if err := pool.PgxPool.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&counts.Messages); err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	return &counts, nil
}

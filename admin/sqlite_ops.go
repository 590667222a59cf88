package admin

import (
	"context"
	"fmt"

	"gabber/db"
)

func collectStoredCountsSQLite(pool *db.DBPool, ctx context.Context) (*StoredCounts, error) {
	readTx, err := pool.GetReadTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer readTx.Rollback()

	var counts StoredCounts

	if err := readTx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&counts.Users); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := readTx.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&counts.Rooms); err != nil {
		return nil, fmt.Errorf("failed to count rooms: %w", err)
	}
	if err := readTx.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&counts.Messages); err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	return &counts, readTx.Commit()
}

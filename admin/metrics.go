package admin

import (
	"context"
	"fmt"

	"gabber/db"
)

func CollectStoredCounts(pool *db.DBPool, ctx context.Context) (*StoredCounts, error) {
	switch pool.Type {
	case "postgres":
		return collectStoredCountsPostgres(pool, ctx)
	case "sqlite3":
		return collectStoredCountsSQLite(pool, ctx)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", pool.Type)
	}
}

package admin

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gabber/db"
)

func TestCollectStoredCountsSQLite(t *testing.T) {
	pool, err := db.InitDB(db.DatabaseConfig{
		Type:       "sqlite3",
		Database:   filepath.Join(t.TempDir(), "admin_test.db"),
		Migrations: "../migrations",
	})
	if err != nil {
		t.Fatalf("InitDB() failed: %v", err)
	}
	t.Cleanup(pool.Close)

	store := db.NewChatStore(pool)
	ctx := context.Background()

	store.UpsertUser(ctx, "alice")
	store.UpsertUser(ctx, "bob")
	store.EnsureRoom(ctx, "lobby")
	store.AppendMessage(ctx, "lobby", "alice", "hello", time.Now())

	counts, err := CollectStoredCounts(pool, ctx)
	if err != nil {
		t.Fatalf("CollectStoredCounts() failed: %v", err)
	}
	if counts.Users != 2 || counts.Rooms != 1 || counts.Messages != 1 {
		t.Errorf("CollectStoredCounts() = %+v, want 2 users, 1 room, 1 message", counts)
	}
}

func TestCollectStoredCountsUnknownBackend(t *testing.T) {
	if _, err := CollectStoredCounts(&db.DBPool{Type: "oracle"}, context.Background()); err == nil {
		t.Error("CollectStoredCounts() on unknown backend should fail")
	}
}

package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestPool(t *testing.T) *DBPool {
	t.Helper()

	pool, err := InitDB(DatabaseConfig{
		Type:       "sqlite3",
		Database:   filepath.Join(t.TempDir(), "gabber_test.db"),
		Migrations: "../migrations",
	})
	if err != nil {
		t.Fatalf("InitDB() failed: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestChatStoreRoundTrip(t *testing.T) {
	pool := newTestPool(t)
	store := NewChatStore(pool)
	ctx := context.Background()

	if err := store.EnsureRoom(ctx, "lobby"); err != nil {
		t.Fatalf("EnsureRoom() failed: %v", err)
	}
	// Second ensure of the same room is a no-op, not an error.
	if err := store.EnsureRoom(ctx, "lobby"); err != nil {
		t.Fatalf("EnsureRoom() second call failed: %v", err)
	}

	base := time.Now().Add(-time.Hour)
	sends := []struct {
		sender string
		text   string
	}{
		{"alice", "first"},
		{"bob", "second"},
		{"alice", "third"},
	}
	for i, s := range sends {
		if err := store.AppendMessage(ctx, "lobby", s.sender, s.text, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("AppendMessage(%d) failed: %v", i, err)
		}
	}

	messages, err := store.RoomMessages(ctx, "lobby")
	if err != nil {
		t.Fatalf("RoomMessages() failed: %v", err)
	}
	if len(messages) != len(sends) {
		t.Fatalf("RoomMessages() returned %d messages, want %d", len(messages), len(sends))
	}
	for i, msg := range messages {
		if msg.Sender != sends[i].sender || msg.Text != sends[i].text {
			t.Errorf("message %d = %s/%q, want %s/%q", i, msg.Sender, msg.Text, sends[i].sender, sends[i].text)
		}
	}
}

func TestChatStoreHistoryPerRoom(t *testing.T) {
	pool := newTestPool(t)
	store := NewChatStore(pool)
	ctx := context.Background()

	for _, room := range []string{"alpha", "beta"} {
		if err := store.EnsureRoom(ctx, room); err != nil {
			t.Fatalf("EnsureRoom(%s) failed: %v", room, err)
		}
	}
	if err := store.AppendMessage(ctx, "alpha", "alice", "only in alpha", time.Now()); err != nil {
		t.Fatalf("AppendMessage() failed: %v", err)
	}

	messages, err := store.RoomMessages(ctx, "beta")
	if err != nil {
		t.Fatalf("RoomMessages(beta) failed: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("beta history has %d messages, want 0", len(messages))
	}
}

func TestChatStoreListRoomsSorted(t *testing.T) {
	pool := newTestPool(t)
	store := NewChatStore(pool)
	ctx := context.Background()

	for _, room := range []string{"zoo", "attic", "lobby"} {
		if err := store.EnsureRoom(ctx, room); err != nil {
			t.Fatalf("EnsureRoom(%s) failed: %v", room, err)
		}
	}

	names, err := store.ListRooms(ctx)
	if err != nil {
		t.Fatalf("ListRooms() failed: %v", err)
	}
	want := []string{"attic", "lobby", "zoo"}
	if len(names) != len(want) {
		t.Fatalf("ListRooms() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("ListRooms()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestChatStoreUpsertUserIdempotent(t *testing.T) {
	pool := newTestPool(t)
	store := NewChatStore(pool)
	ctx := context.Background()

	if err := store.UpsertUser(ctx, "alice"); err != nil {
		t.Fatalf("UpsertUser() failed: %v", err)
	}
	if err := store.UpsertUser(ctx, "alice"); err != nil {
		t.Fatalf("UpsertUser() repeat failed: %v", err)
	}

	readTx, err := pool.GetReadTx(ctx)
	if err != nil {
		t.Fatalf("GetReadTx() failed: %v", err)
	}
	defer readTx.Rollback()

	var count int
	if err := readTx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, "alice").Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("user row count = %d after duplicate upserts, want 1", count)
	}
}

func TestChatStoreUnknownBackend(t *testing.T) {
	store := NewChatStore(&DBPool{Type: "oracle"})

	if err := store.UpsertUser(context.Background(), "alice"); err == nil {
		t.Error("UpsertUser() on unknown backend should fail")
	}
	if _, err := store.ListRooms(context.Background()); err == nil {
		t.Error("ListRooms() on unknown backend should fail")
	}
}

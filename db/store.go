package db

import (
	"context"
	"fmt"
	"time"

	"gabber/chat"
)

// ChatStore adapts the pool to the chat.Store interface, dispatching to
// the configured backend the same way the admin metrics collectors do.
type ChatStore struct {
	Pool *DBPool
}

func NewChatStore(pool *DBPool) *ChatStore {
	return &ChatStore{Pool: pool}
}

func (s *ChatStore) UpsertUser(ctx context.Context, username string) error {
	switch s.Pool.Type {
	case "postgres":
		return UpsertUserPG(s.Pool, ctx, username)
	case "sqlite3":
		return UpsertUserSQLite(s.Pool, ctx, username)
	default:
		return fmt.Errorf("unsupported database type: %s", s.Pool.Type)
	}
}

func (s *ChatStore) EnsureRoom(ctx context.Context, room string) error {
	switch s.Pool.Type {
	case "postgres":
		return EnsureRoomPG(s.Pool, ctx, room)
	case "sqlite3":
		return EnsureRoomSQLite(s.Pool, ctx, room)
	default:
		return fmt.Errorf("unsupported database type: %s", s.Pool.Type)
	}
}

func (s *ChatStore) AppendMessage(ctx context.Context, room, sender, text string, at time.Time) error {
	switch s.Pool.Type {
	case "postgres":
		return AppendMessagePG(s.Pool, ctx, room, sender, text, at)
	case "sqlite3":
		return AppendMessageSQLite(s.Pool, ctx, room, sender, text, at)
	default:
		return fmt.Errorf("unsupported database type: %s", s.Pool.Type)
	}
}

func (s *ChatStore) RoomMessages(ctx context.Context, room string) ([]chat.StoredMessage, error) {
	switch s.Pool.Type {
	case "postgres":
		return RoomMessagesPG(s.Pool, ctx, room)
	case "sqlite3":
		return RoomMessagesSQLite(s.Pool, ctx, room)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", s.Pool.Type)
	}
}

func (s *ChatStore) ListRooms(ctx context.Context) ([]string, error) {
	switch s.Pool.Type {
	case "postgres":
		return ListRoomsPG(s.Pool, ctx)
	case "sqlite3":
		return ListRoomsSQLite(s.Pool, ctx)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", s.Pool.Type)
	}
}

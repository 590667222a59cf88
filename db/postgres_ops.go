package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gabber/chat"
)

func UpsertUserPG(pool *DBPool, ctx context.Context, username string) error {
	query := `INSERT INTO users (user_id, username, created_at)
              VALUES ($1, $2, $3)
              ON CONFLICT (username) DO NOTHING`

	_, err := pool.PgxPool.Exec(ctx, query, uuid.NewString(), username, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

func EnsureRoomPG(pool *DBPool, ctx context.Context, room string) error {
	query := `INSERT INTO rooms (name, created_at)
              VALUES ($1, $2)
              ON CONFLICT (name) DO NOTHING`

	_, err := pool.PgxPool.Exec(ctx, query, room, time.Now())
	if err != nil {
		return fmt.Errorf("failed to ensure room: %w", err)
	}

	return nil
}

func AppendMessagePG(pool *DBPool, ctx context.Context, room, sender, text string, at time.Time) error {
	query := `INSERT INTO messages (room_name, sender, content, sent_at)
              VALUES ($1, $2, $3, $4)`

	_, err := pool.PgxPool.Exec(ctx, query, room, sender, text, at)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	return nil
}

func RoomMessagesPG(pool *DBPool, ctx context.Context, room string) ([]chat.StoredMessage, error) {
	query := `SELECT sender, content, sent_at
              FROM messages
              WHERE room_name = $1
              ORDER BY id ASC`

	rows, err := pool.PgxPool.Query(ctx, query, room)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []chat.StoredMessage
	for rows.Next() {
		var msg chat.StoredMessage
		if err := rows.Scan(&msg.Sender, &msg.Text, &msg.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

func ListRoomsPG(pool *DBPool, ctx context.Context) ([]string, error) {
	query := `SELECT name FROM rooms ORDER BY name ASC`

	rows, err := pool.PgxPool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan room row: %w", err)
		}
		names = append(names, name)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating room rows: %w", err)
	}

	return names, nil
}

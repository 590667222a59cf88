package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gabber/chat"
)

func UpsertUserSQLite(pool *DBPool, ctx context.Context, username string) error {
	writeTx, err := pool.GetWriteTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer writeTx.Rollback()

	query := `INSERT INTO users (user_id, username, created_at)
              VALUES (?, ?, ?)
              ON CONFLICT(username) DO NOTHING`

	_, err = writeTx.ExecContext(ctx, query, uuid.NewString(), username, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return writeTx.Commit()
}

func EnsureRoomSQLite(pool *DBPool, ctx context.Context, room string) error {
	writeTx, err := pool.GetWriteTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer writeTx.Rollback()

	query := `INSERT INTO rooms (name, created_at)
              VALUES (?, ?)
              ON CONFLICT(name) DO NOTHING`

	_, err = writeTx.ExecContext(ctx, query, room, time.Now())
	if err != nil {
		return fmt.Errorf("failed to ensure room: %w", err)
	}

	return writeTx.Commit()
}

func AppendMessageSQLite(pool *DBPool, ctx context.Context, room, sender, text string, at time.Time) error {
	writeTx, err := pool.GetWriteTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer writeTx.Rollback()

	query := `INSERT INTO messages (room_name, sender, content, sent_at)
              VALUES (?, ?, ?, ?)`

	_, err = writeTx.ExecContext(ctx, query, room, sender, text, at)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	return writeTx.Commit()
}

func RoomMessagesSQLite(pool *DBPool, ctx context.Context, room string) ([]chat.StoredMessage, error) {
	readTx, err := pool.GetReadTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer readTx.Rollback()

	query := `SELECT sender, content, sent_at
              FROM messages
              WHERE room_name = ?
              ORDER BY id ASC`

	rows, err := readTx.QueryContext(ctx, query, room)
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

	return messages, readTx.Commit()
}

func ListRoomsSQLite(pool *DBPool, ctx context.Context) ([]string, error) {
	readTx, err := pool.GetReadTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer readTx.Rollback()

	query := `SELECT name FROM rooms ORDER BY name ASC`

	rows, err := readTx.QueryContext(ctx, query)
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

	return names, readTx.Commit()
}

package chat

import (
	"context"
	"time"
)

// Kind tags a protocol frame. Clients send join and chat; the server emits
// system, chat, rooms and online.
type Kind string

const (
	KindJoin   Kind = "join"
	KindChat   Kind = "chat"
	KindSystem Kind = "system"
	KindRooms  Kind = "rooms"
	KindOnline Kind = "online"
)

// ClientFrame is the envelope for everything a client can send. Unused
// fields stay empty depending on Type.
type ClientFrame struct {
	Type     Kind   `json:"type"`
	Username string `json:"username,omitempty"`
	Room     string `json:"room,omitempty"`
	Text     string `json:"text,omitempty"`
}

type SystemFrame struct {
	Type Kind   `json:"type"`
	Text string `json:"text"`
}

type ChatFrame struct {
	Type      Kind      `json:"type"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Owner     bool      `json:"owner"`
}

type RoomsFrame struct {
	Type  Kind     `json:"type"`
	Rooms []string `json:"rooms"`
}

type OnlineFrame struct {
	Type  Kind     `json:"type"`
	Users []string `json:"users"`
}

// Identity is the username/room pair bound to a connection after a
// successful join. A connection has no identity before its first join.
type Identity struct {
	Username string
	Room     string
}

// StoredMessage is one durable chat event as returned by the store,
// in append order.
type StoredMessage struct {
	Sender string
	Text   string
	SentAt time.Time
}

// Conn is the hub's view of a live transport session. Send must never
// block: it enqueues the payload and reports whether the connection
// accepted it. Sending to a closed connection is a no-op returning false.
type Conn interface {
	ID() string
	Send(payload []byte) bool
}

// Store is the durable history collaborator. Every call from the chat
// path is best-effort: errors are logged by the hub and never interrupt
// the in-memory broadcast flow.
type Store interface {
	UpsertUser(ctx context.Context, username string) error
	EnsureRoom(ctx context.Context, room string) error
	AppendMessage(ctx context.Context, room, sender, text string, at time.Time) error
	RoomMessages(ctx context.Context, room string) ([]StoredMessage, error)
	ListRooms(ctx context.Context) ([]string, error)
}

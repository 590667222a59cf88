package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Hub owns the shared chat state: the connection set, the identity
// registry and the room directory. Every mutation from every connection
// handler funnels through the single mutex, so concurrent joins, sends
// and disconnects can never observe a half-applied room switch, and a
// history replay is serialized against the live broadcasts for its room.
type Hub struct {
	mu       sync.Mutex
	conns    map[string]Conn
	registry *Registry
	rooms    *Directory
	store    Store
	logger   *log.Logger
}

func NewHub(store Store) *Hub {
	return &Hub{
		conns:    make(map[string]Conn),
		registry: NewRegistry(),
		rooms:    NewDirectory(),
		store:    store,
		logger:   log.New(os.Stdout, "[HUB] ", log.LstdFlags),
	}
}

// Register adds a freshly accepted connection. The connection has no
// identity yet; it still receives a room list snapshot so an unjoined
// client can render the lobby.
func (h *Hub) Register(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[conn.ID()] = conn
	h.logger.Printf("Connection %s registered. Total: %d", conn.ID(), len(h.conns))

	data, _ := json.Marshal(RoomsFrame{Type: KindRooms, Rooms: h.rooms.RoomNames()})
	conn.Send(data)
}

// Unregister handles a transport-driven disconnect. If the connection had
// joined a room, its former members get a left notice and fresh rosters.
// Idempotent: a second call for the same id is a no-op.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[connID]; !ok {
		return
	}
	delete(h.conns, connID)

	id, had := h.registry.IdentityOf(connID)
	h.registry.Remove(connID)
	if !had {
		h.logger.Printf("Connection %s closed before joining. Total: %d", connID, len(h.conns))
		return
	}

	removed := h.rooms.Leave(id.Room, connID)
	h.sendToRoom(id.Room, systemPayload(fmt.Sprintf("%s left %s.", id.Username, id.Room)))
	if removed {
		h.publishRoomList()
	} else {
		h.publishOnline(id.Room)
	}
	h.logger.Printf("%s disconnected from %s. Total: %d", id.Username, id.Room, len(h.conns))
}

// Dispatch parses one inbound frame and routes it by kind. Malformed
// payloads and unknown kinds are dropped with a log line; they never
// close the connection.
func (h *Hub) Dispatch(conn Conn, raw []byte) {
	var frame ClientFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		h.logger.Printf("Dropping malformed frame from %s: %v", conn.ID(), err)
		return
	}

	switch frame.Type {
	case KindJoin:
		h.handleJoin(conn, frame.Username, frame.Room)
	case KindChat:
		h.handleChat(conn, frame.Text)
	case KindSystem, KindRooms, KindOnline:
		h.logger.Printf("Dropping server-only frame kind %q from %s", frame.Type, conn.ID())
	default:
		h.logger.Printf("Dropping frame with unknown kind %q from %s", frame.Type, conn.ID())
	}
}

func (h *Hub) handleJoin(conn Conn, username, room string) {
	username = strings.TrimSpace(username)
	room = strings.TrimSpace(room)
	if username == "" || room == "" {
		h.logger.Printf("Dropping join with empty username or room from %s", conn.ID())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[conn.ID()]; !ok {
		// Disconnected while the frame was in flight.
		return
	}

	// A rejoin to a different room is leave-then-join in one step; no
	// observable state has the connection in two rooms or none.
	prev, had := h.registry.IdentityOf(conn.ID())
	if had && prev.Room != room {
		h.rooms.Leave(prev.Room, conn.ID())
		h.sendToRoom(prev.Room, systemPayload(fmt.Sprintf("%s left %s.", prev.Username, prev.Room)))
		h.publishOnline(prev.Room)
	}

	h.registry.Register(conn.ID(), Identity{Username: username, Room: room})
	h.rooms.Join(room, conn.ID())

	// Durable side effects are best-effort: chat keeps flowing when the
	// store is down.
	ctx := context.Background()
	if err := h.store.UpsertUser(ctx, username); err != nil {
		h.logger.Printf("Failed to upsert user %q: %v", username, err)
	}
	if err := h.store.EnsureRoom(ctx, room); err != nil {
		h.logger.Printf("Failed to ensure room %q: %v", room, err)
	}

	// Replay the full room history to the joining connection before any
	// live broadcast for this room can reach it. Both paths run under the
	// hub mutex, so the ordering holds by construction.
	history, err := h.store.RoomMessages(ctx, room)
	if err != nil {
		h.logger.Printf("Failed to load history for room %q: %v", room, err)
	}
	for _, msg := range history {
		data, _ := json.Marshal(ChatFrame{
			Type:      KindChat,
			Sender:    msg.Sender,
			Text:      msg.Text,
			Timestamp: msg.SentAt,
			Owner:     msg.Sender == username,
		})
		conn.Send(data)
	}

	conn.Send(systemPayload(fmt.Sprintf("Welcome to %s, %s!", room, username)))
	h.sendToRoomExcept(room, conn.ID(), systemPayload(fmt.Sprintf("%s joined %s.", username, room)))

	h.publishRoomList()
	h.publishOnline(room)
	h.logger.Printf("%s joined %s", username, room)
}

func (h *Hub) handleChat(conn Conn, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id, ok := h.registry.IdentityOf(conn.ID())
	if !ok {
		h.logger.Printf("Dropping chat from %s: not joined to any room", conn.ID())
		return
	}
	if strings.TrimSpace(text) == "" {
		return
	}

	sentAt := time.Now()

	// The owner flag is per recipient, so a user joined from two
	// connections sees their own words flagged on both.
	for _, memberID := range h.rooms.Members(id.Room) {
		if memberID == conn.ID() {
			continue
		}
		member, ok := h.conns[memberID]
		if !ok {
			continue
		}
		owner := false
		if mid, ok := h.registry.IdentityOf(memberID); ok {
			owner = mid.Username == id.Username
		}
		data, _ := json.Marshal(ChatFrame{
			Type:      KindChat,
			Sender:    id.Username,
			Text:      text,
			Timestamp: sentAt,
			Owner:     owner,
		})
		member.Send(data)
	}

	if err := h.store.AppendMessage(context.Background(), id.Room, id.Username, text, sentAt); err != nil {
		h.logger.Printf("Failed to persist message in %q: %v", id.Room, err)
	}

	h.publishOnline(id.Room)
}

// sendToRoom delivers a payload to every current member of a room.
// Failed sends are no-ops; the transport notices its own dead peers.
func (h *Hub) sendToRoom(room string, payload []byte) {
	h.sendToRoomExcept(room, "", payload)
}

func (h *Hub) sendToRoomExcept(room, exceptID string, payload []byte) {
	for _, memberID := range h.rooms.Members(room) {
		if memberID == exceptID {
			continue
		}
		if member, ok := h.conns[memberID]; ok {
			member.Send(payload)
		}
	}
}

func systemPayload(text string) []byte {
	data, _ := json.Marshal(SystemFrame{Type: KindSystem, Text: text})
	return data
}

// CloseAll drops every connection reference during shutdown. The
// transport layer closes the underlying sockets.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.conns)
	h.conns = make(map[string]Conn)
	h.registry = NewRegistry()
	h.rooms = NewDirectory()
	h.logger.Printf("Dropped %d connections on shutdown", n)
}

package chat

import (
	"encoding/json"
	"sort"
)

// Presence publishing. Both publishers are pure projections of
// registry/directory state at call time and must run with the hub mutex
// held.

// publishRoomList sends the current sorted room name list to every live
// connection, joined or not.
func (h *Hub) publishRoomList() {
	data, _ := json.Marshal(RoomsFrame{Type: KindRooms, Rooms: h.rooms.RoomNames()})
	for _, conn := range h.conns {
		conn.Send(data)
	}
}

// publishOnline sends the de-duplicated username roster of a room to each
// of its members. A user joined from several connections appears once.
func (h *Hub) publishOnline(room string) {
	members := h.rooms.Members(room)
	if len(members) == 0 {
		return
	}

	data, _ := json.Marshal(OnlineFrame{Type: KindOnline, Users: h.onlineUsers(members)})
	for _, memberID := range members {
		if conn, ok := h.conns[memberID]; ok {
			conn.Send(data)
		}
	}
}

// onlineUsers resolves member connection ids to a sorted, de-duplicated
// username list.
func (h *Hub) onlineUsers(memberIDs []string) []string {
	seen := make(map[string]struct{}, len(memberIDs))
	users := make([]string, 0, len(memberIDs))
	for _, connID := range memberIDs {
		id, ok := h.registry.IdentityOf(connID)
		if !ok {
			continue
		}
		if _, dup := seen[id.Username]; dup {
			continue
		}
		seen[id.Username] = struct{}{}
		users = append(users, id.Username)
	}
	sort.Strings(users)
	return users
}

// LiveStats is a point-in-time snapshot of hub state for the admin
// surface.
type LiveStats struct {
	Connections int            `json:"connections"`
	Identified  int            `json:"identified"`
	Rooms       int            `json:"rooms"`
	RoomMembers map[string]int `json:"room_members"`
}

func (h *Hub) Stats() LiveStats {
	h.mu.Lock()
	defer h.mu.Unlock()

	members := make(map[string]int, h.rooms.Len())
	for _, name := range h.rooms.RoomNames() {
		members[name] = len(h.rooms.Members(name))
	}
	return LiveStats{
		Connections: len(h.conns),
		Identified:  h.registry.Len(),
		Rooms:       h.rooms.Len(),
		RoomMembers: members,
	}
}

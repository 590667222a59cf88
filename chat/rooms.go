package chat

import "sort"

// Directory maps room names to their member connection ids. Rooms exist
// exactly as long as they have members: the first join creates the entry,
// removing the last member deletes it.
//
// Like Registry, the Directory relies on the Hub's mutex for concurrency
// safety.
type Directory struct {
	rooms map[string]map[string]struct{}
}

func NewDirectory() *Directory {
	return &Directory{
		rooms: make(map[string]map[string]struct{}),
	}
}

// Join adds a connection to a room's member set and reports whether the
// room was newly created.
func (d *Directory) Join(room, connID string) (created bool) {
	members, ok := d.rooms[room]
	if !ok {
		members = make(map[string]struct{})
		d.rooms[room] = members
		created = true
	}
	members[connID] = struct{}{}
	return created
}

// Leave removes a connection from a room and reports whether that emptied
// the room, in which case the entry is deleted.
func (d *Directory) Leave(room, connID string) (removed bool) {
	members, ok := d.rooms[room]
	if !ok {
		return false
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(d.rooms, room)
		return true
	}
	return false
}

// Members returns a point-in-time copy of a room's member connection ids.
// The live set may change as soon as the caller releases the hub mutex.
func (d *Directory) Members(room string) []string {
	members := d.rooms[room]
	out := make([]string, 0, len(members))
	for connID := range members {
		out = append(out, connID)
	}
	return out
}

// RoomNames returns all current room names, sorted lexicographically so
// that room list frames are deterministic.
func (d *Directory) RoomNames() []string {
	names := make([]string, 0, len(d.rooms))
	for name := range d.rooms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Directory) Len() int {
	return len(d.rooms)
}

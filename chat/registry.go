package chat

// Registry maps connection ids to their current Identity. It is the single
// source of truth for who is connected as whom, in which room.
//
// Registry is not safe for concurrent use on its own; the Hub owns the one
// mutex guarding it together with the Directory, so join/leave stay
// transactionally consistent across both.
type Registry struct {
	identities map[string]Identity
}

func NewRegistry() *Registry {
	return &Registry{
		identities: make(map[string]Identity),
	}
}

// Register records the identity for a connection, replacing any prior one.
// Directory consistency on a room switch is the caller's responsibility.
func (r *Registry) Register(connID string, id Identity) {
	r.identities[connID] = id
}

// IdentityOf returns the current identity for a connection, if it has one.
func (r *Registry) IdentityOf(connID string) (Identity, bool) {
	id, ok := r.identities[connID]
	return id, ok
}

// Remove clears the identity for a connection. Idempotent.
func (r *Registry) Remove(connID string) {
	delete(r.identities, connID)
}

func (r *Registry) Len() int {
	return len(r.identities)
}

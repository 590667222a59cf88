package chat

import "testing"

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.IdentityOf("c1"); ok {
		t.Fatal("IdentityOf() reported an identity before any join")
	}

	r.Register("c1", Identity{Username: "alice", Room: "lobby"})

	id, ok := r.IdentityOf("c1")
	if !ok {
		t.Fatal("IdentityOf() did not find registered connection")
	}
	if id.Username != "alice" || id.Room != "lobby" {
		t.Errorf("IdentityOf() = %+v, want alice/lobby", id)
	}
}

func TestRegistryRegisterReplacesPrior(t *testing.T) {
	r := NewRegistry()
	r.Register("c1", Identity{Username: "alice", Room: "lobby"})
	r.Register("c1", Identity{Username: "alice", Room: "den"})

	id, _ := r.IdentityOf("c1")
	if id.Room != "den" {
		t.Errorf("IdentityOf().Room = %q, want %q", id.Room, "den")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistryRemoveIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Register("c1", Identity{Username: "alice", Room: "lobby"})

	r.Remove("c1")
	r.Remove("c1")
	r.Remove("never-registered")

	if _, ok := r.IdentityOf("c1"); ok {
		t.Error("IdentityOf() found identity after Remove()")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

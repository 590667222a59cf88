package admin

import "gabber/chat"

// StoredCounts are the durable totals behind the relay, straight from
// the database.
type StoredCounts struct {
	Users    int `json:"users"`
	Rooms    int `json:"rooms"`
	Messages int `json:"messages"`
}

// Metrics combines a live hub snapshot with the stored totals.
type Metrics struct {
	Live   chat.LiveStats `json:"live"`
	Stored StoredCounts   `json:"stored"`
}

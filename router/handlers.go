package router

import (
	"encoding/json"
	"net/http"

	"gabber/appcontext"
	"gabber/db"
)

type RoomListResponse struct {
	Rooms []string `json:"rooms"`
}

// RoomsHandler lists room names from the store. It reflects durable
// history, not live membership: a room everyone has left still shows up
// here because its backlog persists.
func RoomsHandler(ctx *appcontext.AppContext) {
	store := db.NewChatStore(ctx.Pool)

	names, err := store.ListRooms(ctx.Context)
	if err != nil {
		ctx.Logger.Printf("Failed to list rooms: %v", err)
		http.Error(ctx.Writer, "Failed to list rooms", http.StatusInternalServerError)
		return
	}
	if names == nil {
		names = []string{}
	}

	ctx.Writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(ctx.Writer).Encode(RoomListResponse{Rooms: names})
}

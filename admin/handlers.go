package admin

import (
	"encoding/json"
	"net/http"

	"gabber/appcontext"
	"gabber/chat"
)

func MetricsHandler(hub *chat.Hub) func(*appcontext.AppContext) {
	return func(ctx *appcontext.AppContext) {
		stored, err := CollectStoredCounts(ctx.Pool, ctx.Context)
		if err != nil {
			ctx.Logger.Printf("Failed to collect stored counts: %v", err)
			http.Error(ctx.Writer, "Failed to collect metrics", http.StatusInternalServerError)
			return
		}

		metrics := Metrics{
			Live:   hub.Stats(),
			Stored: *stored,
		}

		ctx.Writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(ctx.Writer).Encode(metrics)
	}
}

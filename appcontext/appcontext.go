package appcontext

import (
	"context"
	"log"
	"net/http"
	"sync"

	"gabber/db"
)

// AppContext holds request-scoped data and dependencies.
// Pool is optional and can be nil if not needed.
// Logger can be per-router or per-request.
type AppContext struct {
	context.Context
	Writer  http.ResponseWriter
	Request *http.Request
	Logger  *log.Logger
	Pool    *db.DBPool
}

// sync.Pool for AppContext reuse
var appContextPool = sync.Pool{
	New: func() any {
		return new(AppContext)
	},
}

// GetAppContext retrieves an AppContext from the pool
func GetAppContext() *AppContext {
	return appContextPool.Get().(*AppContext)
}

// CleanPut resets AppContext fields and puts it back to the pool
func CleanPut(ctx *AppContext) {
	ctx.Context = nil
	ctx.Writer = nil
	ctx.Request = nil
	ctx.Logger = nil
	ctx.Pool = nil
	appContextPool.Put(ctx)
}

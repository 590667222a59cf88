package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gabber/admin"
	"gabber/chat"
	"gabber/config"
	"gabber/db"
	"gabber/middleware"
	"gabber/router"
	"gabber/websocket"
)

func Run(pool *db.DBPool, hub *chat.Hub, router *router.Router, port string, name string) {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-signalChan
		router.Logger.Printf("Received signal: %s. Shutting down '%s' ...\n", sig, name)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			router.Logger.Printf("Server shutdown error: %v", err)
		}

		hub.CloseAll()
		pool.Close()

		router.Logger.Println("Graceful shutdown completed")
	}()

	router.Logger.Printf("%s is running on port %s\n", name, port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		router.Logger.Fatalf("Error starting server: %v\n", err)
	}

	router.Logger.Println("Server stopped.")
}

func main() {
	config, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbConfig := db.DatabaseConfig{
		Type:       config.Database.Type,
		Database:   config.Database.Database,
		Host:       config.Database.Host,
		Port:       config.Database.Port,
		User:       config.Database.User,
		Password:   config.Database.Password,
		SSLMode:    config.Database.SSLMode,
		Migrations: config.Database.Migrations,
	}

	pool, err := db.InitDB(dbConfig)
	if err != nil {
		log.Fatalf("Could not init database: %v", err)
	}

	hub := chat.NewHub(db.NewChatStore(pool))

	refill, err := time.ParseDuration(config.Chat.RateLimit.RefillInterval)
	if err != nil {
		log.Fatalf("Invalid rate limit refill interval: %v", err)
	}
	wsOptions := websocket.Options{
		SendBuffer:     config.Chat.SendBuffer,
		MaxMessageSize: config.Chat.MaxMessageSize,
		RateLimit: websocket.RateLimitConfig{
			Burst:          config.Chat.RateLimit.Burst,
			RefillInterval: refill,
		},
	}

	mainMux := router.NewRouter(config.Server.Name)
	mainMux.Use(middleware.Logger)
	mainMux.RegisterFileServer("./static", "./static/assets")

	apiMux := router.NewRouter("API")
	apiMux.Pool = pool

	apiMux.Handle("GET /rooms", router.RoomsHandler)
	apiMux.Handle("GET /ws", websocket.Handler(hub, wsOptions))
	apiMux.Handle("GET /admin/metrics", admin.MetricsHandler(hub))

	mainMux.Include(apiMux, "/api")

	Run(pool, hub, mainMux, config.Server.Port, config.Server.Name)
}

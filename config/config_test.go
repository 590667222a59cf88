package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	config, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if config.Server.Port != "8000" {
		t.Errorf("Server.Port = %q, want 8000", config.Server.Port)
	}
	if config.Database.Type != "sqlite3" {
		t.Errorf("Database.Type = %q, want sqlite3", config.Database.Type)
	}
	if config.Database.Migrations != "migrations" {
		t.Errorf("Database.Migrations = %q, want migrations", config.Database.Migrations)
	}
	if config.Chat.SendBuffer != 256 {
		t.Errorf("Chat.SendBuffer = %d, want 256", config.Chat.SendBuffer)
	}
	if config.Chat.RateLimit.Burst != 10 {
		t.Errorf("Chat.RateLimit.Burst = %d, want 10", config.Chat.RateLimit.Burst)
	}
	if config.Chat.RateLimit.RefillInterval != "1s" {
		t.Errorf("Chat.RateLimit.RefillInterval = %q, want 1s", config.Chat.RateLimit.RefillInterval)
	}
}

package main

import (
	"go-boutique-pos/internal/config"
	"go-boutique-pos/internal/repository"
	"go-boutique-pos/internal/service"
	"go-boutique-pos/pkg/database"
	"go-boutique-pos/pkg/log"
)

// reset-pin turns the PIN gate off for owners who lost both the PIN and the
// security answer. The security question itself is kept.
func main() {
	// 1. Load config
	cfg, err := config.NewConfig()
	if err != nil {
		log.L.Fatalf("failed to load config: %v", err)
	}
	log.Setup(cfg.App.LogLevel)

	// 2. Setup Database
	db, err := database.Connect(cfg.Database, cfg.App.LogLevel)
	if err != nil {
		log.L.Fatalf("failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.L.Fatalf("failed to migrate database: %v", err)
	}

	// 3. Drop the PIN
	settings := service.NewSettingsService(repository.NewPreferenceRepo(db), nil, cfg.Auth.SessionTTL, cfg.Location())
	if err := settings.DisablePIN(); err != nil {
		log.L.Fatalf("failed to reset PIN: %v", err)
	}

	log.L.Info("PIN lock disabled. Set a new PIN from the settings screen.")
}

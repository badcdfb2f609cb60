// This file is used to run database migrations
// How to run:
// go run cmd/migrate/main.go                      # Migrate the databases named by the config
// go run cmd/migrate/main.go -config taskman.yaml # Use a specific config file
//
// The project schema is migrated with gorm AutoMigrate, the todo schema with
// its numbered migrations. Both are idempotent.
package main

import (
	"flag"
	"log"

	"github.com/celestiaorg/taskman/internal/config"
	"github.com/celestiaorg/taskman/internal/db"
	"github.com/celestiaorg/taskman/internal/db/todo"
)

func main() {
	configPath := flag.String("config", "", "Path to a config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// db.New runs AutoMigrate
	database, err := db.New(cfg.DBOptions())
	if err != nil {
		log.Fatalf("Project database migration failed: %v", err)
	}
	if err := db.Close(database); err != nil {
		log.Printf("Warning: could not close project database: %v", err)
	}
	log.Printf("Project database (%s) is up to date", cfg.DB.Driver)

	// todo.Open applies pending migrations
	store, err := todo.Open(cfg.TodoDBPath)
	if err != nil {
		log.Fatalf("Todo database migration failed: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Warning: could not close todo database: %v", err)
		}
	}()

	version, err := store.Version()
	if err != nil {
		log.Printf("Warning: could not get final version: %v", err)
		return
	}
	log.Printf("Current todo schema version: %d (latest: %d)", version, todo.LatestVersion())
}

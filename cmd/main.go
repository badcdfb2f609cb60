package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/celestiaorg/taskman/internal/app"
	"github.com/celestiaorg/taskman/internal/config"
	"github.com/celestiaorg/taskman/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to a config file (default: taskman.{yaml,toml,json} in . or ~/.config/taskman)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Format)

	server, err := app.New(app.Options{
		DB:         cfg.DBOptions(),
		TodoDBPath: cfg.TodoDBPath,
		ExportDir:  cfg.ExportDir,
		UIDir:      cfg.UIDir,
	})
	if err != nil {
		logger.Fatalf("Failed to start: %v", err)
	}

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		logger.Infof("Received %s, shutting down", sig)
		if err := server.Shutdown(); err != nil {
			logger.Errorf("Shutdown failed: %v", err)
		}
	}()

	logger.InfoWithFields("Starting server", map[string]interface{}{
		"addr":      cfg.ListenAddr,
		"db_driver": cfg.DB.Driver,
		"ui_dir":    cfg.UIDir,
	})
	listenErr := server.Listen(cfg.ListenAddr)

	if err := server.Close(); err != nil {
		logger.Errorf("Failed to close stores: %v", err)
	}
	if listenErr != nil {
		logger.Fatalf("Server stopped: %v", listenErr)
	}
	logger.Info("Server stopped")
}

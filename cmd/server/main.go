package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/ihanakangas/jako/internal/api"
	"github.com/ihanakangas/jako/internal/auth"
	"github.com/ihanakangas/jako/internal/config"
	"github.com/ihanakangas/jako/internal/receipt"
	"github.com/ihanakangas/jako/internal/storage/sqlite"
	"github.com/ihanakangas/jako/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogFormat, cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	var gate *auth.Gate
	if cfg.AuthPasswordHash != "" {
		gate = auth.NewGate(cfg.AuthPasswordHash)
	} else {
		gate, err = auth.NewGateFromPassword(cfg.AuthPassword)
		if err != nil {
			slog.Error("Failed to hash password", "error", err)
			os.Exit(1)
		}
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	receipts := receipt.NewService(receipt.NewTesseractExtractor(cfg.TesseractPath, cfg.PdftoppmPath))

	server := api.NewServer(store, gate, jwtManager, receipts)

	slog.Info("Server starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, server.Routes()); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

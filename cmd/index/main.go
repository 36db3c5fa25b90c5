package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"teamwork/internal/config"
	"teamwork/internal/database"
	"teamwork/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.Init(cfg.LogLevel)
	log.Info("starting migration")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoDB, err := database.NewMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer mongoDB.Close()

	names, err := database.EnsureIndexes(ctx, mongoDB.Database)
	for _, name := range names {
		log.Info("index ensured", "index", name)
	}
	if err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	log.Info("migration completed", "indexes", len(names))
}

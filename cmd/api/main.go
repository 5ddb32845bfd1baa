package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/shinyyama/mlm-backend/internal/config"
	"github.com/shinyyama/mlm-backend/internal/db"
	"github.com/shinyyama/mlm-backend/internal/logging"
	"github.com/shinyyama/mlm-backend/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	logger := logging.New(cfg.Verbose)

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("auto migrate error: %v", err)
	}

	srv := server.New(conn, cfg, logger)
	addr := ":" + cfg.Port
	logger.Info("starting server", "addr", addr)
	if err := srv.Start(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

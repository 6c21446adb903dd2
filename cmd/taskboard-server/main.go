package main

import (
	"context"
	"log"
	"os"

	"github.com/existflow/taskboard/internal/config"
	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/server"
)

func main() {
	cfg, err := config.Load(os.Getenv("TASKBOARD_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(cfg.LogLevel)
	logCfg.FilePath = cfg.LogFile
	logCfg.Console = true
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	log.Printf("Taskboard server starting on %s (%s)", cfg.Addr, cfg.DatabaseDriver)
	if err := server.Run(context.Background(), cfg, cfg.Addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spbbolshoy-create/sale-spectech-bot/internal/bot"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/config"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/database"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/logger"
)

const defaultConfigPath = "config.yaml"

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run() error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}
	log.Printf("loading config: %s", cfgPath)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.InitLogger(cfg); err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return bot.New(cfg, db).Run(ctx)
}

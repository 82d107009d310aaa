package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tnicklin/basic_bot/bot"
	"github.com/tnicklin/basic_bot/config"
	"github.com/tnicklin/basic_bot/logger"
)

func main() {
	app, err := build()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		stop()
		log.Fatal(err)
	}
}

func build() (*bot.App, error) {
	cfg, err := config.LoadWithDefaults(config.DefaultPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	app, err := bot.New(bot.Params{
		Config: cfg,
		Logger: appLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("build bot: %w", err)
	}

	return app, nil
}

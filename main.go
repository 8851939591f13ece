package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"conquest/autoplay"
	"conquest/config"
	"conquest/engine"
	"conquest/engine/redisstore"
	"conquest/game"
	"conquest/logger"

	"github.com/rs/zerolog/log"
)

// errConfig marks failures that happen before logging is set up.
var errConfig = errors.New("invalid configuration")

func main() {
	err := run()
	switch {
	case err == nil:
	case errors.Is(err, errConfig):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	default:
		log.Error().Err(err).Msg("autoplay failed")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("%w: %w", errConfig, err)
	}
	logger.Init(cfg.LogLevel, cfg.LogConsole)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	board, err := loadBoard(cfg.BoardFile)
	if err != nil {
		return err
	}

	var store engine.Store = engine.NewMemoryStore()
	if cfg.RedisURL != "" {
		rs, err := redisstore.NewStore(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rs.Close()
		store = rs
		log.Info().Msg("persisting sessions in redis")
	}

	records, err := autoplay.Run(ctx, store, autoplay.Settings{
		Board:          board,
		Roster:         cfg.Roster(),
		Games:          cfg.Games,
		Seed:           cfg.Seed,
		StartingArmies: cfg.StartingArmies,
		MaxActions:     cfg.MaxActions,
		ConfirmTimeout: cfg.ConfirmTimeout,
	})
	if err != nil {
		return err
	}

	if cfg.ReportDir != "" {
		if _, err := autoplay.Report(cfg.ReportDir, records); err != nil {
			return err
		}
	}
	return nil
}

func loadBoard(path string) (*game.Board, error) {
	if path == "" {
		return game.ClassicBoard()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open board: %w", err)
	}
	defer f.Close()
	return game.LoadBoard(f)
}

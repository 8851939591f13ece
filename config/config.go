// Package config loads autoplay settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"conquest/game"

	"github.com/caarlos0/env/v11"
)

// Config holds every CONQUEST_* setting. Zero Seed means a random deal.
type Config struct {
	LogLevel       string        `env:"CONQUEST_LOG_LEVEL" envDefault:"info"`
	LogConsole     bool          `env:"CONQUEST_LOG_CONSOLE" envDefault:"true"`
	RedisURL       string        `env:"CONQUEST_REDIS_URL"`
	Seed           uint64        `env:"CONQUEST_SEED"`
	Players        []string      `env:"CONQUEST_PLAYERS" envSeparator:"," envDefault:"red,blue,green"`
	StartingArmies int           `env:"CONQUEST_STARTING_ARMIES"`
	ConfirmTimeout time.Duration `env:"CONQUEST_CONFIRM_TIMEOUT" envDefault:"5s"`
	BoardFile      string        `env:"CONQUEST_BOARD_FILE"`
	MaxActions     int           `env:"CONQUEST_MAX_ACTIONS" envDefault:"20000"`
	Games          int           `env:"CONQUEST_GAMES" envDefault:"1"`
	ReportDir      string        `env:"CONQUEST_REPORT_DIR"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.Players) < game.MinPlayers || len(c.Players) > game.MaxPlayers {
		return fmt.Errorf("config: need %d to %d players, got %d", game.MinPlayers, game.MaxPlayers, len(c.Players))
	}
	if c.StartingArmies < 0 {
		return errors.New("config: starting armies cannot be negative")
	}
	if c.Games < 1 {
		return errors.New("config: at least one game is required")
	}
	if c.ConfirmTimeout <= 0 {
		return errors.New("config: confirm timeout must be positive")
	}
	return nil
}

// Roster turns the configured player names into a game roster. Each name
// doubles as the player's color.
func (c Config) Roster() []game.Player {
	roster := make([]game.Player, len(c.Players))
	for i, name := range c.Players {
		roster[i] = game.Player{ID: game.PlayerID(name), Color: name}
	}
	return roster
}

package config

import (
	"testing"
	"time"

	"conquest/game"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "info", cfg.LogLevel)
		require.True(t, cfg.LogConsole)
		require.Equal(t, []string{"red", "blue", "green"}, cfg.Players)
		require.Equal(t, 5*time.Second, cfg.ConfirmTimeout)
		require.Equal(t, 20000, cfg.MaxActions)
		require.Equal(t, 1, cfg.Games)
		require.Zero(t, cfg.Seed)
		require.Empty(t, cfg.RedisURL)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("CONQUEST_PLAYERS", "ann,ben")
		t.Setenv("CONQUEST_SEED", "42")
		t.Setenv("CONQUEST_CONFIRM_TIMEOUT", "250ms")
		t.Setenv("CONQUEST_REDIS_URL", "redis://localhost:6379/0")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, uint64(42), cfg.Seed)
		require.Equal(t, 250*time.Millisecond, cfg.ConfirmTimeout)
		require.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
		require.Equal(t, []game.Player{{ID: "ann", Color: "ann"}, {ID: "ben", Color: "ben"}}, cfg.Roster())
	})

	t.Run("malformed value", func(t *testing.T) {
		t.Setenv("CONQUEST_MAX_ACTIONS", "lots")
		_, err := Load()
		require.ErrorContains(t, err, "parse env:")
	})

	t.Run("too few players", func(t *testing.T) {
		t.Setenv("CONQUEST_PLAYERS", "solo")
		_, err := Load()
		require.ErrorContains(t, err, "need 2 to 6 players")
	})

	t.Run("no games", func(t *testing.T) {
		t.Setenv("CONQUEST_GAMES", "0")
		_, err := Load()
		require.Error(t, err)
	})
}

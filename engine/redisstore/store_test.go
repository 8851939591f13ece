//go:build integration

package redisstore

import (
	"context"
	"os"
	"testing"

	"conquest/engine"
	"conquest/game"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// setup connects to CONQUEST_TEST_REDIS_URL and flushes it.
func setup(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("CONQUEST_TEST_REDIS_URL")
	if url == "" {
		t.Skip("CONQUEST_TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	require.NoError(t, rdb.FlushDB(context.Background()).Err())
	t.Cleanup(func() { rdb.Close() })
	return NewStoreFromClient(rdb)
}

func TestStoreRoundTrip(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	g, err := game.NewGame(game.MustClassicBoard(), []game.Player{{ID: "alice", Color: "red"}, {ID: "bob", Color: "blue"}}, game.WithSeed(7))
	require.NoError(t, err)
	want := g.Snapshot()

	require.NoError(t, s.Save(ctx, "s1", want))
	got, err := s.Load(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.NoError(t, s.Delete(ctx, "s1"))
	_, err = s.Load(ctx, "s1")
	require.ErrorIs(t, err, engine.ErrNotFound)
}

func TestStoreSessionResume(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	board := game.MustClassicBoard()

	session, err := engine.Open(ctx, s, engine.Setup{
		Mode:    engine.ModeNew,
		Board:   board,
		Roster:  []game.Player{{ID: "alice", Color: "red"}, {ID: "bob", Color: "blue"}},
		Options: []game.Option{game.WithSeed(7)},
	})
	require.NoError(t, err)

	resumed, err := engine.Open(ctx, s, engine.Setup{Mode: engine.ModeResume, ID: session.ID(), Board: board})
	require.NoError(t, err)
	require.Equal(t, session.Snapshot(), resumed.Snapshot())
}

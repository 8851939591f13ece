// Package redisstore persists session snapshots in Redis.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"conquest/engine"
	"conquest/game"

	"github.com/redis/go-redis/v9"
)

func snapshotKey(id string) string { return "conquest:session:" + id + ":snapshot" }

// Store implements engine.Store on a Redis client.
type Store struct {
	rdb *redis.Client
}

// NewStore connects to the Redis server at redisURL.
func NewStore(redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Store{rdb: rdb}, nil
}

// NewStoreFromClient wraps an existing client, e.g. one shared with other
// components or pointed at a test instance.
func NewStoreFromClient(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Save(ctx context.Context, id string, snap game.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, snapshotKey(id), data, 0).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, id string) (game.Snapshot, error) {
	data, err := s.rdb.Get(ctx, snapshotKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return game.Snapshot{}, fmt.Errorf("load %s: %w", id, engine.ErrNotFound)
	}
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("load session %s: %w", id, err)
	}
	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return game.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, snapshotKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// Package autoplay runs batches of games between random players.
package autoplay

import (
	"context"
	"fmt"
	"time"

	"conquest/engine"
	"conquest/game"
	"conquest/metrics"
	"conquest/player"

	"github.com/rs/zerolog/log"
)

// Settings describes a batch. Zero Seed draws a fresh seed per game.
type Settings struct {
	Board          *game.Board
	Roster         []game.Player
	Games          int
	Seed           uint64
	StartingArmies int
	MaxActions     int
	ConfirmTimeout time.Duration
}

// Run plays settings.Games games one after another on store and returns a
// record per game. Sessions are discarded once recorded.
func Run(ctx context.Context, store engine.Store, settings Settings) ([]metrics.GameRecord, error) {
	records := make([]metrics.GameRecord, 0, settings.Games)

	log.Info().Msgf("starting %d games on %s...", settings.Games, settings.Board.Name)
	for i := 0; i < settings.Games; i++ {
		seed := settings.Seed
		if seed == 0 {
			var err error
			if seed, err = game.NewSeed(); err != nil {
				return records, err
			}
		} else {
			seed += uint64(i)
		}

		record, err := playGame(ctx, store, settings, seed)
		if err != nil {
			return records, fmt.Errorf("game %d: %w", i+1, err)
		}
		record.ID = i + 1
		records = append(records, record)

		log.Info().Msgf("completed game %d of %d with winner: %q after %d turns", i+1, settings.Games, record.Winner, record.Turns)
	}
	log.Info().Msgf("completed %d games", settings.Games)
	return records, nil
}

func playGame(ctx context.Context, store engine.Store, settings Settings, seed uint64) (metrics.GameRecord, error) {
	opts := []game.Option{game.WithSeed(seed)}
	if settings.StartingArmies > 0 {
		opts = append(opts, game.WithStartingArmies(settings.StartingArmies))
	}
	session, err := engine.Open(ctx, store, engine.Setup{
		Mode:    engine.ModeNew,
		Board:   settings.Board,
		Roster:  settings.Roster,
		Options: opts,
	}, engine.WithCollector(metrics.NewCollector()))
	if err != nil {
		return metrics.GameRecord{}, err
	}
	defer func() {
		if err := session.Discard(context.WithoutCancel(ctx)); err != nil {
			log.Error().Err(err).Str("session", session.ID()).Msg("failed to discard session")
		}
	}()

	replica, err := engine.NewReplica(settings.Board, session.Snapshot(), session, engine.WithConfirmTimeout(settings.ConfirmTimeout))
	if err != nil {
		return metrics.GameRecord{}, err
	}

	policies := make(map[game.PlayerID]engine.Policy, len(settings.Roster))
	for i, p := range settings.Roster {
		policies[p.ID] = player.NewRandom(seed + uint64(i+1)*7919)
	}

	winner, err := engine.LocalEngine(session, policies, settings.MaxActions, engine.ThroughReplica(replica)).Run(ctx)
	if err != nil {
		return metrics.GameRecord{}, err
	}

	return metrics.GameRecord{
		Session:       session.ID(),
		Seed:          seed,
		Players:       len(settings.Roster),
		Winner:        string(winner),
		Turns:         session.Snapshot().TurnNumber,
		SessionMetric: session.Metrics(),
	}, nil
}

// Report writes records under dir and returns the folder used.
func Report(dir string, records []metrics.GameRecord) (string, error) {
	writer, err := metrics.NewWriter(dir)
	if err != nil {
		return "", fmt.Errorf("create report writer: %w", err)
	}
	if err := writer.WriteGameRecords(records); err != nil {
		return "", err
	}
	log.Info().Str("dir", writer.Dir()).Int("games", len(records)).Msg("stored game records")
	return writer.Dir(), nil
}

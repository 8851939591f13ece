package engine

import (
	"context"
	"errors"
	"fmt"

	"conquest/game"

	"github.com/rs/zerolog/log"
)

const MaxActions = 20000

// Policy chooses the next intent for the current player. g is a private copy
// of the game; policies may inspect it freely.
type Policy interface {
	Next(g *game.Game) Intent
}

// Local plays a whole game on one session, asking each player's policy for
// intents in turn.
type Local struct {
	session    *Session
	replica    *Replica
	policies   map[game.PlayerID]Policy
	maxActions int
}

type LocalOption func(*Local)

// ThroughReplica makes the engine propose every intent via r, the way a
// remote client would, instead of submitting to the session directly.
func ThroughReplica(r *Replica) LocalOption {
	return func(e *Local) {
		e.replica = r
	}
}

func LocalEngine(session *Session, policies map[game.PlayerID]Policy, maxActions int, opts ...LocalOption) *Local {
	if maxActions <= 0 {
		maxActions = MaxActions
	}
	e := &Local{
		session:    session,
		policies:   policies,
		maxActions: maxActions,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Local) view() (*game.Game, error) {
	if e.replica != nil {
		return e.replica.Fork()
	}
	return e.session.Fork()
}

func (e *Local) submit(ctx context.Context, in Intent) error {
	if e.replica != nil {
		_, err := e.replica.Propose(ctx, in)
		return err
	}
	_, err := e.session.Submit(ctx, in)
	return err
}

// Run submits intents until a player has won or maxActions intents have been
// tried. Rejected intents count toward the limit. It returns the winner, or ""
// when the limit was reached.
func (e *Local) Run(ctx context.Context) (game.PlayerID, error) {
	snap := e.session.Snapshot()
	log.Info().Msgf("session %s: %s is starting", e.session.ID(), snap.Players[snap.CurrentPlayerIndex])

	for actions := 0; actions < e.maxActions; actions++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		view, err := e.view()
		if err != nil {
			return "", fmt.Errorf("fork session %s: %w", e.session.ID(), err)
		}
		if winner := view.Winner(); winner != "" {
			return winner, nil
		}

		player := view.CurrentPlayer()
		policy, ok := e.policies[player]
		if !ok {
			return "", fmt.Errorf("no policy for player %s", player)
		}
		in := policy.Next(view)

		if err := e.submit(ctx, in); err != nil {
			if IsRejection(err) {
				log.Debug().Err(err).Str("player", string(player)).Str("kind", string(in.Kind)).Msg("policy proposed a rejected intent")
				continue
			}
			if errors.Is(err, ErrUnconfirmed) {
				log.Warn().Err(err).Str("player", string(player)).Str("kind", string(in.Kind)).Msg("intent unconfirmed, retrying from the replica's state")
				continue
			}
			return "", err
		}
	}

	snap = e.session.Snapshot()
	if snap.Winner == "" {
		log.Info().Msgf("session %s: stopped after %d actions (no winner yet)", e.session.ID(), e.maxActions)
	}
	return snap.Winner, nil
}

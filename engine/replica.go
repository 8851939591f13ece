package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"conquest/game"

	"github.com/rs/zerolog/log"
)

const DefaultConfirmTimeout = 5 * time.Second

type ReplicaOption func(*Replica)

// WithConfirmTimeout bounds how long Propose waits for the authority.
func WithConfirmTimeout(d time.Duration) ReplicaOption {
	return func(r *Replica) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// Replica is a client-side copy of a game. Intents are applied locally first
// and stay provisional until the authority confirms them; a rejection or a
// missing confirmation restores the last confirmed snapshot.
type Replica struct {
	board     *game.Board
	authority Submitter
	timeout   time.Duration

	mu        sync.Mutex
	game      *game.Game
	confirmed game.Snapshot
	seq       uint64
}

func NewReplica(board *game.Board, confirmed game.Snapshot, authority Submitter, opts ...ReplicaOption) (*Replica, error) {
	g, err := game.ResumeGame(board, confirmed)
	if err != nil {
		return nil, fmt.Errorf("new replica: %w", err)
	}
	r := &Replica{
		board:     board,
		authority: authority,
		timeout:   DefaultConfirmTimeout,
		game:      g,
		confirmed: confirmed,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

type reply struct {
	conf Confirmation
	err  error
}

// Propose applies in locally, submits it and waits for confirmation. Intents
// the local copy already rejects are never submitted. When the authority
// rejects an intent the local copy accepted, the replica adopts the state sent
// with the rejection. A confirmation that arrives after the timeout is still
// adopted once it comes in.
func (r *Replica) Propose(ctx context.Context, in Intent) (Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := in.Apply(r.game); err != nil {
		return Outcome{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	replies := make(chan reply, 1)
	go func() {
		conf, err := r.authority.Submit(ctx, in)
		replies <- reply{conf: conf, err: err}
	}()

	select {
	case rep := <-replies:
		return r.settle(rep)
	case <-ctx.Done():
		// a reply racing the deadline wins
		select {
		case rep := <-replies:
			return r.settle(rep)
		default:
		}
		r.rollback()
		go r.awaitLate(in, replies)
		log.Warn().Str("kind", string(in.Kind)).Str("player", string(in.Player)).Dur("timeout", r.timeout).Msg("intent not confirmed, rolled back")
		return Outcome{}, fmt.Errorf("%w: %w", ErrUnconfirmed, ctx.Err())
	}
}

func (r *Replica) settle(rep reply) (Outcome, error) {
	if rep.err != nil {
		if IsRejection(rep.err) && carriesState(rep.conf) {
			if err := r.adopt(rep.conf.Snapshot, rep.conf.Seq); err != nil {
				return Outcome{}, err
			}
			return Outcome{}, rep.err
		}
		r.rollback()
		if errors.Is(rep.err, context.DeadlineExceeded) {
			return Outcome{}, fmt.Errorf("%w: %w", ErrUnconfirmed, rep.err)
		}
		return Outcome{}, rep.err
	}
	if err := r.adopt(rep.conf.Snapshot, rep.conf.Seq); err != nil {
		return Outcome{}, err
	}
	return rep.conf.Outcome, nil
}

// awaitLate adopts the authority's answer to a timed-out intent, unless a
// newer state has been confirmed since.
func (r *Replica) awaitLate(in Intent, replies <-chan reply) {
	rep := <-replies
	if (rep.err != nil && !IsRejection(rep.err)) || !carriesState(rep.conf) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if rep.conf.Seq < r.seq {
		return
	}
	if err := r.adopt(rep.conf.Snapshot, rep.conf.Seq); err != nil {
		log.Error().Err(err).Str("kind", string(in.Kind)).Msg("failed to adopt late confirmation")
		return
	}
	log.Debug().Str("kind", string(in.Kind)).Uint64("seq", rep.conf.Seq).Msg("adopted late confirmation")
}

func carriesState(c Confirmation) bool {
	return len(c.Snapshot.Players) > 0
}

// Sync replaces the local copy with a snapshot pushed by the authority.
func (r *Replica) Sync(s game.Snapshot, seq uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.adopt(s, seq)
}

func (r *Replica) adopt(s game.Snapshot, seq uint64) error {
	g, err := game.ResumeGame(r.board, s)
	if err != nil {
		r.rollback()
		return fmt.Errorf("adopt confirmed state: %w", err)
	}
	r.game = g
	r.confirmed = s
	r.seq = seq
	return nil
}

func (r *Replica) rollback() {
	g, err := game.ResumeGame(r.board, r.confirmed)
	if err != nil {
		// confirmed snapshots were validated when adopted
		panic(fmt.Sprintf("restore confirmed snapshot: %v", err))
	}
	r.game = g
}

// Snapshot returns the local, possibly provisional, state.
func (r *Replica) Snapshot() game.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Snapshot()
}

// Fork returns an independent copy of the local state.
func (r *Replica) Fork() (*game.Game, error) {
	return game.ResumeGame(r.board, r.Snapshot())
}

// Confirmed returns the last state confirmed by the authority.
func (r *Replica) Confirmed() game.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.confirmed
}

// Seq returns the authority's sequence number of the confirmed state.
func (r *Replica) Seq() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

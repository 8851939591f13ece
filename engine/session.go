package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"conquest/game"
	"conquest/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const DefaultEventBuffer = 64

// Setup describes the game a session is opened on. Roster and Options are only
// read for ModeNew; ID is only read for ModeResume, new sessions always get a
// fresh id.
type Setup struct {
	Mode    Mode
	ID      string
	Board   *game.Board
	Roster  []game.Player
	Options []game.Option
}

// Update is pushed to subscribers after every accepted intent.
type Update struct {
	Seq    uint64       `json:"seq"`
	Intent Intent       `json:"intent"`
	Events []game.Event `json:"events"`
}

type Option func(*Session)

func WithCollector(c metrics.Collector) Option {
	return func(s *Session) {
		s.metrics = c
	}
}

// WithEventBuffer sets the capacity of subscriber channels. A subscriber that
// falls a full buffer behind is dropped.
func WithEventBuffer(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.buffer = n
		}
	}
}

// Session is the authoritative copy of one game. Intents are applied one at a
// time; each accepted intent is persisted before it is confirmed.
type Session struct {
	id      string
	board   *game.Board
	store   Store
	metrics metrics.Collector
	buffer  int

	mu      sync.Mutex
	game    *game.Game
	seq     uint64
	pending []game.Event
	subs    map[int]chan Update
	nextSub int
	closed  bool
}

// Open creates or resumes a session, depending on setup.Mode.
func Open(ctx context.Context, store Store, setup Setup, opts ...Option) (*Session, error) {
	if setup.Board == nil {
		return nil, errors.New("open session: board is required")
	}
	s := &Session{
		board:   setup.Board,
		store:   store,
		metrics: metrics.NewDummyCollector(),
		buffer:  DefaultEventBuffer,
		subs:    make(map[int]chan Update),
	}
	for _, opt := range opts {
		opt(s)
	}

	var g *game.Game
	switch setup.Mode {
	case ModeNew:
		s.id = uuid.NewString()
		created, err := game.NewGame(setup.Board, setup.Roster, setup.Options...)
		if err != nil {
			return nil, fmt.Errorf("open session: %w", err)
		}
		if err := store.Save(ctx, s.id, created.Snapshot()); err != nil {
			return nil, fmt.Errorf("save new session %s: %w", s.id, err)
		}
		g = created
	case ModeResume:
		if setup.ID == "" {
			return nil, errors.New("resume session: id is required")
		}
		s.id = setup.ID
		snap, err := store.Load(ctx, s.id)
		if err != nil {
			return nil, fmt.Errorf("resume session %s: %w", s.id, err)
		}
		resumed, err := game.ResumeGame(setup.Board, snap)
		if err != nil {
			return nil, fmt.Errorf("resume session %s: %w", s.id, err)
		}
		g = resumed
	default:
		return nil, fmt.Errorf("open session: unknown mode %d", int(setup.Mode))
	}

	s.attach(g)
	s.metrics.Start()
	log.Info().Str("session", s.id).Str("mode", setup.Mode.String()).Str("board", setup.Board.Name).Msg("session opened")
	return s, nil
}

func (s *Session) attach(g *game.Game) {
	s.game = g
	g.Subscribe(func(e game.Event) {
		s.pending = append(s.pending, e)
	})
}

func (s *Session) ID() string { return s.id }

func (s *Session) Board() *game.Board { return s.board }

// Submit validates and applies an intent, persists the result and notifies
// subscribers. Rule rejections leave the game untouched and return the
// current state; a failed save rolls the game back to its state before the
// intent.
func (s *Session) Submit(ctx context.Context, in Intent) (Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Confirmation{}, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return Confirmation{}, err
	}

	before := s.game.Snapshot()
	s.pending = s.pending[:0]
	outcome, err := in.Apply(s.game)
	if err != nil {
		s.metrics.AddRejected()
		log.Debug().Str("session", s.id).Str("kind", string(in.Kind)).Str("player", string(in.Player)).
			Str("code", string(game.CodeOf(err))).Msg("intent rejected")
		return Confirmation{Seq: s.seq, Snapshot: before}, err
	}

	snap := s.game.Snapshot()
	if err := s.store.Save(ctx, s.id, snap); err != nil {
		s.metrics.AddFailed()
		log.Error().Err(err).Str("session", s.id).Str("kind", string(in.Kind)).Msg("failed to persist session")
		if rerr := s.restore(before); rerr != nil {
			return Confirmation{}, fmt.Errorf("persist session %s: %w (rollback: %v)", s.id, err, rerr)
		}
		return Confirmation{}, fmt.Errorf("persist session %s: %w", s.id, err)
	}

	s.seq++
	s.metrics.AddAccepted()
	if outcome.Conquest != nil {
		s.metrics.AddConquest()
		if outcome.Conquest.Winner != "" {
			log.Info().Str("session", s.id).Str("winner", string(outcome.Conquest.Winner)).Int("turn", snap.TurnNumber).Msg("game won")
		}
	}
	s.publish(Update{Seq: s.seq, Intent: in, Events: slices.Clone(s.pending)})
	log.Debug().Str("session", s.id).Uint64("seq", s.seq).Str("kind", string(in.Kind)).Str("player", string(in.Player)).Msg("intent applied")

	return Confirmation{Seq: s.seq, Outcome: outcome, Snapshot: snap}, nil
}

func (s *Session) restore(snap game.Snapshot) error {
	g, err := game.ResumeGame(s.board, snap)
	if err != nil {
		return err
	}
	s.pending = s.pending[:0]
	s.attach(g)
	return nil
}

func (s *Session) publish(u Update) {
	for id, ch := range s.subs {
		select {
		case ch <- u:
		default:
			log.Warn().Str("session", s.id).Int("subscriber", id).Msg("dropping slow subscriber")
			close(ch)
			delete(s.subs, id)
		}
	}
}

// Subscribe returns a channel of updates and a function that cancels the
// subscription. The channel is closed on cancel, on Close, or when the
// subscriber falls behind.
func (s *Session) Subscribe() (<-chan Update, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Update, s.buffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			close(c)
			delete(s.subs, id)
		}
	}
}

// Snapshot returns the confirmed state.
func (s *Session) Snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

// Fork returns an independent copy of the game, for read-only inspection by
// callers that need the board queries a snapshot does not offer.
func (s *Session) Fork() (*game.Game, error) {
	return game.ResumeGame(s.board, s.Snapshot())
}

// Seq returns the number of intents accepted since the session was opened.
func (s *Session) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

func (s *Session) Metrics() metrics.SessionMetric {
	return s.metrics.Complete()
}

// Close stops accepting intents and closes every subscriber channel.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	log.Info().Str("session", s.id).Uint64("seq", s.seq).Msg("session closed")
}

// Discard closes the session and removes its snapshot from the store.
func (s *Session) Discard(ctx context.Context) error {
	s.Close()
	if err := s.store.Delete(ctx, s.id); err != nil {
		return fmt.Errorf("discard session %s: %w", s.id, err)
	}
	return nil
}

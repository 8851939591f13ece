package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"conquest/game"

	"github.com/stretchr/testify/require"
)

// stubAuthority answers every submission with err, after waiting for release
// when it is set.
type stubAuthority struct {
	calls   atomic.Int32
	err     error
	release chan struct{}
}

func (s *stubAuthority) Submit(ctx context.Context, in Intent) (Confirmation, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	return Confirmation{}, s.err
}

// slowAuthority applies intents on a session right away but answers only
// after delay, or once the caller gives up when delay is zero.
type slowAuthority struct {
	session *Session
	delay   time.Duration
}

func (s *slowAuthority) Submit(ctx context.Context, in Intent) (Confirmation, error) {
	conf, err := s.session.Submit(context.Background(), in)
	if s.delay > 0 {
		time.Sleep(s.delay)
	} else {
		<-ctx.Done()
	}
	return conf, err
}

func TestReplicaPropose(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed intents adopt the authority's state", func(t *testing.T) {
		session := openSession(t, NewMemoryStore(), 4)
		r, err := NewReplica(session.Board(), session.Snapshot(), session)
		require.NoError(t, err)

		out, err := r.Propose(ctx, Intent{Kind: KindDeploy, Player: alice, Territory: "a", Count: 2})
		require.NoError(t, err)
		require.Equal(t, 3, out.Deploy.Armies)
		require.Equal(t, session.Snapshot(), r.Confirmed())
		require.Equal(t, r.Confirmed(), r.Snapshot())
		require.Equal(t, uint64(1), r.Seq())
	})

	t.Run("locally rejected intents are not submitted", func(t *testing.T) {
		session := openSession(t, NewMemoryStore(), 4)
		authority := &stubAuthority{}
		r, err := NewReplica(session.Board(), session.Snapshot(), authority)
		require.NoError(t, err)

		_, err = r.Propose(ctx, Intent{Kind: KindDeploy, Player: alice, Territory: "b", Count: 1})
		require.ErrorIs(t, err, game.ErrNotOwner)
		require.Zero(t, authority.calls.Load())
	})

	t.Run("authority rejection rolls back", func(t *testing.T) {
		session := openSession(t, NewMemoryStore(), 4)
		authority := &stubAuthority{err: &game.Error{Code: game.CodeNotCurrentPlayer}}
		r, err := NewReplica(session.Board(), session.Snapshot(), authority)
		require.NoError(t, err)

		_, err = r.Propose(ctx, Intent{Kind: KindDeploy, Player: alice, Territory: "a", Count: 2})
		require.ErrorIs(t, err, game.ErrNotCurrentPlayer)
		require.Equal(t, r.Confirmed(), r.Snapshot())
		require.Equal(t, 1, r.Snapshot().Territories["a"].Armies)
	})

	t.Run("missing confirmation rolls back after the timeout", func(t *testing.T) {
		session := openSession(t, NewMemoryStore(), 4)
		authority := &stubAuthority{release: make(chan struct{})}
		defer close(authority.release)
		r, err := NewReplica(session.Board(), session.Snapshot(), authority, WithConfirmTimeout(20*time.Millisecond))
		require.NoError(t, err)

		start := time.Now()
		_, err = r.Propose(ctx, Intent{Kind: KindDeploy, Player: alice, Territory: "a", Count: 2})
		require.ErrorIs(t, err, ErrUnconfirmed)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.False(t, IsRejection(err))
		require.Less(t, time.Since(start), 2*time.Second, "Wait is bounded even if the authority never answers")
		require.Equal(t, 1, r.Snapshot().Territories["a"].Armies)
	})

	t.Run("late confirmation is adopted", func(t *testing.T) {
		session := openSession(t, NewMemoryStore(), 4)
		authority := &slowAuthority{session: session, delay: 50 * time.Millisecond}
		r, err := NewReplica(session.Board(), session.Snapshot(), authority, WithConfirmTimeout(10*time.Millisecond))
		require.NoError(t, err)

		_, err = r.Propose(ctx, Intent{Kind: KindDeploy, Player: alice, Territory: "a", Count: 2})
		require.ErrorIs(t, err, ErrUnconfirmed)
		require.Equal(t, 2, r.Snapshot().RemainingArmies[alice], "Rolled back until the authority answers")

		require.Eventually(t, func() bool { return r.Seq() == 1 }, 2*time.Second, 5*time.Millisecond)
		require.Equal(t, session.Snapshot(), r.Snapshot())
		require.Zero(t, r.Snapshot().RemainingArmies[alice])
	})

	t.Run("reply racing the deadline is not lost", func(t *testing.T) {
		session := openSession(t, NewMemoryStore(), 4)
		authority := &slowAuthority{session: session}
		r, err := NewReplica(session.Board(), session.Snapshot(), authority, WithConfirmTimeout(10*time.Millisecond))
		require.NoError(t, err)

		_, err = r.Propose(ctx, Intent{Kind: KindDeploy, Player: alice, Territory: "a", Count: 2})
		if err != nil {
			require.ErrorIs(t, err, ErrUnconfirmed)
		}
		require.Eventually(t, func() bool { return r.Seq() == 1 }, 2*time.Second, 5*time.Millisecond)
		require.Equal(t, session.Snapshot(), r.Confirmed())
	})

	t.Run("stale replica catches up on rejection", func(t *testing.T) {
		session := openSession(t, NewMemoryStore(), 4)
		r, err := NewReplica(session.Board(), session.Snapshot(), session)
		require.NoError(t, err)
		_, err = session.Submit(ctx, Intent{Kind: KindDeploy, Player: alice, Territory: "a", Count: 2})
		require.NoError(t, err)

		_, err = r.Propose(ctx, Intent{Kind: KindDeploy, Player: alice, Territory: "c", Count: 2})
		require.ErrorIs(t, err, game.ErrInsufficientReinforcements)
		require.Equal(t, uint64(1), r.Seq())
		require.Equal(t, session.Snapshot(), r.Snapshot())

		_, err = r.Propose(ctx, Intent{Kind: KindAdvance, Player: alice})
		require.NoError(t, err)
		require.Equal(t, session.Snapshot(), r.Confirmed())
	})

	t.Run("sync adopts pushed state", func(t *testing.T) {
		session := openSession(t, NewMemoryStore(), 4)
		r, err := NewReplica(session.Board(), session.Snapshot(), &stubAuthority{})
		require.NoError(t, err)

		conf, err := session.Submit(ctx, Intent{Kind: KindDeploy, Player: alice, Territory: "c", Count: 1})
		require.NoError(t, err)
		require.NoError(t, r.Sync(conf.Snapshot, conf.Seq))
		require.Equal(t, 2, r.Snapshot().Territories["c"].Armies)
		require.Equal(t, uint64(1), r.Seq())

		bad := conf.Snapshot
		bad.CurrentPlayerIndex = 7
		require.ErrorIs(t, r.Sync(bad, 2), game.ErrInvalidSnapshot)
		require.Equal(t, conf.Snapshot, r.Confirmed(), "Invalid pushes are ignored")
	})
}

package engine

import (
	"context"
	"errors"

	"conquest/game"
)

// Mode selects how a session obtains its game.
type Mode int

const (
	// ModeNew deals a fresh game from a roster.
	ModeNew Mode = iota
	// ModeResume restores a stored snapshot; nothing is dealt.
	ModeResume
)

func (m Mode) String() string {
	switch m {
	case ModeNew:
		return "new"
	case ModeResume:
		return "resume"
	}
	return "unknown"
}

// Submitter is the authoritative side of a game: it validates and applies an
// intent and returns the confirmed state. A rule rejection comes with the
// authority's current state as well, so stale callers can catch up; other
// failures carry an empty Confirmation. Session implements it.
type Submitter interface {
	Submit(ctx context.Context, in Intent) (Confirmation, error)
}

// Confirmation is the authoritative answer to an intent. Outcome is only set
// when the intent was accepted.
type Confirmation struct {
	Seq      uint64        `json:"seq"`
	Outcome  Outcome       `json:"outcome"`
	Snapshot game.Snapshot `json:"snapshot"`
}

var (
	ErrNotFound    = errors.New("session not found")
	ErrClosed      = errors.New("session closed")
	ErrUnconfirmed = errors.New("intent not confirmed in time")
)

// IsRejection reports whether err is a rule rejection the caller can correct,
// as opposed to an infrastructure failure.
func IsRejection(err error) bool {
	var e *game.Error
	return errors.As(err, &e)
}

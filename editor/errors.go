package editor

import "github.com/pkg/errors"

var (
	// ErrInvalidSession is returned when persisted session data breaks the
	// invariants of a session.
	ErrInvalidSession = errors.New("invalid session")

	// ErrInvalidCommand is returned for commands whose parameters can never
	// be applied, e.g. an Append of a note with an unknown pitch class.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrIDsExhausted is returned when there are no more event IDs to give.
	ErrIDsExhausted = errors.New("event IDs exhausted")
)

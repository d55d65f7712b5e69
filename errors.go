package stave

import "github.com/pkg/errors"

var (
	// ErrSelectionIndexOutOfRange is returned when a command refers to a
	// selection that does not exist.
	ErrSelectionIndexOutOfRange = errors.New("selection index out of range")

	// ErrEmptyTimelineNavigation is returned when a delta counted in events is
	// resolved against a score without events.
	ErrEmptyTimelineNavigation = errors.New("cannot navigate by events in an empty score")

	// ErrUnrepresentableDuration is returned by Export when an event duration has no
	// notated value.
	ErrUnrepresentableDuration = errors.New("duration has no notated value")

	// ErrOverlappingStart is returned when an event with the same start and
	// the same identifier is already in the score. Events with different
	// identifiers never collide, even when they start together.
	ErrOverlappingStart = errors.New("event with the same start and identifier already exists")

	// ErrPitchOutOfRange is returned when a transposition would go below the
	// lowest representable pitch.
	ErrPitchOutOfRange = errors.New("pitch out of range")
)

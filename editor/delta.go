package editor

import (
	"github.com/pkg/errors"
	"github.com/vsariola/stave"
)

type (
	// Delta is how far a move goes: either Pulses or Events.
	Delta interface {
		resolve(score stave.Score, anchor stave.Pulse) (stave.Pulse, error)
	}

	// Pulses is a delta of a fixed number of pulses.
	Pulses stave.Pulse

	// Events is a delta counted in events. The count starts from the first
	// event after the anchor of the move (or from the last event, if none is
	// after it) and stops at the first or the last event of the score.
	Events int
)

func (p Pulses) resolve(stave.Score, stave.Pulse) (stave.Pulse, error) {
	return stave.Pulse(p), nil
}

func (d Events) resolve(score stave.Score, anchor stave.Pulse) (stave.Pulse, error) {
	n := score.Len()
	if n == 0 {
		return 0, errors.Wrapf(stave.ErrEmptyTimelineNavigation, "moving by %d events", int(d))
	}
	from := min(score.FirstAfter(anchor), n-1)
	steps := max(min(int(d), n), -n)
	to := max(min(from+steps, n-1), 0)
	return score.At(to).Start - score.At(from).Start, nil
}

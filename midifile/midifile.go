// Package midifile writes scores as Standard MIDI Files.
package midifile

import (
	"io"

	"github.com/pkg/errors"
	"github.com/vsariola/stave"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/exp/slices"
)

// Options control how pulses and notes become MIDI messages.
type Options struct {
	Tempo      float64 // quarter notes per minute
	Channel    uint8   // 0-15
	Velocity   uint8   // 1-127
	Resolution uint16  // ticks per quarter note, a multiple of stave.PulsesPerQuarter
	Name       string  // track name; omitted when empty
}

// KeyOffset is the MIDI key of A natural in octave 0.
const KeyOffset = 21

const pulsesPerQuarter = uint16(stave.PulsesPerQuarter)

var (
	ErrNegativeStart       = errors.New("event starts before the beginning of the score")
	ErrNonPositiveDuration = errors.New("event duration is not positive")
	ErrInvalidOptions      = errors.New("invalid MIDI options")
)

var DefaultOptions = Options{Tempo: 120, Channel: 0, Velocity: 100, Resolution: 960}

type timedMsg struct {
	tick uint64
	off  bool
	msg  midi.Message
}

func (o Options) validate() error {
	switch {
	case o.Tempo <= 0:
		return errors.Wrapf(ErrInvalidOptions, "tempo %v", o.Tempo)
	case o.Channel > 15:
		return errors.Wrapf(ErrInvalidOptions, "channel %d", o.Channel)
	case o.Velocity == 0 || o.Velocity > 127:
		return errors.Wrapf(ErrInvalidOptions, "velocity %d", o.Velocity)
	case o.Resolution == 0 || o.Resolution%pulsesPerQuarter != 0:
		return errors.Wrapf(ErrInvalidOptions, "resolution %d", o.Resolution)
	}
	return nil
}

// Key returns the MIDI key number of a note.
func Key(n stave.Note) (uint8, error) {
	k := n.Absolute() + KeyOffset
	if k < 0 || k > 127 {
		return 0, errors.Wrapf(stave.ErrPitchOutOfRange, "note %v has no MIDI key", n)
	}
	return uint8(k), nil
}

// Encode converts the score to a single track SMF in 4/4.
func Encode(score stave.Score, opts Options) (*smf.SMF, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	ticksPerPulse := uint64(opts.Resolution / pulsesPerQuarter)
	msgs := make([]timedMsg, 0, 2*score.Len())
	for _, e := range score.All() {
		if e.Start < 0 {
			return nil, errors.Wrapf(ErrNegativeStart, "event %d at %d", e.ID, e.Start)
		}
		if e.Duration <= 0 {
			return nil, errors.Wrapf(ErrNonPositiveDuration, "event %d lasts %d pulses", e.ID, e.Duration)
		}
		key, err := Key(e.Note)
		if err != nil {
			return nil, err
		}
		on := uint64(e.Start) * ticksPerPulse
		off := uint64(e.End()) * ticksPerPulse
		msgs = append(msgs,
			timedMsg{tick: on, msg: midi.NoteOn(opts.Channel, key, opts.Velocity)},
			timedMsg{tick: off, off: true, msg: midi.NoteOff(opts.Channel, key)},
		)
	}
	// a note that ends where the next one starts is released before it is
	// struck again
	slices.SortStableFunc(msgs, func(a, b timedMsg) int {
		switch {
		case a.tick < b.tick:
			return -1
		case a.tick > b.tick:
			return 1
		case a.off && !b.off:
			return -1
		case !a.off && b.off:
			return 1
		}
		return 0
	})
	var tr smf.Track
	if opts.Name != "" {
		tr.Add(0, smf.MetaTrackSequenceName(opts.Name))
	}
	tr.Add(0, smf.MetaMeter(4, 4))
	tr.Add(0, smf.MetaTempo(opts.Tempo))
	var last uint64
	for _, m := range msgs {
		tr.Add(uint32(m.tick-last), m.msg)
		last = m.tick
	}
	tr.Close(0)
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(opts.Resolution)
	if err := s.Add(tr); err != nil {
		return nil, errors.Wrap(err, "could not add track")
	}
	return s, nil
}

// Write encodes the score and writes it to w. Nothing is written if the
// score cannot be encoded.
func Write(w io.Writer, score stave.Score, opts Options) error {
	s, err := Encode(score, opts)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return errors.Wrap(err, "could not write MIDI file")
	}
	return nil
}

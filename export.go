package stave

import (
	"fmt"

	"github.com/pkg/errors"
)

type (
	// Export is the score projected into notation: measures of staves of
	// layers, each layer a list of notes and rests. It is everything an
	// engraving renderer needs, and nothing else of the session.
	Export struct {
		ScoreDef ScoreDef
		Measures []Measure
	}

	// ScoreDef describes the staff the measures are written on.
	ScoreDef struct {
		MeterCount int
		MeterUnit  int
		KeySig     string
		KeyMode    string
		ClefShape  string
		ClefLine   int
		Lines      int
	}

	Measure struct {
		N      int
		Staves []Staff
	}

	Staff struct {
		N      int
		Layers []Layer
	}

	// Layer is one voice within a staff.
	Layer struct {
		N        int
		Elements []Element
	}

	// Element is a notated note or rest. Rests have only Dur.
	Element struct {
		Rest       bool
		ID         string
		PitchName  string
		Accidental string // empty for naturals
		Octave     Octave
		Dur        int // notated duration: 1 whole, 2 half, 4 quarter...
	}
)

// DefaultScoreDef is the only staff definition Export produces: 4/4 in C major
// on a treble clef.
var DefaultScoreDef = ScoreDef{
	MeterCount: 4,
	MeterUnit:  4,
	KeySig:     "0",
	KeyMode:    "major",
	ClefShape:  "G",
	ClefLine:   2,
	Lines:      5,
}

// ElementID is the identifier an event has in an export.
func ElementID(id uint32) string {
	return fmt.Sprintf("note_%d", id)
}

// Export projects the score into measures. Every element belongs to the
// measure in which it starts, so the notes of a chord always share a measure.
// A measure is closed when the next element starts at or after its barline;
// notes longer than what is left of a measure are not split, and such a
// measure simply runs long. A partial last measure is included.
//
// Gaps between events are filled with rests. A gap is split at barlines and
// then into the longest rests that have a notated value. Every event
// duration must have a notated value; otherwise Export fails with
// ErrUnrepresentableDuration.
func (s Score) Export() (Export, error) {
	ret := Export{ScoreDef: DefaultScoreDef}
	var layer Layer
	var barline Pulse
	closeMeasure := func() {
		n := len(ret.Measures) + 1
		layer.N = 1
		ret.Measures = append(ret.Measures, Measure{
			N:      n,
			Staves: []Staff{{N: 1, Layers: []Layer{layer}}},
		})
		layer = Layer{}
	}
	emit := func(e Element, start Pulse) {
		if len(layer.Elements) > 0 && start >= barline {
			closeMeasure()
		}
		if len(layer.Elements) == 0 {
			barline = nextBarline(start)
		}
		layer.Elements = append(layer.Elements, e)
	}
	var position Pulse // end of the music written so far
	for _, event := range s.events {
		for position < event.Start {
			length := longestRest(min(event.Start, nextBarline(position)) - position)
			dur, _ := length.NotatedDuration()
			emit(Element{Rest: true, Dur: dur}, position)
			position += length
		}
		dur, ok := event.Duration.NotatedDuration()
		if !ok {
			return Export{}, errors.Wrapf(ErrUnrepresentableDuration, "event %d lasts %d pulses", event.ID, event.Duration)
		}
		var acc string
		if event.Note.Pitch.Accidental != Natural {
			acc = event.Note.Pitch.Accidental.String()
		}
		emit(Element{
			ID:         ElementID(event.ID),
			PitchName:  event.Note.Pitch.Class.String(),
			Accidental: acc,
			Octave:     event.Note.Octave,
			Dur:        dur,
		}, event.Start)
		position = max(position, event.End())
	}
	if len(layer.Elements) > 0 {
		closeMeasure()
	}
	return ret, nil
}

// nextBarline returns the first barline strictly after p.
func nextBarline(p Pulse) Pulse {
	q := p / PulsesPerMeasure
	if p < 0 && p%PulsesPerMeasure != 0 {
		q--
	}
	return (q + 1) * PulsesPerMeasure
}

// longestRest returns the longest notated length that fits in n > 0 pulses.
func longestRest(n Pulse) Pulse {
	for l := PulsesPerWhole; l > 1; l /= 2 {
		if l <= n {
			return l
		}
	}
	return 1
}

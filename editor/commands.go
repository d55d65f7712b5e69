package editor

import (
	"github.com/pkg/errors"
	"github.com/vsariola/stave"
)

type (
	// Command is an edit that can be applied to a Session. The set of
	// commands is closed; they are the types in this file.
	//
	// Every command has a Selections field naming the indices of the
	// selections it works on. A nil Selections means all of them, in order.
	// Selections listed twice are worked on twice.
	Command interface {
		apply(d *sessionData) error
	}

	// Append inserts a note at the end of each selection. Everything at or
	// after that point, events and selection ends alike, moves forward by
	// Duration.
	Append struct {
		Note       stave.Note
		Duration   stave.Pulse
		Selections []int
	}

	// Move moves the selections, both the begin and the end, by Delta. Events
	// counts from the begin.
	Move struct {
		Delta      Delta
		Selections []int
	}

	// MoveEnd moves only the end of the selections. If the end passes the
	// begin, the two are swapped. Events counts from the end.
	MoveEnd struct {
		Delta      Delta
		Selections []int
	}

	// MoveContents moves the events starting within the selections by Delta,
	// and the selections with them. Events that the moved block passes over
	// are moved the other way by the same amount, so the block and those
	// events change places. Events counts from the begin.
	MoveContents struct {
		Delta      Delta
		Selections []int
	}

	// Transpose transposes the events starting within the selections by
	// Semitones. Timing does not change.
	Transpose struct {
		Semitones  int
		Selections []int
	}

	// Delete removes the events starting within the selections. Later events
	// keep their positions; the gap is left in the score.
	Delete struct {
		Selections []int
	}
)

func (c Append) apply(d *sessionData) error {
	if !c.Note.Valid() {
		return errors.Wrapf(ErrInvalidCommand, "append of note %+v", c.Note)
	}
	scope, err := d.scope(c.Selections)
	if err != nil {
		return err
	}
	for _, i := range scope {
		if err := d.insert(d.Selections[i].End, c.Note, c.Duration); err != nil {
			return err
		}
	}
	return nil
}

func (c Move) apply(d *sessionData) error {
	scope, err := d.scope(c.Selections)
	if err != nil {
		return err
	}
	for _, i := range scope {
		sel := &d.Selections[i]
		delta, err := resolve(c.Delta, d.Score, sel.Begin)
		if err != nil {
			return err
		}
		sel.Shift(delta)
	}
	return nil
}

func (c MoveEnd) apply(d *sessionData) error {
	scope, err := d.scope(c.Selections)
	if err != nil {
		return err
	}
	for _, i := range scope {
		sel := &d.Selections[i]
		delta, err := resolve(c.Delta, d.Score, sel.End)
		if err != nil {
			return err
		}
		sel.End += delta
		sel.Normalize()
	}
	return nil
}

func (c MoveContents) apply(d *sessionData) error {
	scope, err := d.scope(c.Selections)
	if err != nil {
		return err
	}
	for _, i := range scope {
		sel := d.Selections[i]
		delta, err := resolve(c.Delta, d.Score, sel.Begin)
		if err != nil {
			return err
		}
		if delta == 0 {
			continue
		}
		d.Score.Retime(func(e stave.Event) stave.Pulse {
			switch {
			case sel.Contains(e.Start):
				return e.Start + delta
			case delta > 0 && e.Start > sel.End && e.Start <= sel.End+delta:
				return e.Start - delta
			case delta < 0 && e.Start < sel.Begin && e.Start >= sel.Begin+delta:
				return e.Start - delta
			}
			return e.Start
		})
		d.Selections[i].Shift(delta)
	}
	return nil
}

func (c Transpose) apply(d *sessionData) error {
	scope, err := d.scope(c.Selections)
	if err != nil {
		return err
	}
	for _, i := range scope {
		for _, j := range d.Score.InRange(d.Selections[i]) {
			e := d.Score.At(j)
			n, err := e.Note.Transpose(c.Semitones)
			if err != nil {
				return errors.Wrapf(err, "transposing event %d by %d", e.ID, c.Semitones)
			}
			d.Score.SetNote(j, n)
		}
	}
	return nil
}

func (c Delete) apply(d *sessionData) error {
	scope, err := d.scope(c.Selections)
	if err != nil {
		return err
	}
	for _, i := range scope {
		sel := d.Selections[i]
		d.Score.DeleteFunc(func(e stave.Event) bool { return sel.Contains(e.Start) })
	}
	return nil
}

func resolve(delta Delta, score stave.Score, anchor stave.Pulse) (stave.Pulse, error) {
	if delta == nil {
		return 0, errors.Wrap(ErrInvalidCommand, "missing delta")
	}
	return delta.resolve(score, anchor)
}

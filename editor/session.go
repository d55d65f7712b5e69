package editor

import (
	"io"
	"log/slog"
	"math"

	"github.com/pkg/errors"
	"github.com/vsariola/stave"
	"golang.org/x/exp/slices"
)

type (
	// sessionData is everything of the session that gets saved.
	sessionData struct {
		Score      stave.Score       `yaml:"score" json:"score"`
		Selections []stave.Selection `yaml:"selections" json:"selections"`
		NextID     uint32            `yaml:"nextid" json:"nextId"`
	}

	// Session is the editing context: the score, the selections over it and
	// the next free event ID.
	Session struct {
		d   sessionData
		log *slog.Logger
	}

	Option func(*Session)
)

// WithLogger makes the session log the commands applied to it.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// NewSession returns an empty session with one selection at the very
// beginning.
func NewSession(opts ...Option) *Session {
	s := &Session{d: sessionData{Selections: []stave.Selection{{}}}}
	s.setOptions(opts)
	return s
}

// Restore returns a session with the given state, e.g. one loaded from
// elsewhere than a session file. It fails with ErrInvalidSession if the state
// breaks the invariants of a session.
func Restore(score stave.Score, selections []stave.Selection, nextID uint32, opts ...Option) (*Session, error) {
	d := sessionData{Score: score.Copy(), Selections: slices.Clone(selections), NextID: nextID}
	if err := d.validate(); err != nil {
		return nil, err
	}
	s := &Session{d: d}
	s.setOptions(opts)
	return s, nil
}

func (s *Session) setOptions(opts []Option) {
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// Copy returns an independent copy of the session; this is what a caller
// should keep if it wants to return to the current state later.
func (s *Session) Copy() *Session {
	return &Session{d: s.d.copy(), log: s.log}
}

// Score returns a copy of the score.
func (s *Session) Score() stave.Score { return s.d.Score.Copy() }

// Selections returns a copy of the selections.
func (s *Session) Selections() []stave.Selection { return slices.Clone(s.d.Selections) }

// Selection returns the i:th selection.
func (s *Session) Selection(i int) (stave.Selection, error) {
	if err := s.d.checkIndex(i); err != nil {
		return stave.Selection{}, err
	}
	return s.d.Selections[i], nil
}

// NextID returns the ID the next appended event will get.
func (s *Session) NextID() uint32 { return s.d.NextID }

// AddSelection adds a new selection and returns its index. Begin and End are
// swapped if given in the wrong order.
func (s *Session) AddSelection(sel stave.Selection) int {
	sel.Normalize()
	s.d.Selections = append(s.d.Selections, sel)
	return len(s.d.Selections) - 1
}

// EventsInSelection returns the events starting within the i:th selection.
func (s *Session) EventsInSelection(i int) ([]stave.Event, error) {
	if err := s.d.checkIndex(i); err != nil {
		return nil, err
	}
	var ret []stave.Event
	for _, j := range s.d.Score.InRange(s.d.Selections[i]) {
		ret = append(ret, s.d.Score.At(j))
	}
	return ret, nil
}

// Export projects the score into notation, see stave.Score.Export.
func (s *Session) Export() (stave.Export, error) {
	return s.d.Score.Export()
}

// Apply runs the command on the session. If the command fails, the session is
// left unchanged.
func (s *Session) Apply(c Command) error {
	staged := s.d.copy()
	if err := c.apply(&staged); err != nil {
		s.log.Warn("command rejected", "command", c, "err", err)
		return err
	}
	s.d = staged
	s.log.Debug("command applied", "command", c, "events", s.d.Score.Len(), "selections", s.d.Selections)
	return nil
}

func (d *sessionData) copy() sessionData {
	return sessionData{Score: d.Score.Copy(), Selections: slices.Clone(d.Selections), NextID: d.NextID}
}

func (d *sessionData) checkIndex(i int) error {
	if i < 0 || i >= len(d.Selections) {
		return errors.Wrapf(stave.ErrSelectionIndexOutOfRange, "selection %d of %d", i, len(d.Selections))
	}
	return nil
}

// scope returns the selection indices a command works on: all of them when
// indices is nil.
func (d *sessionData) scope(indices []int) ([]int, error) {
	if indices == nil {
		ret := make([]int, len(d.Selections))
		for i := range ret {
			ret[i] = i
		}
		return ret, nil
	}
	for _, i := range indices {
		if err := d.checkIndex(i); err != nil {
			return nil, err
		}
	}
	return indices, nil
}

// insert makes room for an event of given duration at position, moving later
// events and selection ends forward, and then adds the event with a new ID.
func (d *sessionData) insert(position stave.Pulse, note stave.Note, duration stave.Pulse) error {
	if d.NextID == math.MaxUint32 {
		return ErrIDsExhausted
	}
	d.Score.ShiftFrom(position, duration)
	for i := range d.Selections {
		d.Selections[i].ShiftFrom(position, duration)
		d.Selections[i].Normalize() // only a negative duration can reverse one
	}
	e := stave.Event{ID: d.NextID, Note: note, Start: position, Duration: duration}
	d.NextID++
	return d.Score.Add(e)
}

func (d *sessionData) validate() error {
	ids := make(map[uint32]bool, d.Score.Len())
	for _, e := range d.Score.All() {
		if ids[e.ID] {
			return errors.Wrapf(ErrInvalidSession, "event ID %d used twice", e.ID)
		}
		ids[e.ID] = true
		if e.ID >= d.NextID {
			return errors.Wrapf(ErrInvalidSession, "event ID %d not below next ID %d", e.ID, d.NextID)
		}
		if !e.Note.Valid() {
			return errors.Wrapf(ErrInvalidSession, "event %d has an invalid note", e.ID)
		}
	}
	for i, sel := range d.Selections {
		if sel.End < sel.Begin {
			return errors.Wrapf(ErrInvalidSession, "selection %d ends before it begins", i)
		}
	}
	return nil
}

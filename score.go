package stave

import (
	"encoding/json"
	"iter"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// Score is the timeline: all the events of a session, ordered by start and
// then by ID. Two events can start at the same time; they are told apart by
// their IDs, so neither replaces the other.
//
// The zero value is an empty score. Methods with a pointer receiver modify the
// score in place; callers that need to keep the old state should Copy it
// first.
type Score struct {
	events []Event
}

// NewScore returns a score with the given events in timeline order.
func NewScore(events ...Event) (Score, error) {
	var s Score
	for _, e := range events {
		if err := s.Add(e); err != nil {
			return Score{}, err
		}
	}
	return s, nil
}

// Copy makes a deep copy of a Score.
func (s Score) Copy() Score {
	return Score{events: slices.Clone(s.events)}
}

// Len returns the number of events.
func (s Score) Len() int { return len(s.events) }

// At returns the i:th event in timeline order.
func (s Score) At(i int) Event { return s.events[i] }

// Events returns a copy of the events in timeline order.
func (s Score) Events() []Event { return slices.Clone(s.events) }

// All iterates the events in timeline order, together with their indices.
func (s Score) All() iter.Seq2[int, Event] {
	return func(yield func(int, Event) bool) {
		for i, e := range s.events {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Find returns the event with the given ID.
func (s Score) Find(id uint32) (Event, bool) {
	i := slices.IndexFunc(s.events, func(e Event) bool { return e.ID == id })
	if i < 0 {
		return Event{}, false
	}
	return s.events[i], true
}

// FirstAfter returns the index of the first event that starts strictly after
// p, or Len() if there is none.
func (s Score) FirstAfter(p Pulse) int {
	i, _ := slices.BinarySearchFunc(s.events, p, func(e Event, p Pulse) int {
		if e.Start <= p {
			return -1
		}
		return 1
	})
	return i
}

// Add puts the event to its place in the timeline. It fails with
// ErrOverlappingStart only if an event with the same start and the same ID is
// already there.
func (s *Score) Add(e Event) error {
	i, found := slices.BinarySearchFunc(s.events, e, compareEvents)
	if found {
		return errors.Wrapf(ErrOverlappingStart, "event %d at %d", e.ID, e.Start)
	}
	s.events = slices.Insert(s.events, i, e)
	return nil
}

// ShiftFrom moves every event starting at or after position by delta.
func (s *Score) ShiftFrom(position, delta Pulse) {
	s.Retime(func(e Event) Pulse {
		if e.Start >= position {
			return e.Start + delta
		}
		return e.Start
	})
}

// Retime gives every event the start returned by f and restores the timeline
// order. The events are collected into a new slice, which replaces the old one
// only when all of them have been placed.
func (s *Score) Retime(f func(Event) Pulse) {
	events := make([]Event, len(s.events))
	for i, e := range s.events {
		e.Start = f(e)
		events[i] = e
	}
	slices.SortFunc(events, compareEvents)
	s.events = events
}

// SetNote replaces the note of the i:th event. Timing, and thus the order,
// does not change.
func (s *Score) SetNote(i int, n Note) {
	s.events[i].Note = n
}

// DeleteFunc removes the events for which del returns true and returns how
// many were removed.
func (s *Score) DeleteFunc(del func(Event) bool) int {
	n := len(s.events)
	s.events = slices.DeleteFunc(s.events, del)
	return n - len(s.events)
}

// InRange returns the indices of the events that start within the selection.
func (s Score) InRange(sel Selection) []int {
	var ret []int
	for i, e := range s.events {
		if sel.Contains(e.Start) {
			ret = append(ret, i)
		}
	}
	return ret
}

// MaxID returns the largest event ID, and false if the score is empty.
func (s Score) MaxID() (uint32, bool) {
	if len(s.events) == 0 {
		return 0, false
	}
	var ret uint32
	for _, e := range s.events {
		ret = max(ret, e.ID)
	}
	return ret, true
}

func (s Score) MarshalYAML() (interface{}, error) {
	if s.events == nil {
		return []Event{}, nil
	}
	return s.events, nil
}

func (s *Score) UnmarshalYAML(value *yaml.Node) error {
	var events []Event
	if err := value.Decode(&events); err != nil {
		return err
	}
	score, err := NewScore(events...)
	if err != nil {
		return err
	}
	*s = score
	return nil
}

func (s Score) MarshalJSON() ([]byte, error) {
	if s.events == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.events)
}

func (s *Score) UnmarshalJSON(b []byte) error {
	var events []Event
	if err := json.Unmarshal(b, &events); err != nil {
		return err
	}
	score, err := NewScore(events...)
	if err != nil {
		return err
	}
	*s = score
	return nil
}

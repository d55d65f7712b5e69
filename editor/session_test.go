package editor_test

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/vsariola/stave"
	"github.com/vsariola/stave/editor"
)

func note(class stave.PitchClass, octave stave.Octave) stave.Note {
	return stave.Note{Pitch: stave.Pitch{Class: class}, Octave: octave}
}

func ev(id uint32, n stave.Note, start, duration stave.Pulse) stave.Event {
	return stave.Event{ID: id, Note: n, Start: start, Duration: duration}
}

// twoNotes returns a session with C4 at 0 and D4 at 4, both quarter notes, and
// the given selections.
func twoNotes(t *testing.T, selections ...stave.Selection) *editor.Session {
	t.Helper()
	score, err := stave.NewScore(ev(0, note(stave.C, 4), 0, 4), ev(1, note(stave.D, 4), 4, 4))
	if err != nil {
		t.Fatalf("could not create score: %v", err)
	}
	s, err := editor.Restore(score, selections, 2)
	if err != nil {
		t.Fatalf("could not restore session: %v", err)
	}
	return s
}

func apply(t *testing.T, s *editor.Session, c editor.Command) {
	t.Helper()
	if err := s.Apply(c); err != nil {
		t.Fatalf("applying %+v failed: %v", c, err)
	}
}

func expectEvents(t *testing.T, s *editor.Session, expected ...stave.Event) {
	t.Helper()
	if got := s.Score().Events(); !reflect.DeepEqual(got, expected) {
		t.Fatalf("got events %v, expected %v", got, expected)
	}
}

func expectSelections(t *testing.T, s *editor.Session, expected ...stave.Selection) {
	t.Helper()
	if got := s.Selections(); !reflect.DeepEqual(got, expected) {
		t.Fatalf("got selections %v, expected %v", got, expected)
	}
}

func TestNewSession(t *testing.T) {
	s := editor.NewSession()
	expectSelections(t, s, stave.Selection{})
	if s.Score().Len() != 0 || s.NextID() != 0 {
		t.Fatalf("new session is not empty: %v, next ID %d", s.Score().Events(), s.NextID())
	}
}

func TestAppendTwoNotes(t *testing.T) {
	s := editor.NewSession()
	apply(t, s, editor.Append{Note: note(stave.C, 4), Duration: 4})
	apply(t, s, editor.Append{Note: note(stave.D, 4), Duration: 4})
	expectEvents(t, s, ev(0, note(stave.C, 4), 0, 4), ev(1, note(stave.D, 4), 4, 4))
	expectSelections(t, s, stave.Selection{Begin: 8, End: 8})
	if s.NextID() != 2 {
		t.Fatalf("expected next ID 2, got %d", s.NextID())
	}
}

func TestAppendShiftsLaterEventsAndSelections(t *testing.T) {
	s := twoNotes(t, stave.Selection{Begin: 0, End: 4}, stave.Selection{Begin: 8, End: 8}, stave.Selection{Begin: 0, End: 0})
	apply(t, s, editor.Append{Note: note(stave.E, 4), Duration: 2, Selections: []int{0}})
	expectEvents(t, s,
		ev(0, note(stave.C, 4), 0, 4),
		ev(2, note(stave.E, 4), 4, 2),
		ev(1, note(stave.D, 4), 6, 4),
	)
	expectSelections(t, s,
		stave.Selection{Begin: 0, End: 6},
		stave.Selection{Begin: 10, End: 10},
		stave.Selection{Begin: 0, End: 0},
	)
}

func TestAppendToSeveralSelections(t *testing.T) {
	s := twoNotes(t, stave.Selection{Begin: 0, End: 0}, stave.Selection{Begin: 4, End: 4})
	apply(t, s, editor.Append{Note: note(stave.E, 4), Duration: 4})
	// the first append moves the second selection from 4 to 8
	expectEvents(t, s,
		ev(2, note(stave.E, 4), 0, 4),
		ev(0, note(stave.C, 4), 4, 4),
		ev(3, note(stave.E, 4), 8, 4),
		ev(1, note(stave.D, 4), 12, 4),
	)
	expectSelections(t, s, stave.Selection{Begin: 4, End: 4}, stave.Selection{Begin: 12, End: 12})
}

func TestAppendKeepsSortedAndCounts(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	s := editor.NewSession()
	s.AddSelection(stave.Selection{})
	for i := 1; i <= 200; i++ {
		sel := rnd.Intn(2)
		if i > 1 && rnd.Intn(3) == 0 {
			apply(t, s, editor.Move{Delta: editor.Events(rnd.Intn(5) - 3), Selections: []int{sel}})
		}
		n, _ := stave.NoteFromAbsolute(rnd.Intn(80))
		apply(t, s, editor.Append{Note: n, Duration: stave.Pulse(1 << rnd.Intn(5)), Selections: []int{sel}})
		events := s.Score().Events()
		if len(events) != i {
			t.Fatalf("after %d appends there are %d events", i, len(events))
		}
		for j := 1; j < len(events); j++ {
			if events[j-1].Start > events[j].Start {
				t.Fatalf("events out of order after %d appends: %v", i, events)
			}
		}
		for _, sel := range s.Selections() {
			if sel.Begin > sel.End {
				t.Fatalf("selection %v begins after it ends", sel)
			}
		}
	}
}

func TestInsertKeepsRelativeOrder(t *testing.T) {
	s := editor.NewSession()
	for i := 0; i < 6; i++ {
		apply(t, s, editor.Append{Note: note(stave.C, 4), Duration: 4})
	}
	before := s.Score().Events()
	apply(t, s, editor.Move{Delta: editor.Pulses(-12)})
	apply(t, s, editor.Append{Note: note(stave.G, 4), Duration: 2})
	after := s.Score().Events()
	var order []uint32
	for _, e := range after {
		if e.ID != 6 {
			order = append(order, e.ID)
		}
	}
	for i, e := range before {
		if order[i] != e.ID {
			t.Fatalf("insertion changed the order of existing events: %v", after)
		}
	}
	for _, e := range after {
		if e.ID < 6 {
			old := before[e.ID]
			if old.Start < 12 && e.Start != old.Start {
				t.Fatalf("event %d before the insertion moved from %d to %d", e.ID, old.Start, e.Start)
			}
			if old.Start >= 12 && e.Start != old.Start+2 {
				t.Fatalf("event %d after the insertion moved from %d to %d", e.ID, old.Start, e.Start)
			}
		}
	}
}

func TestMoveByEvents(t *testing.T) {
	s := twoNotes(t, stave.Selection{Begin: 4, End: 4})
	apply(t, s, editor.Move{Delta: editor.Events(-1), Selections: []int{0}})
	expectSelections(t, s, stave.Selection{Begin: 0, End: 0})
}

func TestMoveByEventsClamps(t *testing.T) {
	score, _ := stave.NewScore(
		ev(0, note(stave.C, 4), 0, 4),
		ev(1, note(stave.D, 4), 4, 4),
		ev(2, note(stave.E, 4), 8, 4),
	)
	s, _ := editor.Restore(score, []stave.Selection{{Begin: 0, End: 2}}, 3)
	// the first event after 0 is the one at 4; two forward would be past the end
	apply(t, s, editor.Move{Delta: editor.Events(2), Selections: []int{0}})
	expectSelections(t, s, stave.Selection{Begin: 4, End: 6})
	apply(t, s, editor.Move{Delta: editor.Events(-10), Selections: []int{0}})
	expectSelections(t, s, stave.Selection{Begin: -4, End: -2})
}

func TestMoveByExtremeEventCounts(t *testing.T) {
	score, _ := stave.NewScore(
		ev(0, note(stave.C, 4), 0, 4),
		ev(1, note(stave.D, 4), 4, 4),
		ev(2, note(stave.E, 4), 8, 4),
	)
	s, _ := editor.Restore(score, []stave.Selection{{Begin: 0, End: 2}}, 3)
	apply(t, s, editor.Move{Delta: editor.Events(math.MaxInt), Selections: []int{0}})
	expectSelections(t, s, stave.Selection{Begin: 4, End: 6})
	apply(t, s, editor.Move{Delta: editor.Events(math.MinInt), Selections: []int{0}})
	expectSelections(t, s, stave.Selection{Begin: -4, End: -2})
}

func TestMoveByPulses(t *testing.T) {
	s := twoNotes(t, stave.Selection{Begin: 0, End: 4}, stave.Selection{Begin: 2, End: 2})
	apply(t, s, editor.Move{Delta: editor.Pulses(3), Selections: []int{1}})
	expectSelections(t, s, stave.Selection{Begin: 0, End: 4}, stave.Selection{Begin: 5, End: 5})
}

func TestMoveEndSwaps(t *testing.T) {
	s := twoNotes(t, stave.Selection{Begin: 4, End: 6})
	apply(t, s, editor.MoveEnd{Delta: editor.Pulses(4), Selections: []int{0}})
	expectSelections(t, s, stave.Selection{Begin: 4, End: 10})
	apply(t, s, editor.MoveEnd{Delta: editor.Pulses(-8), Selections: []int{0}})
	expectSelections(t, s, stave.Selection{Begin: 2, End: 4})
}

func TestMoveEndByEvents(t *testing.T) {
	s := twoNotes(t, stave.Selection{Begin: 0, End: 0})
	// counting starts from the event at 4, the first one after the end
	apply(t, s, editor.MoveEnd{Delta: editor.Events(-1), Selections: []int{0}})
	expectSelections(t, s, stave.Selection{Begin: -4, End: 0})
}

func TestEmptyTimelineNavigation(t *testing.T) {
	s := editor.NewSession()
	commands := []editor.Command{
		editor.Move{Delta: editor.Events(1)},
		editor.MoveEnd{Delta: editor.Events(-1)},
		editor.MoveContents{Delta: editor.Events(1)},
	}
	for _, c := range commands {
		if err := s.Apply(c); !errors.Is(err, stave.ErrEmptyTimelineNavigation) {
			t.Fatalf("%+v: expected ErrEmptyTimelineNavigation, got %v", c, err)
		}
	}
	expectSelections(t, s, stave.Selection{})
}

func TestSelectionIndexOutOfRange(t *testing.T) {
	commands := []editor.Command{
		editor.Append{Note: note(stave.C, 4), Duration: 4, Selections: []int{0, 1}},
		editor.Move{Delta: editor.Pulses(1), Selections: []int{-1}},
		editor.MoveEnd{Delta: editor.Pulses(1), Selections: []int{5}},
		editor.MoveContents{Delta: editor.Pulses(1), Selections: []int{1}},
		editor.Transpose{Semitones: 1, Selections: []int{1}},
		editor.Delete{Selections: []int{0, 1}},
	}
	for _, c := range commands {
		s := twoNotes(t, stave.Selection{Begin: 0, End: 4})
		if err := s.Apply(c); !errors.Is(err, stave.ErrSelectionIndexOutOfRange) {
			t.Fatalf("%+v: expected ErrSelectionIndexOutOfRange, got %v", c, err)
		}
		expectEvents(t, s, ev(0, note(stave.C, 4), 0, 4), ev(1, note(stave.D, 4), 4, 4))
		expectSelections(t, s, stave.Selection{Begin: 0, End: 4})
	}
	if _, err := editor.NewSession().Selection(1); !errors.Is(err, stave.ErrSelectionIndexOutOfRange) {
		t.Fatalf("expected ErrSelectionIndexOutOfRange, got %v", err)
	}
}

func TestFailedCommandLeavesSessionUnchanged(t *testing.T) {
	score, _ := stave.NewScore(ev(0, note(stave.A, 0), 0, 4), ev(1, note(stave.C, 0), 4, 4))
	s, _ := editor.Restore(score, []stave.Selection{{Begin: 4, End: 4}, {Begin: 0, End: 4}}, 2)
	// transposing C0 down works, A0 down fails; nothing may change
	err := s.Apply(editor.Transpose{Semitones: -1, Selections: []int{0, 1}})
	if !errors.Is(err, stave.ErrPitchOutOfRange) {
		t.Fatalf("expected ErrPitchOutOfRange, got %v", err)
	}
	expectEvents(t, s, ev(0, note(stave.A, 0), 0, 4), ev(1, note(stave.C, 0), 4, 4))
	// indices out of range are caught before anything is appended
	err = s.Apply(editor.Append{Note: stave.DefaultNote, Duration: 4, Selections: []int{0, 2}})
	if !errors.Is(err, stave.ErrSelectionIndexOutOfRange) {
		t.Fatalf("expected ErrSelectionIndexOutOfRange, got %v", err)
	}
	expectEvents(t, s, ev(0, note(stave.A, 0), 0, 4), ev(1, note(stave.C, 0), 4, 4))
	expectSelections(t, s, stave.Selection{Begin: 4, End: 4}, stave.Selection{Begin: 0, End: 4})
	if s.NextID() != 2 {
		t.Fatalf("a failed append used an ID")
	}
}

func TestAppendInvalidNote(t *testing.T) {
	s := editor.NewSession()
	err := s.Apply(editor.Append{Note: stave.Note{Pitch: stave.Pitch{Class: 9}}, Duration: 4})
	if !errors.Is(err, editor.ErrInvalidCommand) {
		t.Fatalf("expected ErrInvalidCommand, got %v", err)
	}
	if err := s.Apply(editor.Move{}); !errors.Is(err, editor.ErrInvalidCommand) {
		t.Fatalf("expected ErrInvalidCommand for a move without delta, got %v", err)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	s := editor.NewSession()
	apply(t, s, editor.Append{Note: note(stave.C, 4), Duration: 4})
	snapshot := s.Copy()
	apply(t, s, editor.Append{Note: note(stave.D, 4), Duration: 4})
	if snapshot.Score().Len() != 1 || snapshot.NextID() != 1 {
		t.Fatalf("snapshot changed with the session: %v", snapshot.Score().Events())
	}
}

func TestEventsInSelection(t *testing.T) {
	s := twoNotes(t, stave.Selection{Begin: 2, End: 4})
	got, err := s.EventsInSelection(0)
	if err != nil {
		t.Fatalf("EventsInSelection failed: %v", err)
	}
	if expected := []stave.Event{ev(1, note(stave.D, 4), 4, 4)}; !reflect.DeepEqual(got, expected) {
		t.Fatalf("got %v, expected %v", got, expected)
	}
}

func TestRestoreValidates(t *testing.T) {
	score, _ := stave.NewScore(ev(0, note(stave.C, 4), 0, 4), ev(0, note(stave.C, 4), 4, 4))
	if _, err := editor.Restore(score, nil, 1); !errors.Is(err, editor.ErrInvalidSession) {
		t.Fatalf("duplicate IDs: expected ErrInvalidSession, got %v", err)
	}
	score, _ = stave.NewScore(ev(3, note(stave.C, 4), 0, 4))
	if _, err := editor.Restore(score, nil, 3); !errors.Is(err, editor.ErrInvalidSession) {
		t.Fatalf("next ID in use: expected ErrInvalidSession, got %v", err)
	}
	if _, err := editor.Restore(stave.Score{}, []stave.Selection{{Begin: 4, End: 0}}, 0); !errors.Is(err, editor.ErrInvalidSession) {
		t.Fatalf("reversed selection: expected ErrInvalidSession, got %v", err)
	}
}

package stave

// Selection is a range of the score. It is both where new notes are appended
// (at End) and the scope of the commands that change existing events. Both
// ends are inclusive: an event belongs to the selection if it starts anywhere
// from Begin to End.
type Selection struct {
	Begin Pulse `yaml:"begin" json:"begin"`
	End   Pulse `yaml:"end" json:"end"`
}

// Contains reports whether the position p is within the selection.
func (s Selection) Contains(p Pulse) bool {
	return s.Begin <= p && p <= s.End
}

// Normalize swaps Begin and End if End is before Begin.
func (s *Selection) Normalize() {
	if s.End < s.Begin {
		s.Begin, s.End = s.End, s.Begin
	}
}

// Shift moves Begin and End by delta.
func (s *Selection) Shift(delta Pulse) {
	s.Begin += delta
	s.End += delta
}

// ShiftFrom moves each end of the selection that is at or after position by
// delta. This keeps the selection pointing at the same music when delta
// pulses are inserted at position.
func (s *Selection) ShiftFrom(position, delta Pulse) {
	if s.Begin >= position {
		s.Begin += delta
	}
	if s.End >= position {
		s.End += delta
	}
}

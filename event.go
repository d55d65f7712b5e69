package stave

// Event is one sounding note in the score. ID is unique within a session and
// never reused.
type Event struct {
	ID       uint32 `yaml:"id" json:"id"`
	Note     Note   `yaml:"note,flow" json:"note"`
	Start    Pulse  `yaml:"start" json:"start"`
	Duration Pulse  `yaml:"duration" json:"duration"`
}

// End returns the position right after the event.
func (e Event) End() Pulse { return e.Start + e.Duration }

// compareEvents orders events by start, then by ID.
func compareEvents(a, b Event) int {
	switch {
	case a.Start < b.Start:
		return -1
	case a.Start > b.Start:
		return 1
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

package stave

// Pulse is the time unit of the score. PulsesPerQuarter pulses make a quarter
// note, so a whole note is 16 pulses. Pulses are signed; nothing in the type
// prevents negative positions.
type Pulse int32

const (
	PulsesPerQuarter Pulse = 4
	PulsesPerWhole   Pulse = 4 * PulsesPerQuarter
	// PulsesPerMeasure is the length of a measure in Export. Meter is fixed to
	// 4/4.
	PulsesPerMeasure Pulse = 4 * PulsesPerQuarter
)

// NotatedDuration returns the written note value of a duration: 1 for a whole
// note, 2 for a half note, 4 for a quarter and so on down to 16 for a
// sixteenth. Durations that are not one of these return ok == false.
func (p Pulse) NotatedDuration() (value int, ok bool) {
	switch p {
	case 1, 2, 4, 8, 16:
		return int(PulsesPerWhole / p), true
	}
	return 0, false
}

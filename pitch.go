package stave

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type (
	// PitchClass is one of the seven note letters.
	PitchClass int

	// Accidental raises or lowers a pitch class by a semitone.
	Accidental int

	// Octave counts octaves upwards from zero.
	Octave uint32

	// Pitch is a spelled pitch class: a letter and an accidental.
	Pitch struct {
		Class      PitchClass `yaml:"class" json:"class"`
		Accidental Accidental `yaml:"accidental" json:"accidental"`
	}

	// Note is a spelled pitch in a specific octave.
	//
	// Octaves change at A: the walk G#4, A5, A#5 crosses into octave 5 at A.
	Note struct {
		Pitch  Pitch  `yaml:"pitch" json:"pitch"`
		Octave Octave `yaml:"octave" json:"octave"`
	}
)

const (
	A PitchClass = iota
	B
	C
	D
	E
	F
	G
)

const (
	Natural Accidental = iota
	Sharp
	Flat
)

const semitonesPerOctave = 12

// semitone offsets of the natural pitch classes within an octave
var classSemitones = [...]int{A: 0, B: 2, C: 3, D: 5, E: 7, F: 8, G: 10}

// spelling of each semitone after transposition; flats never appear
var semitoneSpelling = [semitonesPerOctave]Pitch{
	{A, Natural}, {A, Sharp}, {B, Natural}, {C, Natural}, {C, Sharp}, {D, Natural},
	{D, Sharp}, {E, Natural}, {F, Natural}, {F, Sharp}, {G, Natural}, {G, Sharp},
}

// DefaultNote is the note the editor suggests when nothing else is given.
var DefaultNote = Note{Pitch: Pitch{Class: A, Accidental: Natural}, Octave: 4}

func (c PitchClass) String() string {
	if c < A || c > G {
		return "?"
	}
	return string(rune('a' + c))
}

// Valid reports whether the class is one of A..G.
func (c PitchClass) Valid() bool { return c >= A && c <= G }

// Valid reports whether the pitch class and the accidental are known values.
func (n Note) Valid() bool {
	_, ok := accidentalNames[n.Pitch.Accidental]
	return n.Pitch.Class.Valid() && ok
}

func (a Accidental) String() string {
	switch a {
	case Sharp:
		return "s"
	case Flat:
		return "f"
	case Natural:
		return "n"
	}
	return "?"
}

func (a Accidental) offset() int {
	switch a {
	case Sharp:
		return 1
	case Flat:
		return -1
	}
	return 0
}

// Semitone returns the position of the pitch within an octave. Flat spellings
// of A can return -1, and the result belongs to the octave below.
func (p Pitch) Semitone() int {
	return classSemitones[p.Class] + p.Accidental.offset()
}

// Absolute returns the number of semitones above A natural in octave 0.
func (n Note) Absolute() int {
	return int(n.Octave)*semitonesPerOctave + n.Pitch.Semitone()
}

// NoteFromAbsolute spells an absolute semitone using naturals and sharps.
func NoteFromAbsolute(abs int) (Note, error) {
	if abs < 0 || uint64(abs/semitonesPerOctave) > math.MaxUint32 {
		return Note{}, errors.Wrapf(ErrPitchOutOfRange, "semitone %d", abs)
	}
	return Note{
		Pitch:  semitoneSpelling[abs%semitonesPerOctave],
		Octave: Octave(abs / semitonesPerOctave),
	}, nil
}

// Succ returns the note one semitone higher.
func (n Note) Succ() Note {
	ret, _ := NoteFromAbsolute(n.Absolute() + 1)
	return ret
}

// Prec returns the note one semitone lower, or ErrPitchOutOfRange when n is
// already the lowest representable pitch.
func (n Note) Prec() (Note, error) {
	return NoteFromAbsolute(n.Absolute() - 1)
}

// Transpose moves the note by semitones, up when positive and down when
// negative. The result is spelled the same way Succ and Prec spell it, with a
// natural or a sharp. Transposing by zero returns the note unchanged, even when
// it is spelled with a flat.
func (n Note) Transpose(semitones int) (Note, error) {
	if semitones == 0 {
		return n, nil
	}
	abs := n.Absolute()
	if semitones < 0 && abs+semitones > abs || semitones > 0 && abs+semitones < abs {
		return Note{}, errors.Wrapf(ErrPitchOutOfRange, "transposing %v by %d", n, semitones)
	}
	return NoteFromAbsolute(abs + semitones)
}

// String formats the note as ParseNote expects it, e.g. "c#4" or "bb3".
func (n Note) String() string {
	var acc string
	switch n.Pitch.Accidental {
	case Sharp:
		acc = "#"
	case Flat:
		acc = "b"
	}
	return fmt.Sprintf("%s%s%d", n.Pitch.Class, acc, n.Octave)
}

// ParseNote parses notes like "c4", "c#4", "db3" or "a". The letter is case
// insensitive; a missing octave means octave 4.
func ParseNote(s string) (Note, error) {
	str := strings.ToLower(strings.TrimSpace(s))
	if str == "" {
		return Note{}, errors.New("empty note")
	}
	class := PitchClass(str[0] - 'a')
	if !class.Valid() {
		return Note{}, errors.Errorf("invalid pitch class in note %q", s)
	}
	note := Note{Pitch: Pitch{Class: class}, Octave: DefaultNote.Octave}
	str = str[1:]
	if len(str) > 0 {
		switch str[0] {
		case '#', 's':
			note.Pitch.Accidental = Sharp
			str = str[1:]
		case 'b', 'f':
			note.Pitch.Accidental = Flat
			str = str[1:]
		case 'n':
			str = str[1:]
		}
	}
	if str != "" {
		o, err := strconv.ParseUint(str, 10, 32)
		if err != nil {
			return Note{}, errors.Wrapf(err, "invalid octave in note %q", s)
		}
		note.Octave = Octave(o)
	}
	return note, nil
}

func (c PitchClass) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, errors.Errorf("invalid pitch class %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *PitchClass) UnmarshalText(text []byte) error {
	if len(text) != 1 {
		return errors.Errorf("invalid pitch class %q", text)
	}
	v := PitchClass(strings.ToLower(string(text))[0] - 'a')
	if !v.Valid() {
		return errors.Errorf("invalid pitch class %q", text)
	}
	*c = v
	return nil
}

var accidentalNames = map[Accidental]string{Natural: "natural", Sharp: "sharp", Flat: "flat"}

func (a Accidental) MarshalText() ([]byte, error) {
	name, ok := accidentalNames[a]
	if !ok {
		return nil, errors.Errorf("invalid accidental %d", int(a))
	}
	return []byte(name), nil
}

func (a *Accidental) UnmarshalText(text []byte) error {
	for k, v := range accidentalNames {
		if v == string(text) {
			*a = k
			return nil
		}
	}
	return errors.Errorf("invalid accidental %q", text)
}

// Package harmony re-maps note sequences onto the diatonic pitch set of a
// musical key.
package harmony

import (
	"fmt"
	"strings"
)

// Mode represents major or minor mode
type Mode int

const (
	ModeMajor Mode = iota
	ModeMinor
)

func (m Mode) String() string {
	switch m {
	case ModeMajor:
		return "major"
	case ModeMinor:
		return "minor"
	default:
		return "unknown"
	}
}

// Key is a tonic pitch class (0=C .. 11=B) plus a mode
type Key struct {
	Tonic int  `json:"tonic"`
	Mode  Mode `json:"mode"`
}

var pitchClassNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Scale degree offsets from the tonic. Minor uses the natural minor scale.
var (
	majorIntervals = [7]int{0, 2, 4, 5, 7, 9, 11}
	minorIntervals = [7]int{0, 2, 3, 5, 7, 8, 10}
)

func (k Key) String() string {
	return fmt.Sprintf("%s %s", pitchClassNames[((k.Tonic%12)+12)%12], k.Mode)
}

// tonic name -> pitch class, including flat spellings
var tonicNames = map[string]int{
	"C": 0, "C#": 1, "DB": 1, "D": 2, "D#": 3, "EB": 3, "E": 4, "FB": 4,
	"E#": 5, "F": 5, "F#": 6, "GB": 6, "G": 7, "G#": 8, "AB": 8, "A": 9,
	"A#": 10, "BB": 10, "B": 11, "CB": 11,
}

// ParseKey parses a user-supplied key string of the form
// "<tonic> <major|minor>", e.g. "C major", "f# minor", "Bb Major".
func ParseKey(s string) (Key, error) {
	parts := strings.Fields(strings.TrimSpace(s))
	if len(parts) != 2 {
		return Key{}, fmt.Errorf("invalid key format %q: use 'C major', 'A minor', etc", s)
	}

	tonic, ok := tonicNames[strings.ToUpper(parts[0])]
	if !ok {
		return Key{}, fmt.Errorf("invalid key tonic %q: use 'C major', 'A minor', etc", parts[0])
	}

	var mode Mode
	switch strings.ToLower(parts[1]) {
	case "major":
		mode = ModeMajor
	case "minor":
		mode = ModeMinor
	default:
		return Key{}, fmt.Errorf("invalid key mode %q: use 'C major', 'A minor', etc", parts[1])
	}

	return Key{Tonic: tonic, Mode: mode}, nil
}

// DiatonicPitches enumerates every MIDI pitch (0-127) belonging to the key's
// scale, ascending and deduplicated. The result is the precomputed lookup
// table NearestDiatonic searches; build it once per key.
func (k Key) DiatonicPitches() []int {
	intervals := majorIntervals
	if k.Mode == ModeMinor {
		intervals = minorIntervals
	}

	var pitches []int
	for octave := 0; octave < 10; octave++ {
		for _, interval := range intervals {
			p := octave*12 + k.Tonic + interval
			if p >= 0 && p <= 127 {
				pitches = append(pitches, p)
			}
		}
	}
	return pitches
}

package harmony

import (
	"github.com/RyanBlaney/sonido-scribe/transcribe"
)

// Harmonizer re-pitches note sequences onto the diatonic set of one key. The
// diatonic lookup table is precomputed at construction and shared by all
// notes; a Harmonizer is otherwise stateless and safe to reuse sequentially.
type Harmonizer struct {
	key   Key
	scale []int
}

// NewHarmonizer creates a harmonizer for the given key
func NewHarmonizer(key Key) *Harmonizer {
	return &Harmonizer{
		key:   key,
		scale: key.DiatonicPitches(),
	}
}

// Key returns the key the harmonizer snaps to
func (h *Harmonizer) Key() Key {
	return h.key
}

// Apply returns a new note sequence where every pitch is snapped to the
// nearest diatonic pitch of the key. Two corrections run on top of the snap:
//
// The octave guard keeps the snap from producing register jumps: when the
// snapped pitch lands more than one octave away from the source note, the
// pitch class is kept but the octave is clamped back to the source octave.
//
// The overlap trim resolves collisions introduced by re-pitching: whenever a
// note is inserted, every earlier note still sounding past its onset is cut
// off at that onset. The sweep only looks backward, so a later note can
// shorten an earlier one but never the reverse.
//
// Velocity and onset times pass through unchanged. The input must be ordered
// by start time.
func (h *Harmonizer) Apply(notes []transcribe.Note) []transcribe.Note {
	out := make([]transcribe.Note, 0, len(notes))

	for _, n := range notes {
		adjusted := NearestDiatonic(n.Pitch, h.scale)

		originalOctave := n.Pitch / 12
		if abs(adjusted/12-originalOctave) > 1 {
			adjusted = originalOctave*12 + adjusted%12
		}

		for i := range out {
			if out[i].End > n.Start {
				out[i].End = n.Start
			}
		}

		out = append(out, transcribe.Note{
			Pitch:    adjusted,
			Velocity: n.Velocity,
			Start:    n.Start,
			End:      n.End,
		})
	}

	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

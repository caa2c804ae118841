package transcribe

import (
	"math"

	"github.com/RyanBlaney/sonido-scribe/algorithms/spectral"
)

// PitchTracker classifies the dominant spectral peak of each frame as a MIDI
// pitch. It is a pure per-frame classifier: no state persists between frames.
// Only the single strongest peak is considered (monophonic assumption).
type PitchTracker struct {
	threshold float64
}

// NewPitchTracker creates a pitch tracker with the given amplitude floor.
// Frames whose maximum magnitude is below the threshold are skipped.
func NewPitchTracker(threshold float64) *PitchTracker {
	return &PitchTracker{threshold: threshold}
}

// Observe extracts an observation from a frame. The second return value is
// false when the frame is silent, its dominant frequency is not positive, or
// the derived pitch falls outside the MIDI range.
func (t *PitchTracker) Observe(frame spectral.Frame) (Observation, bool) {
	maxMag := 0.0
	maxBin := -1
	for i, m := range frame.Magnitudes {
		if m > maxMag {
			maxMag = m
			maxBin = i
		}
	}

	if maxBin < 0 || maxMag < t.threshold {
		return Observation{}, false
	}

	freq := frame.Frequencies[maxBin]
	if freq <= 0 {
		// DC or silence
		return Observation{}, false
	}

	pitch := int(math.Round(HzToMIDI(freq)))
	if pitch < 0 || pitch > 127 {
		return Observation{}, false
	}

	velocity := int(math.Min(127, maxMag*100))

	return Observation{
		Time:     frame.Time,
		Pitch:    pitch,
		Velocity: velocity,
	}, true
}

// HzToMIDI converts a frequency in Hz to a fractional MIDI note number
// (A4 = 440 Hz = 69)
func HzToMIDI(hz float64) float64 {
	return 69.0 + 12.0*math.Log2(hz/440.0)
}

// MIDIToHz converts a MIDI note number to its frequency in Hz
func MIDIToHz(pitch float64) float64 {
	return 440.0 * math.Pow(2, (pitch-69.0)/12.0)
}

// Package transcribe converts a magnitude spectrogram of a monophonic signal
// into a piano-roll note sequence. The pitch tracker reduces each frame to at
// most one (time, pitch, velocity) observation; the segmenter folds the
// observation stream into note events under onset-gap and duration
// constraints.
package transcribe

import (
	"github.com/RyanBlaney/sonido-scribe/algorithms/spectral"
)

// Params holds the tunables of a transcription run
type Params struct {
	Threshold       float64 `json:"threshold"`         // Amplitude floor for frame detection
	MinNoteDuration float64 `json:"min_note_duration"` // Minimum kept note length (seconds)
	MinNoteGap      float64 `json:"min_note_gap"`      // Minimum spacing between onsets (seconds)
}

// DefaultParams returns the default transcription tunables
func DefaultParams() Params {
	return Params{
		Threshold:       0.05,
		MinNoteDuration: 0.15,
		MinNoteGap:      0.2,
	}
}

// Run extracts the note sequence from a spectrogram. Still-open notes are
// closed at the end of the analyzed time span.
func Run(result *spectral.STFTResult, params Params) []Note {
	tracker := NewPitchTracker(params.Threshold)
	segmenter := NewSegmenter(params.MinNoteDuration, params.MinNoteGap)

	for _, frame := range result.Frames() {
		if obs, ok := tracker.Observe(frame); ok {
			segmenter.Feed(obs)
		}
	}

	return segmenter.Flush(result.Duration())
}

package transcribe

// Observation is one pitched measurement extracted from a non-silent
// spectrogram frame. Observations are transient and consumed in time order.
type Observation struct {
	Time     float64 `json:"time"`     // Frame time offset (seconds)
	Pitch    int     `json:"pitch"`    // MIDI note number (0-127)
	Velocity int     `json:"velocity"` // MIDI velocity (0-127)
}

// Note is a finalized note event. Immutable once emitted, except that
// harmonization may trim End when a later note starts before it ends.
type Note struct {
	Pitch    int     `json:"pitch"`    // MIDI note number (0-127)
	Velocity int     `json:"velocity"` // MIDI velocity (0-127)
	Start    float64 `json:"start"`    // Onset time (seconds)
	End      float64 `json:"end"`      // Release time (seconds), > Start
}

// Duration returns the note length in seconds
func (n Note) Duration() float64 {
	return n.End - n.Start
}

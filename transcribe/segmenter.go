package transcribe

import (
	"sort"
)

// activeNote is the working state of one open note slot. chain indexes the
// emitted note this slot is a contiguous continuation of, or -1.
type activeNote struct {
	on       bool
	start    float64
	velocity int
	chain    int
}

// Segmenter turns a time-ordered observation stream into note events under
// two timing constraints: no two note onsets may be closer together than the
// minimum onset gap (a realism constraint: two keys cannot be struck
// meaningfully closer than that), and notes shorter than the minimum duration
// are discarded as musically meaningless.
//
// All state is owned by the Segmenter value; concurrent conversions must each
// use their own Segmenter. The active-note table is a fixed 128-slot array,
// one slot per MIDI pitch, so there is at most one open note per pitch and no
// hashing is needed.
type Segmenter struct {
	minNoteDuration float64
	minNoteGap      float64

	lastOnset float64
	active    [128]activeNote
	notes     []Note
}

// NewSegmenter creates a segmenter. The onset gate is primed so that an
// observation at time zero is always eligible to start a note.
func NewSegmenter(minNoteDuration, minNoteGap float64) *Segmenter {
	s := &Segmenter{
		minNoteDuration: minNoteDuration,
		minNoteGap:      minNoteGap,
	}
	s.reset()
	return s
}

func (s *Segmenter) reset() {
	s.lastOnset = -s.minNoteGap
	s.notes = nil
	for pitch := range s.active {
		s.active[pitch] = activeNote{chain: -1}
	}
}

// Feed processes one observation. Observations must arrive in increasing
// time order.
//
// An observation arriving sooner than the minimum gap after the last accepted
// onset is dropped entirely: the gate is global across pitches, not
// per-pitch. An accepted observation whose pitch already has an open note
// closes that note at the observation time and reopens it, so a sustained
// tone is carried forward as one growing note rather than a retrigger chain.
// Open notes of other pitches are never affected.
func (s *Segmenter) Feed(obs Observation) {
	if obs.Time-s.lastOnset < s.minNoteGap {
		return
	}

	slot := &s.active[obs.Pitch]
	if slot.on {
		s.close(obs.Pitch, slot, obs.Time)
	}

	slot.on = true
	slot.start = obs.Time
	slot.velocity = obs.Velocity
	s.lastOnset = obs.Time
}

// close finalizes the open note in slot at endTime. A segment that starts
// exactly where a previously emitted note of the same pitch ended is a
// continuation: the earlier note is extended instead of emitting a separate
// back-to-back event. Fresh segments shorter than the minimum duration are
// discarded silently.
func (s *Segmenter) close(pitch int, slot *activeNote, endTime float64) {
	if slot.chain >= 0 && s.notes[slot.chain].End == slot.start {
		s.notes[slot.chain].End = endTime
	} else if endTime-slot.start >= s.minNoteDuration {
		s.notes = append(s.notes, Note{
			Pitch:    pitch,
			Velocity: slot.velocity,
			Start:    slot.start,
			End:      endTime,
		})
		slot.chain = len(s.notes) - 1
	}
	slot.on = false
}

// Flush closes every still-open note at endTime, emits the ones that meet the
// minimum duration, and resets the segmenter for reuse. The returned notes
// are sorted by start time.
func (s *Segmenter) Flush(endTime float64) []Note {
	for pitch := range s.active {
		slot := &s.active[pitch]
		if slot.on {
			s.close(pitch, slot, endTime)
		}
	}

	notes := s.notes
	s.reset()

	sort.Slice(notes, func(i, j int) bool {
		return notes[i].Start < notes[j].Start
	})

	return notes
}

// Segment consumes a full observation sequence and returns the note events,
// closing open notes at endTime
func (s *Segmenter) Segment(observations []Observation, endTime float64) []Note {
	for _, obs := range observations {
		s.Feed(obs)
	}
	return s.Flush(endTime)
}

package transcribe

import (
	"math"
	"testing"
)

func obsAt(time float64, pitch, velocity int) Observation {
	return Observation{Time: time, Pitch: pitch, Velocity: velocity}
}

func TestSegmenterSustainedToneIsOneNote(t *testing.T) {
	s := NewSegmenter(0.15, 0.2)

	var observations []Observation
	for time := 0.0; time < 2.0; time += 0.023 {
		observations = append(observations, obsAt(time, 69, 100))
	}

	notes := s.Segment(observations, 2.0)

	if len(notes) != 1 {
		t.Fatalf("want 1 note for a sustained tone, got %d: %+v", len(notes), notes)
	}
	n := notes[0]
	if n.Pitch != 69 {
		t.Errorf("pitch: want 69, got %d", n.Pitch)
	}
	if n.Start != 0 {
		t.Errorf("start: want 0, got %v", n.Start)
	}
	if n.End != 2.0 {
		t.Errorf("end: want 2.0, got %v", n.End)
	}
	if n.Velocity != 100 {
		t.Errorf("velocity: want the opening velocity 100, got %d", n.Velocity)
	}
}

func TestSegmenterGlobalOnsetGate(t *testing.T) {
	s := NewSegmenter(0.15, 0.2)

	// the second observation is a different pitch, but arrives inside the
	// onset gap and must be dropped
	notes := s.Segment([]Observation{
		obsAt(0.0, 69, 100),
		obsAt(0.1, 65, 90),
	}, 1.0)

	if len(notes) != 1 {
		t.Fatalf("want 1 note, got %d: %+v", len(notes), notes)
	}
	if notes[0].Pitch != 69 {
		t.Errorf("pitch: want 69, got %d", notes[0].Pitch)
	}
}

func TestSegmenterFirstObservationAtZeroIsEligible(t *testing.T) {
	s := NewSegmenter(0.1, 0.5)

	notes := s.Segment([]Observation{obsAt(0, 60, 80)}, 1.0)

	if len(notes) != 1 {
		t.Fatalf("want 1 note from an observation at time zero, got %d", len(notes))
	}
}

func TestSegmenterDiscardsShortNotes(t *testing.T) {
	s := NewSegmenter(0.15, 0.2)

	notes := s.Segment([]Observation{obsAt(0, 69, 100)}, 0.1)

	if len(notes) != 0 {
		t.Fatalf("want short flush-closed note discarded, got %+v", notes)
	}
}

func TestSegmenterDurationFloor(t *testing.T) {
	s := NewSegmenter(0.15, 0.2)

	notes := s.Segment([]Observation{
		obsAt(0.0, 60, 100),
		obsAt(0.3, 64, 100),
		obsAt(0.6, 67, 100),
	}, 2.0)

	for _, n := range notes {
		if n.Duration() < 0.15 {
			t.Errorf("note %+v shorter than the minimum duration", n)
		}
	}
}

func TestSegmenterOnsetSpacingInvariant(t *testing.T) {
	const gap = 0.2
	s := NewSegmenter(0.05, gap)

	// alternating pitches, observations much denser than the gap
	var observations []Observation
	pitches := []int{60, 62, 60, 64, 62}
	for i := 0; i < 120; i++ {
		time := float64(i) * 0.017
		observations = append(observations, obsAt(time, pitches[i%len(pitches)], 80))
	}

	notes := s.Segment(observations, 3.0)

	if len(notes) == 0 {
		t.Fatal("expected notes")
	}
	for i := range notes {
		for j := i + 1; j < len(notes); j++ {
			if d := math.Abs(notes[j].Start - notes[i].Start); d < gap {
				t.Errorf("onsets %v and %v closer than the gap (%v)", notes[i].Start, notes[j].Start, d)
			}
		}
	}
}

func TestSegmenterOtherPitchesPersistAcrossOnsets(t *testing.T) {
	s := NewSegmenter(0.1, 0.2)

	notes := s.Segment([]Observation{
		obsAt(0.0, 60, 100),
		obsAt(0.5, 64, 90),
	}, 1.0)

	if len(notes) != 2 {
		t.Fatalf("want 2 notes, got %d: %+v", len(notes), notes)
	}
	// the 60 opened first and was never closed by the 64 onset
	if notes[0].Pitch != 60 || notes[0].Start != 0 || notes[0].End != 1.0 {
		t.Errorf("first note: want 60 spanning [0, 1.0], got %+v", notes[0])
	}
	if notes[1].Pitch != 64 || notes[1].Start != 0.5 {
		t.Errorf("second note: want 64 starting at 0.5, got %+v", notes[1])
	}
}

func TestSegmenterResetsAfterFlush(t *testing.T) {
	s := NewSegmenter(0.1, 0.2)

	first := s.Segment([]Observation{obsAt(0, 60, 80)}, 1.0)
	second := s.Segment([]Observation{obsAt(0, 62, 80)}, 1.0)

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("want one note per run, got %d and %d", len(first), len(second))
	}
	if second[0].Pitch != 62 {
		t.Errorf("second run leaked state: %+v", second[0])
	}
}

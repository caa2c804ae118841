package harmony

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RyanBlaney/sonido-scribe/transcribe"
)

func melody(pairs [][2]float64) []transcribe.Note {
	var notes []transcribe.Note
	t := 0.0
	for _, p := range pairs {
		notes = append(notes, transcribe.Note{
			Pitch:    int(p[0]),
			Velocity: 90,
			Start:    t,
			End:      t + p[1],
		})
		t += p[1]
	}
	return notes
}

func TestDetectKeyCMajor(t *testing.T) {
	notes := melody([][2]float64{
		{60, 1.0}, {62, 0.5}, {64, 0.5}, {65, 0.5},
		{67, 0.5}, {69, 0.5}, {71, 0.5}, {72, 1.0},
	})

	key := DetectKey(notes)
	assert.Equal(t, Key{Tonic: 0, Mode: ModeMajor}, key)
}

func TestDetectKeyAMinor(t *testing.T) {
	// same pitch classes as C major, distinguished by tonic emphasis
	notes := melody([][2]float64{
		{57, 1.0}, {59, 0.5}, {60, 0.5}, {62, 0.5},
		{64, 0.5}, {65, 0.5}, {67, 0.5}, {69, 1.0},
	})

	key := DetectKey(notes)
	assert.Equal(t, Key{Tonic: 9, Mode: ModeMinor}, key)
}

func TestDetectKeyEmptyFallsBackToCMajor(t *testing.T) {
	key := DetectKey(nil)
	assert.Equal(t, Key{Tonic: 0, Mode: ModeMajor}, key)
}

func TestDetectKeyTransposedMajorScale(t *testing.T) {
	// D major scale with tonic emphasis
	notes := melody([][2]float64{
		{62, 1.0}, {64, 0.5}, {66, 0.5}, {67, 0.5},
		{69, 0.5}, {71, 0.5}, {73, 0.5}, {74, 1.0},
	})

	key := DetectKey(notes)
	assert.Equal(t, Key{Tonic: 2, Mode: ModeMajor}, key)
}

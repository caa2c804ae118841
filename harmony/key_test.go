package harmony

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		input string
		want  Key
	}{
		{"C major", Key{Tonic: 0, Mode: ModeMajor}},
		{"a minor", Key{Tonic: 9, Mode: ModeMinor}},
		{"F# Major", Key{Tonic: 6, Mode: ModeMajor}},
		{"bb minor", Key{Tonic: 10, Mode: ModeMinor}},
		{"  Eb major  ", Key{Tonic: 3, Mode: ModeMajor}},
	}

	for _, tt := range tests {
		got, err := ParseKey(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestParseKeyRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "C", "C sharp major", "H major", "C dorian", "major C"} {
		_, err := ParseKey(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestDiatonicPitchesCMajor(t *testing.T) {
	scale := Key{Tonic: 0, Mode: ModeMajor}.DiatonicPitches()

	// middle octave of C major
	for _, p := range []int{60, 62, 64, 65, 67, 69, 71} {
		assert.Contains(t, scale, p)
	}
	// no accidentals anywhere
	for _, p := range scale {
		pc := p % 12
		assert.NotContains(t, []int{1, 3, 6, 8, 10}, pc, "pitch %d is not diatonic in C major", p)
	}
}

func TestDiatonicPitchesSortedAndInRange(t *testing.T) {
	for tonic := 0; tonic < 12; tonic++ {
		for _, mode := range []Mode{ModeMajor, ModeMinor} {
			scale := Key{Tonic: tonic, Mode: mode}.DiatonicPitches()

			require.True(t, sort.IntsAreSorted(scale), "%d %v not sorted", tonic, mode)
			for i := 1; i < len(scale); i++ {
				assert.NotEqual(t, scale[i-1], scale[i], "%d %v has duplicates", tonic, mode)
			}
			assert.GreaterOrEqual(t, scale[0], 0)
			assert.LessOrEqual(t, scale[len(scale)-1], 127)
		}
	}
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "C major", Key{Tonic: 0, Mode: ModeMajor}.String())
	assert.Equal(t, "A minor", Key{Tonic: 9, Mode: ModeMinor}.String())
}

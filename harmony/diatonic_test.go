package harmony

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearestDiatonicTieGoesDown(t *testing.T) {
	scale := Key{Tonic: 0, Mode: ModeMajor}.DiatonicPitches()

	// C#4 is one semitone from both C4 (60) and D4 (62); the lower wins
	assert.Equal(t, 60, NearestDiatonic(61, scale))
}

func TestNearestDiatonicExactMatch(t *testing.T) {
	scale := Key{Tonic: 0, Mode: ModeMajor}.DiatonicPitches()

	for _, p := range []int{60, 62, 64, 65, 67, 69, 71} {
		assert.Equal(t, p, NearestDiatonic(p, scale), "diatonic pitch must map to itself")
	}
}

func TestNearestDiatonicEmptyScale(t *testing.T) {
	assert.Equal(t, 61, NearestDiatonic(61, nil))
}

func TestNearestDiatonicIsIdempotent(t *testing.T) {
	for tonic := 0; tonic < 12; tonic++ {
		for _, mode := range []Mode{ModeMajor, ModeMinor} {
			scale := Key{Tonic: tonic, Mode: mode}.DiatonicPitches()
			for p := 0; p <= 127; p++ {
				once := NearestDiatonic(p, scale)
				twice := NearestDiatonic(once, scale)
				assert.Equal(t, once, twice, "pitch %d in %v %v", p, tonic, mode)
			}
		}
	}
}

func TestNearestDiatonicIsNearest(t *testing.T) {
	scale := Key{Tonic: 7, Mode: ModeMinor}.DiatonicPitches()

	for p := 0; p <= 127; p++ {
		got := NearestDiatonic(p, scale)
		gotDist := abs(got - p)
		for _, candidate := range scale {
			d := abs(candidate - p)
			assert.LessOrEqual(t, gotDist, d, "pitch %d: %d is farther than %d", p, got, candidate)
			if d == gotDist {
				assert.LessOrEqual(t, got, candidate, "pitch %d: tie must resolve to the lower candidate", p)
			}
		}
	}
}

func TestNearestDiatonicBoundaries(t *testing.T) {
	scale := []int{60, 64, 67}

	assert.Equal(t, 60, NearestDiatonic(0, scale), "below the scale snaps up to the lowest")
	assert.Equal(t, 67, NearestDiatonic(127, scale), "above the scale snaps down to the highest")
}

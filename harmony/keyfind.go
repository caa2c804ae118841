package harmony

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/sonido-scribe/transcribe"
)

// Krumhansl-Kessler key profiles: perceived stability of each scale degree
// relative to the tonic, from probe-tone experiments.
//
// Reference: Krumhansl, C.L. (1990). "Cognitive Foundations of Musical Pitch"
var (
	krumhanslMajor = []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	krumhanslMinor = []float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}
)

// DetectKey estimates the key best matching a note sequence by correlating
// its duration-weighted pitch-class histogram against the Krumhansl key
// profiles for all 24 major and minor keys. An empty sequence falls back to
// C major.
func DetectKey(notes []transcribe.Note) Key {
	if len(notes) == 0 {
		return Key{Tonic: 0, Mode: ModeMajor}
	}

	histogram := make([]float64, 12)
	for _, n := range notes {
		// floor very short notes so they still contribute
		histogram[((n.Pitch%12)+12)%12] += math.Max(n.Duration(), 0.25)
	}

	best := Key{Tonic: 0, Mode: ModeMajor}
	bestScore := math.Inf(-1)

	rotated := make([]float64, 12)
	for tonic := 0; tonic < 12; tonic++ {
		for _, mode := range []Mode{ModeMajor, ModeMinor} {
			profile := krumhanslMajor
			if mode == ModeMinor {
				profile = krumhanslMinor
			}

			for pc := 0; pc < 12; pc++ {
				rotated[pc] = profile[((pc-tonic)%12+12)%12]
			}

			score := stat.Correlation(histogram, rotated, nil)
			if score > bestScore {
				bestScore = score
				best = Key{Tonic: tonic, Mode: mode}
			}
		}
	}

	return best
}

// Package mix sums equal-rate PCM buffers into one peak-normalized track.
package mix

import (
	"errors"
	"fmt"
	"math"
)

// ErrSampleRateMismatch is returned when the inputs disagree on sample rate.
// Mixing does not resample; the caller has to reconcile rates first.
var ErrSampleRateMismatch = errors.New("all input buffers must have the same sample rate")

// Buffer is one mono PCM track
type Buffer struct {
	Samples    []float64
	SampleRate int
}

// Mix sums the buffers sample-by-sample, zero-padding shorter ones to the
// longest length, and peak-normalizes the sum. A silent result is left at
// zero rather than divided by a zero peak.
func Mix(buffers []Buffer) (Buffer, error) {
	if len(buffers) == 0 {
		return Buffer{}, fmt.Errorf("no input buffers provided")
	}

	rate := buffers[0].SampleRate
	maxLen := 0
	for _, b := range buffers {
		if b.SampleRate != rate {
			return Buffer{}, fmt.Errorf("%w: got %d and %d", ErrSampleRateMismatch, rate, b.SampleRate)
		}
		if len(b.Samples) > maxLen {
			maxLen = len(b.Samples)
		}
	}

	combined := make([]float64, maxLen)
	for _, b := range buffers {
		for i, s := range b.Samples {
			combined[i] += s
		}
	}

	peak := 0.0
	for _, s := range combined {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak > 0 {
		for i := range combined {
			combined[i] /= peak
		}
	}

	return Buffer{Samples: combined, SampleRate: rate}, nil
}

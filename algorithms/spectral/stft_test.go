package spectral

import (
	"math"
	"testing"
)

func sine(freq float64, n, sampleRate int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return out
}

func TestComputeSineTone(t *testing.T) {
	const (
		sampleRate = 22050
		windowSize = 2048
		hopSize    = 512
	)

	signal := sine(440, sampleRate, sampleRate) // 1 second
	stft := NewSTFT()

	result, err := stft.Compute(signal, windowSize, hopSize, sampleRate, nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	wantFrames := (len(signal)-windowSize)/hopSize + 1
	if result.TimeFrames != wantFrames {
		t.Errorf("frames: want %d, got %d", wantFrames, result.TimeFrames)
	}
	if result.FreqBins != windowSize/2+1 {
		t.Errorf("bins: want %d, got %d", windowSize/2+1, result.FreqBins)
	}

	// the peak bin of every frame sits at the bin closest to 440 Hz
	wantBin := int(math.Round(440 * windowSize / float64(sampleRate)))
	for fi, mags := range result.Magnitude {
		maxBin := 0
		for i := 1; i < len(mags); i++ {
			if mags[i] > mags[maxBin] {
				maxBin = i
			}
		}
		if maxBin != wantBin {
			t.Fatalf("frame %d: peak at bin %d, want %d", fi, maxBin, wantBin)
		}
	}

	if got := result.Frequencies[1]; math.Abs(got-float64(sampleRate)/windowSize) > 1e-9 {
		t.Errorf("bin spacing: got %v", got)
	}
}

func TestComputeFrameTiming(t *testing.T) {
	signal := sine(440, 4096, 22050)
	stft := NewSTFT()

	result, err := stft.Compute(signal, 2048, 512, 22050, nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	frames := result.Frames()
	if len(frames) != result.TimeFrames {
		t.Fatalf("frame count: want %d, got %d", result.TimeFrames, len(frames))
	}
	for i, f := range frames {
		want := float64(i) * 512.0 / 22050.0
		if math.Abs(f.Time-want) > 1e-9 {
			t.Errorf("frame %d time: want %v, got %v", i, want, f.Time)
		}
	}

	wantDur := float64(result.TimeFrames) * 512.0 / 22050.0
	if math.Abs(result.Duration()-wantDur) > 1e-9 {
		t.Errorf("duration: want %v, got %v", wantDur, result.Duration())
	}
}

func TestComputeRejectsBadInput(t *testing.T) {
	stft := NewSTFT()

	if _, err := stft.Compute(nil, 2048, 512, 22050, nil); err == nil {
		t.Error("want error for empty signal")
	}
	if _, err := stft.Compute(sine(440, 4096, 22050), 0, 512, 22050, nil); err == nil {
		t.Error("want error for zero window size")
	}
	if _, err := stft.Compute(sine(440, 4096, 22050), 2048, 0, 22050, nil); err == nil {
		t.Error("want error for zero hop size")
	}
	if _, err := stft.Compute(sine(440, 100, 22050), 2048, 512, 22050, nil); err == nil {
		t.Error("want error for signal shorter than one window")
	}
}

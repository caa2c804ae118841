package wavio

import (
	"math"
	"path/filepath"
	"testing"
)

func TestWriteReadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")

	in := make([]float64, 4410)
	for i := range in {
		in[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/44100)
	}

	if err := Write(path, in, 44100); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, rate, err := ReadMono(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if rate != 44100 {
		t.Fatalf("sample rate: want 44100, got %d", rate)
	}
	if len(out) != len(in) {
		t.Fatalf("length: want %d, got %d", len(in), len(out))
	}

	for i := range in {
		if math.Abs(out[i]-in[i]) > 1.0/32767+1e-9 {
			t.Fatalf("sample %d: want %v, got %v (beyond 16-bit quantization)", i, in[i], out[i])
		}
	}
}

func TestWriteClampsOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")

	if err := Write(path, []float64{2.0, -3.0, 0.0}, 8000); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, _, err := ReadMono(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for i, s := range out {
		if s < -1.0 || s > 1.0 {
			t.Errorf("sample %d out of range: %v", i, s)
		}
	}
}

func TestReadMonoMissingFile(t *testing.T) {
	if _, _, err := ReadMono(filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Fatal("want error for missing file")
	}
}

func TestResampleHalvesLength(t *testing.T) {
	in := make([]float64, 1000)
	for i := range in {
		in[i] = float64(i) / 1000
	}

	out := Resample(in, 44100, 22050)
	if len(out) != 500 {
		t.Fatalf("length: want 500, got %d", len(out))
	}

	// a ramp survives linear interpolation exactly
	for i := range out {
		want := float64(2*i) / 1000
		if math.Abs(out[i]-want) > 1e-9 {
			t.Fatalf("sample %d: want %v, got %v", i, want, out[i])
		}
	}
}

func TestResampleSameRateIsIdentity(t *testing.T) {
	in := []float64{0.1, 0.2, 0.3}
	out := Resample(in, 22050, 22050)
	if len(out) != len(in) {
		t.Fatalf("length changed: %d", len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("sample %d changed: %v", i, out[i])
		}
	}
}

func TestResampleEmpty(t *testing.T) {
	if out := Resample(nil, 44100, 22050); len(out) != 0 {
		t.Fatalf("want empty output, got %d samples", len(out))
	}
}

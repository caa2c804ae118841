// Package synth renders note sequences to PCM samples, through an external
// FluidSynth process when a sound font is available and through a built-in
// sine synthesizer otherwise.
package synth

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/RyanBlaney/sonido-scribe/logging"
	"github.com/RyanBlaney/sonido-scribe/transcribe"
	"github.com/RyanBlaney/sonido-scribe/wavio"
)

// Config holds renderer configuration
type Config struct {
	SampleRate     int           `json:"sample_rate"`
	SoundFont      string        `json:"soundfont"`        // Path to a .sf2 sound font, empty to skip
	FluidSynthPath string        `json:"fluidsynth_path"`  // FluidSynth binary, assumed in PATH
	Timeout        time.Duration `json:"timeout"`          // Timeout for external rendering
}

// DefaultConfig returns default renderer configuration
func DefaultConfig() *Config {
	return &Config{
		SampleRate:     44100,
		FluidSynthPath: "fluidsynth",
		Timeout:        60 * time.Second,
	}
}

// Renderer renders note sequences to audio
type Renderer struct {
	config *Config
	logger logging.Logger
}

// NewRenderer creates a renderer. A nil config gets defaults.
func NewRenderer(config *Config) *Renderer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Renderer{
		config: config,
		logger: logging.GetGlobalLogger().WithFields(logging.Fields{"component": "synth"}),
	}
}

// Render renders a note sequence to mono PCM. The sound font path is tried
// first; any failure there is downgraded to a warning and the built-in
// synthesizer takes over, so rendering itself never fails. midiPath is the
// already-written MIDI file handed to the external synthesizer.
func (r *Renderer) Render(ctx context.Context, notes []transcribe.Note, midiPath string) []float64 {
	samples, err := r.RenderSoundFont(ctx, midiPath)
	if err == nil {
		return samples
	}

	r.logger.Warn("sound bank synthesis unavailable, using basic synthesis", logging.Fields{
		"error": err.Error(),
	})
	return Synthesize(notes, r.config.SampleRate)
}

// RenderSoundFont renders a MIDI file through an external FluidSynth
// process. The error reports why sound bank rendering is unavailable; the
// caller decides whether to fall back.
func (r *Renderer) RenderSoundFont(ctx context.Context, midiPath string) ([]float64, error) {
	if r.config.SoundFont == "" {
		return nil, fmt.Errorf("no sound font configured")
	}
	if _, err := os.Stat(r.config.SoundFont); err != nil {
		return nil, fmt.Errorf("sound font not found: %w", err)
	}

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	tmpDir, err := os.MkdirTemp("", "sonido-scribe-synth-")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	outPath := filepath.Join(tmpDir, "render.wav")
	cmd := exec.CommandContext(ctx, r.config.FluidSynthPath,
		"-ni",
		"-r", strconv.Itoa(r.config.SampleRate),
		"-F", outPath,
		r.config.SoundFont,
		midiPath,
	)

	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("fluidsynth failed: %w (output: %s)", err, string(output))
	}

	samples, sampleRate, err := wavio.ReadMono(outPath)
	if err != nil {
		return nil, fmt.Errorf("reading fluidsynth output: %w", err)
	}
	if sampleRate != r.config.SampleRate {
		samples = wavio.Resample(samples, sampleRate, r.config.SampleRate)
	}

	return samples, nil
}

// Synthesize renders notes with plain sine oscillators and a short
// attack/release envelope. The mix is peak-limited so stacked notes can't
// clip.
func Synthesize(notes []transcribe.Note, sampleRate int) []float64 {
	var end float64
	for _, n := range notes {
		if n.End > end {
			end = n.End
		}
	}

	buf := make([]float64, int(math.Ceil(end*float64(sampleRate)))+1)
	if len(notes) == 0 {
		return buf
	}

	rampSamples := sampleRate / 100 // 10 ms attack and release

	for _, n := range notes {
		freq := transcribe.MIDIToHz(float64(n.Pitch))
		amp := 0.5 * float64(n.Velocity) / 127.0

		start := int(n.Start * float64(sampleRate))
		stop := int(n.End * float64(sampleRate))
		if stop > len(buf) {
			stop = len(buf)
		}

		length := stop - start
		for i := 0; i < length; i++ {
			env := 1.0
			if rampSamples > 0 {
				if i < rampSamples {
					env = float64(i) / float64(rampSamples)
				} else if length-i < rampSamples {
					env = float64(length-i) / float64(rampSamples)
				}
			}
			t := float64(i) / float64(sampleRate)
			buf[start+i] += amp * env * math.Sin(2*math.Pi*freq*t)
		}
	}

	peak := 0.0
	for _, s := range buf {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak > 1.0 {
		for i := range buf {
			buf[i] /= peak
		}
	}

	return buf
}

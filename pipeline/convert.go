// Package pipeline wires the conversion stages together: audio decoding,
// spectral analysis, note transcription, harmonization, and rendering. Every
// run builds its own tracker and segmenter state, so concurrent conversions
// never share working tables.
package pipeline

import (
	"context"
	"fmt"

	"github.com/RyanBlaney/sonido-scribe/algorithms/spectral"
	"github.com/RyanBlaney/sonido-scribe/algorithms/windowing"
	"github.com/RyanBlaney/sonido-scribe/logging"
	"github.com/RyanBlaney/sonido-scribe/midifile"
	"github.com/RyanBlaney/sonido-scribe/synth"
	"github.com/RyanBlaney/sonido-scribe/transcribe"
	"github.com/RyanBlaney/sonido-scribe/wavio"
)

// ConvertOptions are the tunables of one audio-to-MIDI conversion
type ConvertOptions struct {
	Instrument      int     // MIDI program number (0-127)
	MinNoteDuration float64 // Minimum kept note length (seconds, > 0)
	MinNoteGap      float64 // Minimum spacing between onsets (seconds, > 0)
	Threshold       float64 // Amplitude floor for frame detection (>= 0)
	SampleRate      int     // Analysis sample rate
	FFTSize         int     // STFT window size; hop is FFTSize/4
	Tempo           float64 // Tempo written to the MIDI file (BPM)

	SynthSampleRate int    // Rendered audio sample rate
	SoundFont       string // Optional .sf2 path for external rendering
	FluidSynthPath  string // FluidSynth binary, defaults to "fluidsynth"
}

// DefaultConvertOptions returns the conversion defaults
func DefaultConvertOptions() ConvertOptions {
	return ConvertOptions{
		Instrument:      0,
		MinNoteDuration: 0.15,
		MinNoteGap:      0.2,
		Threshold:       0.05,
		SampleRate:      22050,
		FFTSize:         2048,
		Tempo:           100,
		SynthSampleRate: 44100,
		FluidSynthPath:  "fluidsynth",
	}
}

// Validate rejects malformed tunables before they reach the core
func (o *ConvertOptions) Validate() error {
	if o.Instrument < 0 || o.Instrument > 127 {
		return fmt.Errorf("%w: instrument program %d outside [0, 127]", ErrInput, o.Instrument)
	}
	if o.MinNoteDuration <= 0 {
		return fmt.Errorf("%w: min note duration must be positive, got %v", ErrConstraint, o.MinNoteDuration)
	}
	if o.MinNoteGap <= 0 {
		return fmt.Errorf("%w: min note gap must be positive, got %v", ErrConstraint, o.MinNoteGap)
	}
	if o.Threshold < 0 {
		return fmt.Errorf("%w: threshold must be non-negative, got %v", ErrConstraint, o.Threshold)
	}
	if o.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrConstraint, o.SampleRate)
	}
	if o.FFTSize <= 0 {
		return fmt.Errorf("%w: fft size must be positive, got %d", ErrConstraint, o.FFTSize)
	}
	return nil
}

// ConvertResult reports what a conversion produced
type ConvertResult struct {
	Notes      []transcribe.Note `json:"notes"`
	MIDIPath   string            `json:"midi_path"`
	AudioPath  string            `json:"audio_path,omitempty"`
	SampleRate int               `json:"sample_rate"`
	Frames     int               `json:"frames"`
}

// Convert transcribes an input audio file to MIDI and, when audioPath is
// non-empty, renders the transcription back to audio.
func Convert(ctx context.Context, inputPath, midiPath, audioPath string, opts ConvertOptions) (*ConvertResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger := logging.GetGlobalLogger().WithFields(logging.Fields{
		"component": "pipeline",
		"input":     inputPath,
	})

	signal, fileRate, err := wavio.ReadMono(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}
	if fileRate != opts.SampleRate {
		signal = wavio.Resample(signal, fileRate, opts.SampleRate)
	}

	stft := spectral.NewSTFT()
	window := windowing.NewHann(opts.FFTSize, false)
	result, err := stft.Compute(signal, opts.FFTSize, opts.FFTSize/4, opts.SampleRate, window)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}

	notes := transcribe.Run(result, transcribe.Params{
		Threshold:       opts.Threshold,
		MinNoteDuration: opts.MinNoteDuration,
		MinNoteGap:      opts.MinNoteGap,
	})

	logger.Info("transcribed audio", logging.Fields{
		"frames": result.TimeFrames,
		"notes":  len(notes),
	})

	if err := midifile.WriteNotes(midiPath, notes, uint8(opts.Instrument), opts.Tempo); err != nil {
		return nil, err
	}

	res := &ConvertResult{
		Notes:      notes,
		MIDIPath:   midiPath,
		SampleRate: opts.SampleRate,
		Frames:     result.TimeFrames,
	}

	if audioPath != "" {
		renderer := synth.NewRenderer(&synth.Config{
			SampleRate:     opts.SynthSampleRate,
			SoundFont:      opts.SoundFont,
			FluidSynthPath: opts.FluidSynthPath,
		})
		samples := renderer.Render(ctx, notes, midiPath)
		if err := wavio.Write(audioPath, samples, opts.SynthSampleRate); err != nil {
			return nil, err
		}
		res.AudioPath = audioPath
	}

	return res, nil
}

package pipeline

import (
	"context"
	"fmt"

	"github.com/RyanBlaney/sonido-scribe/harmony"
	"github.com/RyanBlaney/sonido-scribe/logging"
	"github.com/RyanBlaney/sonido-scribe/midifile"
	"github.com/RyanBlaney/sonido-scribe/mix"
	"github.com/RyanBlaney/sonido-scribe/synth"
	"github.com/RyanBlaney/sonido-scribe/transcribe"
	"github.com/RyanBlaney/sonido-scribe/wavio"
)

// HarmonizeOptions are the tunables of one harmonization run
type HarmonizeOptions struct {
	// Key is the target key string ("C major", "a minor"). Empty means
	// detect the key from the input's pitch-class distribution.
	Key        string
	Instrument int     // MIDI program number (0-127)
	Tempo      float64 // Tempo written to the output MIDI file (BPM)

	SynthSampleRate int
	SoundFont       string
	FluidSynthPath  string
}

// DefaultHarmonizeOptions returns the harmonization defaults
func DefaultHarmonizeOptions() HarmonizeOptions {
	return HarmonizeOptions{
		Instrument:      0,
		Tempo:           100,
		SynthSampleRate: 44100,
		FluidSynthPath:  "fluidsynth",
	}
}

// Validate rejects malformed tunables before they reach the core
func (o *HarmonizeOptions) Validate() error {
	if o.Instrument < 0 || o.Instrument > 127 {
		return fmt.Errorf("%w: instrument program %d outside [0, 127]", ErrInput, o.Instrument)
	}
	return nil
}

// HarmonizeResult reports what a harmonization produced
type HarmonizeResult struct {
	Key       harmony.Key       `json:"key"`
	Detected  bool              `json:"detected"` // Key came from detection, not the caller
	Notes     []transcribe.Note `json:"notes"`
	MIDIPath  string            `json:"midi_path,omitempty"`
	AudioPath string            `json:"audio_path,omitempty"`
}

// Harmonize snaps every note of a MIDI file onto the diatonic pitches of a
// key and writes the result as MIDI and/or rendered audio. Either output
// path may be empty to skip it.
func Harmonize(ctx context.Context, inputMIDI, outMIDI, outAudio string, opts HarmonizeOptions) (*HarmonizeResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger := logging.GetGlobalLogger().WithFields(logging.Fields{
		"component": "pipeline",
		"input":     inputMIDI,
	})

	notes, err := midifile.ReadNotes(inputMIDI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}

	var key harmony.Key
	detected := false
	if opts.Key == "" {
		key = harmony.DetectKey(notes)
		detected = true
		logger.Info("detected key", logging.Fields{"key": key.String()})
	} else {
		key, err = harmony.ParseKey(opts.Key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInput, err)
		}
	}

	harmonized := harmony.NewHarmonizer(key).Apply(notes)

	res := &HarmonizeResult{
		Key:      key,
		Detected: detected,
		Notes:    harmonized,
	}

	if outMIDI != "" {
		if err := midifile.WriteNotes(outMIDI, harmonized, uint8(opts.Instrument), opts.Tempo); err != nil {
			return nil, err
		}
		res.MIDIPath = outMIDI
	}

	if outAudio != "" {
		midiForSynth := outMIDI
		if midiForSynth == "" {
			midiForSynth = inputMIDI
		}
		renderer := synth.NewRenderer(&synth.Config{
			SampleRate:     opts.SynthSampleRate,
			SoundFont:      opts.SoundFont,
			FluidSynthPath: opts.FluidSynthPath,
		})
		samples := renderer.Render(ctx, harmonized, midiForSynth)
		if err := wavio.Write(outAudio, samples, opts.SynthSampleRate); err != nil {
			return nil, err
		}
		res.AudioPath = outAudio
	}

	return res, nil
}

// MixFiles reads WAV files, mixes them into one normalized track, and writes
// the result
func MixFiles(paths []string, outPath string) error {
	if len(paths) == 0 {
		return fmt.Errorf("%w: no input files provided", ErrInput)
	}

	buffers := make([]mix.Buffer, 0, len(paths))
	for _, p := range paths {
		samples, rate, err := wavio.ReadMono(p)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInput, err)
		}
		buffers = append(buffers, mix.Buffer{Samples: samples, SampleRate: rate})
	}

	combined, err := mix.Mix(buffers)
	if err != nil {
		return err
	}

	return wavio.Write(outPath, combined.Samples, combined.SampleRate)
}

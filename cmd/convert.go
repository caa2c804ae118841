package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-scribe/pipeline"
)

var (
	convertOutMIDI    string
	convertOutAudio   string
	convertInstrument int
	convertMinDur     float64
	convertMinGap     float64
	convertThreshold  float64
	convertRate       int
	convertSoundFont  string
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.wav>",
	Short: "Transcribe a monophonic audio file to MIDI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := optionsFromConfig()
		if cmd.Flags().Changed("instrument") {
			opts.Instrument = convertInstrument
		}
		if cmd.Flags().Changed("min-note-duration") {
			opts.MinNoteDuration = convertMinDur
		}
		if cmd.Flags().Changed("min-note-gap") {
			opts.MinNoteGap = convertMinGap
		}
		if cmd.Flags().Changed("threshold") {
			opts.Threshold = convertThreshold
		}
		if cmd.Flags().Changed("sample-rate") {
			opts.SampleRate = convertRate
		}
		if cmd.Flags().Changed("soundfont") {
			opts.SoundFont = convertSoundFont
		}

		res, err := pipeline.Convert(cmd.Context(), args[0], convertOutMIDI, convertOutAudio, opts)
		if err != nil {
			return err
		}

		fmt.Printf("wrote %d notes to %s\n", len(res.Notes), res.MIDIPath)
		if res.AudioPath != "" {
			fmt.Printf("rendered audio to %s\n", res.AudioPath)
		}
		return nil
	},
}

// optionsFromConfig maps the loaded configuration onto conversion options
func optionsFromConfig() pipeline.ConvertOptions {
	opts := pipeline.DefaultConvertOptions()
	if appConfig == nil {
		return opts
	}
	opts.Instrument = appConfig.Analysis.Instrument
	opts.MinNoteDuration = appConfig.Analysis.MinNoteDuration
	opts.MinNoteGap = appConfig.Analysis.MinNoteGap
	opts.Threshold = appConfig.Analysis.Threshold
	opts.SampleRate = appConfig.Analysis.SampleRate
	opts.FFTSize = appConfig.Analysis.FFTSize
	opts.Tempo = appConfig.Analysis.Tempo
	opts.SynthSampleRate = appConfig.Render.SampleRate
	opts.SoundFont = appConfig.Render.SoundFont
	opts.FluidSynthPath = appConfig.Render.FluidSynthPath
	return opts
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutMIDI, "out-midi", "o", "output.mid", "output MIDI file path")
	convertCmd.Flags().StringVar(&convertOutAudio, "out-audio", "", "optional rendered audio output path")
	convertCmd.Flags().IntVar(&convertInstrument, "instrument", 0, "MIDI program number (0-127)")
	convertCmd.Flags().Float64Var(&convertMinDur, "min-note-duration", 0.15, "minimum note duration in seconds")
	convertCmd.Flags().Float64Var(&convertMinGap, "min-note-gap", 0.2, "minimum time between note onsets in seconds")
	convertCmd.Flags().Float64Var(&convertThreshold, "threshold", 0.05, "amplitude floor for note detection")
	convertCmd.Flags().IntVar(&convertRate, "sample-rate", 22050, "analysis sample rate")
	convertCmd.Flags().StringVar(&convertSoundFont, "soundfont", "", "sound font (.sf2) for rendering")

	rootCmd.AddCommand(convertCmd)
}

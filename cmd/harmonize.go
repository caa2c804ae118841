package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-scribe/pipeline"
)

var (
	harmonizeKey        string
	harmonizeOutMIDI    string
	harmonizeOutAudio   string
	harmonizeInstrument int
)

var harmonizeCmd = &cobra.Command{
	Use:   "harmonize <input.mid>",
	Short: "Snap a MIDI file's notes onto the diatonic pitches of a key",
	Long: `Harmonize re-pitches every note of a MIDI file to the nearest pitch of a
target key. Pass --key to choose the key ("C major", "a minor"); without it
the key is detected from the file's pitch-class distribution.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := pipeline.DefaultHarmonizeOptions()
		opts.Key = harmonizeKey
		opts.Instrument = harmonizeInstrument
		if appConfig != nil {
			opts.Tempo = appConfig.Analysis.Tempo
			opts.SynthSampleRate = appConfig.Render.SampleRate
			opts.SoundFont = appConfig.Render.SoundFont
			opts.FluidSynthPath = appConfig.Render.FluidSynthPath
		}

		res, err := pipeline.Harmonize(cmd.Context(), args[0], harmonizeOutMIDI, harmonizeOutAudio, opts)
		if err != nil {
			return err
		}

		if res.Detected {
			fmt.Printf("detected key: %s\n", res.Key)
		} else {
			fmt.Printf("using key: %s\n", res.Key)
		}
		if res.MIDIPath != "" {
			fmt.Printf("wrote %d notes to %s\n", len(res.Notes), res.MIDIPath)
		}
		if res.AudioPath != "" {
			fmt.Printf("rendered audio to %s\n", res.AudioPath)
		}
		return nil
	},
}

func init() {
	harmonizeCmd.Flags().StringVarP(&harmonizeKey, "key", "k", "", `target key, e.g. "C major" (empty = detect)`)
	harmonizeCmd.Flags().StringVar(&harmonizeOutMIDI, "out-midi", "", "harmonized MIDI output path")
	harmonizeCmd.Flags().StringVar(&harmonizeOutAudio, "out-audio", "harmonized.wav", "rendered audio output path")
	harmonizeCmd.Flags().IntVar(&harmonizeInstrument, "instrument", 0, "MIDI program number (0-127)")

	rootCmd.AddCommand(harmonizeCmd)
}

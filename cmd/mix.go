package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-scribe/pipeline"
)

var mixOut string

var mixCmd = &cobra.Command{
	Use:   "mix <a.wav> <b.wav> [more.wav...]",
	Short: "Mix WAV files into one peak-normalized track",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !strings.HasSuffix(strings.ToLower(mixOut), ".wav") {
			return fmt.Errorf("output filename must end with .wav")
		}

		if err := pipeline.MixFiles(args, mixOut); err != nil {
			return err
		}

		fmt.Printf("mixed %d files into %s\n", len(args), mixOut)
		return nil
	},
}

func init() {
	mixCmd.Flags().StringVarP(&mixOut, "out", "o", "mix.wav", "output WAV path")

	rootCmd.AddCommand(mixCmd)
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-scribe/configs"
	"github.com/RyanBlaney/sonido-scribe/logging"
)

var (
	configFile string
	verbose    bool

	appConfig *configs.Config
)

var rootCmd = &cobra.Command{
	Use:   "sonido-scribe",
	Short: "Monophonic audio to MIDI transcription and diatonic harmonization",
	Long: `sonido-scribe converts a monophonic audio recording into a MIDI note
sequence, optionally re-mapping the notes onto the diatonic pitches of a
musical key, and renders the result back to audio.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configs.Load(configFile)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Verbose = true
		}
		if cfg.Verbose {
			logging.GetGlobalLogger().SetLevel(logging.DebugLevel)
		}
		appConfig = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

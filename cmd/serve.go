package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-scribe/server"
)

var (
	serveAddr    string
	serveDataDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the conversion pipeline over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig.Server
		if cmd.Flags().Changed("addr") {
			cfg.ListenAddr = serveAddr
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir = serveDataDir
		}

		srv, err := server.New(cfg, optionsFromConfig())
		if err != nil {
			return err
		}
		return srv.ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8000", "listen address")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "data", "directory for uploads and generated files")

	rootCmd.AddCommand(serveCmd)
}

// Package server exposes the conversion pipeline over HTTP: a multipart
// upload endpoint that runs transcription plus harmonization, and download
// endpoints for the generated files.
package server

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/RyanBlaney/sonido-scribe/configs"
	"github.com/RyanBlaney/sonido-scribe/logging"
	"github.com/RyanBlaney/sonido-scribe/pipeline"
)

// Server handles HTTP conversion requests. Every request builds its own
// pipeline state; the server itself only carries configuration.
type Server struct {
	config   configs.ServerConfig
	defaults pipeline.ConvertOptions
	router   *mux.Router
	logger   logging.Logger
}

// New creates a server storing generated files under the configured data
// directory
func New(config configs.ServerConfig, defaults pipeline.ConvertOptions) (*Server, error) {
	if config.DataDir == "" {
		config.DataDir = "data"
	}
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	if config.MaxUploadMB <= 0 {
		config.MaxUploadMB = 64
	}

	s := &Server{
		config:   config,
		defaults: defaults,
		logger:   logging.GetGlobalLogger().WithFields(logging.Fields{"component": "server"}),
	}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/convert", s.handleConvert).Methods("POST")
	router.HandleFunc("/download/midi/{id}", s.handleDownloadMIDI).Methods("GET")
	router.HandleFunc("/download/audio/{id}", s.handleDownloadAudio).Methods("GET")
	s.router = router

	return s, nil
}

// Handler returns the router wrapped with permissive CORS, matching the
// development posture of the upstream clients
func (s *Server) Handler() http.Handler {
	return cors.AllowAll().Handler(s.router)
}

// ListenAndServe serves on the configured listen address
func (s *Server) ListenAndServe() error {
	addr := s.config.ListenAddr
	if addr == "" {
		addr = ":8000"
	}
	s.logger.Info("listening", logging.Fields{"addr": addr})
	return http.ListenAndServe(addr, s.Handler())
}

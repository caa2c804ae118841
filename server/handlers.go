package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/RyanBlaney/sonido-scribe/logging"
	"github.com/RyanBlaney/sonido-scribe/pipeline"
)

// convertResponse lists the file IDs generated by one conversion request
type convertResponse struct {
	MIDIFile            string `json:"midi_file"`
	AudioFile           string `json:"audio_file"`
	HarmonizedAudioFile string `json:"harmonized_audio_file"`
	Key                 string `json:"key"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.config.MaxUploadMB << 20); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("parsing multipart form: %w", err))
		return
	}

	upload, _, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("missing file upload: %w", err))
		return
	}
	defer upload.Close()

	opts := s.defaults
	if err := parseConvertForm(r, &opts); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	id := uuid.NewString()
	inputPath := filepath.Join(s.config.DataDir, id+"_input.wav")
	midiPath := filepath.Join(s.config.DataDir, id+".mid")
	audioPath := filepath.Join(s.config.DataDir, id+"_synth.wav")
	harmonizedPath := filepath.Join(s.config.DataDir, id+"_harmonized.wav")

	if err := saveUpload(upload, inputPath); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer os.Remove(inputPath)

	if _, err := pipeline.Convert(r.Context(), inputPath, midiPath, audioPath, opts); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	harmonized, err := pipeline.Harmonize(r.Context(), midiPath, "", harmonizedPath, pipeline.HarmonizeOptions{
		Instrument:      opts.Instrument,
		Tempo:           opts.Tempo,
		SynthSampleRate: opts.SynthSampleRate,
		SoundFont:       opts.SoundFont,
		FluidSynthPath:  opts.FluidSynthPath,
	})
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	s.logger.Info("conversion complete", logging.Fields{
		"id":  id,
		"key": harmonized.Key.String(),
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(convertResponse{
		MIDIFile:            filepath.Base(midiPath),
		AudioFile:           filepath.Base(audioPath),
		HarmonizedAudioFile: filepath.Base(harmonizedPath),
		Key:                 harmonized.Key.String(),
	})
}

// parseConvertForm overlays form values onto the default options
func parseConvertForm(r *http.Request, opts *pipeline.ConvertOptions) error {
	if v := r.FormValue("instrument"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid instrument: %w", err)
		}
		opts.Instrument = n
	}
	for _, field := range []struct {
		name string
		dst  *float64
	}{
		{"min_note_duration", &opts.MinNoteDuration},
		{"min_note_gap", &opts.MinNoteGap},
		{"threshold", &opts.Threshold},
	} {
		if v := r.FormValue(field.name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", field.name, err)
			}
			*field.dst = f
		}
	}
	if v := r.FormValue("sample_rate"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid sample_rate: %w", err)
		}
		opts.SampleRate = n
	}
	return nil
}

func (s *Server) handleDownloadMIDI(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, r, "audio/midi")
}

func (s *Server) handleDownloadAudio(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, r, "audio/wav")
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, contentType string) {
	id := mux.Vars(r)["id"]
	if id == "" || strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid file id"))
		return
	}

	path := filepath.Join(s.config.DataDir, id)
	if _, err := os.Stat(path); err != nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("file not found"))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id))
	http.ServeFile(w, r, path)
}

func saveUpload(src io.Reader, dst string) error {
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("saving upload: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, src); err != nil {
		return fmt.Errorf("saving upload: %w", err)
	}
	return nil
}

func statusFor(err error) int {
	if errors.Is(err, pipeline.ErrInput) || errors.Is(err, pipeline.ErrConstraint) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Error(err, "request failed", logging.Fields{"status": status})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}

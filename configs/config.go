// Package configs loads application configuration through viper, merging
// built-in defaults, an optional config file, and SONIDO_* environment
// variables.
package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Verbose  bool   `mapstructure:"verbose"`
	LogLevel string `mapstructure:"log_level"`

	Analysis AnalysisConfig `mapstructure:"analysis"`
	Render   RenderConfig   `mapstructure:"render"`
	Server   ServerConfig   `mapstructure:"server"`
}

// AnalysisConfig contains transcription settings
type AnalysisConfig struct {
	SampleRate      int     `mapstructure:"sample_rate"`
	FFTSize         int     `mapstructure:"fft_size"`
	Threshold       float64 `mapstructure:"threshold"`
	MinNoteDuration float64 `mapstructure:"min_note_duration"`
	MinNoteGap      float64 `mapstructure:"min_note_gap"`
	Instrument      int     `mapstructure:"instrument"`
	Tempo           float64 `mapstructure:"tempo"`
}

// RenderConfig contains audio rendering settings
type RenderConfig struct {
	SampleRate     int           `mapstructure:"sample_rate"`
	SoundFont      string        `mapstructure:"soundfont"`
	FluidSynthPath string        `mapstructure:"fluidsynth_path"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	ListenAddr  string `mapstructure:"listen_addr"`
	DataDir     string `mapstructure:"data_dir"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb"`
}

// setDefaults sets default configuration values for all components
func setDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "info")

	v.SetDefault("analysis.sample_rate", 22050)
	v.SetDefault("analysis.fft_size", 2048)
	v.SetDefault("analysis.threshold", 0.05)
	v.SetDefault("analysis.min_note_duration", 0.15)
	v.SetDefault("analysis.min_note_gap", 0.2)
	v.SetDefault("analysis.instrument", 0)
	v.SetDefault("analysis.tempo", 100.0)

	v.SetDefault("render.sample_rate", 44100)
	v.SetDefault("render.soundfont", "")
	v.SetDefault("render.fluidsynth_path", "fluidsynth")
	v.SetDefault("render.timeout", 60*time.Second)

	v.SetDefault("server.listen_addr", ":8000")
	v.SetDefault("server.data_dir", "data")
	v.SetDefault("server.max_upload_mb", 64)
}

// Load reads configuration from the optional config file path plus
// environment overrides
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SONIDO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

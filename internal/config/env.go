// Package config provides application configuration.
package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.voiceid
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/voiceid.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// SampleRate is the canonical sample rate all audio is normalized to.
	// Env: SAMPLE_RATE (default: 16000)
	SampleRate int `envconfig:"SAMPLE_RATE" default:"16000"`

	// ForceMono always averages all channels to mono.
	// Env: FORCE_MONO (default: true)
	ForceMono bool `envconfig:"FORCE_MONO" default:"true"`

	// AcceptStereo averages multi-channel input instead of taking the
	// first channel only.
	// Env: ACCEPT_STEREO (default: true)
	AcceptStereo bool `envconfig:"ACCEPT_STEREO" default:"true"`

	// EnhanceAudio toggles the enhancement pipeline (silence trim,
	// best-segment selection, peak normalization, pre-emphasis).
	// Env: ENHANCE_AUDIO (default: true)
	EnhanceAudio bool `envconfig:"ENHANCE_AUDIO" default:"true"`

	// DefaultThreshold is the acceptance threshold in [0, 1].
	// Env: DEFAULT_THRESHOLD (default: 0.82)
	DefaultThreshold float64 `envconfig:"DEFAULT_THRESHOLD" default:"0.82"`

	// TopK is the default number of nearest candidates fetched per query.
	// Env: TOPK (default: 5)
	TopK int `envconfig:"TOPK" default:"5"`

	// ScoreCalibration toggles similarity score calibration.
	// Env: SCORE_CALIBRATION (default: true)
	ScoreCalibration bool `envconfig:"SCORE_CALIBRATION" default:"true"`

	// Encoder configures the embedding backend.
	Encoder EncoderEnv `envconfig:"ENCODER"`
}

// EncoderEnv holds environment configuration for the embedding backend.
type EncoderEnv struct {
	// Backend selects the embedding model: resemblyzer (256-d) or
	// ecapa (192-d).
	// Env: ENCODER_BACKEND (default: resemblyzer)
	Backend string `envconfig:"BACKEND" default:"resemblyzer"`

	// BaseURL is the embedding inference service URL.
	// Env: ENCODER_BASE_URL (default: http://localhost:8090)
	BaseURL string `envconfig:"BASE_URL" default:"http://localhost:8090"`

	// Timeout is the request timeout in seconds.
	// Env: ENCODER_TIMEOUT (default: 30)
	Timeout float64 `envconfig:"TIMEOUT" default:"30"`

	// MaxRetries is the maximum number of retries.
	// Env: ENCODER_MAX_RETRIES (default: 3)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"3"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix.
// For example, prefix "VOICEID" would require VOICEID_DB_URL instead of DB_URL.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// Normalize cleans up string values loaded from the environment.
func (e EnvConfig) Normalize() EnvConfig {
	e.Host = strings.TrimSpace(e.Host)
	e.DataDir = strings.TrimSpace(e.DataDir)
	e.DBURL = strings.TrimSpace(e.DBURL)
	e.LogLevel = strings.ToUpper(strings.TrimSpace(e.LogLevel))
	e.LogFormat = strings.ToLower(strings.TrimSpace(e.LogFormat))
	e.Encoder.Backend = strings.ToLower(strings.TrimSpace(e.Encoder.Backend))
	e.Encoder.BaseURL = strings.TrimSpace(e.Encoder.BaseURL)
	return e
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.Host != "" {
		cfg = cfg.Apply(WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = cfg.Apply(WithPort(e.Port))
	}
	if e.DataDir != "" {
		cfg = cfg.Apply(WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = cfg.Apply(WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = cfg.Apply(WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = cfg.Apply(WithLogFormat(parseLogFormat(e.LogFormat)))
	}

	audio := NewAudioConfig().
		WithSampleRate(e.SampleRate).
		WithForceMono(e.ForceMono).
		WithAcceptStereo(e.AcceptStereo).
		WithEnhance(e.EnhanceAudio)
	cfg = cfg.Apply(WithAudioConfig(audio))

	identify := NewIdentifyConfig().
		WithThreshold(e.DefaultThreshold).
		WithTopK(e.TopK).
		WithCalibration(e.ScoreCalibration)
	cfg = cfg.Apply(WithIdentifyConfig(identify))

	cfg = cfg.Apply(WithEncoderConfig(e.Encoder.ToEncoderConfig()))

	return cfg
}

// ToEncoderConfig converts EncoderEnv to EncoderConfig.
func (e EncoderEnv) ToEncoderConfig() EncoderConfig {
	cfg := NewEncoderConfig().WithBackend(parseBackend(e.Backend))
	if e.BaseURL != "" {
		cfg = cfg.WithBaseURL(e.BaseURL)
	}
	if e.Timeout > 0 {
		cfg = cfg.WithTimeout(time.Duration(e.Timeout * float64(time.Second)))
	}
	if e.MaxRetries > 0 {
		cfg = cfg.WithMaxRetries(e.MaxRetries)
	}
	return cfg
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}

// parseBackend parses an encoder backend name. Unknown values fall back to
// the default backend rather than failing startup.
func parseBackend(s string) EncoderBackend {
	switch strings.ToLower(s) {
	case "ecapa":
		return BackendEcapa
	default:
		return BackendResemblyzer
	}
}

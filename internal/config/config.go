// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Default configuration values.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8080
	DefaultLogLevel        = "INFO"
	DefaultSampleRate      = 16000
	DefaultThreshold       = 0.82
	DefaultTopK            = 5
	DefaultEncoderBackend  = BackendResemblyzer
	DefaultEncoderTimeout  = 30 * time.Second
	DefaultEncoderRetries  = 3
	DefaultRebuildParallel = 4
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// EncoderBackend identifies an embedding backend. The choice is made once
// at process start; both tiers of the profile store must hold vectors of
// the chosen backend's dimensionality.
type EncoderBackend string

// EncoderBackend values.
const (
	BackendResemblyzer EncoderBackend = "resemblyzer"
	BackendEcapa       EncoderBackend = "ecapa"
)

// EncoderConfig configures the embedding backend connection.
type EncoderConfig struct {
	backend    EncoderBackend
	baseURL    string
	timeout    time.Duration
	maxRetries int
}

// NewEncoderConfig creates an EncoderConfig with defaults.
func NewEncoderConfig() EncoderConfig {
	return EncoderConfig{
		backend:    DefaultEncoderBackend,
		timeout:    DefaultEncoderTimeout,
		maxRetries: DefaultEncoderRetries,
	}
}

// Backend returns the selected embedding backend.
func (e EncoderConfig) Backend() EncoderBackend { return e.backend }

// BaseURL returns the inference service base URL.
func (e EncoderConfig) BaseURL() string { return e.baseURL }

// Timeout returns the per-request timeout.
func (e EncoderConfig) Timeout() time.Duration { return e.timeout }

// MaxRetries returns the maximum retry count.
func (e EncoderConfig) MaxRetries() int { return e.maxRetries }

// WithBackend returns a new config with the specified backend.
func (e EncoderConfig) WithBackend(b EncoderBackend) EncoderConfig {
	e.backend = b
	return e
}

// WithBaseURL returns a new config with the specified base URL.
func (e EncoderConfig) WithBaseURL(url string) EncoderConfig {
	e.baseURL = url
	return e
}

// WithTimeout returns a new config with the specified timeout.
func (e EncoderConfig) WithTimeout(d time.Duration) EncoderConfig {
	e.timeout = d
	return e
}

// WithMaxRetries returns a new config with the specified retry count.
func (e EncoderConfig) WithMaxRetries(n int) EncoderConfig {
	e.maxRetries = n
	return e
}

// AudioConfig configures waveform normalization. Every stage is
// independently toggleable; the pipeline itself is pure.
type AudioConfig struct {
	sampleRate   int
	forceMono    bool
	acceptStereo bool
	enhance      bool
}

// NewAudioConfig creates an AudioConfig with defaults.
func NewAudioConfig() AudioConfig {
	return AudioConfig{
		sampleRate:   DefaultSampleRate,
		forceMono:    true,
		acceptStereo: true,
		enhance:      true,
	}
}

// SampleRate returns the canonical target sample rate.
func (a AudioConfig) SampleRate() int { return a.sampleRate }

// ForceMono reports whether all channels are always averaged to mono.
func (a AudioConfig) ForceMono() bool { return a.forceMono }

// AcceptStereo reports whether multi-channel input is averaged rather than
// truncated to the first channel.
func (a AudioConfig) AcceptStereo() bool { return a.acceptStereo }

// Enhance reports whether the enhancement pipeline (trim, best segment,
// peak normalization, pre-emphasis) is applied.
func (a AudioConfig) Enhance() bool { return a.enhance }

// WithSampleRate returns a new config with the specified target rate.
func (a AudioConfig) WithSampleRate(sr int) AudioConfig {
	if sr > 0 {
		a.sampleRate = sr
	}
	return a
}

// WithForceMono returns a new config with the specified mono policy.
func (a AudioConfig) WithForceMono(v bool) AudioConfig {
	a.forceMono = v
	return a
}

// WithAcceptStereo returns a new config with the specified stereo policy.
func (a AudioConfig) WithAcceptStereo(v bool) AudioConfig {
	a.acceptStereo = v
	return a
}

// WithEnhance returns a new config with the enhancement pipeline toggled.
func (a AudioConfig) WithEnhance(v bool) AudioConfig {
	a.enhance = v
	return a
}

// IdentifyConfig configures identification defaults. Threshold and topk are
// per-request overridable; these are the process-level fallbacks.
type IdentifyConfig struct {
	threshold   float64
	topK        int
	calibration bool
}

// NewIdentifyConfig creates an IdentifyConfig with defaults.
func NewIdentifyConfig() IdentifyConfig {
	return IdentifyConfig{
		threshold:   DefaultThreshold,
		topK:        DefaultTopK,
		calibration: true,
	}
}

// Threshold returns the default acceptance threshold in [0, 1].
func (i IdentifyConfig) Threshold() float64 { return i.threshold }

// TopK returns the default number of nearest candidates to fetch.
func (i IdentifyConfig) TopK() int { return i.topK }

// Calibration reports whether score calibration is applied.
func (i IdentifyConfig) Calibration() bool { return i.calibration }

// WithThreshold returns a new config with the threshold clamped to [0, 1].
func (i IdentifyConfig) WithThreshold(t float64) IdentifyConfig {
	i.threshold = ClampScore(t)
	return i
}

// WithTopK returns a new config with the specified top-k.
func (i IdentifyConfig) WithTopK(k int) IdentifyConfig {
	if k > 0 {
		i.topK = k
	}
	return i
}

// WithCalibration returns a new config with calibration toggled.
func (i IdentifyConfig) WithCalibration(v bool) IdentifyConfig {
	i.calibration = v
	return i
}

// ClampScore clamps a score or threshold to the valid [0, 1] range.
func ClampScore(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	host      string
	port      int
	dataDir   string
	dbURL     string
	logLevel  string
	logFormat LogFormat
	audio     AudioConfig
	encoder   EncoderConfig
	identify  IdentifyConfig
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".voiceid"
	}
	return filepath.Join(home, ".voiceid")
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	return AppConfig{
		host:      DefaultHost,
		port:      DefaultPort,
		dataDir:   dataDir,
		dbURL:     "sqlite:///" + filepath.Join(dataDir, "voiceid.db"),
		logLevel:  DefaultLogLevel,
		logFormat: LogFormatPretty,
		audio:     NewAudioConfig(),
		encoder:   NewEncoderConfig(),
		identify:  NewIdentifyConfig(),
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// Audio returns the audio normalization config.
func (c AppConfig) Audio() AudioConfig { return c.audio }

// Encoder returns the embedding backend config.
func (c AppConfig) Encoder() EncoderConfig { return c.encoder }

// Identify returns the identification defaults.
func (c AppConfig) Identify() IdentifyConfig { return c.identify }

// EnsureDataDir creates the data directory if it doesn't exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDataDir sets the data directory, updating the default DB URL when it
// still points at the default location.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) {
		c.dataDir = dir
		if c.dbURL == "" || filepath.Base(trimSQLiteURL(c.dbURL)) == "voiceid.db" {
			c.dbURL = "sqlite:///" + filepath.Join(dir, "voiceid.db")
		}
	}
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithAudioConfig sets the audio config.
func WithAudioConfig(a AudioConfig) AppConfigOption {
	return func(c *AppConfig) { c.audio = a }
}

// WithEncoderConfig sets the encoder config.
func WithEncoderConfig(e EncoderConfig) AppConfigOption {
	return func(c *AppConfig) { c.encoder = e }
}

// WithIdentifyConfig sets the identification defaults.
func WithIdentifyConfig(i IdentifyConfig) AppConfigOption {
	return func(c *AppConfig) { c.identify = i }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("data_dir", c.dataDir),
		slog.String("db_url", c.maskedDBURL()),
		slog.String("log_level", c.logLevel),
		slog.String("encoder_backend", string(c.encoder.Backend())),
		slog.String("encoder_base_url", c.encoder.BaseURL()),
		slog.Int("sample_rate", c.audio.SampleRate()),
		slog.Bool("enhance_audio", c.audio.Enhance()),
		slog.Float64("default_threshold", c.identify.Threshold()),
		slog.Int("topk", c.identify.TopK()),
		slog.Bool("score_calibration", c.identify.Calibration()),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "(default)"
	}
	if len(c.dbURL) >= 7 && c.dbURL[:7] == "sqlite:" {
		return c.dbURL
	}
	return "postgres://***@***"
}

func trimSQLiteURL(url string) string {
	if len(url) >= 10 && url[:10] == "sqlite:///" {
		return url[10:]
	}
	return url
}

package voiceid

import (
	"errors"
	"path/filepath"

	"github.com/voiceidlabs/voiceid/infrastructure/encoder"
	"github.com/voiceidlabs/voiceid/internal/config"
	"github.com/voiceidlabs/voiceid/internal/log"
)

// Client construction errors.
var (
	// ErrNoDatabase indicates New was called without a database location.
	ErrNoDatabase = errors.New("no database configured")

	// ErrClientClosed indicates an operation on a closed Client.
	ErrClientClosed = errors.New("client is closed")
)

// clientConfig holds configuration for Client construction.
type clientConfig struct {
	app             config.AppConfig
	encoder         encoder.Encoder
	logWrapper      *log.Logger
	rebuildParallel int
}

func newClientConfig() *clientConfig {
	return &clientConfig{
		app:             config.NewAppConfig(),
		rebuildParallel: config.DefaultRebuildParallel,
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithConfig replaces the entire application configuration.
func WithConfig(cfg config.AppConfig) Option {
	return func(c *clientConfig) {
		c.app = cfg
	}
}

// WithSQLite stores profiles in a SQLite database at path.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(
			config.WithDataDir(filepath.Dir(path)),
			config.WithDBURL("sqlite:///"+path),
		)
	}
}

// WithPostgres stores profiles in a PostgreSQL database.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithDBURL(dsn))
	}
}

// WithDataDir sets the data directory for database storage.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithDataDir(dir))
	}
}

// WithEncoderConfig sets the embedding backend connection settings.
func WithEncoderConfig(cfg config.EncoderConfig) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithEncoderConfig(cfg))
	}
}

// WithAudioConfig sets the waveform normalization settings.
func WithAudioConfig(cfg config.AudioConfig) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithAudioConfig(cfg))
	}
}

// WithIdentifyConfig sets the identification defaults.
func WithIdentifyConfig(cfg config.IdentifyConfig) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithIdentifyConfig(cfg))
	}
}

// WithEncoder sets a custom embedding encoder, bypassing the HTTP
// backends. Intended for tests and embedding experiments.
func WithEncoder(e encoder.Encoder) Option {
	return func(c *clientConfig) {
		c.encoder = e
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *log.Logger) Option {
	return func(c *clientConfig) {
		c.logWrapper = l
	}
}

// WithRebuildParallelism bounds the fan-out of a full centroid rebuild.
// Defaults to 4. Values <= 0 are ignored.
func WithRebuildParallelism(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.rebuildParallel = n
		}
	}
}

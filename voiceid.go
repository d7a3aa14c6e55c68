// Package voiceid provides a library for speaker enrollment and
// identification over voice clips.
//
// Uploaded clips are normalized to a canonical waveform, embedded by an
// external encoder service, and matched against per-speaker centroids with
// cosine similarity. Enrollment keeps every raw clip vector and maintains
// the centroid as the running mean.
//
// Basic usage:
//
//	client, err := voiceid.New(
//	    voiceid.WithSQLite(".voiceid/voiceid.db"),
//	    voiceid.WithEncoderConfig(config.NewEncoderConfig().WithBaseURL("http://localhost:8090")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Enroll a speaker from a WAV clip
//	clips, err := client.Enroll.Enroll(ctx, "alice", wavBytes)
//
//	// Identify a query clip
//	verdict, err := client.Identify.IdentifyAudio(ctx, wavBytes,
//	    service.DefaultIdentifyOptions(client.Config().Identify()))
//	fmt.Println(verdict.Speaker(), verdict.Confidence())
package voiceid

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/voiceidlabs/voiceid/application/service"
	"github.com/voiceidlabs/voiceid/domain/speaker"
	"github.com/voiceidlabs/voiceid/infrastructure/audio"
	"github.com/voiceidlabs/voiceid/infrastructure/encoder"
	"github.com/voiceidlabs/voiceid/infrastructure/store"
	"github.com/voiceidlabs/voiceid/internal/config"
	"github.com/voiceidlabs/voiceid/internal/database"
	"github.com/voiceidlabs/voiceid/internal/log"
)

// Client is the main entry point for the voiceid library.
//
// Access operations via struct fields:
//
//	client.Enroll.Enroll(ctx, "alice", wav)
//	client.Identify.IdentifyAudio(ctx, wav, opts)
//	client.Profiles.ListSpeakerNames(ctx)
type Client struct {
	// Public resource fields (direct service access)
	Enroll    *service.Enroller
	Identify  *service.Engine
	Centroids *service.Maintainer
	Settings  *service.Settings
	Profiles  speaker.Store

	db      database.Database
	encoder encoder.Encoder
	cfg     config.AppConfig
	logger  *slog.Logger
	closed  atomic.Bool
}

// New creates a new Client with the given options. The profile store
// schema is ensured on creation.
func New(opts ...Option) (*Client, error) {
	cc := newClientConfig()
	for _, opt := range opts {
		opt(cc)
	}

	appCfg := cc.app

	logWrapper := cc.logWrapper
	if logWrapper == nil {
		logWrapper = log.NewLogger(appCfg)
	}
	logger := logWrapper.Slog()

	if appCfg.DBURL() == "" {
		return nil, ErrNoDatabase
	}
	if err := appCfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("prepare data dir: %w", err)
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, appCfg.DBURL())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	enc := cc.encoder
	if enc == nil {
		enc = encoder.NewFromConfig(appCfg.Encoder())
	}

	profiles := store.NewProfileStore(db, enc.Dimension(), logWrapper)
	if err := profiles.EnsureSchema(ctx); err != nil {
		errClose := db.Close()
		if errClose != nil {
			return nil, fmt.Errorf("ensure schema: %w (close: %v)", err, errClose)
		}
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	normalizer := audio.NewNormalizer(appCfg.Audio())
	settings := service.NewSettings(appCfg.Identify().Threshold())
	maintainer := service.NewMaintainer(profiles, cc.rebuildParallel, logger)

	client := &Client{
		Enroll:    service.NewEnroller(profiles, normalizer, enc, maintainer, logger),
		Identify:  service.NewEngine(profiles, normalizer, enc, settings, appCfg.Identify(), logger),
		Centroids: maintainer,
		Settings:  settings,
		Profiles:  profiles,
		db:        db,
		encoder:   enc,
		cfg:       appCfg,
		logger:    logger,
	}

	logger.Info("voiceid client ready",
		slog.String("backend", enc.Name()),
		slog.Int("dimension", enc.Dimension()),
	)
	return client, nil
}

// Close releases the database connection. The client must not be used
// afterwards.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	c.logger.Info("voiceid client closed")
	return nil
}

// Config returns the client's configuration.
func (c *Client) Config() config.AppConfig {
	return c.cfg
}

// Encoder returns the active embedding encoder.
func (c *Client) Encoder() encoder.Encoder {
	return c.encoder
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

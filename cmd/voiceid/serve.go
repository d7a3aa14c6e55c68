package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voiceidlabs/voiceid"
	"github.com/voiceidlabs/voiceid/infrastructure/api"
	"github.com/voiceidlabs/voiceid/internal/config"
	"github.com/voiceidlabs/voiceid/internal/log"
)

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                 Server host to bind to (default: 0.0.0.0)
  PORT                 Server port to listen on (default: 8080)
  DATA_DIR             Data directory (default: ~/.voiceid)
  DB_URL               Database URL (default: sqlite:///{data_dir}/voiceid.db)
  LOG_LEVEL            Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT           Log format: pretty, json (default: pretty)

  SAMPLE_RATE          Canonical sample rate in Hz (default: 16000)
  FORCE_MONO           Average all channels to mono (default: true)
  ACCEPT_STEREO        Average stereo rather than taking channel 0 (default: true)
  ENHANCE_AUDIO        Apply trim/normalize/pre-emphasis pipeline (default: true)

  DEFAULT_THRESHOLD    Acceptance threshold in [0,1] (default: 0.82)
  TOPK                 Candidates fetched per query (default: 5)
  SCORE_CALIBRATION    Apply score calibration (default: true)

  ENCODER_BACKEND      Embedding backend: resemblyzer, ecapa (default: resemblyzer)
  ENCODER_BASE_URL     Inference service URL (default: http://localhost:8090)
  ENCODER_TIMEOUT      Request timeout in seconds (default: 30)
  ENCODER_MAX_RETRIES  Retry attempts (default: 3)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(envFile, host string, port int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	// Flags take precedence over env vars
	cfg = applyServeOverrides(cfg, host, port)

	logger := log.Configure(cfg)
	slogger := logger.Slog()

	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	slogger.LogAttrs(context.Background(), slog.LevelInfo, "starting voiceid", attrs...)

	client, err := voiceid.New(
		voiceid.WithConfig(cfg),
		voiceid.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create voiceid client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close voiceid client", slog.Any("error", err))
		}
	}()

	apiServer := api.NewAPIServer(client, version)

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		slogger.Info("shutting down server")
		if err := apiServer.Shutdown(ctx); err != nil {
			slogger.Error("shutdown error", slog.Any("error", err))
		}
		cancel()
	}()

	if err := apiServer.ListenAndServe(cfg.Addr()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}

	return cfg.Apply(opts...)
}

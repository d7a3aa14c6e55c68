package config

import (
	"testing"
	"time"
)

func TestDefaultConstants(t *testing.T) {
	if DefaultHost != "0.0.0.0" {
		t.Errorf("DefaultHost = %v, want '0.0.0.0'", DefaultHost)
	}
	if DefaultPort != 8080 {
		t.Errorf("DefaultPort = %v, want 8080", DefaultPort)
	}
	if DefaultLogLevel != "INFO" {
		t.Errorf("DefaultLogLevel = %v, want 'INFO'", DefaultLogLevel)
	}
	if DefaultSampleRate != 16000 {
		t.Errorf("DefaultSampleRate = %v, want 16000", DefaultSampleRate)
	}
	if DefaultThreshold != 0.82 {
		t.Errorf("DefaultThreshold = %v, want 0.82", DefaultThreshold)
	}
	if DefaultTopK != 5 {
		t.Errorf("DefaultTopK = %v, want 5", DefaultTopK)
	}
	if DefaultEncoderTimeout != 30*time.Second {
		t.Errorf("DefaultEncoderTimeout = %v, want 30s", DefaultEncoderTimeout)
	}
	if DefaultEncoderRetries != 3 {
		t.Errorf("DefaultEncoderRetries = %v, want 3", DefaultEncoderRetries)
	}
	if DefaultEncoderBackend != BackendResemblyzer {
		t.Errorf("DefaultEncoderBackend = %v, want resemblyzer", DefaultEncoderBackend)
	}
}

func TestEncoderConfig_Defaults(t *testing.T) {
	cfg := NewEncoderConfig()

	if cfg.Backend() != BackendResemblyzer {
		t.Errorf("Backend() = %v, want resemblyzer", cfg.Backend())
	}
	if cfg.Timeout() != DefaultEncoderTimeout {
		t.Errorf("Timeout() = %v, want %v", cfg.Timeout(), DefaultEncoderTimeout)
	}
	if cfg.MaxRetries() != DefaultEncoderRetries {
		t.Errorf("MaxRetries() = %v, want %v", cfg.MaxRetries(), DefaultEncoderRetries)
	}
}

func TestEncoderConfig_WithModifiers(t *testing.T) {
	cfg := NewEncoderConfig().
		WithBackend(BackendEcapa).
		WithBaseURL("http://encoder:9000").
		WithTimeout(10 * time.Second).
		WithMaxRetries(5)

	if cfg.Backend() != BackendEcapa {
		t.Errorf("Backend() = %v, want ecapa", cfg.Backend())
	}
	if cfg.BaseURL() != "http://encoder:9000" {
		t.Errorf("BaseURL() = %v, want 'http://encoder:9000'", cfg.BaseURL())
	}
	if cfg.Timeout() != 10*time.Second {
		t.Errorf("Timeout() = %v, want 10s", cfg.Timeout())
	}
	if cfg.MaxRetries() != 5 {
		t.Errorf("MaxRetries() = %v, want 5", cfg.MaxRetries())
	}
}

func TestAudioConfig_Defaults(t *testing.T) {
	cfg := NewAudioConfig()

	if cfg.SampleRate() != DefaultSampleRate {
		t.Errorf("SampleRate() = %v, want %v", cfg.SampleRate(), DefaultSampleRate)
	}
	if !cfg.ForceMono() {
		t.Error("ForceMono() should be true by default")
	}
	if !cfg.AcceptStereo() {
		t.Error("AcceptStereo() should be true by default")
	}
	if !cfg.Enhance() {
		t.Error("Enhance() should be true by default")
	}
}

func TestAudioConfig_IgnoresInvalidSampleRate(t *testing.T) {
	cfg := NewAudioConfig().WithSampleRate(0)
	if cfg.SampleRate() != DefaultSampleRate {
		t.Errorf("SampleRate() = %v, want %v after WithSampleRate(0)", cfg.SampleRate(), DefaultSampleRate)
	}

	cfg = cfg.WithSampleRate(-8000)
	if cfg.SampleRate() != DefaultSampleRate {
		t.Errorf("SampleRate() = %v, want %v after negative rate", cfg.SampleRate(), DefaultSampleRate)
	}
}

func TestIdentifyConfig_Defaults(t *testing.T) {
	cfg := NewIdentifyConfig()

	if cfg.Threshold() != DefaultThreshold {
		t.Errorf("Threshold() = %v, want %v", cfg.Threshold(), DefaultThreshold)
	}
	if cfg.TopK() != DefaultTopK {
		t.Errorf("TopK() = %v, want %v", cfg.TopK(), DefaultTopK)
	}
	if !cfg.Calibration() {
		t.Error("Calibration() should be true by default")
	}
}

func TestIdentifyConfig_ThresholdClamped(t *testing.T) {
	cfg := NewIdentifyConfig().WithThreshold(1.5)
	if cfg.Threshold() != 1.0 {
		t.Errorf("Threshold() = %v, want 1.0", cfg.Threshold())
	}

	cfg = cfg.WithThreshold(-0.2)
	if cfg.Threshold() != 0.0 {
		t.Errorf("Threshold() = %v, want 0.0", cfg.Threshold())
	}
}

func TestIdentifyConfig_IgnoresInvalidTopK(t *testing.T) {
	cfg := NewIdentifyConfig().WithTopK(0)
	if cfg.TopK() != DefaultTopK {
		t.Errorf("TopK() = %v, want %v after WithTopK(0)", cfg.TopK(), DefaultTopK)
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{1.01, 1},
	}
	for _, tc := range tests {
		if got := ClampScore(tc.in); got != tc.want {
			t.Errorf("ClampScore(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	cfg := NewAppConfig()

	if cfg.Host() != DefaultHost {
		t.Errorf("Host() = %v, want '%v'", cfg.Host(), DefaultHost)
	}
	if cfg.Port() != DefaultPort {
		t.Errorf("Port() = %v, want %v", cfg.Port(), DefaultPort)
	}
	if cfg.LogLevel() != DefaultLogLevel {
		t.Errorf("LogLevel() = %v, want '%v'", cfg.LogLevel(), DefaultLogLevel)
	}
	if cfg.LogFormat() != LogFormatPretty {
		t.Errorf("LogFormat() = %v, want 'pretty'", cfg.LogFormat())
	}
	if cfg.DataDir() == "" {
		t.Error("DataDir() should not be empty")
	}
	if cfg.DBURL() == "" {
		t.Error("DBURL() should not be empty")
	}
}

func TestAppConfig_Addr(t *testing.T) {
	cfg := NewAppConfigWithOptions(WithHost("127.0.0.1"), WithPort(9090))

	if cfg.Addr() != "127.0.0.1:9090" {
		t.Errorf("Addr() = %v, want '127.0.0.1:9090'", cfg.Addr())
	}
}

func TestAppConfig_WithOptions(t *testing.T) {
	audio := NewAudioConfig().WithSampleRate(8000).WithEnhance(false)
	encoder := NewEncoderConfig().WithBackend(BackendEcapa)
	identify := NewIdentifyConfig().WithThreshold(0.9).WithTopK(3)

	cfg := NewAppConfigWithOptions(
		WithDataDir("/custom/data"),
		WithDBURL("postgres://localhost/voiceid"),
		WithLogLevel("DEBUG"),
		WithLogFormat(LogFormatJSON),
		WithAudioConfig(audio),
		WithEncoderConfig(encoder),
		WithIdentifyConfig(identify),
	)

	if cfg.DataDir() != "/custom/data" {
		t.Errorf("DataDir() = %v, want '/custom/data'", cfg.DataDir())
	}
	if cfg.DBURL() != "postgres://localhost/voiceid" {
		t.Errorf("DBURL() = %v, want 'postgres://localhost/voiceid'", cfg.DBURL())
	}
	if cfg.LogLevel() != "DEBUG" {
		t.Errorf("LogLevel() = %v, want 'DEBUG'", cfg.LogLevel())
	}
	if cfg.LogFormat() != LogFormatJSON {
		t.Errorf("LogFormat() = %v, want 'json'", cfg.LogFormat())
	}
	if cfg.Audio().SampleRate() != 8000 {
		t.Errorf("Audio().SampleRate() = %v, want 8000", cfg.Audio().SampleRate())
	}
	if cfg.Audio().Enhance() {
		t.Error("Audio().Enhance() should be false")
	}
	if cfg.Encoder().Backend() != BackendEcapa {
		t.Errorf("Encoder().Backend() = %v, want ecapa", cfg.Encoder().Backend())
	}
	if cfg.Identify().Threshold() != 0.9 {
		t.Errorf("Identify().Threshold() = %v, want 0.9", cfg.Identify().Threshold())
	}
	if cfg.Identify().TopK() != 3 {
		t.Errorf("Identify().TopK() = %v, want 3", cfg.Identify().TopK())
	}
}

func TestAppConfig_DataDirUpdatesDBURL(t *testing.T) {
	cfg := NewAppConfigWithOptions(WithDataDir("/custom"))

	// DB URL tracks the data dir while it still points at the default file
	expected := "sqlite:////custom/voiceid.db"
	if cfg.DBURL() != expected {
		t.Errorf("DBURL() = %v, want %v", cfg.DBURL(), expected)
	}
}

func TestAppConfig_ExplicitDBURLWinsOverDataDir(t *testing.T) {
	cfg := NewAppConfigWithOptions(
		WithDBURL("postgres://localhost/voiceid"),
		WithDataDir("/custom"),
	)

	if cfg.DBURL() != "postgres://localhost/voiceid" {
		t.Errorf("DBURL() = %v, want 'postgres://localhost/voiceid'", cfg.DBURL())
	}
}

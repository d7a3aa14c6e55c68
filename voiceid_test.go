package voiceid_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voiceidlabs/voiceid"
	"github.com/voiceidlabs/voiceid/application/service"
	"github.com/voiceidlabs/voiceid/internal/config"
	"github.com/voiceidlabs/voiceid/internal/log"
)

type foldEncoder struct {
	dimension int
}

func (f foldEncoder) Embed(_ context.Context, samples []float64, _ int) ([]float64, error) {
	vec := make([]float64, f.dimension)
	for i, v := range samples {
		vec[i%f.dimension] += v
	}
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		vec[0] = 1
		return vec, nil
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
	return vec, nil
}

func (f foldEncoder) Dimension() int { return f.dimension }
func (f foldEncoder) Name() string   { return "fold" }

func newTestClient(t *testing.T) *voiceid.Client {
	t.Helper()

	client, err := voiceid.New(
		voiceid.WithSQLite(filepath.Join(t.TempDir(), "voiceid.db")),
		voiceid.WithEncoder(foldEncoder{dimension: 8}),
		voiceid.WithLogger(log.NewLoggerWithWriter(io.Discard, config.LogFormatJSON, "ERROR")),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func toneWAV(freq float64) []byte {
	const rate = 16000
	samples := make([]float64, rate*3/2)
	for i := range samples {
		samples[i] = 0.6 * math.Sin(2*math.Pi*freq*float64(i)/rate)
	}

	var data bytes.Buffer
	for _, s := range samples {
		v := int16(math.Round(s * 32767))
		_ = binary.Write(&data, binary.LittleEndian, v)
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+data.Len()))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(rate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(rate*2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())
	return buf.Bytes()
}

func TestNew_RequiresDatabase(t *testing.T) {
	cfg := config.NewAppConfig().Apply(config.WithDBURL(""))

	_, err := voiceid.New(
		voiceid.WithConfig(cfg),
		voiceid.WithEncoder(foldEncoder{dimension: 8}),
	)
	assert.ErrorIs(t, err, voiceid.ErrNoDatabase)
}

func TestClient_EnrollAndIdentify(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	alice := toneWAV(440)
	clips, err := client.Enroll.Enroll(ctx, "alice", alice)
	require.NoError(t, err)
	assert.Equal(t, 1, clips)

	clips, err = client.Enroll.Enroll(ctx, "alice", toneWAV(445))
	require.NoError(t, err)
	assert.Equal(t, 2, clips)

	names, err := client.Profiles.ListSpeakerNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, names)

	verdict, err := client.Identify.IdentifyAudio(ctx, alice,
		service.DefaultIdentifyOptions(client.Config().Identify()))
	require.NoError(t, err)
	assert.Equal(t, "alice", verdict.Speaker())
	assert.True(t, verdict.Accepted())
}

func TestClient_SettingsAffectIdentify(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.Enroll.Enroll(ctx, "alice", toneWAV(440))
	require.NoError(t, err)
	_, err = client.Enroll.Enroll(ctx, "bob", toneWAV(1250))
	require.NoError(t, err)

	query := toneWAV(2000)
	opts := service.DefaultIdentifyOptions(client.Config().Identify())

	// No enrolled clip matches the query perfectly
	client.Settings.SetThreshold(1.0)
	verdict, err := client.Identify.IdentifyAudio(ctx, query, opts)
	require.NoError(t, err)
	assert.False(t, verdict.Accepted())

	client.Settings.SetThreshold(0.0)
	verdict, err = client.Identify.IdentifyAudio(ctx, query, opts)
	require.NoError(t, err)
	assert.True(t, verdict.Accepted())
}

func TestClient_RebuildAll(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.Enroll.Enroll(ctx, "alice", toneWAV(440))
	require.NoError(t, err)
	_, err = client.Enroll.Enroll(ctx, "bob", toneWAV(1250))
	require.NoError(t, err)

	updated, err := client.Centroids.RebuildAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)
}

func TestClient_CloseTwice(t *testing.T) {
	client, err := voiceid.New(
		voiceid.WithSQLite(filepath.Join(t.TempDir(), "voiceid.db")),
		voiceid.WithEncoder(foldEncoder{dimension: 8}),
		voiceid.WithLogger(log.NewLoggerWithWriter(io.Discard, config.LogFormatJSON, "ERROR")),
	)
	require.NoError(t, err)

	require.NoError(t, client.Close())
	assert.ErrorIs(t, client.Close(), voiceid.ErrClientClosed)
}

package audio

import (
	"bytes"
	"fmt"

	"github.com/go-audio/wav"

	"github.com/voiceidlabs/voiceid/domain/speaker"
)

// decodeWAV decodes RIFF/WAVE PCM bytes into interleaved float64 frames in
// [-1, 1], returning the channel count and source sample rate. Any decode
// failure is reported as ErrUnsupportedFormat.
func decodeWAV(raw []byte) ([]float64, int, int, error) {
	dec := wav.NewDecoder(bytes.NewReader(raw))
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, 0, 0, fmt.Errorf("%w: not a RIFF/WAVE file", speaker.ErrUnsupportedFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %v", speaker.ErrUnsupportedFormat, err)
	}

	channels := buf.Format.NumChannels
	rate := buf.Format.SampleRate
	if channels <= 0 || rate <= 0 {
		return nil, 0, 0, fmt.Errorf("%w: invalid format header", speaker.ErrUnsupportedFormat)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(dec.BitDepth)
	}

	frames := make([]float64, len(buf.Data))
	switch bitDepth {
	case 8:
		// 8-bit WAV is unsigned, centered on 128
		for i, v := range buf.Data {
			frames[i] = (float64(v) - 128) / 128
		}
	case 16, 24, 32:
		scale := float64(int64(1) << (bitDepth - 1))
		for i, v := range buf.Data {
			frames[i] = float64(v) / scale
		}
	default:
		return nil, 0, 0, fmt.Errorf("%w: unsupported bit depth %d", speaker.ErrUnsupportedFormat, bitDepth)
	}

	return frames, channels, rate, nil
}

package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildWAV(t *testing.T, audioFormat, bits uint16, extra []byte, samples []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := func(v any) { require.NoError(t, binary.Write(&buf, binary.LittleEndian, v)) }

	buf.WriteString("RIFF")
	w(uint32(0))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	w(uint32(16))
	w(audioFormat)
	w(uint16(1))
	w(uint32(8000))
	w(uint32(8000 * 2))
	w(uint16(2))
	w(bits)

	if extra != nil {
		buf.WriteString("LIST")
		w(uint32(len(extra)))
		buf.Write(extra)
		if len(extra)%2 == 1 {
			buf.WriteByte(0)
		}
	}

	buf.WriteString("data")
	w(uint32(len(samples)))
	buf.Write(samples)
	return buf.Bytes()
}

func TestParseWAV(t *testing.T) {
	samples := []byte{1, 2, 3, 4, 5, 6}
	format, data, err := parseWAV(buildWAV(t, 1, 16, []byte("abc"), samples))
	require.NoError(t, err)

	assert.Equal(t, 8000, format.SampleRate)
	assert.Equal(t, 1, format.Channels)
	assert.Equal(t, 16, format.BitDepth)
	assert.Equal(t, samples, data)
}

func TestParseWAVRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not riff", []byte("OggS0000WAVEfmt ")},
		{"compressed", buildWAV(t, 3, 16, nil, []byte{0, 0})},
		{"8-bit", buildWAV(t, 1, 8, nil, []byte{0, 0})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseWAV(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestParseWAVTruncatedData(t *testing.T) {
	full := buildWAV(t, 1, 16, nil, make([]byte, 100))
	_, data, err := parseWAV(full[:len(full)-40])
	require.NoError(t, err)
	assert.Len(t, data, 60)
}

func TestNewPlayerDuration(t *testing.T) {
	player, err := NewPlayer(buildWAV(t, 1, 16, nil, make([]byte, 16000)), nil)
	require.NoError(t, err)
	assert.Equal(t, time.Second, player.Duration())

	_, err = NewPlayer([]byte("nope"), nil)
	assert.Error(t, err)
}

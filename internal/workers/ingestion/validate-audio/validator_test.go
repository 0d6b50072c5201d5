package validateaudio

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

// wavBytes builds a PCM WAV header followed by dataSize zero bytes.
func wavBytes(byteRate uint32, dataSize uint32) []byte {
	buf := make([]byte, 0, 44+dataSize)
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, 36+dataSize)
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1) // PCM
	buf = binary.LittleEndian.AppendUint16(buf, 1) // channels
	buf = binary.LittleEndian.AppendUint32(buf, byteRate/2)
	buf = binary.LittleEndian.AppendUint32(buf, byteRate)
	buf = binary.LittleEndian.AppendUint16(buf, 2)
	buf = binary.LittleEndian.AppendUint16(buf, 16)
	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, dataSize)
	return append(buf, make([]byte, dataSize)...)
}

func TestValidator_Validate(t *testing.T) {
	tests := []struct {
		name            string
		path            func(t *testing.T) string
		valid           bool
		format          string
		messageContains string
	}{
		{
			name:   "wav",
			path:   func(t *testing.T) string { return writeFile(t, "standup.wav", wavBytes(16000, 160)) },
			valid:  true,
			format: ".wav",
		},
		{
			name:   "mp3 with id3 tag",
			path:   func(t *testing.T) string { return writeFile(t, "standup.MP3", []byte("ID3\x03\x00\x00\x00\x00\x00\x00\x00\x00")) },
			valid:  true,
			format: ".mp3",
		},
		{
			name:   "mp3 frame sync",
			path:   func(t *testing.T) string { return writeFile(t, "standup.mp3", []byte{0xff, 0xfb, 0x90, 0x00, 0x00}) },
			valid:  true,
			format: ".mp3",
		},
		{
			name:   "m4a",
			path:   func(t *testing.T) string { return writeFile(t, "standup.m4a", []byte("\x00\x00\x00\x20ftypM4A ")) },
			valid:  true,
			format: ".m4a",
		},
		{
			name:            "missing file",
			path:            func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.wav") },
			messageContains: "File not found",
		},
		{
			name:            "directory",
			path:            func(t *testing.T) string { return t.TempDir() },
			messageContains: "Path is not a file",
		},
		{
			name:            "unsupported extension",
			path:            func(t *testing.T) string { return writeFile(t, "standup.ogg", []byte("OggS\x00\x02")) },
			format:          ".ogg",
			messageContains: "Unsupported audio format: .ogg. Supported formats: .m4a, .mp3, .wav",
		},
		{
			name:            "empty file",
			path:            func(t *testing.T) string { return writeFile(t, "standup.wav", nil) },
			format:          ".wav",
			messageContains: "Audio file is empty",
		},
		{
			name:            "truncated header",
			path:            func(t *testing.T) string { return writeFile(t, "standup.mp3", []byte("ID")) },
			format:          ".mp3",
			messageContains: "too small",
		},
		{
			name:            "content mismatch",
			path:            func(t *testing.T) string { return writeFile(t, "standup.wav", []byte("not really audio")) },
			format:          ".wav",
			messageContains: "File content does not match .wav format",
		},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(tt.path(t))

			assert.Equal(t, tt.valid, result.Valid)
			assert.Equal(t, tt.format, result.FileFormat)
			if tt.messageContains != "" {
				assert.Contains(t, result.ErrorMessage, tt.messageContains)
			} else {
				assert.Empty(t, result.ErrorMessage)
			}
		})
	}
}

func TestValidator_Metadata(t *testing.T) {
	v := NewValidator()

	wav := writeFile(t, "standup.wav", wavBytes(16000, 32000))
	meta, err := v.Metadata(wav)
	require.NoError(t, err)
	assert.Equal(t, ".wav", meta.Format)
	assert.Equal(t, int64(44+32000), meta.FileSizeBytes)
	assert.InDelta(t, 2.0, meta.DurationSeconds, 0.0001)

	mp3 := writeFile(t, "standup.mp3", []byte("ID3\x04\x00\x00\x00\x00\x00\x00\x00\x00"))
	meta, err = v.Metadata(mp3)
	require.NoError(t, err)
	assert.Zero(t, meta.DurationSeconds)

	_, err = v.Metadata(filepath.Join(t.TempDir(), "gone.m4a"))
	assert.True(t, errors.Is(err, ErrAudioValidationFailed))
}

func TestIsSupportedFormat(t *testing.T) {
	assert.True(t, IsSupportedFormat("a/b/meeting.WAV"))
	assert.True(t, IsSupportedFormat("meeting.m4a"))
	assert.False(t, IsSupportedFormat("meeting.flac"))
	assert.False(t, IsSupportedFormat("meeting"))
}

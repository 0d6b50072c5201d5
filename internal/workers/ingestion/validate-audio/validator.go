// Package validateaudio checks that a meeting recording is a readable file in
// a supported format before it is sent for transcription.
package validateaudio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"meeting-workers/internal/models"
)

const headerSize = 12

// magicChecks match the first bytes of a file against its extension.
var magicChecks = map[string]func(header []byte) bool{
	".wav": func(h []byte) bool {
		return len(h) >= 12 && bytes.Equal(h[:4], []byte("RIFF")) && bytes.Equal(h[8:12], []byte("WAVE"))
	},
	".mp3": func(h []byte) bool {
		if bytes.HasPrefix(h, []byte("ID3")) {
			return true
		}
		if len(h) < 2 || h[0] != 0xff {
			return false
		}
		switch h[1] {
		case 0xfb, 0xfa, 0xf3, 0xf2:
			return true
		}
		return false
	},
	".m4a": func(h []byte) bool {
		return len(h) >= 8 && bytes.Equal(h[4:8], []byte("ftyp"))
	},
}

// SupportedFormats returns the accepted extensions in sorted order.
func SupportedFormats() []string {
	formats := make([]string, 0, len(magicChecks))
	for ext := range magicChecks {
		formats = append(formats, ext)
	}
	sort.Strings(formats)
	return formats
}

// IsSupportedFormat only looks at the extension.
func IsSupportedFormat(path string) bool {
	_, ok := magicChecks[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Validator is stateless and safe for concurrent use.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate never returns an error; problems are reported in the result.
func (v *Validator) Validate(path string) models.ValidationResult {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return invalid("", "File not found: %s", path)
		}
		return invalid("", "Cannot read audio file: %v", err)
	}
	if !info.Mode().IsRegular() {
		return invalid("", "Path is not a file: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	check, ok := magicChecks[ext]
	if !ok {
		return invalid(ext, "Unsupported audio format: %s. Supported formats: %s", ext, strings.Join(SupportedFormats(), ", "))
	}
	if info.Size() == 0 {
		return invalid(ext, "Audio file is empty")
	}

	header, err := readHeader(path)
	if err != nil {
		return invalid(ext, "Cannot read audio file: %v", err)
	}
	if len(header) < 4 {
		return invalid(ext, "Audio file appears to be corrupted (too small)")
	}
	if !check(header) {
		return invalid(ext, "File content does not match %s format", ext)
	}

	return models.ValidationResult{Valid: true, FileFormat: ext}
}

// Metadata describes a valid recording. Duration is only known for WAV
// files and is 0 otherwise.
func (v *Validator) Metadata(path string) (*models.AudioMetadata, error) {
	result := v.Validate(path)
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrAudioValidationFailed, result.ErrorMessage)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	meta := &models.AudioMetadata{
		Format:        result.FileFormat,
		FileSizeBytes: info.Size(),
	}
	if result.FileFormat == ".wav" {
		if d, err := wavDuration(path); err == nil {
			meta.DurationSeconds = d
		}
	}
	return meta, nil
}

func readHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header := make([]byte, headerSize)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return header[:n], nil
}

// wavDuration walks the RIFF chunks for the byte rate in "fmt " and the
// size of "data".
func wavDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if _, err := f.Seek(headerSize, io.SeekStart); err != nil {
		return 0, err
	}

	var byteRate, dataSize uint32
	chunk := make([]byte, 8)
	for byteRate == 0 || dataSize == 0 {
		if _, err := io.ReadFull(f, chunk); err != nil {
			return 0, err
		}
		id, size := string(chunk[:4]), binary.LittleEndian.Uint32(chunk[4:])
		switch id {
		case "fmt ":
			body := make([]byte, size)
			if _, err := io.ReadFull(f, body); err != nil {
				return 0, err
			}
			if len(body) < 12 {
				return 0, errors.New("fmt chunk too short")
			}
			byteRate = binary.LittleEndian.Uint32(body[8:12])
		case "data":
			dataSize = size
			if _, err := f.Seek(int64(size), io.SeekCurrent); err != nil {
				return 0, err
			}
		default:
			if _, err := f.Seek(int64(size+size%2), io.SeekCurrent); err != nil {
				return 0, err
			}
		}
	}
	return float64(dataSize) / float64(byteRate), nil
}

func invalid(format, msg string, args ...interface{}) models.ValidationResult {
	return models.ValidationResult{
		Valid:        false,
		ErrorMessage: fmt.Sprintf(msg, args...),
		FileFormat:   format,
	}
}

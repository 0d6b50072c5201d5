package transcribeaudio

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	apperrors "meeting-workers/internal/common/errors"
	"meeting-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key"

// fakeAssemblyAI answers /upload and /transcript, and reports the given
// poll statuses in order, repeating the last one.
type fakeAssemblyAI struct {
	t        *testing.T
	statuses []transcriptResponse
	polls    atomic.Int32
	uploaded []byte
}

func (f *fakeAssemblyAI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("authorization") != testAPIKey {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "Authentication error"}`))
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/upload":
		f.uploaded, _ = io.ReadAll(r.Body)
		_ = json.NewEncoder(w).Encode(uploadResponse{UploadURL: "https://cdn.example.com/upload/abc"})
	case r.Method == http.MethodPost && r.URL.Path == "/transcript":
		var req transcriptRequest
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(f.t, "https://cdn.example.com/upload/abc", req.AudioURL)
		_ = json.NewEncoder(w).Encode(transcriptResponse{ID: "tx-1", Status: "queued"})
	case r.Method == http.MethodGet && r.URL.Path == "/transcript/tx-1":
		n := int(f.polls.Add(1)) - 1
		if n >= len(f.statuses) {
			n = len(f.statuses) - 1
		}
		_ = json.NewEncoder(w).Encode(f.statuses[n])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meeting.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF....WAVEfmt "), 0o600))
	return path
}

func createTestConfig(baseURL string) *Config {
	return &Config{
		BaseURL:        baseURL,
		APIKey:         testAPIKey,
		PollInterval:   5 * time.Millisecond,
		PollTimeout:    500 * time.Millisecond,
		RequestTimeout: time.Second,
		Timeout:        2 * time.Second,
	}
}

func TestClient_Transcribe(t *testing.T) {
	tests := []struct {
		name           string
		statuses       []transcriptResponse
		pollTimeout    time.Duration
		validateOutput func(t *testing.T, fake *fakeAssemblyAI, success bool, transcript, message string)
	}{
		{
			name: "completes after polling",
			statuses: []transcriptResponse{
				{ID: "tx-1", Status: "queued"},
				{ID: "tx-1", Status: "processing"},
				{ID: "tx-1", Status: "completed", Text: "We need to fix the login bug.", Confidence: 0.93},
			},
			validateOutput: func(t *testing.T, fake *fakeAssemblyAI, success bool, transcript, message string) {
				assert.True(t, success)
				assert.Equal(t, "We need to fix the login bug.", transcript)
				assert.Empty(t, message)
				assert.Equal(t, int32(3), fake.polls.Load())
				assert.Equal(t, []byte("RIFF....WAVEfmt "), fake.uploaded)
			},
		},
		{
			name:     "no speech",
			statuses: []transcriptResponse{{ID: "tx-1", Status: "completed", Text: "  "}},
			validateOutput: func(t *testing.T, fake *fakeAssemblyAI, success bool, transcript, message string) {
				assert.False(t, success)
				assert.Equal(t, "No speech detected in audio file", message)
			},
		},
		{
			name:     "service error",
			statuses: []transcriptResponse{{ID: "tx-1", Status: "error", Error: "Audio duration is too short"}},
			validateOutput: func(t *testing.T, fake *fakeAssemblyAI, success bool, transcript, message string) {
				assert.False(t, success)
				assert.Equal(t, "Audio duration is too short", message)
			},
		},
		{
			name:        "never completes",
			statuses:    []transcriptResponse{{ID: "tx-1", Status: "processing"}},
			pollTimeout: 30 * time.Millisecond,
			validateOutput: func(t *testing.T, fake *fakeAssemblyAI, success bool, transcript, message string) {
				assert.False(t, success)
				assert.Equal(t, "Transcription timed out", message)
				assert.Greater(t, fake.polls.Load(), int32(1))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAssemblyAI{t: t, statuses: tt.statuses}
			server := httptest.NewServer(fake)
			defer server.Close()

			cfg := createTestConfig(server.URL)
			if tt.pollTimeout > 0 {
				cfg.PollTimeout = tt.pollTimeout
			}
			client := NewClient(cfg, logger.NewTestLogger(t))

			result := client.Transcribe(context.Background(), writeAudio(t))
			tt.validateOutput(t, fake, result.Success, result.Transcript, result.ErrorMessage)
		})
	}
}

func TestClient_Transcribe_RequestFailures(t *testing.T) {
	fake := &fakeAssemblyAI{t: t, statuses: []transcriptResponse{{Status: "completed", Text: "ok"}}}
	server := httptest.NewServer(fake)
	defer server.Close()

	t.Run("missing file", func(t *testing.T) {
		client := NewClient(createTestConfig(server.URL), logger.NewTestLogger(t))
		result := client.Transcribe(context.Background(), "/no/such/meeting.wav")
		assert.False(t, result.Success)
		assert.Equal(t, "Audio file not found: /no/such/meeting.wav", result.ErrorMessage)
	})

	t.Run("rejected key", func(t *testing.T) {
		cfg := createTestConfig(server.URL)
		cfg.APIKey = "wrong"
		result := NewClient(cfg, logger.NewTestLogger(t)).Transcribe(context.Background(), writeAudio(t))
		assert.False(t, result.Success)
		assert.Contains(t, result.ErrorMessage, "API request failed: status 401")
	})

	t.Run("missing key", func(t *testing.T) {
		cfg := createTestConfig(server.URL)
		cfg.APIKey = ""
		result := NewClient(cfg, logger.NewTestLogger(t)).Transcribe(context.Background(), writeAudio(t))
		assert.False(t, result.Success)
		assert.Contains(t, result.ErrorMessage, "ASSEMBLYAI_API_KEY")
	})
}

func TestHandler_Execute(t *testing.T) {
	fake := &fakeAssemblyAI{t: t, statuses: []transcriptResponse{
		{ID: "tx-1", Status: "completed", Text: "Sakshi, please fix the login bug.", Confidence: 0.9},
	}}
	server := httptest.NewServer(fake)
	defer server.Close()

	handler := NewHandler(createTestConfig(server.URL), logger.NewTestLogger(t))

	tests := []struct {
		name           string
		input          *Input
		expectedError  error
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name:  "transcribes file",
			input: &Input{AudioPath: writeAudio(t)},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, "Sakshi, please fix the login bug.", output.Transcript)
				assert.InDelta(t, 0.9, output.Confidence, 1e-9)
			},
		},
		{
			name:          "missing path",
			input:         &Input{},
			expectedError: ErrInvalidInput,
		},
		{
			name:          "missing file",
			input:         &Input{AudioPath: "/no/such/file.mp3"},
			expectedError: ErrTranscriptionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), tt.input)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, output)
				return
			}
			require.NoError(t, err)
			tt.validateOutput(t, output)
		})
	}
}

func TestHandler_Execute_Timeout(t *testing.T) {
	fake := &fakeAssemblyAI{t: t, statuses: []transcriptResponse{{ID: "tx-1", Status: "processing"}}}
	server := httptest.NewServer(fake)
	defer server.Close()

	handler := NewHandler(createTestConfig(server.URL), logger.NewTestLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	_, err := handler.Execute(ctx, &Input{AudioPath: writeAudio(t)})
	assert.ErrorIs(t, err, ErrTranscriptionTimeout)
}

func TestStandardError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      apperrors.ErrorCode
		retryable bool
	}{
		{"missing path", ErrInvalidInput, apperrors.ErrCodeInvalidInput, false},
		{"no speech", failure(ErrNoSpeech, noSpeechMessage), apperrors.ErrCodeTranscriptEmpty, false},
		{"poll timeout", failure(ErrTranscriptionTimeout, timeoutMessage), apperrors.ErrCodeTranscriptionTimeout, true},
		{"api failure", failure(ErrTranscriptionFailed, "API request failed: status 500"), apperrors.ErrCodeTranscriptionFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdErr := standardError(tt.err)
			assert.Equal(t, tt.code, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
		})
	}
}

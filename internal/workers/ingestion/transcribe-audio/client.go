package transcribeaudio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	httpclient "meeting-workers/internal/common/http"
	"meeting-workers/internal/common/logger"
	"meeting-workers/internal/common/metrics"
	"meeting-workers/internal/models"
)

const (
	statusCompleted = "completed"
	statusError     = "error"

	noSpeechMessage = "No speech detected in audio file"
	timeoutMessage  = "Transcription timed out"
)

// Error carries a human readable reason next to the sentinel that decides
// how a job fails.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Kind.Error() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func failure(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Client talks to the AssemblyAI v2 REST API.
type Client struct {
	apiKey       string
	http         *httpclient.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
	logger       logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		apiKey:       config.APIKey,
		http:         httpclient.NewClient(config.BaseURL, config.RequestTimeout, httpclient.WithHeader("authorization", config.APIKey)),
		pollInterval: config.PollInterval,
		pollTimeout:  config.PollTimeout,
		logger:       log,
	}
}

// Transcribe uploads the recording at path and waits for its transcript.
// Failures are reported in the result rather than returned.
func (c *Client) Transcribe(ctx context.Context, path string) models.TranscriptionResult {
	out, err := c.transcribe(ctx, path)
	if err != nil {
		message := err.Error()
		var terr *Error
		if errors.As(err, &terr) {
			message = terr.Message
		}
		return models.TranscriptionResult{Success: false, ErrorMessage: message}
	}
	return models.TranscriptionResult{
		Success:    true,
		Transcript: out.Transcript,
		Confidence: out.Confidence,
	}
}

func (c *Client) transcribe(ctx context.Context, path string) (out *Output, err error) {
	defer func() {
		status := statusCompleted
		if errors.Is(err, ErrTranscriptionTimeout) {
			status = "timeout"
		} else if err != nil {
			status = statusError
		}
		metrics.Transcriptions.WithLabelValues(status).Inc()
	}()

	if c.apiKey == "" {
		return nil, failure(ErrTranscriptionFailed, "AssemblyAI API key required. Set ASSEMBLYAI_API_KEY")
	}

	uploadURL, err := c.upload(ctx, path)
	if err != nil {
		return nil, err
	}

	id, err := c.createTranscript(ctx, uploadURL)
	if err != nil {
		return nil, err
	}
	c.logger.Info("transcript requested", map[string]interface{}{
		"transcriptId": id,
		"path":         path,
	})

	result, err := c.poll(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(result.Text) == "" {
		return nil, failure(ErrNoSpeech, noSpeechMessage)
	}
	return &Output{Transcript: result.Text, Confidence: result.Confidence}, nil
}

func (c *Client) upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", failure(ErrTranscriptionFailed, "Audio file not found: %s", path)
		}
		return "", failure(ErrTranscriptionFailed, "open audio file: %v", err)
	}
	defer f.Close()

	var resp uploadResponse
	if err := c.do(ctx, http.MethodPost, "/upload", f, "application/octet-stream", &resp); err != nil {
		return "", err
	}
	if resp.UploadURL == "" {
		return "", failure(ErrTranscriptionFailed, "API request failed: upload returned no url")
	}
	return resp.UploadURL, nil
}

func (c *Client) createTranscript(ctx context.Context, audioURL string) (string, error) {
	body, _ := json.Marshal(transcriptRequest{AudioURL: audioURL})

	var resp transcriptResponse
	if err := c.do(ctx, http.MethodPost, "/transcript", bytes.NewReader(body), "application/json", &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", failure(ErrTranscriptionFailed, "API request failed: transcript created without id")
	}
	return resp.ID, nil
}

// poll fetches the transcript every pollInterval until it completes, fails
// or pollTimeout elapses.
func (c *Client) poll(ctx context.Context, id string) (*transcriptResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		var result transcriptResponse
		if err := c.do(ctx, http.MethodGet, "/transcript/"+id, nil, "", &result); err != nil {
			return nil, err
		}

		switch result.Status {
		case statusCompleted:
			return &result, nil
		case statusError:
			message := result.Error
			if message == "" {
				message = "Transcription failed"
			}
			return nil, failure(ErrTranscriptionFailed, "%s", message)
		}

		c.logger.Debug("transcript pending", map[string]interface{}{
			"transcriptId": id,
			"status":       result.Status,
		})

		select {
		case <-ctx.Done():
			return nil, contextFailure(ctx)
		case <-ticker.C:
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	err := c.http.DoJSON(ctx, method, path, body, contentType, out)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return contextFailure(ctx)
	}
	return failure(ErrTranscriptionFailed, "API request failed: %v", err)
}

func contextFailure(ctx context.Context) *Error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return failure(ErrTranscriptionTimeout, timeoutMessage)
	}
	return failure(ErrTranscriptionFailed, "%v", ctx.Err())
}

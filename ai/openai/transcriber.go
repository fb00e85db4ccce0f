package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/embershare/seek/ai"
)

// Transcriber implements ai.Transcriber against the OpenAI-compatible
// /audio/transcriptions endpoint. langchaingo does not expose audio APIs,
// so the multipart request is issued directly.
type Transcriber struct {
	host     string
	apiKey   string
	model    string
	language string
	client   *http.Client
	logger   *slog.Logger
}

// newTranscriber is an internal constructor that returns the concrete type.
func newTranscriber(config *ai.Config) (*Transcriber, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Transcriber{
		host:     config.Host,
		apiKey:   config.APIKey,
		model:    config.TranscriptionModel,
		language: config.Language,
		client:   &http.Client{Timeout: 60 * time.Second},
		logger:   slog.Default().With("component", "openai-transcriber"),
	}, nil
}

// NewTranscriber creates a new transcriber using the provided configuration.
//
// Returns ai.Transcriber interface to enforce abstraction.
func NewTranscriber(config *ai.Config) (ai.Transcriber, error) {
	return newTranscriber(config)
}

// transcriptionResponse is the JSON success shape of the endpoint.
type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe sends the audio buffer to the transcription endpoint and
// normalizes every success shape down to plain text. The upstream API needs
// a filename with a recognizable extension to detect the audio format.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	t.logger.Debug("transcribing audio", "bytes", len(audio), "mimeType", mimeType)

	if mimeType == "" {
		mimeType = "audio/webm"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "recording"+extensionFor(mimeType))
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}

	fields := map[string]string{
		"model":           t.model,
		"language":        t.language,
		"response_format": "json",
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	url := strings.TrimSuffix(t.host, "/") + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Error("transcription request failed", "err", err)
		return "", err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		t.logger.Error("transcription request rejected", "status", resp.StatusCode)
		return "", fmt.Errorf("transcription request failed with status %d", resp.StatusCode)
	}

	// Providers differ on the success shape: JSON {"text": ...} or bare text.
	var decoded transcriptionResponse
	if err := json.Unmarshal(payload, &decoded); err == nil {
		return decoded.Text, nil
	}
	return string(payload), nil
}

// extensionFor maps an audio MIME type to a file extension the upstream
// format detection understands.
func extensionFor(mimeType string) string {
	// Strip any parameters, e.g. "audio/webm;codecs=opus"
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = parsed
	}

	switch mimeType {
	case "audio/wav":
		return ".wav"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return ".m4a"
	case "audio/ogg":
		return ".ogg"
	default:
		return ".webm"
	}
}

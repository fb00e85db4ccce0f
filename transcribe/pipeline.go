package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"strings"

	"github.com/embershare/seek/ai"
)

// allowedFormats are the audio MIME types accepted for transcription.
// An empty MIME type is also accepted and treated as webm, the format
// browser recorders most commonly produce.
var allowedFormats = map[string]bool{
	"audio/webm":  true,
	"audio/wav":   true,
	"audio/mpeg":  true,
	"audio/mp3":   true,
	"audio/mp4":   true,
	"audio/m4a":   true,
	"audio/x-m4a": true,
	"audio/ogg":   true,
}

// Pipeline converts recorded audio into query text via the AI provider.
type Pipeline struct {
	provider    ai.Provider
	transcriber ai.Transcriber
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new transcription pipeline.
func NewPipeline(provider ai.Provider, opts ...Option) (*Pipeline, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	p := &Pipeline{
		provider:    provider,
		transcriber: provider.Transcriber(),
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Transcribe converts audio to trimmed text.
//
// Returns ErrEmptyAudio for an empty payload and ErrUnsupportedFormat for
// a MIME type outside allowedFormats, both without calling the provider.
// An unconfigured provider surfaces ai.ErrUnavailable; any other provider
// failure is wrapped as ErrTranscriptionFailed.
func (p *Pipeline) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}

	if !formatAllowed(mimeType) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}

	if !p.provider.Ready() {
		return "", ai.ErrUnavailable
	}

	text, err := p.transcriber.Transcribe(ctx, audio, mimeType)
	if err != nil {
		if errors.Is(err, ai.ErrUnavailable) {
			return "", err
		}
		p.logger.Error("transcription call failed", "mimeType", mimeType, "bytes", len(audio), "err", err)
		return "", fmt.Errorf("%w: %w", ErrTranscriptionFailed, err)
	}

	return strings.TrimSpace(text), nil
}

func formatAllowed(mimeType string) bool {
	if mimeType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return false
	}
	return allowedFormats[mediaType]
}

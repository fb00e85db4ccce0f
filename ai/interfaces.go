package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns ErrUnavailable (possibly wrapped) when no provider is
	// configured or the underlying call fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input
	// texts, regardless of the order the underlying service answers in.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Transcriber converts recorded audio into text.
// Implementations must be thread-safe for concurrent use.
type Transcriber interface {
	// Transcribe converts a raw audio buffer with its declared MIME type into
	// text, using the provider's fixed language setting. The returned text is
	// not trimmed or normalized; pipelines own that.
	// Returns ErrUnavailable when no provider is configured.
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider is constructed exactly once at process start and is
// immutable afterwards: either Ready (it holds live service handles) or
// permanently unconfigured, in which case every service reports ErrUnavailable.
type Provider interface {
	// Ready reports whether the provider holds a live connection configuration.
	// An unready provider's services always return ErrUnavailable; callers
	// that need to distinguish "not configured" up front branch on this.
	Ready() bool

	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Transcriber returns the audio transcription service.
	// The returned Transcriber is safe for concurrent use.
	Transcriber() Transcriber

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}

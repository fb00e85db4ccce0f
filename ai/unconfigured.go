package ai

import "context"

// Unconfigured returns a Provider representing the absence of a configured
// AI service. Its services always return ErrUnavailable and Ready reports
// false. This makes "no credential" an explicit capability state that can be
// injected into pipelines, instead of an ambient nil handle.
func Unconfigured() Provider {
	return unconfiguredProvider{}
}

type unconfiguredProvider struct{}

var _ Provider = unconfiguredProvider{}

func (unconfiguredProvider) Ready() bool {
	return false
}

func (unconfiguredProvider) Embedder() Embedder {
	return unavailableEmbedder{}
}

func (unconfiguredProvider) Transcriber() Transcriber {
	return unavailableTranscriber{}
}

func (unconfiguredProvider) Close() error {
	return nil
}

type unavailableEmbedder struct{}

func (unavailableEmbedder) EmbedText(context.Context, string) ([]float32, error) {
	return nil, ErrUnavailable
}

func (unavailableEmbedder) EmbedTexts(context.Context, []string) ([][]float32, error) {
	return nil, ErrUnavailable
}

type unavailableTranscriber struct{}

func (unavailableTranscriber) Transcribe(context.Context, []byte, string) (string, error) {
	return "", ErrUnavailable
}

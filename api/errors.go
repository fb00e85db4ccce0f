package api

import "errors"

var (
	// ErrSearcherRequired is returned when a searcher is not provided.
	ErrSearcherRequired = errors.New("searcher required")

	// ErrTranscriberRequired is returned when a transcription pipeline is not provided.
	ErrTranscriberRequired = errors.New("transcription pipeline required")
)

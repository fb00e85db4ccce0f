// Copyright 2025 Embershare
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package transcribe

import "errors"

var (
	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrEmptyAudio is returned when the audio payload is empty.
	ErrEmptyAudio = errors.New("empty audio payload")

	// ErrUnsupportedFormat is returned when the audio MIME type is not supported.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrTranscriptionFailed is returned when the provider call fails.
	ErrTranscriptionFailed = errors.New("transcription failed")
)

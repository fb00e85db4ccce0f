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


// Package ai provides abstractions for the AI services used in seek.
//
// This package defines interfaces for text embedding and audio transcription.
// The core domain and business logic depend on these abstractions rather
// than concrete implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Embedder: generates vector embeddings from text
//   - Transcriber: converts recorded audio into text
//   - Provider: aggregates both services and carries the configured/unconfigured state
//
// A Provider is constructed exactly once at process start and is immutable
// afterwards: either it is Ready, or it permanently reports ErrUnavailable
// from every service. There is no retry-after-failure distinction from
// never-configured; both degrade identically, and callers that care use
// Ready() or errors.Is(err, ErrUnavailable).
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external dependencies
//   - Unconfigured(): the explicit "no credential" state
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithAPIKey(os.Getenv("SEEK_API_KEY")))
//	var provider ai.Provider
//	if cfg.APIKey == "" {
//	    provider = ai.Unconfigured()
//	} else {
//	    provider, err = openai.NewProvider(cfg)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "cordless drill")
//	if errors.Is(err, ai.ErrUnavailable) {
//	    // degrade: caller falls back to non-semantic search
//	}
package ai

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


// Package search provides semantic search over available items.
//
// The Searcher type implements the query pipeline:
//   - Embed the free-text query via the configured AI provider
//   - Load available items and apply hard category filters
//   - Score embedded candidates with cosine similarity
//   - Sort descending and truncate to MaxResults
//
// When the semantic path cannot run (empty query, unconfigured provider,
// or embedding failure) the pipeline returns an empty response with the
// Fallback flag set, so callers can degrade to a non-semantic search
// instead of surfacing an error.
package search

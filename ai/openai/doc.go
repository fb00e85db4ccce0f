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


// Package openai implements the ai interfaces against OpenAI-compatible
// services: embeddings via langchaingo, transcription via the
// /audio/transcriptions endpoint.
//
// Embedding failures are reported as ai.ErrUnavailable so the search path
// can degrade to its fallback response. Transcription failures are reported
// as plain errors, because the transcription API distinguishes "provider not
// configured" (ai.ErrUnavailable, from ai.Unconfigured) from "call failed".
package openai

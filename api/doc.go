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


// Package api exposes search and voice transcription over HTTP.
//
// POST /api/search always answers 200: when the semantic path cannot run
// the body carries fallback=true and the client degrades to its own
// filtering. POST /api/transcribe maps pipeline errors onto statuses the
// recording UI distinguishes (503 unconfigured, 400 bad input, 500
// provider failure).
package api

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


// Package ingestion persists items and keeps their embeddings current.
//
// Item writes are synchronous. Embedding runs asynchronously on a worker
// pool and is keyed by a fingerprint of the item's searchable text, so an
// update that does not change the text never re-embeds. Embedding failures
// are logged and left for the batch maintenance job to repair.
package ingestion

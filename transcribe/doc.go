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


// Package transcribe turns recorded audio into search query text.
//
// The pipeline validates the payload and format before any provider call,
// and keeps the error taxonomy the API layer needs: ai.ErrUnavailable for
// an unconfigured provider, ErrEmptyAudio and ErrUnsupportedFormat for bad
// input, and ErrTranscriptionFailed for provider call failures.
package transcribe

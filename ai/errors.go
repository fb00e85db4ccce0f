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


package ai

import "errors"

var (
	// ErrUnavailable signals that no AI provider is configured, or that the
	// configured provider could not serve the call. It is a first-class
	// outcome, not an exceptional condition: search degrades to a fallback
	// response and item creation proceeds without an embedding.
	// Check with errors.Is.
	ErrUnavailable = errors.New("ai provider unavailable")
)

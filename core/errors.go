// Copyright 2025 Poiesic Systems
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


package core

import "errors"

// Error taxonomy. Configuration and precondition errors are fatal and leave
// no partial state; provider errors are absorbed at the call site and
// surfaced as warnings or stream fragments.
var (
	// ErrInvalidConfiguration indicates invalid chunking or embedding parameters.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrPrecondition indicates an operation was attempted in an invalid state.
	ErrPrecondition = errors.New("precondition failed")

	// ErrProvider indicates an external provider call failed, timed out, or
	// was rate-limited. Recoverable: callers degrade rather than abort.
	ErrProvider = errors.New("provider error")

	// ErrPipelineNotFound indicates an unknown pipeline id.
	ErrPipelineNotFound = errors.New("pipeline not found")

	// ErrPipelineNotReady indicates a query against a pipeline that has not
	// completed a successful ingest.
	ErrPipelineNotReady = errors.New("pipeline not ready")

	// ErrEmptyDocumentSet indicates an ingest call with no documents.
	ErrEmptyDocumentSet = errors.New("document set cannot be empty")

	// ErrEmptyContent indicates a document with empty content.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidChunkSize indicates a non-positive chunk size.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")

	// ErrInvalidOverlap indicates chunk overlap >= chunk size or negative overlap.
	ErrInvalidOverlap = errors.New("chunk overlap must be non-negative and smaller than chunk size")

	// ErrInvalidThreshold indicates a semantic threshold outside [0.1, 1.0].
	ErrInvalidThreshold = errors.New("semantic threshold must be within [0.1, 1.0]")

	// ErrUnknownStrategy indicates a strategy id outside the closed set.
	ErrUnknownStrategy = errors.New("unknown chunking strategy")
)

// Copyright 2026 Coursetta Authors
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


package search

import "errors"

var (
	// ErrRepositoryRequired is returned when a document repository is not provided.
	ErrRepositoryRequired = errors.New("document repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmptyQuestion is returned when Retrieve is called with an empty or
	// whitespace-only question. Validation happens before either search runs.
	ErrEmptyQuestion = errors.New("question must not be empty")

	// ErrInvalidTopK is returned when Retrieve is called with topK < 1.
	ErrInvalidTopK = errors.New("topK must be at least 1")

	// ErrEmbedding indicates the embedder was unreachable or returned a
	// malformed vector. Fatal to the call, not retried.
	ErrEmbedding = errors.New("embedding failed")

	// ErrStoreUnavailable indicates the document store could not serve the
	// query. Fatal to the call.
	ErrStoreUnavailable = errors.New("document store unavailable")

	// ErrTimeout indicates a dependency exceeded the configured deadline.
	// Surfaced distinctly so callers can retry with backoff.
	ErrTimeout = errors.New("retrieval timed out")
)

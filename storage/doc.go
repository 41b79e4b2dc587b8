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


// Package storage provides the storage abstraction layer for coursetta.
//
// This package defines the repository interface that decouples storage
// implementation from retrieval logic, allowing different backends
// (BadgerDB, in-memory) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage.DocumentRepository interface to
// enforce abstraction:
//
//	repo, err := badger.NewDocumentRepository(backend)
//
// Internal package constructors may return concrete types since they're
// only used within the implementation package.
//
// # Immutability
//
// Documents are written once during ingestion and never mutated. The
// interface deliberately has no update operation; re-indexing builds a
// fresh store and swaps it in, so readers never observe a partially
// rebuilt index.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and
// timeout support.
package storage

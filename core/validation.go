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


package core

import (
	"fmt"
	"time"
)

// ValidateDocument validates a Document according to domain rules.
// Validation happens at ingestion time; documents in the store are
// assumed valid.
//
// Validation rules:
//   - Text must not be empty
//   - URL must not be empty (documents are cited by URL)
//   - SourceType must be valid (forum or website)
//   - Category must be a known value
//   - Timestamp must not be in the future
//   - Chunk must be within [0, ChunkCount)
//
// NOT validated:
//   - Vector (checked against the configured dimensionality by the pipeline)
//   - ID (derived from content by the ingestion pipeline)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyText)
	}

	if doc.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyURL)
	}

	if err := ValidateSourceType(doc.Source); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if err := ValidateCategory(doc.Category); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if !IsValidTimestamp(doc.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrInvalidTimestamp)
	}

	if doc.Chunk < 0 || doc.ChunkCount < 1 || doc.Chunk >= doc.ChunkCount {
		return fmt.Errorf("%w: %w: chunk %d of %d", ErrInvalidDocument, ErrInvalidChunk, doc.Chunk, doc.ChunkCount)
	}

	return nil
}

// ValidateSourceType validates that a SourceType has a valid value.
func ValidateSourceType(source SourceType) error {
	if source != SourceTypeForum && source != SourceTypeWebsite {
		return fmt.Errorf("%w: value %d", ErrInvalidSourceType, source)
	}
	return nil
}

// ValidateCategory validates that a Category has a known value.
// CategoryUnknown is valid: it marks documents that could not be classified.
func ValidateCategory(category Category) error {
	if category < CategoryUnknown || category > CategoryGeneral {
		return fmt.Errorf("%w: value %d", ErrInvalidCategory, category)
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}

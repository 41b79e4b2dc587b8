package reindex

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrSourceRequired is returned when a source repository is not provided.
	ErrSourceRequired = errors.New("source repository required")

	// ErrDestinationRequired is returned when a destination repository is not provided.
	ErrDestinationRequired = errors.New("destination repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)

package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is derived from document content so re-ingesting the same
// material is idempotent.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocumentID computes the ID of a document chunk from its source URL,
// chunk position, and text. Two chunks of the same page never collide
// because the chunk index participates in the hash.
func DocumentID(url string, chunk int, text string) ID {
	return IDFromContent(fmt.Sprintf("%s#%d:%s", url, chunk, text))
}

// SourceType identifies the corpus a document was scraped from.
type SourceType int

const (
	// SourceTypeForum represents posts from the course discussion forum.
	SourceTypeForum SourceType = iota + 1
	// SourceTypeWebsite represents pages from the course website.
	SourceTypeWebsite
)

// String returns the lowercase name of the source type.
func (s SourceType) String() string {
	switch s {
	case SourceTypeForum:
		return "forum"
	case SourceTypeWebsite:
		return "website"
	default:
		return fmt.Sprintf("sourcetype(%d)", int(s))
	}
}

// Document represents a single indexed chunk of course material.
// Documents are immutable once indexed: they are created during ingestion,
// never mutated, and removed only by a full re-index.
type Document struct {
	Id         ID
	Source     SourceType
	Title      string
	URL        string
	Author     string
	Category   Category
	Text       string
	Chunk      int       // Position of this chunk within the source page
	ChunkCount int       // Total chunks produced from the source page
	Vector     []float32 // Embedding vector, populated before insert
	Timestamp  time.Time // When the source material was published
	InsertedAt time.Time // When the document was indexed
}

// ScoredResult pairs a document with the relevance scores produced by one
// retrieval call. SemanticScore and KeywordScore are in [0,1]; a score of 0
// means the document was absent from that result set. FusedScore is the
// weighted combination after category boosting.
type ScoredResult struct {
	Document      *Document
	SemanticScore float32
	KeywordScore  float32
	FusedScore    float32
}

// StoreStats summarizes the contents of a document store.
type StoreStats struct {
	Documents  int
	ByCategory map[Category]int
	BySource   map[SourceType]int
}

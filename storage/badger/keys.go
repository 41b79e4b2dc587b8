package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/coursetta/coursetta/core"
)

// Key prefixes for different data types. Prefixes are chosen so no prefix
// is a prefix of another, keeping iterator scans disjoint.
const (
	documentPrefix       = "docrec"
	documentSourceIndex  = "docsrc"
	documentCategoryIndx = "doccat"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}

// parseDocumentKey extracts the document ID from a primary key.
func parseDocumentKey(key []byte) (core.ID, error) {
	var id uint64
	if _, err := fmt.Sscanf(string(key), documentPrefix+":%d", &id); err != nil {
		return 0, err
	}
	return core.ID(id), nil
}

// makeSourceKey generates a composite key for the source index.
// Format: prefix:source:id
func makeSourceKey(source core.SourceType, id core.ID) []byte {
	prefix := documentSourceIndex + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(source))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialSourceKey generates a partial key for source scans.
func makePartialSourceKey(source core.SourceType) []byte {
	prefix := documentSourceIndex + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(source))
	return buf
}

// makeCategoryKey generates a composite key for the category index.
// Format: prefix:category:id
func makeCategoryKey(category core.Category, id core.ID) []byte {
	prefix := documentCategoryIndx + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(category))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialCategoryKey generates a partial key for category scans.
func makePartialCategoryKey(category core.Category) []byte {
	prefix := documentCategoryIndx + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(category))
	return buf
}

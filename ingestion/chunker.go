package ingestion

import "strings"

// Chunking defaults. Chunks overlap so a sentence falling on a boundary
// still appears whole in at least one chunk.
const (
	DefaultMaxChunkSize     = 1024
	DefaultChunkOverlap     = 250
	DefaultMinContentLength = 20
)

// sentenceEnds are tried in order when looking for a break point.
var sentenceEnds = []string{". ", "! ", "? "}

// SplitChunks splits text into overlapping chunks of at most maxSize runes.
// It prefers breaking at a sentence ending, falls back to a word boundary,
// and only cuts mid-word when a single token exceeds maxSize.
func SplitChunks(text string, maxSize, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= maxSize {
		return []string{text}
	}

	var chunks []string
	start := 0

	for start < len(runes) {
		end := start + maxSize
		if end < len(runes) {
			end = breakPoint(runes, start, end)
		} else {
			end = len(runes)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

// breakPoint finds where to cut the window runes[start:end]. Sentence
// endings win over word boundaries; end is kept as-is when neither exists.
func breakPoint(runes []rune, start, end int) int {
	window := string(runes[start:end])
	for _, punct := range sentenceEnds {
		if idx := strings.LastIndex(window, punct); idx > 0 {
			return start + len([]rune(window[:idx])) + len(punct)
		}
	}
	if idx := strings.LastIndex(window, " "); idx > 0 {
		return start + len([]rune(window[:idx]))
	}
	return end
}

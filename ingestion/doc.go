// Package ingestion turns scraped course material into indexed documents.
//
// The Pipeline type manages the ingestion workflow for source pages, including:
//   - Splitting page text into overlapping chunks at sentence boundaries
//   - Categorizing each chunk from its text and page title
//   - Generating normalized embeddings on a worker pool
//   - Storing validated documents with content-derived IDs
//
// Loaders for the two scrape export formats (forum topics as a JSON array,
// website sections as JSON lines) live here as well. Ingestion is
// idempotent: re-running it over the same exports stores nothing new.
package ingestion

package models

import "fmt"

// Document represents a source text that can be indexed for retrieval
type Document struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// Chunk represents a contiguous span of sentences from a source document,
// used as the unit of retrieval
type Chunk struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Text   string `json:"text"`
	Index  int    `json:"index"`
}

// ChunkID derives the unique id of a chunk within its source document
func ChunkID(source string, index int) string {
	return fmt.Sprintf("%s_%d", source, index)
}

// SearchResult represents a chunk that matched a similarity query
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float32 `json:"score"`
}

// Package vector defines the vector store contract used for similarity
// retrieval and long-term conversational memory, with a qdrant-backed
// implementation and an in-memory one for tests.
package vector

import "context"

// Document is a unit of content stored with its embedding.
type Document struct {
	ID       string
	Content  string
	Vector   []float32
	Metadata map[string]string
}

// SearchResult is a ranked match from a similarity query.
type SearchResult struct {
	ID       string
	Score    float32
	Content  string
	Metadata map[string]string
}

// Store is the vector database contract. Consistency guarantees are owned
// by the backing service.
type Store interface {
	Upsert(ctx context.Context, docs []Document) error
	Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error)
	Close() error
}

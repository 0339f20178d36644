package storage

import (
	"context"
	"time"

	"github.com/proposive/rfpbase/core"
)

// Candidate is a search candidate row: document metadata plus the
// keyword list extracted at ingestion.
type Candidate struct {
	Document core.Document
	Keywords []string
}

// DocumentStore persists document metadata and extracted content.
// Implementations must be safe for concurrent use.
type DocumentStore interface {
	// AddDocument inserts the metadata row and its content row.
	// Both rows are durable before the call returns.
	AddDocument(ctx context.Context, doc *core.Document, content *core.DocumentContent) error

	// GetDocument retrieves a document and its content by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id string) (*core.Document, *core.DocumentContent, error)

	// DeleteDocument removes the metadata and content rows.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, id string) error

	// SearchCandidates retrieves documents whose content, keywords, or
	// description contain query as a literal substring, optionally
	// filtered by exact category match (core.CategoryAll disables the
	// filter). Results are the most recent limit rows by upload date.
	SearchCandidates(ctx context.Context, query string, category core.Category, limit int) ([]Candidate, error)

	// CountDocuments returns the total number of stored documents.
	CountDocuments(ctx context.Context) (int, error)

	// CountByCategory returns per-category document counts.
	CountByCategory(ctx context.Context) (map[core.Category]int, error)

	// RecentDocuments returns up to limit documents, newest first.
	RecentDocuments(ctx context.Context, limit int) ([]core.RecentDocument, error)

	// Close closes the store and releases resources.
	Close() error
}

// SearchLogStore records and aggregates the search audit log.
type SearchLogStore interface {
	// AddSearchLog appends one log row per search call.
	AddSearchLog(ctx context.Context, entry *core.SearchLogEntry) error

	// PopularQueries groups log rows newer than since by query text
	// and returns up to limit queries by descending count.
	PopularQueries(ctx context.Context, since time.Time, limit int) ([]core.QueryCount, error)
}

// BlobStore persists raw document payloads under string keys.
// It is a local analogue of an object-storage container.
type BlobStore interface {
	// Put stores data under key, overwriting any existing payload.
	Put(ctx context.Context, key string, data []byte) error

	// Get retrieves the payload stored under key.
	// Returns ErrNotFound if no payload exists.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the payload under key.
	// Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the keys that start with prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close closes the store and releases resources.
	Close() error
}

package repository

import (
	"context"

	"github.com/flowkraft/quotient/pkg/model"
)

// ScoredProject is a knowledge store search hit with its cosine
// similarity to the query embedding.
type ScoredProject struct {
	Project    *model.ReferenceProject
	Similarity float64
}

// Repository defines the interface for quote and reference project
// persistence. One record per quote keyed by quote ID, one index entry per
// reference project keyed by project ID.
type Repository interface {
	// PutQuote saves a generated quote (write-once per quote ID)
	PutQuote(ctx context.Context, quote *model.Quote) error

	// GetQuote retrieves a quote by ID
	GetQuote(ctx context.Context, id model.QuoteID) (*model.Quote, error)

	// ListQuotes retrieves quotes ordered by generation time descending
	ListQuotes(ctx context.Context, offset, limit int) ([]*model.Quote, error)

	// UpdateQuoteStatus mutates only the status of an existing quote.
	// Financial and technical content stays immutable after generation.
	UpdateQuoteStatus(ctx context.Context, id model.QuoteID, status model.QuoteStatus) error

	// PutProject indexes a reference project. Re-indexing an existing
	// project ID replaces its vector and payload atomically.
	PutProject(ctx context.Context, project *model.ReferenceProject) error

	// GetProject retrieves a reference project by ID
	GetProject(ctx context.Context, id model.ProjectID) (*model.ReferenceProject, error)

	// SearchSimilarProjects performs vector search over indexed projects.
	// Results are ordered by similarity descending, ties broken by most
	// recently indexed. An empty store yields an empty slice, not an error.
	SearchSimilarProjects(ctx context.Context, embedding []float32, limit int) ([]*ScoredProject, error)

	// Close releases underlying resources
	Close() error
}

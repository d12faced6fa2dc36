// Package quote orchestrates the quotation pipeline: extraction, similar
// project retrieval, BOM generation, labor estimation, pricing, review
// and persistence.
package quote

import (
	"context"
	"io"
	"os"

	"github.com/flowkraft/quotient/pkg/adapter"
	"github.com/flowkraft/quotient/pkg/bom"
	"github.com/flowkraft/quotient/pkg/extract"
	"github.com/flowkraft/quotient/pkg/labor"
	"github.com/flowkraft/quotient/pkg/policy"
	"github.com/flowkraft/quotient/pkg/pricing"
	"github.com/flowkraft/quotient/pkg/repository"
)

// ConfidenceWeights blends the per-stage confidences into the overall
// score. The weights must sum to 1.
type ConfidenceWeights struct {
	Extraction float64
	Labor      float64
	Pricing    float64
	BOM        float64
}

// DefaultConfidenceWeights reflects how much each stage's uncertainty
// moves the final price.
func DefaultConfidenceWeights() ConfidenceWeights {
	return ConfidenceWeights{
		Extraction: 0.40,
		Labor:      0.30,
		Pricing:    0.20,
		BOM:        0.10,
	}
}

// SearchDegradedPenalty is subtracted from the overall confidence
// whenever the quote was generated without similar project context:
// the knowledge store was unreachable, held no matches, or no AI
// backend was available to embed the query.
const SearchDegradedPenalty = 0.10

// DefaultSearchLimit is how many similar projects the pipeline retrieves.
const DefaultSearchLimit = 5

// UseCase provides quote-related operations
type UseCase struct {
	repo      repository.Repository
	extractor *extract.Extractor
	bomGen    *bom.Generator
	estimator *labor.Estimator
	pricer    *pricing.Engine
	reviewer  *policy.Reviewer

	archive  adapter.Storage
	bigquery adapter.BigQuery

	weights     ConfidenceWeights
	searchLimit int
	embedFn     EmbedFunc
	output      io.Writer
}

// EmbedFunc produces the query embedding for similar project search.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithOutput sets the output writer
func WithOutput(w io.Writer) Option {
	return func(uc *UseCase) {
		uc.output = w
	}
}

// WithArchive enables quote document archiving after persistence.
func WithArchive(s adapter.Storage) Option {
	return func(uc *UseCase) {
		uc.archive = s
	}
}

// WithBigQuery enables the analytics export operation.
func WithBigQuery(bq adapter.BigQuery) Option {
	return func(uc *UseCase) {
		uc.bigquery = bq
	}
}

// WithConfidenceWeights overrides the confidence blend.
func WithConfidenceWeights(w ConfidenceWeights) Option {
	return func(uc *UseCase) {
		uc.weights = w
	}
}

// WithSearchLimit overrides how many similar projects are retrieved.
func WithSearchLimit(n int) Option {
	return func(uc *UseCase) {
		uc.searchLimit = n
	}
}

// New creates a new quote UseCase instance. embedFn may be nil when no AI
// backend is configured; similar project search is then skipped.
func New(
	repo repository.Repository,
	extractor *extract.Extractor,
	bomGen *bom.Generator,
	estimator *labor.Estimator,
	pricer *pricing.Engine,
	reviewer *policy.Reviewer,
	embedFn EmbedFunc,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		repo:        repo,
		extractor:   extractor,
		bomGen:      bomGen,
		estimator:   estimator,
		pricer:      pricer,
		reviewer:    reviewer,
		embedFn:     embedFn,
		weights:     DefaultConfidenceWeights(),
		searchLimit: DefaultSearchLimit,
		output:      os.Stdout,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

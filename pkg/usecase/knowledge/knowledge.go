// Package knowledge manages the reference project index: validated
// historical projects embedded for vector search.
package knowledge

import (
	"io"
	"os"

	"github.com/flowkraft/quotient/pkg/adapter"
	"github.com/flowkraft/quotient/pkg/repository"
)

// EmbeddingDimensions is the vector size used for all project
// embeddings. Query and index vectors must match.
const EmbeddingDimensions = 768

// UseCase provides reference project indexing operations
type UseCase struct {
	repo   repository.Repository
	gemini adapter.Gemini
	output io.Writer
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithOutput sets the output writer
func WithOutput(w io.Writer) Option {
	return func(uc *UseCase) {
		uc.output = w
	}
}

// New creates a new knowledge UseCase instance
func New(
	repo repository.Repository,
	gemini adapter.Gemini,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		repo:   repo,
		gemini: gemini,
		output: os.Stdout,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

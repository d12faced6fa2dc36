package quote

import (
	"context"

	"github.com/flowkraft/quotient/pkg/model"
)

// Get retrieves a single quote by ID.
func (u *UseCase) Get(ctx context.Context, id model.QuoteID) (*model.Quote, error) {
	return u.repo.GetQuote(ctx, id)
}

// UpdateStatus changes the lifecycle status of a quote. The priced
// content stays frozen.
func (u *UseCase) UpdateStatus(ctx context.Context, id model.QuoteID, status model.QuoteStatus) error {
	return u.repo.UpdateQuoteStatus(ctx, id, status)
}

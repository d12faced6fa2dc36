package quote

import (
	"context"

	"github.com/flowkraft/quotient/pkg/model"
)

// ListOptions contains options for listing quotes
type ListOptions struct {
	Offset int
	Limit  int
}

// List retrieves quotes ordered by generation time descending.
func (u *UseCase) List(ctx context.Context, opts ListOptions) ([]*model.Quote, error) {
	return u.repo.ListQuotes(ctx, opts.Offset, opts.Limit)
}

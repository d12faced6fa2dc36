package quote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/flowkraft/quotient/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

func archiveKey(id model.QuoteID) string {
	return fmt.Sprintf("quotes/%s.json", id)
}

// archiveQuote writes the rendered quote document to the archive bucket.
func (u *UseCase) archiveQuote(ctx context.Context, q *model.Quote) error {
	data, err := json.MarshalIndent(q.Document(), "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to marshal quote document", goerr.Value("quote_id", q.ID))
	}

	w, err := u.archive.Put(ctx, archiveKey(q.ID))
	if err != nil {
		return goerr.Wrap(err, "failed to open archive writer", goerr.Value("quote_id", q.ID))
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write quote document", goerr.Value("quote_id", q.ID))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize quote document", goerr.Value("quote_id", q.ID))
	}
	return nil
}

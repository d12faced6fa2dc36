package quote

import (
	"context"
	"fmt"

	"github.com/flowkraft/quotient/pkg/adapter"
	"github.com/flowkraft/quotient/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// exportBatchSize bounds one repository page during export.
const exportBatchSize = 500

// Export streams every stored quote into the analytics table as flat
// summary rows.
func (u *UseCase) Export(ctx context.Context, datasetID, tableID string) (int, error) {
	if u.bigquery == nil {
		return 0, goerr.New("analytics export is not configured")
	}

	total := 0
	for offset := 0; ; offset += exportBatchSize {
		quotes, err := u.repo.ListQuotes(ctx, offset, exportBatchSize)
		if err != nil {
			return total, err
		}
		if len(quotes) == 0 {
			break
		}

		rows := make([]*adapter.QuoteRow, 0, len(quotes))
		for _, q := range quotes {
			rows = append(rows, quoteRow(q))
		}
		if err := u.bigquery.InsertQuoteRows(ctx, datasetID, tableID, rows); err != nil {
			return total, err
		}
		total += len(rows)

		if len(quotes) < exportBatchSize {
			break
		}
	}

	fmt.Fprintf(u.output, "Exported %d quote(s) to %s.%s\n", total, datasetID, tableID)
	return total, nil
}

func quoteRow(q *model.Quote) *adapter.QuoteRow {
	return &adapter.QuoteRow{
		QuoteID:           string(q.ID),
		CustomerName:      q.Customer.Name,
		Industry:          q.Requirement.Industry,
		Strategy:          string(q.Pricing.Strategy),
		ExtractionMethod:  string(q.Requirement.ExtractionMethod),
		Total:             q.Pricing.Total.InexactFloat64(),
		MaterialCost:      q.BOM.TotalMaterialCost().InexactFloat64(),
		LaborCost:         q.Labor.TotalCost.InexactFloat64(),
		OverallConfidence: q.OverallConfidence,
		WinProbability:    q.Pricing.WinProbability,
		RequiresReview:    q.RequiresReview,
		Status:            string(q.Status),
		GeneratedAt:       q.GeneratedAt,
	}
}

package adapter

import (
	"context"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/goerr/v2"
)

// QuoteRow is the analytics row exported per quote. The schema is flat so
// win-rate and margin queries stay simple.
type QuoteRow struct {
	QuoteID           string    `bigquery:"quote_id"`
	CustomerName      string    `bigquery:"customer_name"`
	Industry          string    `bigquery:"industry"`
	Strategy          string    `bigquery:"strategy"`
	ExtractionMethod  string    `bigquery:"extraction_method"`
	Total             float64   `bigquery:"total"`
	MaterialCost      float64   `bigquery:"material_cost"`
	LaborCost         float64   `bigquery:"labor_cost"`
	OverallConfidence float64   `bigquery:"overall_confidence"`
	WinProbability    float64   `bigquery:"win_probability"`
	RequiresReview    bool      `bigquery:"requires_review"`
	Status            string    `bigquery:"status"`
	GeneratedAt       time.Time `bigquery:"generated_at"`
}

// BigQuery is an interface for quote analytics export
type BigQuery interface {
	// InsertQuoteRows streams quote summary rows into the analytics table
	InsertQuoteRows(ctx context.Context, datasetID, tableID string, rows []*QuoteRow) error
}

type bigqueryClient struct {
	client *bigquery.Client
}

// NewBigQuery creates a new BigQuery client
func NewBigQuery(ctx context.Context, projectID string) (BigQuery, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create BigQuery client")
	}

	return &bigqueryClient{client: client}, nil
}

func (bq *bigqueryClient) InsertQuoteRows(ctx context.Context, datasetID, tableID string, rows []*QuoteRow) error {
	if len(rows) == 0 {
		return nil
	}

	inserter := bq.client.Dataset(datasetID).Table(tableID).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return goerr.Wrap(err, "failed to insert quote rows",
			goerr.Value("dataset", datasetID),
			goerr.Value("table", tableID),
			goerr.Value("rows", len(rows)))
	}

	return nil
}

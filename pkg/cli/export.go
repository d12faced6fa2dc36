package cli

import (
	"context"

	"github.com/flowkraft/quotient/pkg/adapter"
	quoteuc "github.com/flowkraft/quotient/pkg/usecase/quote"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func exportCommand() *cli.Command {
	var (
		cfg     config
		dataset string
		table   string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "dataset",
			Usage:       "BigQuery dataset ID",
			Sources:     cli.EnvVars("QUOTIENT_BQ_DATASET"),
			Destination: &dataset,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "table",
			Usage:       "BigQuery table ID",
			Value:       "quotes",
			Sources:     cli.EnvVars("QUOTIENT_BQ_TABLE"),
			Destination: &table,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "export",
		Usage: "Export quote summaries to BigQuery for analytics",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			if cfg.project == "" {
				return goerr.New("project is required for export")
			}

			bq, err := adapter.NewBigQuery(ctx, cfg.project)
			if err != nil {
				return err
			}

			uc, repo, err := cfg.newQuoteUseCase(ctx,
				quoteuc.WithBigQuery(bq),
				quoteuc.WithOutput(c.Root().Writer))
			if err != nil {
				return err
			}
			defer repo.Close()

			if _, err := uc.Export(ctx, dataset, table); err != nil {
				return goerr.Wrap(err, "failed to export quotes")
			}
			return nil
		},
	}
}

package cli

import (
	"context"

	"github.com/flowkraft/quotient/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func viewCommand() *cli.Command {
	var (
		cfg     config
		quoteID string
		format  string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "quote-id",
			Aliases:     []string{"id"},
			Usage:       "Quote ID to view",
			Sources:     cli.EnvVars("QUOTIENT_QUOTE_ID"),
			Destination: &quoteID,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "Output format (summary or json)",
			Value:       "summary",
			Destination: &format,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "view",
		Usage: "View a generated quote",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			uc, repo, err := cfg.newQuoteUseCase(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			q, err := uc.Get(ctx, model.QuoteID(quoteID))
			if err != nil {
				return goerr.Wrap(err, "failed to get quote", goerr.Value("quote_id", quoteID))
			}

			return writeQuote(c, q, format)
		},
	}
}

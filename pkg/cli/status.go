package cli

import (
	"context"
	"fmt"

	"github.com/flowkraft/quotient/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func statusCommand() *cli.Command {
	var (
		cfg     config
		quoteID string
		status  string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "quote-id",
			Aliases:     []string{"id"},
			Usage:       "Quote ID to update",
			Sources:     cli.EnvVars("QUOTIENT_QUOTE_ID"),
			Destination: &quoteID,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "status",
			Aliases:     []string{"s"},
			Usage:       "New status (draft, sent, accepted, rejected, expired)",
			Destination: &status,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "status",
		Usage: "Update the lifecycle status of a quote",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			switch model.QuoteStatus(status) {
			case model.QuoteStatusDraft, model.QuoteStatusSent, model.QuoteStatusAccepted,
				model.QuoteStatusRejected, model.QuoteStatusExpired:
			default:
				return goerr.New("unknown quote status", goerr.Value("status", status))
			}

			uc, repo, err := cfg.newQuoteUseCase(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := uc.UpdateStatus(ctx, model.QuoteID(quoteID), model.QuoteStatus(status)); err != nil {
				return goerr.Wrap(err, "failed to update quote status", goerr.Value("quote_id", quoteID))
			}

			fmt.Fprintf(c.Root().Writer, "Quote %s is now %s\n", quoteID, status)
			return nil
		},
	}
}

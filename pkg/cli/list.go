package cli

import (
	"context"
	"fmt"

	quoteuc "github.com/flowkraft/quotient/pkg/usecase/quote"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	var (
		cfg    config
		offset int64
		limit  int64
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "offset",
			Usage:       "Offset for pagination",
			Value:       0,
			Sources:     cli.EnvVars("QUOTIENT_LIST_OFFSET"),
			Destination: &offset,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of quotes to list",
			Value:       100,
			Sources:     cli.EnvVars("QUOTIENT_LIST_LIMIT"),
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List generated quotes",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			uc, repo, err := cfg.newQuoteUseCase(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			quotes, err := uc.List(ctx, quoteuc.ListOptions{
				Offset: int(offset),
				Limit:  int(limit),
			})
			if err != nil {
				return goerr.Wrap(err, "failed to list quotes")
			}

			for _, q := range quotes {
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%s\t%s\t%s\n",
					q.ID,
					q.GeneratedAt.Format("2006-01-02"),
					q.Customer.Name,
					q.Pricing.Total.StringFixed(2),
					q.Status)
			}

			return nil
		},
	}
}

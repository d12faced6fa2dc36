package cli

import (
	"context"
	"fmt"

	"github.com/flowkraft/quotient/pkg/usecase/knowledge"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func indexCommand() *cli.Command {
	var (
		cfg       config
		inputPath string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to YAML file containing reference projects",
			Sources:     cli.EnvVars("QUOTIENT_INDEX_INPUT"),
			Destination: &inputPath,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "index",
		Usage: "Index reference projects into the knowledge store",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}
			if gemini == nil {
				return goerr.New("gemini-project is required for indexing")
			}

			uc := knowledge.New(repo, gemini, knowledge.WithOutput(c.Root().Writer))

			count, err := uc.IndexFile(ctx, inputPath)
			if err != nil {
				return goerr.Wrap(err, "failed to index projects")
			}

			fmt.Fprintf(c.Root().Writer, "Indexed %d project(s)\n", count)
			return nil
		},
	}
}

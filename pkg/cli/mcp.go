package cli

import (
	"context"

	mcpserver "github.com/flowkraft/quotient/pkg/mcp"
	"github.com/flowkraft/quotient/pkg/usecase/knowledge"
	quoteuc "github.com/flowkraft/quotient/pkg/usecase/quote"
	"github.com/urfave/cli/v3"
)

func mcpCommand() *cli.Command {
	var cfg config

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "Cloud Storage bucket for quote document archive",
			Sources:     cli.EnvVars("QUOTIENT_ARCHIVE_BUCKET"),
			Destination: &cfg.bucket,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, catalogFlags(&cfg)...)

	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the quotation engine as an MCP server over stdio",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			uc, repo, err := cfg.newQuoteUseCase(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}
			var embedFn quoteuc.EmbedFunc
			if gemini != nil {
				embedFn = func(ctx context.Context, text string) ([]float32, error) {
					return gemini.Embedding(ctx, text, knowledge.EmbeddingDimensions)
				}
			}

			return mcpserver.New(uc, repo, embedFn).Run(ctx)
		},
	}
}

package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "quotient",
		Usage: "Automated quotation engine for industrial automation projects",
		Commands: []*cli.Command{
			generateCommand(),
			indexCommand(),
			listCommand(),
			viewCommand(),
			statusCommand(),
			exportCommand(),
			mcpCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}

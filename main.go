package main

import (
	"context"
	"os"

	"github.com/flowkraft/quotient/pkg/cli"
)

func main() {
	ctx := context.Background()
	if err := cli.Run(ctx, os.Args); err != nil {
		os.Exit(err.Code)
	}
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/flowkraft/quotient/pkg/extract"
	"github.com/flowkraft/quotient/pkg/model"
	quoteuc "github.com/flowkraft/quotient/pkg/usecase/quote"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func generateCommand() *cli.Command {
	var (
		cfg           config
		customerName  string
		customerEmail string
		description   string
		inputPath     string
		existing      bool
		format        string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "customer",
			Aliases:     []string{"c"},
			Usage:       "Customer name",
			Sources:     cli.EnvVars("QUOTIENT_CUSTOMER"),
			Destination: &customerName,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "email",
			Usage:       "Customer email address",
			Sources:     cli.EnvVars("QUOTIENT_CUSTOMER_EMAIL"),
			Destination: &customerEmail,
		},
		&cli.StringFlag{
			Name:        "description",
			Aliases:     []string{"m"},
			Usage:       "Project description text",
			Destination: &description,
		},
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "Path to a project description file (txt, md, pdf, docx)",
			Destination: &inputPath,
		},
		&cli.BoolFlag{
			Name:        "existing-customer",
			Usage:       "Customer has prior projects with us",
			Destination: &existing,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "Output format (summary or json)",
			Value:       "summary",
			Destination: &format,
		},
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
		Name:  "generate",
		Usage: "Generate a quote from a project description",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			uc, repo, err := cfg.newQuoteUseCase(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			text := description
			if text == "" && inputPath != "" {
				gemini, err := cfg.newGemini(ctx)
				if err != nil {
					return err
				}
				text, err = extract.ToText(ctx, inputPath, gemini)
				if err != nil {
					return err
				}
			}
			if text == "" {
				text, err = promptDescription()
				if err != nil {
					return err
				}
			}

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
				spinner.WithWriter(os.Stderr),
				spinner.WithSuffix(" Generating quote..."))
			sp.Start()
			q, err := uc.Generate(ctx, quoteuc.GenerateInput{
				Customer: model.Customer{
					Name:  customerName,
					Email: customerEmail,
				},
				Description:      text,
				ExistingCustomer: existing,
			})
			sp.Stop()
			if err != nil {
				return goerr.Wrap(err, "failed to generate quote")
			}

			return writeQuote(c, q, format)
		},
	}
}

// promptDescription collects the project description interactively when
// neither --description nor --file was given.
func promptDescription() (string, error) {
	rl, err := readline.New("desc> ")
	if err != nil {
		return "", goerr.Wrap(err, "failed to open prompt")
	}
	defer rl.Close()

	fmt.Fprintln(os.Stderr, "Enter the project description. Finish with an empty line.")

	var lines []string
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			break
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}

	text := strings.Join(lines, "\n")
	if strings.TrimSpace(text) == "" {
		return "", goerr.Wrap(model.ErrEmptyInput, "no project description given")
	}
	return text, nil
}

// writeQuote renders a quote in the requested format.
func writeQuote(c *cli.Command, q *model.Quote, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(q.Document())

	case "summary":
		w := c.Root().Writer
		fmt.Fprintf(w, "Quote:      %s (%s)\n", q.ID, q.Status)
		fmt.Fprintf(w, "Customer:   %s\n", q.Customer.Name)
		fmt.Fprintf(w, "Scope:      %s\n", q.Requirement.ScopeSummary)
		fmt.Fprintf(w, "Strategy:   %s (%s%% markup)\n", q.Pricing.Strategy, q.Pricing.MarkupPercentage.String())
		fmt.Fprintf(w, "Material:   %s\n", q.BOM.TotalMaterialCost().StringFixed(2))
		fmt.Fprintf(w, "Labor:      %s (%.1f hours)\n", q.Labor.TotalCost.StringFixed(2), q.Labor.TotalHours())
		for _, a := range q.Pricing.Adjustments {
			fmt.Fprintf(w, "Adjustment: %s: %s\n", a.Description, a.Amount.StringFixed(2))
		}
		fmt.Fprintf(w, "Total:      %s (valid until %s)\n", q.Pricing.Total.StringFixed(2), q.ValidUntil.Format("2006-01-02"))
		fmt.Fprintf(w, "Win prob:   %.0f%%\n", q.Pricing.WinProbability*100)
		fmt.Fprintf(w, "Confidence: %.2f\n", q.OverallConfidence)
		fmt.Fprintf(w, "Action:     %s\n", q.RecommendedAction)
		if q.RequiresReview {
			fmt.Fprintf(w, "Review:     required\n")
		}
		for _, v := range q.PolicyViolations {
			fmt.Fprintf(w, "Violation:  %s\n", v)
		}
		return nil

	default:
		return goerr.New("unknown output format", goerr.Value("format", format))
	}
}

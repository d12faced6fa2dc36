package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/flowkraft/quotient/pkg/adapter"
	"github.com/flowkraft/quotient/pkg/bom"
	"github.com/flowkraft/quotient/pkg/extract"
	"github.com/flowkraft/quotient/pkg/labor"
	"github.com/flowkraft/quotient/pkg/policy"
	"github.com/flowkraft/quotient/pkg/pricing"
	"github.com/flowkraft/quotient/pkg/repository"
	"github.com/flowkraft/quotient/pkg/usecase/knowledge"
	quoteuc "github.com/flowkraft/quotient/pkg/usecase/quote"
	"github.com/flowkraft/quotient/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	logLevel string

	// Repository
	store    string
	dataDir  string
	project  string
	database string

	// AI backend
	geminiProject  string
	geminiLocation string

	// Parts catalog
	catalogURL   string
	catalogToken string
	catalogFile  string

	// Review policies
	policyDir string

	// Quote document archive
	bucket string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("QUOTIENT_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "store",
			Usage:       "Quote store backend (local or firestore)",
			Value:       "local",
			Sources:     cli.EnvVars("QUOTIENT_STORE"),
			Destination: &cfg.store,
		},
		&cli.StringFlag{
			Name:        "data-dir",
			Usage:       "Directory for the local store",
			Sources:     cli.EnvVars("QUOTIENT_DATA_DIR"),
			Destination: &cfg.dataDir,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "policy-dir",
			Usage:       "Directory of Rego review policies",
			Sources:     cli.EnvVars("QUOTIENT_POLICY_DIR"),
			Destination: &cfg.policyDir,
		},
	}
}

// llmFlags returns flags for AI backend configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
	}
}

// catalogFlags returns flags for the parts catalog backend
func catalogFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog-url",
			Usage:       "InvenTree parts catalog base URL",
			Sources:     cli.EnvVars("QUOTIENT_CATALOG_URL"),
			Destination: &cfg.catalogURL,
		},
		&cli.StringFlag{
			Name:        "catalog-token",
			Usage:       "InvenTree API token",
			Sources:     cli.EnvVars("QUOTIENT_CATALOG_TOKEN"),
			Destination: &cfg.catalogToken,
		},
		&cli.StringFlag{
			Name:        "catalog-file",
			Usage:       "Path to a YAML parts catalog",
			Sources:     cli.EnvVars("QUOTIENT_CATALOG_FILE"),
			Destination: &cfg.catalogFile,
		},
	}
}

// setupLogger installs a logger at the configured level into the context
func (cfg *config) setupLogger(ctx context.Context) context.Context {
	logger := logging.New(cfg.logLevel, os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}

// newRepository creates a new repository instance
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	switch cfg.store {
	case "firestore":
		if cfg.project == "" {
			return nil, goerr.New("project is required for the firestore store")
		}
		if cfg.database == "" {
			return nil, goerr.New("database is required for the firestore store")
		}
		repo, err := repository.NewFirestore(ctx, cfg.project, cfg.database)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create repository")
		}
		return repo, nil

	case "local":
		dir := cfg.dataDir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, goerr.Wrap(err, "failed to resolve home directory")
			}
			dir = filepath.Join(home, ".quotient")
		}
		repo, err := repository.NewLocal(dir)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create repository")
		}
		return repo, nil

	default:
		return nil, goerr.New("unknown store backend", goerr.Value("store", cfg.store))
	}
}

// newGemini creates a new Gemini adapter instance. Returns nil when no
// project is configured; callers fall back to rule-based extraction.
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	if cfg.geminiProject == "" {
		return nil, nil
	}
	if cfg.geminiLocation == "" {
		return nil, goerr.New("gemini-location is required")
	}
	return adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation)
}

// newCatalog creates a parts catalog. Returns nil when no catalog is
// configured; BOM items are then placeholder estimates.
func (cfg *config) newCatalog() (adapter.Catalog, error) {
	if cfg.catalogFile != "" {
		return adapter.NewFileCatalog(cfg.catalogFile)
	}
	if cfg.catalogURL != "" {
		return adapter.NewInvenTreeCatalog(cfg.catalogURL, cfg.catalogToken), nil
	}
	return nil, nil
}

// newReviewer loads the review policies
func (cfg *config) newReviewer(ctx context.Context) (*policy.Reviewer, error) {
	return policy.New(ctx, cfg.policyDir)
}

// newStorage creates a new Storage adapter instance
func (cfg *config) newStorage(ctx context.Context, bucketName string) (adapter.Storage, error) {
	if bucketName == "" {
		return nil, goerr.New("bucket name is required")
	}

	storage, err := adapter.NewStorage(ctx, bucketName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}
	return storage, nil
}

// newQuoteUseCase wires the full quotation pipeline from the config
func (cfg *config) newQuoteUseCase(ctx context.Context, opts ...quoteuc.Option) (*quoteuc.UseCase, repository.Repository, error) {
	repo, err := cfg.newRepository(ctx)
	if err != nil {
		return nil, nil, err
	}

	gemini, err := cfg.newGemini(ctx)
	if err != nil {
		return nil, nil, err
	}

	catalog, err := cfg.newCatalog()
	if err != nil {
		return nil, nil, err
	}

	reviewer, err := cfg.newReviewer(ctx)
	if err != nil {
		return nil, nil, err
	}

	var primary extract.TextExtractor
	var embedFn quoteuc.EmbedFunc
	if gemini != nil {
		primary = extract.NewAIExtractor(gemini)
		embedFn = func(ctx context.Context, text string) ([]float32, error) {
			return gemini.Embedding(ctx, text, knowledge.EmbeddingDimensions)
		}
	}

	if cfg.bucket != "" {
		archive, err := cfg.newStorage(ctx, cfg.bucket)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, quoteuc.WithArchive(archive))
	}

	uc := quoteuc.New(
		repo,
		extract.New(primary),
		bom.New(catalog, bom.DefaultConfig()),
		labor.New(labor.DefaultConfig()),
		pricing.New(pricing.DefaultConfig()),
		reviewer,
		embedFn,
		opts...,
	)
	return uc, repo, nil
}

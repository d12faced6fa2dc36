package knowledge

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/flowkraft/quotient/pkg/model"
	"github.com/flowkraft/quotient/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Index embeds and stores one reference project. Indexing the same
// project ID again replaces the previous entry.
func (u *UseCase) Index(ctx context.Context, project *model.ReferenceProject) error {
	if project.ID == "" {
		project.ID = model.NewProjectID()
	}
	if err := project.Validate(); err != nil {
		return err
	}

	embedding, err := u.gemini.Embedding(ctx, project.EmbeddingText(), EmbeddingDimensions)
	if err != nil {
		return goerr.Wrap(err, "failed to embed project", goerr.Value("project_id", project.ID))
	}
	project.Embedding = embedding
	project.IndexedAt = time.Now()

	if err := u.repo.PutProject(ctx, project); err != nil {
		return err
	}

	logging.From(ctx).Info("indexed reference project",
		"project_id", project.ID,
		"industry", project.Industry)
	return nil
}

// projectFile is the YAML shape accepted by IndexFile.
type projectFile struct {
	Projects []projectEntry `yaml:"projects"`
}

type projectEntry struct {
	ID                  string        `yaml:"id"`
	RequirementsSummary string        `yaml:"requirements_summary"`
	Industry            string        `yaml:"industry"`
	Disciplines         []string      `yaml:"disciplines"`
	Budget              float64       `yaml:"budget"`
	Outcome             model.Outcome `yaml:"outcome"`
}

// IndexFile indexes every project listed in a YAML file. It stops at the
// first failure; already indexed projects stay indexed.
func (u *UseCase) IndexFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to read project file", goerr.Value("path", path))
	}

	var file projectFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, goerr.Wrap(model.ErrInvalidInput, "failed to parse project file",
			goerr.Value("path", path),
			goerr.Value("error", err.Error()))
	}
	if len(file.Projects) == 0 {
		return 0, goerr.Wrap(model.ErrEmptyInput, "project file has no projects", goerr.Value("path", path))
	}

	for i, entry := range file.Projects {
		project := &model.ReferenceProject{
			ID:                  model.ProjectID(entry.ID),
			RequirementsSummary: entry.RequirementsSummary,
			Industry:            entry.Industry,
			Disciplines:         entry.Disciplines,
			Budget:              decimal.NewFromFloat(entry.Budget),
			Outcome:             entry.Outcome,
		}
		if err := u.Index(ctx, project); err != nil {
			return i, goerr.Wrap(err, "failed to index project",
				goerr.Value("path", path),
				goerr.Value("entry", i))
		}
		fmt.Fprintf(u.output, "Indexed: %s (%s)\n", project.ID, project.Industry)
	}

	return len(file.Projects), nil
}

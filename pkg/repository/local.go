package repository

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/flowkraft/quotient/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Local is a file-backed repository: one JSON file per quote and per
// reference project, with an in-memory index for reads and vector search.
// Writes go through a temp file and rename, so a crash mid-write never
// leaves a partially written entry retrievable. A RWMutex allows
// concurrent readers while serializing writers.
type Local struct {
	dir string

	mu       sync.RWMutex
	quotes   map[model.QuoteID]*model.Quote
	projects map[model.ProjectID]*model.ReferenceProject
}

const (
	quotesDir   = "quotes"
	projectsDir = "projects"
)

// NewLocal opens (or creates) a local repository rooted at dir.
func NewLocal(dir string) (*Local, error) {
	for _, sub := range []string{quotesDir, projectsDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, goerr.Wrap(err, "failed to create data directory", goerr.Value("dir", dir))
		}
	}

	r := &Local{
		dir:      dir,
		quotes:   make(map[model.QuoteID]*model.Quote),
		projects: make(map[model.ProjectID]*model.ReferenceProject),
	}

	if err := r.load(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Local) load() error {
	quoteFiles, err := filepath.Glob(filepath.Join(r.dir, quotesDir, "*.json"))
	if err != nil {
		return goerr.Wrap(err, "failed to list quote files")
	}
	for _, path := range quoteFiles {
		var quote model.Quote
		if err := readJSON(path, &quote); err != nil {
			return err
		}
		r.quotes[quote.ID] = &quote
	}

	projectFiles, err := filepath.Glob(filepath.Join(r.dir, projectsDir, "*.json"))
	if err != nil {
		return goerr.Wrap(err, "failed to list project files")
	}
	for _, path := range projectFiles {
		var project model.ReferenceProject
		if err := readJSON(path, &project); err != nil {
			return err
		}
		r.projects[project.ID] = &project
	}

	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return goerr.Wrap(err, "failed to read record", goerr.Value("path", path))
	}
	if err := json.Unmarshal(data, v); err != nil {
		return goerr.Wrap(err, "failed to parse record", goerr.Value("path", path))
	}
	return nil
}

// writeJSON persists v at path atomically via temp file + rename.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to marshal record")
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write record", goerr.Value("path", tmp))
	}
	if err := os.Rename(tmp, path); err != nil {
		return goerr.Wrap(err, "failed to commit record", goerr.Value("path", path))
	}
	return nil
}

func (r *Local) PutQuote(ctx context.Context, quote *model.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	path := filepath.Join(r.dir, quotesDir, sanitizeID(string(quote.ID))+".json")
	if err := writeJSON(path, quote); err != nil {
		return goerr.Wrap(model.ErrPersistenceFailure, err.Error(), goerr.Value("quote_id", quote.ID))
	}

	r.quotes[quote.ID] = quote
	return nil
}

func (r *Local) GetQuote(ctx context.Context, id model.QuoteID) (*model.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	quote, ok := r.quotes[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrQuoteNotFound, "no such quote", goerr.Value("quote_id", id))
	}
	return quote, nil
}

func (r *Local) ListQuotes(ctx context.Context, offset, limit int) ([]*model.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	quotes := make([]*model.Quote, 0, len(r.quotes))
	for _, q := range r.quotes {
		quotes = append(quotes, q)
	}
	sort.Slice(quotes, func(i, j int) bool {
		if quotes[i].GeneratedAt.Equal(quotes[j].GeneratedAt) {
			return quotes[i].ID > quotes[j].ID
		}
		return quotes[i].GeneratedAt.After(quotes[j].GeneratedAt)
	})

	if offset >= len(quotes) {
		return []*model.Quote{}, nil
	}
	quotes = quotes[offset:]
	if limit > 0 && limit < len(quotes) {
		quotes = quotes[:limit]
	}
	return quotes, nil
}

func (r *Local) UpdateQuoteStatus(ctx context.Context, id model.QuoteID, status model.QuoteStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	quote, ok := r.quotes[id]
	if !ok {
		return goerr.Wrap(model.ErrQuoteNotFound, "no such quote", goerr.Value("quote_id", id))
	}

	updated := *quote
	updated.Status = status

	path := filepath.Join(r.dir, quotesDir, sanitizeID(string(id))+".json")
	if err := writeJSON(path, &updated); err != nil {
		return goerr.Wrap(model.ErrPersistenceFailure, err.Error(), goerr.Value("quote_id", id))
	}

	r.quotes[id] = &updated
	return nil
}

func (r *Local) PutProject(ctx context.Context, project *model.ReferenceProject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	path := filepath.Join(r.dir, projectsDir, sanitizeID(string(project.ID))+".json")
	if err := writeJSON(path, project); err != nil {
		return goerr.Wrap(model.ErrPersistenceFailure, err.Error(), goerr.Value("project_id", project.ID))
	}

	r.projects[project.ID] = project
	return nil
}

func (r *Local) GetProject(ctx context.Context, id model.ProjectID) (*model.ReferenceProject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	project, ok := r.projects[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrProjectNotFound, "no such project", goerr.Value("project_id", id))
	}
	return project, nil
}

func (r *Local) SearchSimilarProjects(ctx context.Context, embedding []float32, limit int) ([]*ScoredProject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scored := make([]*ScoredProject, 0, len(r.projects))
	for _, p := range r.projects {
		if len(p.Embedding) == 0 {
			continue
		}
		scored = append(scored, &ScoredProject{
			Project:    p,
			Similarity: cosineSimilarity(embedding, p.Embedding),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Similarity == scored[j].Similarity {
			return scored[i].Project.IndexedAt.After(scored[j].Project.IndexedAt)
		}
		return scored[i].Similarity > scored[j].Similarity
	})

	if limit > 0 && limit < len(scored) {
		scored = scored[:limit]
	}
	return scored, nil
}

func (r *Local) Close() error {
	return nil
}

// sanitizeID keeps record file names safe on all filesystems.
func sanitizeID(id string) string {
	return strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			return c
		default:
			return '_'
		}
	}, id)
}

// cosineSimilarity calculates cosine similarity between two vectors
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

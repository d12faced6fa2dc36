package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flowkraft/quotient/pkg/model"
	"github.com/flowkraft/quotient/pkg/repository"
	"github.com/m-mizutani/gt"
	"github.com/shopspring/decimal"
)

func newQuote(id string, generatedAt time.Time) *model.Quote {
	return &model.Quote{
		ID:          model.QuoteID(id),
		Customer:    model.Customer{Name: "Test Customer"},
		GeneratedAt: generatedAt,
		ValidUntil:  generatedAt.Add(model.QuoteValidity),
		Status:      model.QuoteStatusDraft,
	}
}

func TestLocalQuoteRoundTrip(t *testing.T) {
	repo, err := repository.NewLocal(t.TempDir())
	gt.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	q := newQuote("Q-20260901100000", time.Now().UTC())
	q.Pricing.Total = decimal.NewFromFloat(12345.67)

	gt.NoError(t, repo.PutQuote(ctx, q))

	got, err := repo.GetQuote(ctx, q.ID)
	gt.NoError(t, err)
	gt.Equal(t, got.ID, q.ID)
	gt.Equal(t, got.Customer.Name, "Test Customer")
	gt.True(t, got.Pricing.Total.Equal(q.Pricing.Total))
}

func TestLocalQuoteNotFound(t *testing.T) {
	repo, err := repository.NewLocal(t.TempDir())
	gt.NoError(t, err)
	defer repo.Close()

	_, err = repo.GetQuote(context.Background(), "Q-19990101000000")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrQuoteNotFound))
}

func TestLocalQuoteSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := repository.NewLocal(dir)
	gt.NoError(t, err)
	q := newQuote("Q-20260901110000", time.Now().UTC())
	gt.NoError(t, repo.PutQuote(ctx, q))
	gt.NoError(t, repo.Close())

	reopened, err := repository.NewLocal(dir)
	gt.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetQuote(ctx, q.ID)
	gt.NoError(t, err)
	gt.Equal(t, got.ID, q.ID)
}

func TestLocalListQuotesOrder(t *testing.T) {
	repo, err := repository.NewLocal(t.TempDir())
	gt.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	gt.NoError(t, repo.PutQuote(ctx, newQuote("Q-20260901100000", base)))
	gt.NoError(t, repo.PutQuote(ctx, newQuote("Q-20260901100100", base.Add(time.Minute))))
	gt.NoError(t, repo.PutQuote(ctx, newQuote("Q-20260901100200", base.Add(2*time.Minute))))

	quotes, err := repo.ListQuotes(ctx, 0, 10)
	gt.NoError(t, err)
	gt.A(t, quotes).Length(3)
	gt.Equal(t, quotes[0].ID, model.QuoteID("Q-20260901100200"))
	gt.Equal(t, quotes[2].ID, model.QuoteID("Q-20260901100000"))

	paged, err := repo.ListQuotes(ctx, 1, 1)
	gt.NoError(t, err)
	gt.A(t, paged).Length(1)
	gt.Equal(t, paged[0].ID, model.QuoteID("Q-20260901100100"))

	empty, err := repo.ListQuotes(ctx, 10, 10)
	gt.NoError(t, err)
	gt.A(t, empty).Length(0)
}

func TestLocalUpdateQuoteStatus(t *testing.T) {
	repo, err := repository.NewLocal(t.TempDir())
	gt.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	q := newQuote("Q-20260901120000", time.Now().UTC())
	q.Pricing.Total = decimal.NewFromInt(5000)
	gt.NoError(t, repo.PutQuote(ctx, q))

	gt.NoError(t, repo.UpdateQuoteStatus(ctx, q.ID, model.QuoteStatusSent))

	got, err := repo.GetQuote(ctx, q.ID)
	gt.NoError(t, err)
	gt.Equal(t, got.Status, model.QuoteStatusSent)
	// Priced content is untouched.
	gt.True(t, got.Pricing.Total.Equal(decimal.NewFromInt(5000)))

	err = repo.UpdateQuoteStatus(ctx, "Q-19990101000000", model.QuoteStatusSent)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrQuoteNotFound))
}

func newProject(id string, embedding []float32, indexedAt time.Time) *model.ReferenceProject {
	return &model.ReferenceProject{
		ID:                  model.ProjectID(id),
		RequirementsSummary: "summary for " + id,
		Industry:            "manufacturing",
		Budget:              decimal.NewFromInt(100_000),
		Embedding:           embedding,
		IndexedAt:           indexedAt,
	}
}

func TestLocalSearchSimilarProjects(t *testing.T) {
	repo, err := repository.NewLocal(t.TempDir())
	gt.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	// p1 points along the query, p2 is orthogonal, p3 is in between.
	gt.NoError(t, repo.PutProject(ctx, newProject("p1", []float32{1, 0, 0}, now)))
	gt.NoError(t, repo.PutProject(ctx, newProject("p2", []float32{0, 1, 0}, now)))
	gt.NoError(t, repo.PutProject(ctx, newProject("p3", []float32{1, 1, 0}, now)))

	hits, err := repo.SearchSimilarProjects(ctx, []float32{1, 0, 0}, 2)
	gt.NoError(t, err)
	gt.A(t, hits).Length(2)
	gt.Equal(t, hits[0].Project.ID, model.ProjectID("p1"))
	gt.Equal(t, hits[1].Project.ID, model.ProjectID("p3"))
	gt.True(t, hits[0].Similarity > hits[1].Similarity)
}

func TestLocalSearchEmptyStore(t *testing.T) {
	repo, err := repository.NewLocal(t.TempDir())
	gt.NoError(t, err)
	defer repo.Close()

	hits, err := repo.SearchSimilarProjects(context.Background(), []float32{1, 0}, 5)
	gt.NoError(t, err)
	gt.A(t, hits).Length(0)
}

func TestLocalReindexReplaces(t *testing.T) {
	repo, err := repository.NewLocal(t.TempDir())
	gt.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	gt.NoError(t, repo.PutProject(ctx, newProject("p1", []float32{1, 0}, now)))

	updated := newProject("p1", []float32{0, 1}, now.Add(time.Hour))
	updated.Industry = "chemical"
	gt.NoError(t, repo.PutProject(ctx, updated))

	got, err := repo.GetProject(ctx, "p1")
	gt.NoError(t, err)
	gt.Equal(t, got.Industry, "chemical")
}

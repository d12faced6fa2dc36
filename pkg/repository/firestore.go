package repository

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/flowkraft/quotient/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	quotesCollection   = "quotes"
	projectsCollection = "reference_projects"
)

// Firestore implements Repository using Firestore. Reference project
// embeddings are stored as native vectors so similarity search runs
// server-side via FindNearest.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a Firestore-backed repository.
func NewFirestore(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	return &Firestore{client: client}, nil
}

// quoteDoc carries searchable metadata plus the full quote as JSON.
// Decimal amounts survive the round trip inside the payload.
type quoteDoc struct {
	ID                string    `firestore:"id"`
	CustomerName      string    `firestore:"customer_name"`
	Status            string    `firestore:"status"`
	OverallConfidence float64   `firestore:"overall_confidence"`
	GeneratedAt       time.Time `firestore:"generated_at"`
	Payload           string    `firestore:"payload"`
}

type projectDoc struct {
	ID        string             `firestore:"id"`
	Industry  string             `firestore:"industry"`
	IndexedAt time.Time          `firestore:"indexed_at"`
	Embedding firestore.Vector32 `firestore:"embedding"`
	Payload   string             `firestore:"payload"`
	Distance  float64            `firestore:"vector_distance"`
}

func (r *Firestore) PutQuote(ctx context.Context, quote *model.Quote) error {
	payload, err := json.Marshal(quote)
	if err != nil {
		return goerr.Wrap(model.ErrPersistenceFailure, "failed to marshal quote", goerr.Value("quote_id", quote.ID))
	}

	doc := quoteDoc{
		ID:                string(quote.ID),
		CustomerName:      quote.Customer.Name,
		Status:            string(quote.Status),
		OverallConfidence: quote.OverallConfidence,
		GeneratedAt:       quote.GeneratedAt,
		Payload:           string(payload),
	}

	if _, err := r.client.Collection(quotesCollection).Doc(string(quote.ID)).Set(ctx, doc); err != nil {
		return goerr.Wrap(model.ErrPersistenceFailure, err.Error(), goerr.Value("quote_id", quote.ID))
	}
	return nil
}

func (r *Firestore) GetQuote(ctx context.Context, id model.QuoteID) (*model.Quote, error) {
	snap, err := r.client.Collection(quotesCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrQuoteNotFound, "no such quote", goerr.Value("quote_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get quote", goerr.Value("quote_id", id))
	}

	return decodeQuoteDoc(snap)
}

func decodeQuoteDoc(snap *firestore.DocumentSnapshot) (*model.Quote, error) {
	var doc quoteDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode quote document")
	}

	var quote model.Quote
	if err := json.Unmarshal([]byte(doc.Payload), &quote); err != nil {
		return nil, goerr.Wrap(err, "failed to parse quote payload", goerr.Value("quote_id", doc.ID))
	}
	return &quote, nil
}

func (r *Firestore) ListQuotes(ctx context.Context, offset, limit int) ([]*model.Quote, error) {
	query := r.client.Collection(quotesCollection).
		OrderBy("generated_at", firestore.Desc).
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var quotes []*model.Quote
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate quotes")
		}

		quote, err := decodeQuoteDoc(snap)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}

	return quotes, nil
}

func (r *Firestore) UpdateQuoteStatus(ctx context.Context, id model.QuoteID, quoteStatus model.QuoteStatus) error {
	quote, err := r.GetQuote(ctx, id)
	if err != nil {
		return err
	}

	quote.Status = quoteStatus
	return r.PutQuote(ctx, quote)
}

func (r *Firestore) PutProject(ctx context.Context, project *model.ReferenceProject) error {
	payload, err := json.Marshal(project)
	if err != nil {
		return goerr.Wrap(model.ErrPersistenceFailure, "failed to marshal project", goerr.Value("project_id", project.ID))
	}

	doc := projectDoc{
		ID:        string(project.ID),
		Industry:  project.Industry,
		IndexedAt: project.IndexedAt,
		Embedding: project.Embedding,
		Payload:   string(payload),
	}

	// Document ID equals project ID, so re-indexing replaces the entry
	// atomically instead of duplicating it.
	if _, err := r.client.Collection(projectsCollection).Doc(string(project.ID)).Set(ctx, doc); err != nil {
		return goerr.Wrap(model.ErrPersistenceFailure, err.Error(), goerr.Value("project_id", project.ID))
	}
	return nil
}

func (r *Firestore) GetProject(ctx context.Context, id model.ProjectID) (*model.ReferenceProject, error) {
	snap, err := r.client.Collection(projectsCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrProjectNotFound, "no such project", goerr.Value("project_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get project", goerr.Value("project_id", id))
	}

	return decodeProjectDoc(snap)
}

func decodeProjectDoc(snap *firestore.DocumentSnapshot) (*model.ReferenceProject, error) {
	var doc projectDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode project document")
	}

	var project model.ReferenceProject
	if err := json.Unmarshal([]byte(doc.Payload), &project); err != nil {
		return nil, goerr.Wrap(err, "failed to parse project payload", goerr.Value("project_id", doc.ID))
	}
	project.Embedding = doc.Embedding
	return &project, nil
}

func (r *Firestore) SearchSimilarProjects(ctx context.Context, embedding []float32, limit int) ([]*ScoredProject, error) {
	query := r.client.Collection(projectsCollection).FindNearest(
		"embedding",
		firestore.Vector32(embedding),
		limit,
		firestore.DistanceMeasureCosine,
		&firestore.FindNearestOptions{DistanceResultField: "vector_distance"},
	)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var results []*ScoredProject
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(model.ErrStoreUnavailable, err.Error())
		}

		var doc projectDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode search hit")
		}

		project, err := decodeProjectDoc(snap)
		if err != nil {
			return nil, err
		}

		results = append(results, &ScoredProject{
			Project:    project,
			Similarity: 1 - doc.Distance,
		})
	}

	return results, nil
}

func (r *Firestore) Close() error {
	return r.client.Close()
}

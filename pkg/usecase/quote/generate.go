package quote

import (
	"context"
	"time"

	"github.com/flowkraft/quotient/pkg/model"
	"github.com/flowkraft/quotient/pkg/repository"
	"github.com/flowkraft/quotient/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// GenerateInput carries everything the pipeline needs to produce a
// quote.
type GenerateInput struct {
	Customer         model.Customer
	Description      string
	ExistingCustomer bool
}

// Generate runs the full quotation pipeline. A dead or empty knowledge
// store degrades the quote (no similar project context, reduced
// confidence) instead of failing it; a dead parts catalog is handled
// inside BOM generation the same way.
func (u *UseCase) Generate(ctx context.Context, input GenerateInput) (*model.Quote, error) {
	logger := logging.From(ctx)

	if err := input.Customer.Validate(); err != nil {
		return nil, err
	}

	req, err := u.extractor.Extract(ctx, input.Description)
	if err != nil {
		return nil, goerr.Wrap(err, "requirement extraction failed")
	}
	logger.Info("extracted requirement",
		"method", req.ExtractionMethod,
		"confidence", req.ExtractionConfidence,
		"complexity", req.ComplexityScore,
		"total_io", req.IOCounts.Total())

	similar := u.searchSimilar(ctx, req)

	bomResult, err := u.bomGen.Generate(ctx, req)
	if err != nil {
		return nil, goerr.Wrap(err, "BOM generation failed")
	}

	laborResult := u.estimator.Estimate(req, bomResult)

	pricingResult := u.pricer.Price(
		bomResult.TotalMaterialCost(),
		laborResult.TotalCost,
		req,
		input.ExistingCustomer,
		similar,
	)

	now := time.Now()
	q := &model.Quote{
		ID:          model.NewQuoteID(now),
		Customer:    input.Customer,
		Requirement: *req,
		BOM:         *bomResult,
		Labor:       *laborResult,
		Pricing:     *pricingResult,
		GeneratedAt: now,
		ValidUntil:  now.Add(model.QuoteValidity),
		Status:      model.QuoteStatusDraft,
	}
	for _, s := range similar {
		q.SimilarProjects = append(q.SimilarProjects, s.Project.ID)
	}

	confidence := u.weights.Extraction*req.ExtractionConfidence +
		u.weights.Labor*laborResult.Confidence +
		u.weights.Pricing*pricingResult.Confidence +
		u.weights.BOM*bomResult.Confidence
	// Zero matches is a valid outcome, but a quote priced without any
	// historical context is less trustworthy than one with it.
	if len(similar) == 0 {
		confidence -= SearchDegradedPenalty
	}
	if confidence < 0 {
		confidence = 0
	}
	q.OverallConfidence = confidence
	q.RecommendedAction = recommendAction(confidence)
	q.RequiresReview = confidence < 0.85

	if u.reviewer != nil {
		violations, err := u.reviewer.Review(ctx, q)
		if err != nil {
			return nil, goerr.Wrap(err, "review policy evaluation failed")
		}
		if len(violations) > 0 {
			q.PolicyViolations = violations
			q.RequiresReview = true
			logger.Warn("review policy violations", "quote_id", q.ID, "violations", violations)
		}
	}

	if err := u.repo.PutQuote(ctx, q); err != nil {
		return nil, err
	}
	logger.Info("generated quote",
		"quote_id", q.ID,
		"strategy", q.Pricing.Strategy,
		"total", q.Pricing.Total.String(),
		"confidence", q.OverallConfidence,
		"requires_review", q.RequiresReview)

	// Archive failure never loses the quote; the repository is the
	// source of truth.
	if u.archive != nil {
		if err := u.archiveQuote(ctx, q); err != nil {
			logger.Warn("failed to archive quote document", "quote_id", q.ID, "error", err)
		}
	}

	return q, nil
}

// searchSimilar retrieves similar projects from the knowledge store. A
// store failure degrades to no context; the confidence penalty is
// applied by the caller whenever no context was found.
func (u *UseCase) searchSimilar(ctx context.Context, req *model.Requirement) []*repository.ScoredProject {
	if u.embedFn == nil {
		return nil
	}

	embedding, err := u.embedFn(ctx, req.SearchText())
	if err != nil {
		logging.From(ctx).Warn("failed to embed requirement, generating without similar project context", "error", err)
		return nil
	}

	similar, err := u.repo.SearchSimilarProjects(ctx, embedding, u.searchLimit)
	if err != nil {
		logging.From(ctx).Warn("knowledge store search failed, generating without similar project context", "error", err)
		return nil
	}
	return similar
}

// recommendAction maps the overall confidence to the next step for the
// sales engineer.
func recommendAction(confidence float64) model.RecommendedAction {
	switch {
	case confidence >= 0.85:
		return model.ActionSendImmediately
	case confidence >= 0.70:
		return model.ActionReviewAndSend
	case confidence >= 0.60:
		return model.ActionRefineRequirements
	default:
		return model.ActionScheduleDiscoveryCall
	}
}

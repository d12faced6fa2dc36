// Package extract turns raw project descriptions into structured
// requirement records. The primary path is AI-assisted extraction; a
// deterministic rule-based extractor takes over whenever the AI backend is
// unavailable or returns an unusable result.
package extract

import (
	"context"
	"strings"

	"github.com/flowkraft/quotient/pkg/model"
	"github.com/flowkraft/quotient/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// TextExtractor extracts a requirement from plain text. Implementations
// set ExtractionMethod and ExtractionConfidence on the result.
type TextExtractor interface {
	Extract(ctx context.Context, text string) (*model.Requirement, error)
}

// Extractor is the extraction service: AI-assisted first, rule-based
// fallback second. It never fails on ambiguous input; absent fields come
// back as explicit unknown sentinels.
type Extractor struct {
	primary  TextExtractor
	fallback TextExtractor
}

// Option is a functional option for Extractor
type Option func(*Extractor)

// WithPrimary overrides the primary extractor (used in tests).
func WithPrimary(e TextExtractor) Option {
	return func(x *Extractor) {
		x.primary = e
	}
}

// New creates an extraction service. primary may be nil, in which case
// every request goes through the rule-based extractor.
func New(primary TextExtractor, opts ...Option) *Extractor {
	x := &Extractor{
		primary:  primary,
		fallback: NewRuleExtractor(),
	}

	for _, opt := range opts {
		opt(x)
	}

	return x
}

// Extract runs the extraction pipeline over raw text.
func (x *Extractor) Extract(ctx context.Context, text string) (*model.Requirement, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.Wrap(model.ErrEmptyInput, "nothing to extract")
	}

	if x.primary != nil {
		req, err := x.primary.Extract(ctx, text)
		if err == nil {
			req.Normalize()
			return req, nil
		}
		logging.From(ctx).Warn("AI extraction failed, falling back to rule-based extractor", "error", err)
	}

	req, err := x.fallback.Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	req.Normalize()
	return req, nil
}

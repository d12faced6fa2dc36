// Package policy evaluates Rego review policies against generated
// quotes. Policies live in a directory of *.rego files and export
// data.review.violation, a set of human-readable violation strings. Any
// violation forces the quote into manual review.
package policy

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/flowkraft/quotient/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/open-policy-agent/opa/v1/rego"
)

// Reviewer holds the prepared review query.
type Reviewer struct {
	query *rego.PreparedEvalQuery
}

// New loads all Rego files from policyDir and prepares the review
// query. An empty or missing directory yields a Reviewer that reports
// no violations.
func New(ctx context.Context, policyDir string) (*Reviewer, error) {
	if policyDir == "" {
		return &Reviewer{}, nil
	}

	files, err := filepath.Glob(filepath.Join(policyDir, "*.rego"))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to glob policy files")
	}
	if len(files) == 0 {
		return &Reviewer{}, nil
	}

	options := make([]func(*rego.Rego), 0, len(files)+1)
	options = append(options, rego.Query("data.review.violation"))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read policy file", goerr.Value("path", file))
		}
		options = append(options, rego.Module(file, string(data)))
	}

	prepared, err := rego.New(options...).PrepareForEval(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to prepare review query")
	}

	return &Reviewer{query: &prepared}, nil
}

// Review evaluates the review policies against the quote document and
// returns the violation messages, if any.
func (r *Reviewer) Review(ctx context.Context, quote *model.Quote) ([]string, error) {
	if r.query == nil {
		return nil, nil
	}

	// Round-trip through JSON so the policy sees the same shape as the
	// rendered quote document.
	raw, err := json.Marshal(quote.Document())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal quote document", goerr.Value("quote_id", quote.ID))
	}
	var input map[string]any
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal quote document", goerr.Value("quote_id", quote.ID))
	}

	rs, err := r.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to evaluate review policy", goerr.Value("quote_id", quote.ID))
	}

	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return nil, nil
	}

	values, ok := rs[0].Expressions[0].Value.([]any)
	if !ok {
		return nil, goerr.New("invalid review result: violation is not an array")
	}

	violations := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			violations = append(violations, s)
		}
	}
	return violations, nil
}

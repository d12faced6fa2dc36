// Package mcp exposes the quotation engine as an MCP server over stdio,
// so sales tooling and AI assistants can generate and inspect quotes.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/flowkraft/quotient/pkg/model"
	"github.com/flowkraft/quotient/pkg/repository"
	quoteuc "github.com/flowkraft/quotient/pkg/usecase/quote"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/m-mizutani/goerr/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the quotation pipeline behind MCP tools.
type Server struct {
	quotes  *quoteuc.UseCase
	repo    repository.Repository
	embedFn quoteuc.EmbedFunc
}

// New creates an MCP server facade. embedFn may be nil; the
// search_projects tool then reports that search is unavailable.
func New(quotes *quoteuc.UseCase, repo repository.Repository, embedFn quoteuc.EmbedFunc) *Server {
	return &Server{
		quotes:  quotes,
		repo:    repo,
		embedFn: embedFn,
	}
}

// Run serves MCP requests over stdio until the context is canceled or
// the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "quotient",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_quote",
		Description: "Generate a priced quote from a project description",
	}, s.generateQuote)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_quote",
		Description: "Retrieve a generated quote document by quote ID",
	}, s.getQuote)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_projects",
		Description: "Search indexed reference projects by free-text query",
		InputSchema: searchProjectsSchema(),
	}, s.searchProjects)

	return server.Run(ctx, &mcp.StdioTransport{})
}

type generateQuoteParams struct {
	CustomerName     string `json:"customer_name" jsonschema:"Name of the customer requesting the quote"`
	CustomerEmail    string `json:"customer_email,omitempty" jsonschema:"Customer contact email"`
	Description      string `json:"description" jsonschema:"Free-text project description to quote"`
	ExistingCustomer bool   `json:"existing_customer,omitempty" jsonschema:"Whether the customer has prior projects with us"`
}

func (s *Server) generateQuote(ctx context.Context, req *mcp.CallToolRequest, params *generateQuoteParams) (*mcp.CallToolResult, any, error) {
	q, err := s.quotes.Generate(ctx, quoteuc.GenerateInput{
		Customer: model.Customer{
			Name:  params.CustomerName,
			Email: params.CustomerEmail,
		},
		Description:      params.Description,
		ExistingCustomer: params.ExistingCustomer,
	})
	if err != nil {
		return nil, nil, err
	}

	return documentResult(q)
}

type getQuoteParams struct {
	QuoteID string `json:"quote_id" jsonschema:"Quote ID, e.g. Q-20260901120000"`
}

func (s *Server) getQuote(ctx context.Context, req *mcp.CallToolRequest, params *getQuoteParams) (*mcp.CallToolResult, any, error) {
	q, err := s.quotes.Get(ctx, model.QuoteID(params.QuoteID))
	if err != nil {
		return nil, nil, err
	}

	return documentResult(q)
}

type searchProjectsParams struct {
	Query string `json:"query" jsonschema:"Free-text description of the project to find similar references for"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 5)"`
}

func searchProjectsSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"query": {
				Type:        "string",
				Description: "Free-text description of the project to find similar references for",
			},
			"limit": {
				Type:        "integer",
				Description: "Maximum number of results (default 5)",
			},
		},
		Required: []string{"query"},
	}
}

func (s *Server) searchProjects(ctx context.Context, req *mcp.CallToolRequest, params *searchProjectsParams) (*mcp.CallToolResult, any, error) {
	if s.embedFn == nil {
		return nil, nil, goerr.New("project search requires the AI backend")
	}
	if params.Query == "" {
		return nil, nil, goerr.Wrap(model.ErrEmptyInput, "query is required")
	}

	limit := params.Limit
	if limit <= 0 {
		limit = quoteuc.DefaultSearchLimit
	}

	embedding, err := s.embedFn(ctx, params.Query)
	if err != nil {
		return nil, nil, err
	}

	hits, err := s.repo.SearchSimilarProjects(ctx, embedding, limit)
	if err != nil {
		return nil, nil, err
	}

	type hitDoc struct {
		ProjectID  model.ProjectID `json:"project_id"`
		Similarity float64         `json:"similarity"`
		Summary    string          `json:"summary"`
		Industry   string          `json:"industry"`
		Won        bool            `json:"won"`
	}
	docs := make([]hitDoc, 0, len(hits))
	for _, h := range hits {
		docs = append(docs, hitDoc{
			ProjectID:  h.Project.ID,
			Similarity: h.Similarity,
			Summary:    h.Project.RequirementsSummary,
			Industry:   h.Project.Industry,
			Won:        h.Project.Outcome.Won,
		})
	}

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to marshal search results")
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Found %d project(s):\n%s", len(docs), data)},
		},
	}, nil, nil
}

func documentResult(q *model.Quote) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(q.Document(), "", "  ")
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to marshal quote document", goerr.Value("quote_id", q.ID))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

package model

import (
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/shopspring/decimal"
)

type ProjectID string

// NewProjectID generates a new unique ProjectID
func NewProjectID() ProjectID {
	return ProjectID(uuid.New().String())
}

// Outcome records how a historical project went after delivery.
type Outcome struct {
	Won          bool    `json:"won" yaml:"won"`
	ActualMargin float64 `json:"actual_margin" yaml:"actual_margin"`
	Lessons      string  `json:"lessons" yaml:"lessons"`
}

// ReferenceProject is an indexed historical project. It is immutable once
// indexed; re-indexing the same ID replaces the entry atomically.
type ReferenceProject struct {
	ID                  ProjectID
	RequirementsSummary string
	Industry            string
	Disciplines         []string
	Budget              decimal.Decimal
	BOM                 []BomItem
	Outcome             Outcome
	Embedding           firestore.Vector32
	IndexedAt           time.Time
}

// Validate rejects projects that must not enter the index.
func (p *ReferenceProject) Validate() error {
	if p.ID == "" {
		return goerr.Wrap(ErrInvalidInput, "project ID is empty")
	}
	if strings.TrimSpace(p.RequirementsSummary) == "" {
		return goerr.Wrap(ErrInvalidInput, "requirements summary is empty", goerr.Value("project_id", p.ID))
	}
	if p.Budget.IsNegative() {
		return goerr.Wrap(ErrInvalidInput, "budget is negative", goerr.Value("project_id", p.ID))
	}
	return nil
}

// EmbeddingText is the text the knowledge store embeds for this project:
// requirements summary concatenated with industry and disciplines.
func (p *ReferenceProject) EmbeddingText() string {
	parts := []string{p.RequirementsSummary}
	if p.Industry != "" {
		parts = append(parts, p.Industry)
	}
	if len(p.Disciplines) > 0 {
		parts = append(parts, strings.Join(p.Disciplines, " "))
	}
	return strings.Join(parts, "\n")
}

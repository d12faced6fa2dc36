package model

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

type QuoteID string

type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
	QuoteStatusExpired  QuoteStatus = "expired"
)

type RecommendedAction string

const (
	ActionSendImmediately       RecommendedAction = "SEND_IMMEDIATELY"
	ActionReviewAndSend         RecommendedAction = "REVIEW_AND_SEND"
	ActionRefineRequirements    RecommendedAction = "REFINE_REQUIREMENTS"
	ActionScheduleDiscoveryCall RecommendedAction = "SCHEDULE_DISCOVERY_CALL"
)

// QuoteValidity is how long a generated quote stays valid.
const QuoteValidity = 30 * 24 * time.Hour

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate rejects customers that must not enter the pipeline.
func (c *Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return goerr.Wrap(ErrInvalidInput, "customer name is empty")
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return goerr.Wrap(ErrInvalidInput, "customer email is malformed", goerr.Value("email", c.Email))
	}
	return nil
}

// Quote is the aggregate root produced by the orchestrator. Its priced
// content is immutable once generated; only Status changes afterwards.
type Quote struct {
	ID                QuoteID
	Customer          Customer
	Requirement       Requirement
	BOM               BOM
	Labor             LaborEstimate
	Pricing           PricingResult
	SimilarProjects   []ProjectID
	OverallConfidence float64
	RequiresReview    bool
	RecommendedAction RecommendedAction
	PolicyViolations  []string
	GeneratedAt       time.Time
	ValidUntil        time.Time
	Status            QuoteStatus
}

var (
	quoteIDMu  sync.Mutex
	lastIDBase string
	lastIDSeq  int
)

// NewQuoteID generates a quote ID of the form Q-<YYYYMMDDHHMMSS>. IDs are
// unique even under concurrent calls within the same second: collisions
// get a monotonic suffix, which keeps string ordering aligned with
// creation order.
func NewQuoteID(t time.Time) QuoteID {
	quoteIDMu.Lock()
	defer quoteIDMu.Unlock()

	base := t.UTC().Format("20060102150405")
	if base == lastIDBase {
		lastIDSeq++
		return QuoteID(fmt.Sprintf("Q-%s-%03d", base, lastIDSeq))
	}

	lastIDBase = base
	lastIDSeq = 0
	return QuoteID("Q-" + base)
}

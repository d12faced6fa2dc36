// Package pricing selects a markup strategy and turns cost into price:
// markup, sequential adjustments, payment schedule and a heuristic win
// probability.
package pricing

import (
	"fmt"
	"time"

	"github.com/flowkraft/quotient/pkg/model"
	"github.com/flowkraft/quotient/pkg/repository"
	"github.com/shopspring/decimal"
)

// Config holds the immutable pricing tables.
type Config struct {
	// Flat markups (percent).
	PenetrationMarkup decimal.Decimal
	CompetitiveMarkup decimal.Decimal
	CostPlusMarkup    decimal.Decimal

	// Scaled markup ranges (percent).
	ValueBasedMin decimal.Decimal
	ValueBasedMax decimal.Decimal
	PremiumMin    decimal.Decimal
	PremiumMax    decimal.Decimal

	// ValueBasedComplexity is the complexity score above which the
	// value_based strategy triggers.
	ValueBasedComplexity int

	// Rush adjustment: applies below the timeline threshold, scaled by
	// urgency between the min and max percentages.
	RushThresholdMonths int
	RushMinPercent      decimal.Decimal
	RushMaxPercent      decimal.Decimal

	// HazardousPercent is the fixed surcharge for hazardous-area or
	// certified-equipment scope.
	HazardousPercent decimal.Decimal

	// RareDeliverables trigger the premium strategy.
	RareDeliverables []string

	// Budget sweet spot: totals inside this range won more often
	// historically.
	SweetSpotMin decimal.Decimal
	SweetSpotMax decimal.Decimal
}

// DefaultConfig returns the stock pricing tables.
func DefaultConfig() Config {
	return Config{
		PenetrationMarkup:    decimal.NewFromInt(20),
		CompetitiveMarkup:    decimal.NewFromInt(25),
		CostPlusMarkup:       decimal.NewFromInt(30),
		ValueBasedMin:        decimal.NewFromInt(35),
		ValueBasedMax:        decimal.NewFromInt(45),
		PremiumMin:           decimal.NewFromInt(40),
		PremiumMax:           decimal.NewFromInt(50),
		ValueBasedComplexity: 75,
		RushThresholdMonths:  3,
		RushMinPercent:       decimal.NewFromInt(10),
		RushMaxPercent:       decimal.NewFromInt(20),
		HazardousPercent:     decimal.NewFromInt(5),
		RareDeliverables:     []string{"data historian", "vision system", "robotics integration", "digital twin"},
		SweetSpotMin:         decimal.NewFromInt(50_000),
		SweetSpotMax:         decimal.NewFromInt(500_000),
	}
}

// Engine prices a quote request.
type Engine struct {
	cfg Config
	now func() time.Time
}

// Option is a functional option for Engine
type Option func(*Engine)

// WithClock overrides the recency clock (used in tests).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates a pricing engine.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg: cfg,
		now: time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Price computes the pricing result. Given identical inputs the output is
// reproducible byte for byte.
func (e *Engine) Price(bomCost, laborCost decimal.Decimal, req *model.Requirement, existingCustomer bool, similar []*repository.ScoredProject) *model.PricingResult {
	strategy, markupPct := e.selectStrategy(req, existingCustomer, similar)

	baseCost := bomCost.Add(laborCost)
	markupAmount := baseCost.Mul(markupPct).Div(decimal.NewFromInt(100)).Round(2)
	subtotal := baseCost.Add(markupAmount)

	adjustments := e.adjustments(subtotal, req)

	total := subtotal
	for _, a := range adjustments {
		total = total.Add(a.Amount)
	}

	result := &model.PricingResult{
		Strategy:         strategy,
		MarkupPercentage: markupPct,
		MarkupAmount:     markupAmount,
		Adjustments:      adjustments,
		Subtotal:         subtotal,
		Total:            total,
		PaymentSchedule:  paymentSchedule(total, existingCustomer),
		WinProbability:   e.winProbability(strategy, total, similar),
	}

	if existingCustomer {
		result.Confidence = 0.8
	} else {
		result.Confidence = 0.6
	}

	return result
}

// selectStrategy applies the strategy rules in order; the first match
// wins.
func (e *Engine) selectStrategy(req *model.Requirement, existingCustomer bool, similar []*repository.ScoredProject) (model.Strategy, decimal.Decimal) {
	if !existingCustomer {
		return model.StrategyPenetration, e.cfg.PenetrationMarkup
	}

	if req.HasStandard("62443") || req.HasStandard("cybersecurity") || req.ComplexityScore > e.cfg.ValueBasedComplexity {
		return model.StrategyValueBased, e.valueBasedMarkup(req.ComplexityScore)
	}

	if priceSensitive(similar) {
		return model.StrategyCompetitive, e.cfg.CompetitiveMarkup
	}

	if rare := e.rareDeliverables(req); rare > 0 {
		return model.StrategyPremium, e.premiumMarkup(rare)
	}

	return model.StrategyCostPlus, e.cfg.CostPlusMarkup
}

// valueBasedMarkup scales between the min and max by how far complexity
// exceeds the trigger threshold.
func (e *Engine) valueBasedMarkup(complexity int) decimal.Decimal {
	over := complexity - e.cfg.ValueBasedComplexity
	if over <= 0 {
		return e.cfg.ValueBasedMin
	}

	span := 100 - e.cfg.ValueBasedComplexity
	scale := decimal.NewFromInt(int64(over)).Div(decimal.NewFromInt(int64(span)))
	markup := e.cfg.ValueBasedMin.Add(e.cfg.ValueBasedMax.Sub(e.cfg.ValueBasedMin).Mul(scale)).Round(1)
	if markup.GreaterThan(e.cfg.ValueBasedMax) {
		return e.cfg.ValueBasedMax
	}
	return markup
}

// premiumMarkup grows with the number of rare deliverables, capped at the
// configured maximum.
func (e *Engine) premiumMarkup(rareCount int) decimal.Decimal {
	markup := e.cfg.PremiumMin.Add(decimal.NewFromInt(int64(2 * rareCount)))
	if markup.GreaterThan(e.cfg.PremiumMax) {
		return e.cfg.PremiumMax
	}
	return markup
}

func (e *Engine) rareDeliverables(req *model.Requirement) int {
	count := 0
	for _, d := range req.Deliverables {
		for _, rare := range e.cfg.RareDeliverables {
			if d == rare {
				count++
				break
			}
		}
	}
	return count
}

// priceSensitive reads the customer's history: when at least half of the
// retrieved similar projects were lost, the market is treated as price
// sensitive.
func priceSensitive(similar []*repository.ScoredProject) bool {
	if len(similar) < 2 {
		return false
	}
	lost := 0
	for _, s := range similar {
		if !s.Project.Outcome.Won {
			lost++
		}
	}
	return lost*2 >= len(similar)
}

// adjustments applies the sequential percentage-of-subtotal additions.
// Every non-zero adjustment is logged with a description; none is
// silently dropped.
func (e *Engine) adjustments(subtotal decimal.Decimal, req *model.Requirement) []model.Adjustment {
	var adjustments []model.Adjustment
	hundred := decimal.NewFromInt(100)

	if req.TimelineMonths > 0 && req.TimelineMonths < e.cfg.RushThresholdMonths {
		// Scale between min and max by how far under the threshold the
		// timeline is.
		span := e.cfg.RushMaxPercent.Sub(e.cfg.RushMinPercent)
		urgency := decimal.NewFromInt(int64(e.cfg.RushThresholdMonths - req.TimelineMonths)).
			Div(decimal.NewFromInt(int64(e.cfg.RushThresholdMonths)))
		pct := e.cfg.RushMinPercent.Add(span.Mul(urgency)).Round(1)

		adjustments = append(adjustments, model.Adjustment{
			Description: fmt.Sprintf("Rush delivery surcharge (%d month timeline, +%s%%)", req.TimelineMonths, pct.String()),
			Amount:      subtotal.Mul(pct).Div(hundred).Round(2),
		})
	}

	if req.HazardousArea {
		adjustments = append(adjustments, model.Adjustment{
			Description: fmt.Sprintf("Hazardous-area certified equipment (+%s%%)", e.cfg.HazardousPercent.String()),
			Amount:      subtotal.Mul(e.cfg.HazardousPercent).Div(hundred).Round(2),
		})
	}

	return adjustments
}

// paymentSchedule is 30/40/30 for new customers and 20/40/40 for
// existing ones. The last milestone absorbs rounding so amounts sum to
// the exact total.
func paymentSchedule(total decimal.Decimal, existingCustomer bool) []model.Milestone {
	percentages := []int{30, 40, 30}
	if existingCustomer {
		percentages = []int{20, 40, 40}
	}
	milestones := []string{"project_signing", "design_approval_or_fat", "completion"}

	hundred := decimal.NewFromInt(100)
	schedule := make([]model.Milestone, 0, len(milestones))
	allocated := decimal.Zero
	for i, name := range milestones {
		var amount decimal.Decimal
		if i == len(milestones)-1 {
			amount = total.Sub(allocated)
		} else {
			amount = total.Mul(decimal.NewFromInt(int64(percentages[i]))).Div(hundred).Round(2)
			allocated = allocated.Add(amount)
		}
		schedule = append(schedule, model.Milestone{
			Milestone:  name,
			Percentage: percentages[i],
			Amount:     amount,
		})
	}
	return schedule
}

// winProbability is a heuristic, not a calibrated model: strategy skew,
// similar-project count and recency, and the budget sweet spot. Clamped
// to [0.1, 0.9] so it never reports certainty.
func (e *Engine) winProbability(strategy model.Strategy, total decimal.Decimal, similar []*repository.ScoredProject) float64 {
	var p float64
	switch strategy {
	case model.StrategyPenetration:
		p = 0.65
	case model.StrategyCompetitive:
		p = 0.60
	case model.StrategyCostPlus:
		p = 0.50
	case model.StrategyValueBased:
		p = 0.45
	case model.StrategyPremium:
		p = 0.35
	}

	count := len(similar)
	if count > 3 {
		count = 3
	}
	p += 0.05 * float64(count)

	for _, s := range similar {
		if e.now().Sub(s.Project.IndexedAt) < 365*24*time.Hour {
			p += 0.05
			break
		}
	}

	if total.GreaterThanOrEqual(e.cfg.SweetSpotMin) && total.LessThanOrEqual(e.cfg.SweetSpotMax) {
		p += 0.10
	} else {
		p -= 0.05
	}

	if p < 0.1 {
		p = 0.1
	}
	if p > 0.9 {
		p = 0.9
	}
	return p
}

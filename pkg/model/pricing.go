package model

import "github.com/shopspring/decimal"

// Strategy is one of the five named markup policies.
type Strategy string

const (
	StrategyCostPlus    Strategy = "cost_plus"
	StrategyValueBased  Strategy = "value_based"
	StrategyCompetitive Strategy = "competitive"
	StrategyPenetration Strategy = "penetration"
	StrategyPremium     Strategy = "premium"
)

// Adjustment is a logged percentage-of-subtotal addition, e.g. a rush
// delivery surcharge. No non-zero adjustment is ever silently dropped.
type Adjustment struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Milestone is one entry of the payment schedule. Percentages over the
// whole schedule sum to 100.
type Milestone struct {
	Milestone  string          `json:"milestone"`
	Percentage int             `json:"percentage"`
	Amount     decimal.Decimal `json:"amount"`
}

// PricingResult is the outcome of strategy selection and markup.
type PricingResult struct {
	Strategy         Strategy
	MarkupPercentage decimal.Decimal
	MarkupAmount     decimal.Decimal
	Adjustments      []Adjustment
	Subtotal         decimal.Decimal
	Total            decimal.Decimal
	PaymentSchedule  []Milestone
	WinProbability   float64
	Confidence       float64
}

// AdjustmentTotal sums all adjustment amounts.
func (p *PricingResult) AdjustmentTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Adjustments {
		total = total.Add(a.Amount)
	}
	return total
}

package pricing_test

import (
	"testing"
	"time"

	"github.com/flowkraft/quotient/pkg/model"
	"github.com/flowkraft/quotient/pkg/pricing"
	"github.com/flowkraft/quotient/pkg/repository"
	"github.com/m-mizutani/gt"
	"github.com/shopspring/decimal"
)

func fixedClock() func() time.Time {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func scoredProject(won bool, indexedAt time.Time) *repository.ScoredProject {
	return &repository.ScoredProject{
		Project: &model.ReferenceProject{
			ID:        model.NewProjectID(),
			Outcome:   model.Outcome{Won: won},
			IndexedAt: indexedAt,
		},
		Similarity: 0.8,
	}
}

func TestStrategyNewCustomer(t *testing.T) {
	e := pricing.New(pricing.DefaultConfig(), pricing.WithClock(fixedClock()))

	result := e.Price(
		decimal.NewFromInt(10_000), decimal.NewFromInt(40_000),
		&model.Requirement{ComplexityScore: 50},
		false, nil,
	)

	gt.Equal(t, result.Strategy, model.StrategyPenetration)
	gt.Equal(t, result.MarkupPercentage.String(), "20")
	// (10000+40000) * 20% = 10000 markup.
	gt.Equal(t, result.MarkupAmount.StringFixed(2), "10000.00")
	gt.Equal(t, result.Subtotal.StringFixed(2), "60000.00")
	gt.Number(t, result.Confidence).Equal(0.6)
}

func TestStrategyValueBased(t *testing.T) {
	e := pricing.New(pricing.DefaultConfig(), pricing.WithClock(fixedClock()))

	// Compliance trigger at the minimum markup.
	byStandard := e.Price(
		decimal.NewFromInt(10_000), decimal.NewFromInt(40_000),
		&model.Requirement{
			ComplexityScore:     50,
			ComplianceStandards: []string{"IEC 62443"},
		},
		true, nil,
	)
	gt.Equal(t, byStandard.Strategy, model.StrategyValueBased)
	gt.Equal(t, byStandard.MarkupPercentage.String(), "35")

	// Complexity trigger scales toward the maximum.
	byComplexity := e.Price(
		decimal.NewFromInt(10_000), decimal.NewFromInt(40_000),
		&model.Requirement{ComplexityScore: 100},
		true, nil,
	)
	gt.Equal(t, byComplexity.Strategy, model.StrategyValueBased)
	gt.Equal(t, byComplexity.MarkupPercentage.String(), "45")
}

func TestStrategyCompetitive(t *testing.T) {
	e := pricing.New(pricing.DefaultConfig(), pricing.WithClock(fixedClock()))
	indexed := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	similar := []*repository.ScoredProject{
		scoredProject(false, indexed),
		scoredProject(false, indexed),
		scoredProject(true, indexed),
	}

	result := e.Price(
		decimal.NewFromInt(20_000), decimal.NewFromInt(30_000),
		&model.Requirement{ComplexityScore: 40},
		true, similar,
	)

	gt.Equal(t, result.Strategy, model.StrategyCompetitive)
	gt.Equal(t, result.MarkupPercentage.String(), "25")
}

func TestStrategyPremium(t *testing.T) {
	e := pricing.New(pricing.DefaultConfig(), pricing.WithClock(fixedClock()))

	result := e.Price(
		decimal.NewFromInt(20_000), decimal.NewFromInt(30_000),
		&model.Requirement{
			ComplexityScore: 40,
			Deliverables:    []string{"PLC programming", "vision system"},
		},
		true, nil,
	)

	gt.Equal(t, result.Strategy, model.StrategyPremium)
	gt.Equal(t, result.MarkupPercentage.String(), "42")
}

func TestStrategyCostPlusDefault(t *testing.T) {
	e := pricing.New(pricing.DefaultConfig(), pricing.WithClock(fixedClock()))

	result := e.Price(
		decimal.NewFromInt(20_000), decimal.NewFromInt(30_000),
		&model.Requirement{ComplexityScore: 40},
		true, nil,
	)

	gt.Equal(t, result.Strategy, model.StrategyCostPlus)
	gt.Equal(t, result.MarkupPercentage.String(), "30")
	gt.Number(t, result.Confidence).Equal(0.8)
}

func TestRushAdjustment(t *testing.T) {
	e := pricing.New(pricing.DefaultConfig(), pricing.WithClock(fixedClock()))

	result := e.Price(
		decimal.NewFromInt(20_000), decimal.NewFromInt(30_000),
		&model.Requirement{ComplexityScore: 40, TimelineMonths: 2},
		true, nil,
	)

	gt.A(t, result.Adjustments).Length(1)
	gt.S(t, result.Adjustments[0].Description).Contains("Rush")
	// Subtotal 65000, rush at 10 + 10*(1/3) = 13.3%.
	gt.Equal(t, result.Adjustments[0].Amount.StringFixed(2), "8645.00")
	gt.Equal(t, result.Total.StringFixed(2), "73645.00")
}

func TestHazardousAdjustment(t *testing.T) {
	e := pricing.New(pricing.DefaultConfig(), pricing.WithClock(fixedClock()))

	result := e.Price(
		decimal.NewFromInt(20_000), decimal.NewFromInt(30_000),
		&model.Requirement{ComplexityScore: 40, HazardousArea: true},
		true, nil,
	)

	gt.A(t, result.Adjustments).Length(1)
	gt.S(t, result.Adjustments[0].Description).Contains("Hazardous")
	// 5% of the 65000 subtotal.
	gt.Equal(t, result.Adjustments[0].Amount.StringFixed(2), "3250.00")
}

func TestNoTimelineMeansNoRush(t *testing.T) {
	e := pricing.New(pricing.DefaultConfig(), pricing.WithClock(fixedClock()))

	result := e.Price(
		decimal.NewFromInt(20_000), decimal.NewFromInt(30_000),
		&model.Requirement{ComplexityScore: 40, TimelineMonths: 0},
		true, nil,
	)

	gt.A(t, result.Adjustments).Length(0)
}

func TestPaymentScheduleExact(t *testing.T) {
	e := pricing.New(pricing.DefaultConfig(), pricing.WithClock(fixedClock()))

	// A total that does not divide evenly.
	result := e.Price(
		decimal.NewFromFloat(10_000.01), decimal.NewFromInt(23_456),
		&model.Requirement{ComplexityScore: 40},
		true, nil,
	)

	gt.A(t, result.PaymentSchedule).Length(3)
	gt.Equal(t, result.PaymentSchedule[0].Percentage, 20)
	gt.Equal(t, result.PaymentSchedule[1].Percentage, 40)
	gt.Equal(t, result.PaymentSchedule[2].Percentage, 40)

	sum := decimal.Zero
	for _, m := range result.PaymentSchedule {
		sum = sum.Add(m.Amount)
	}
	gt.True(t, sum.Equal(result.Total))
}

func TestPaymentScheduleNewCustomer(t *testing.T) {
	e := pricing.New(pricing.DefaultConfig(), pricing.WithClock(fixedClock()))

	result := e.Price(
		decimal.NewFromInt(20_000), decimal.NewFromInt(30_000),
		&model.Requirement{ComplexityScore: 40},
		false, nil,
	)

	gt.Equal(t, result.PaymentSchedule[0].Percentage, 30)
	gt.Equal(t, result.PaymentSchedule[1].Percentage, 40)
	gt.Equal(t, result.PaymentSchedule[2].Percentage, 30)
}

func TestWinProbabilityBounds(t *testing.T) {
	e := pricing.New(pricing.DefaultConfig(), pricing.WithClock(fixedClock()))
	indexed := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	similar := []*repository.ScoredProject{
		scoredProject(true, indexed),
		scoredProject(true, indexed),
		scoredProject(true, indexed),
		scoredProject(true, indexed),
	}

	// Penetration base with full history bonuses, total in the sweet spot.
	best := e.Price(
		decimal.NewFromInt(50_000), decimal.NewFromInt(50_000),
		&model.Requirement{ComplexityScore: 40},
		false, similar,
	)
	gt.Number(t, best.WinProbability).LessOrEqual(0.9)
	gt.Number(t, best.WinProbability).Greater(0.5)

	// Premium base with no history and a total outside the sweet spot.
	worst := e.Price(
		decimal.NewFromInt(400_000), decimal.NewFromInt(400_000),
		&model.Requirement{
			ComplexityScore: 40,
			Deliverables:    []string{"digital twin"},
		},
		true, nil,
	)
	gt.Number(t, worst.WinProbability).GreaterOrEqual(0.1)
	gt.Number(t, worst.WinProbability).Less(best.WinProbability)
}

func TestDeterministicPricing(t *testing.T) {
	e := pricing.New(pricing.DefaultConfig(), pricing.WithClock(fixedClock()))

	req := &model.Requirement{ComplexityScore: 80, TimelineMonths: 2, HazardousArea: true}

	a := e.Price(decimal.NewFromInt(12_345), decimal.NewFromInt(67_890), req, true, nil)
	b := e.Price(decimal.NewFromInt(12_345), decimal.NewFromInt(67_890), req, true, nil)

	gt.True(t, a.Total.Equal(b.Total))
	gt.Equal(t, a.Strategy, b.Strategy)
	gt.Number(t, a.WinProbability).Equal(b.WinProbability)
}

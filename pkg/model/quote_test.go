package model_test

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/flowkraft/quotient/pkg/model"
	"github.com/m-mizutani/gt"
	"github.com/shopspring/decimal"
)

func TestNewQuoteID(t *testing.T) {
	ts := time.Date(2026, 9, 1, 12, 30, 45, 0, time.UTC)

	id := model.NewQuoteID(ts)
	gt.Equal(t, id, model.QuoteID("Q-20260901123045"))
}

func TestNewQuoteIDCollision(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	first := model.NewQuoteID(ts)
	second := model.NewQuoteID(ts)
	third := model.NewQuoteID(ts)

	gt.NotEqual(t, first, second)
	gt.NotEqual(t, second, third)
	gt.S(t, string(second)).Contains("Q-20260314092653-")
	// String ordering follows creation order within the same second.
	gt.True(t, string(first) < string(second))
	gt.True(t, string(second) < string(third))
}

func TestNewQuoteIDLocalTime(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	ts := time.Date(2026, 1, 1, 9, 0, 0, 0, loc)

	id := model.NewQuoteID(ts)
	gt.S(t, string(id)).Contains("Q-20260101000000")
}

func TestCustomerValidate(t *testing.T) {
	ok := model.Customer{Name: "Acme Water", Email: "ops@acme.example"}
	gt.NoError(t, ok.Validate())

	noEmail := model.Customer{Name: "Acme Water"}
	gt.NoError(t, noEmail.Validate())

	empty := model.Customer{Name: "   "}
	err := empty.Validate()
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrInvalidInput))

	badEmail := model.Customer{Name: "Acme Water", Email: "not-an-email"}
	err = badEmail.Validate()
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrInvalidInput))
}

func testQuote() *model.Quote {
	generated := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	return &model.Quote{
		ID:       "Q-20260901100000",
		Customer: model.Customer{Name: "Acme Water"},
		Requirement: model.Requirement{
			ScopeSummary:         "Pump station control upgrade",
			Industry:             "water_wastewater",
			ComplianceStandards:  []string{"IEC 62443"},
			TimelineMonths:       6,
			ComplexityScore:      55,
			IOCounts:             model.IOCounts{AnalogIn: 16, DigitalIn: 32, DigitalOut: 16},
			Deliverables:         []string{"PLC programming", "HMI application"},
			ExtractionConfidence: 0.9,
			ExtractionMethod:     model.ExtractionMethodAI,
		},
		BOM: model.BOM{
			Items: []model.BomItem{
				{
					Category:  "analog_input_module",
					Vendor:    "Allen-Bradley",
					Quantity:  2,
					UnitCost:  decimal.NewFromInt(500),
					TotalCost: decimal.NewFromInt(1000),
					Source:    model.BomSourceCatalog,
				},
				{
					Category:  "plc_small",
					Vendor:    "TBD",
					Quantity:  1,
					UnitCost:  decimal.NewFromInt(1400),
					TotalCost: decimal.NewFromInt(1400),
					Source:    model.BomSourceEstimate,
				},
			},
			Confidence: 0.5,
		},
		Labor: model.LaborEstimate{
			Breakdown: map[model.LaborPhase]model.PhaseEstimate{
				model.PhaseEngineering: {Hours: 100, Rate: decimal.NewFromInt(145), Cost: decimal.NewFromInt(14500)},
				model.PhaseTraining:    {Hours: 16, Rate: decimal.NewFromInt(85), Cost: decimal.NewFromInt(1360)},
			},
			BaseHours:        116,
			AdjustmentFactor: 1.0,
			AdjustedHours:    116,
			TotalCost:        decimal.NewFromInt(15860),
			Confidence:       0.85,
		},
		Pricing: model.PricingResult{
			Strategy:         model.StrategyCostPlus,
			MarkupPercentage: decimal.NewFromInt(30),
			MarkupAmount:     decimal.NewFromInt(5178),
			Subtotal:         decimal.NewFromInt(22438),
			Total:            decimal.NewFromInt(22438),
			PaymentSchedule: []model.Milestone{
				{Milestone: "project_signing", Percentage: 30, Amount: decimal.NewFromFloat(6731.40)},
				{Milestone: "design_approval_or_fat", Percentage: 40, Amount: decimal.NewFromFloat(8975.20)},
				{Milestone: "completion", Percentage: 30, Amount: decimal.NewFromFloat(6731.40)},
			},
			WinProbability: 0.6,
			Confidence:     0.8,
		},
		OverallConfidence: 0.82,
		RequiresReview:    true,
		RecommendedAction: model.ActionReviewAndSend,
		GeneratedAt:       generated,
		ValidUntil:        generated.Add(model.QuoteValidity),
		Status:            model.QuoteStatusDraft,
	}
}

func TestQuoteDocument(t *testing.T) {
	q := testQuote()
	doc := q.Document()

	gt.Equal(t, doc.QuoteID, q.ID)
	gt.Equal(t, doc.ProjectOverview.Industry, "water_wastewater")
	gt.A(t, doc.BillOfMaterials.Items).Length(2)
	gt.Number(t, doc.BillOfMaterials.Summary.TotalMaterialCost).Equal(2400)
	gt.Number(t, doc.LaborEstimate.TotalHours).Equal(116)
	gt.Number(t, doc.LaborEstimate.TotalCost).Equal(15860)
	gt.Equal(t, doc.Pricing.Strategy, model.StrategyCostPlus)
	gt.Number(t, doc.Pricing.Pricing.Total).Equal(22438)
	gt.Equal(t, doc.Approval.RecommendedAction, model.ActionReviewAndSend)
	gt.True(t, doc.Approval.RequiresReview)
	gt.Equal(t, doc.ValidUntil, q.GeneratedAt.Add(30*24*time.Hour))
}

func TestQuoteDocumentJSONShape(t *testing.T) {
	q := testQuote()

	data, err := json.Marshal(q.Document())
	gt.NoError(t, err)

	body := string(data)
	for _, key := range []string{
		`"quote_id"`,
		`"project_overview"`,
		`"bill_of_materials"`,
		`"total_material_cost"`,
		`"labor_estimate"`,
		`"pricing"`,
		`"payment_terms"`,
		`"win_probability"`,
		`"approval"`,
		`"overall_confidence"`,
		`"recommended_action"`,
	} {
		gt.S(t, body).Contains(key)
	}

	// Milestone amounts sum to the exact total.
	var doc model.QuoteDocument
	gt.NoError(t, json.Unmarshal(data, &doc))
	sum := 0.0
	for _, m := range doc.Pricing.PaymentTerms {
		sum += m.Amount
	}
	gt.True(t, math.Abs(sum-doc.Pricing.Pricing.Total) < 1e-6)
}

func TestRequirementNormalize(t *testing.T) {
	r := &model.Requirement{ComplexityScore: 140}
	r.Normalize()

	gt.Equal(t, r.ScopeSummary, model.Unknown)
	gt.Equal(t, r.Industry, model.Unknown)
	gt.NotNil(t, r.ComplianceStandards)
	gt.NotNil(t, r.Deliverables)
	gt.Equal(t, r.ComplexityScore, 100)
}

func TestRequirementHasStandard(t *testing.T) {
	r := &model.Requirement{ComplianceStandards: []string{"IEC 62443", "UL 508A"}}

	gt.True(t, r.HasStandard("62443"))
	gt.True(t, r.HasStandard("ul 508a"))
	gt.False(t, r.HasStandard("61511"))
}

func TestRequirementSearchText(t *testing.T) {
	r := &model.Requirement{
		ScopeSummary: "Bottling line automation",
		Industry:     model.Unknown,
		Deliverables: []string{"PLC programming"},
	}

	text := r.SearchText()
	gt.S(t, text).Contains("Bottling line automation")
	gt.S(t, text).Contains("PLC programming")
	gt.False(t, strings.Contains(text, model.Unknown))
}

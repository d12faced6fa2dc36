package model

import "time"

// QuoteDocument is the stable JSON shape consumed by the CRM and
// communication collaborators. Money is rendered as plain numbers at
// currency precision.

type QuoteDocument struct {
	QuoteID         QuoteID     `json:"quote_id"`
	Customer        Customer    `json:"customer"`
	ProjectOverview OverviewDoc `json:"project_overview"`
	BillOfMaterials BomDoc      `json:"bill_of_materials"`
	LaborEstimate   LaborDoc    `json:"labor_estimate"`
	Pricing         PricingDoc  `json:"pricing"`
	Approval        ApprovalDoc `json:"approval"`
	GeneratedAt     time.Time   `json:"generated_at"`
	ValidUntil      time.Time   `json:"valid_until"`
	Status          QuoteStatus `json:"status"`
}

type OverviewDoc struct {
	ScopeSummary        string      `json:"scope_summary"`
	Industry            string      `json:"industry"`
	ComplianceStandards []string    `json:"compliance_standards"`
	TimelineMonths      int         `json:"timeline_months"`
	ComplexityScore     int         `json:"complexity_score"`
	IOCounts            IOCounts    `json:"io_counts"`
	Deliverables        []string    `json:"deliverables"`
	ExtractionMethod    string      `json:"extraction_method"`
	SimilarProjects     []ProjectID `json:"similar_projects"`
}

type BomDoc struct {
	Items   []BomItemDoc `json:"items"`
	Summary BomSummary   `json:"summary"`
}

type BomItemDoc struct {
	Category    string  `json:"category"`
	Vendor      string  `json:"vendor"`
	PartNumber  string  `json:"part_number,omitempty"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitCost    float64 `json:"unit_cost"`
	TotalCost   float64 `json:"total_cost"`
	Source      string  `json:"source"`
}

type BomSummary struct {
	TotalMaterialCost float64 `json:"total_material_cost"`
}

type LaborDoc struct {
	Breakdown  map[string]PhaseDoc `json:"breakdown"`
	TotalHours float64             `json:"total_hours"`
	TotalCost  float64             `json:"total_cost"`
}

type PhaseDoc struct {
	Hours float64 `json:"hours"`
	Cost  float64 `json:"cost"`
}

type PricingDoc struct {
	Strategy       Strategy        `json:"strategy"`
	Markup         MarkupDoc       `json:"markup"`
	Pricing        PriceAmountsDoc `json:"pricing"`
	PaymentTerms   []MilestoneDoc  `json:"payment_terms"`
	WinProbability float64         `json:"win_probability"`
}

type MarkupDoc struct {
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"amount"`
}

type PriceAmountsDoc struct {
	Subtotal    float64         `json:"subtotal"`
	Adjustments []AdjustmentDoc `json:"adjustments"`
	Total       float64         `json:"total"`
}

type AdjustmentDoc struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type MilestoneDoc struct {
	Milestone  string  `json:"milestone"`
	Percentage int     `json:"percentage"`
	Amount     float64 `json:"amount"`
}

type ApprovalDoc struct {
	OverallConfidence float64           `json:"overall_confidence"`
	RequiresReview    bool              `json:"requires_review"`
	RecommendedAction RecommendedAction `json:"recommended_action"`
	PolicyViolations  []string          `json:"policy_violations,omitempty"`
}

// Document renders the quote into the stable output schema.
func (q *Quote) Document() QuoteDocument {
	items := make([]BomItemDoc, 0, len(q.BOM.Items))
	for _, item := range q.BOM.Items {
		items = append(items, BomItemDoc{
			Category:    item.Category,
			Vendor:      item.Vendor,
			PartNumber:  item.PartNumber,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitCost:    item.UnitCost.InexactFloat64(),
			TotalCost:   item.TotalCost.InexactFloat64(),
			Source:      string(item.Source),
		})
	}

	breakdown := make(map[string]PhaseDoc, len(q.Labor.Breakdown))
	for phase, est := range q.Labor.Breakdown {
		breakdown[string(phase)] = PhaseDoc{Hours: est.Hours, Cost: est.Cost.InexactFloat64()}
	}

	adjustments := make([]AdjustmentDoc, 0, len(q.Pricing.Adjustments))
	for _, a := range q.Pricing.Adjustments {
		adjustments = append(adjustments, AdjustmentDoc{Description: a.Description, Amount: a.Amount.InexactFloat64()})
	}

	terms := make([]MilestoneDoc, 0, len(q.Pricing.PaymentSchedule))
	for _, m := range q.Pricing.PaymentSchedule {
		terms = append(terms, MilestoneDoc{Milestone: m.Milestone, Percentage: m.Percentage, Amount: m.Amount.InexactFloat64()})
	}

	similar := q.SimilarProjects
	if similar == nil {
		similar = []ProjectID{}
	}

	return QuoteDocument{
		QuoteID:  q.ID,
		Customer: q.Customer,
		ProjectOverview: OverviewDoc{
			ScopeSummary:        q.Requirement.ScopeSummary,
			Industry:            q.Requirement.Industry,
			ComplianceStandards: q.Requirement.ComplianceStandards,
			TimelineMonths:      q.Requirement.TimelineMonths,
			ComplexityScore:     q.Requirement.ComplexityScore,
			IOCounts:            q.Requirement.IOCounts,
			Deliverables:        q.Requirement.Deliverables,
			ExtractionMethod:    string(q.Requirement.ExtractionMethod),
			SimilarProjects:     similar,
		},
		BillOfMaterials: BomDoc{
			Items:   items,
			Summary: BomSummary{TotalMaterialCost: q.BOM.TotalMaterialCost().InexactFloat64()},
		},
		LaborEstimate: LaborDoc{
			Breakdown:  breakdown,
			TotalHours: q.Labor.TotalHours(),
			TotalCost:  q.Labor.TotalCost.InexactFloat64(),
		},
		Pricing: PricingDoc{
			Strategy: q.Pricing.Strategy,
			Markup: MarkupDoc{
				Percentage: q.Pricing.MarkupPercentage.InexactFloat64(),
				Amount:     q.Pricing.MarkupAmount.InexactFloat64(),
			},
			Pricing: PriceAmountsDoc{
				Subtotal:    q.Pricing.Subtotal.InexactFloat64(),
				Adjustments: adjustments,
				Total:       q.Pricing.Total.InexactFloat64(),
			},
			PaymentTerms:   terms,
			WinProbability: q.Pricing.WinProbability,
		},
		Approval: ApprovalDoc{
			OverallConfidence: q.OverallConfidence,
			RequiresReview:    q.RequiresReview,
			RecommendedAction: q.RecommendedAction,
			PolicyViolations:  q.PolicyViolations,
		},
		GeneratedAt: q.GeneratedAt,
		ValidUntil:  q.ValidUntil,
		Status:      q.Status,
	}
}

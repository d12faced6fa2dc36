// Package labor derives the phased hour and cost breakdown from the
// extracted requirement and the generated BOM.
package labor

import (
	"math"

	"github.com/flowkraft/quotient/pkg/model"
	"github.com/shopspring/decimal"
)

// Config holds the immutable labor rate tables.
type Config struct {
	// Hourly rates per phase. Engineering > commissioning > installation
	// > training.
	Rates map[model.LaborPhase]decimal.Decimal

	// Base hours per phase by complexity bracket (low/mid/high).
	BaseHours map[string]map[model.LaborPhase]float64

	// Hours added per I/O point, per phase.
	HoursPerIO map[model.LaborPhase]float64

	// Installation hours added per BOM hardware unit (mounting, wiring,
	// panel work).
	InstallHoursPerModule float64

	// Training allotment: fixed base plus hours per deliverable.
	TrainingBaseHours           float64
	TrainingHoursPerDeliverable float64

	// Adjustment increments and ceiling.
	AdjustmentIncrement float64
	MaxAdjustment       float64
}

// DefaultConfig returns the stock rate tables.
func DefaultConfig() Config {
	return Config{
		Rates: map[model.LaborPhase]decimal.Decimal{
			model.PhaseEngineering:   decimal.NewFromInt(145),
			model.PhaseCommissioning: decimal.NewFromInt(125),
			model.PhaseInstallation:  decimal.NewFromInt(95),
			model.PhaseTraining:      decimal.NewFromInt(85),
		},
		BaseHours: map[string]map[model.LaborPhase]float64{
			"low": {
				model.PhaseEngineering:   40,
				model.PhaseInstallation:  24,
				model.PhaseCommissioning: 16,
			},
			"mid": {
				model.PhaseEngineering:   120,
				model.PhaseInstallation:  64,
				model.PhaseCommissioning: 40,
			},
			"high": {
				model.PhaseEngineering:   280,
				model.PhaseInstallation:  140,
				model.PhaseCommissioning: 96,
			},
		},
		HoursPerIO: map[model.LaborPhase]float64{
			model.PhaseEngineering:   0.5,
			model.PhaseInstallation:  0.3,
			model.PhaseCommissioning: 0.2,
		},
		InstallHoursPerModule:       1.5,
		TrainingBaseHours:           8,
		TrainingHoursPerDeliverable: 4,
		AdjustmentIncrement:         0.1,
		MaxAdjustment:               1.3,
	}
}

// Estimator computes labor estimates from fixed rate tables.
type Estimator struct {
	cfg Config
}

// New creates a labor estimator.
func New(cfg Config) *Estimator {
	return &Estimator{cfg: cfg}
}

// Estimate produces the phased labor estimate for a requirement and its
// generated BOM. Every BOM unit adds installation time on top of the
// per-I/O hours.
func (e *Estimator) Estimate(req *model.Requirement, bom *model.BOM) *model.LaborEstimate {
	bracket := complexityBracket(req.ComplexityScore)
	totalIO := req.IOCounts.Total()

	base := make(map[model.LaborPhase]float64, len(model.Phases))
	for _, phase := range model.Phases {
		base[phase] = e.cfg.BaseHours[bracket][phase] + e.cfg.HoursPerIO[phase]*float64(totalIO)
	}
	base[model.PhaseInstallation] += e.cfg.InstallHoursPerModule * float64(moduleQuantity(bom))
	base[model.PhaseTraining] = e.cfg.TrainingBaseHours + e.cfg.TrainingHoursPerDeliverable*float64(len(req.Deliverables))

	var baseHours float64
	for _, h := range base {
		baseHours += h
	}

	factor := e.adjustmentFactor(req)

	breakdown := make(map[model.LaborPhase]model.PhaseEstimate, len(base))
	totalCost := decimal.Zero
	for phase, hours := range base {
		adjusted := roundHours(hours * factor)
		rate := e.cfg.Rates[phase]
		cost := rate.Mul(decimal.NewFromFloat(adjusted)).Round(2)
		breakdown[phase] = model.PhaseEstimate{Hours: adjusted, Rate: rate, Cost: cost}
		totalCost = totalCost.Add(cost)
	}

	return &model.LaborEstimate{
		Breakdown:        breakdown,
		BaseHours:        baseHours,
		AdjustmentFactor: factor,
		AdjustedHours:    baseHours * factor,
		TotalCost:        totalCost,
		Confidence:       laborConfidence(req),
	}
}

// adjustmentFactor starts at 1.0 and grows by a fixed increment for each
// scope risk, capped at the configured ceiling.
func (e *Estimator) adjustmentFactor(req *model.Requirement) float64 {
	factor := 1.0
	if req.Brownfield {
		factor += e.cfg.AdjustmentIncrement
	}
	if req.SafetySystems {
		factor += e.cfg.AdjustmentIncrement
	}
	if req.MultiSite {
		factor += e.cfg.AdjustmentIncrement
	}
	if factor > e.cfg.MaxAdjustment {
		factor = e.cfg.MaxAdjustment
	}
	// Avoid float artifacts like 1.2000000000000002 in persisted quotes.
	return math.Round(factor*10) / 10
}

// laborConfidence is fixed per requirement-confidence tier.
func laborConfidence(req *model.Requirement) float64 {
	if req.ExtractionMethod == model.ExtractionMethodFallback {
		return 0.55
	}
	if req.ExtractionConfidence >= 0.85 {
		return 0.85
	}
	return 0.70
}

func moduleQuantity(bom *model.BOM) int {
	if bom == nil {
		return 0
	}
	total := 0
	for _, item := range bom.Items {
		total += item.Quantity
	}
	return total
}

func complexityBracket(score int) string {
	switch {
	case score <= 30:
		return "low"
	case score <= 60:
		return "mid"
	default:
		return "high"
	}
}

func roundHours(h float64) float64 {
	return math.Round(h*10) / 10
}

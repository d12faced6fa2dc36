package model

import "github.com/shopspring/decimal"

type LaborPhase string

const (
	PhaseEngineering   LaborPhase = "engineering"
	PhaseInstallation  LaborPhase = "installation"
	PhaseCommissioning LaborPhase = "commissioning"
	PhaseTraining      LaborPhase = "training"
)

// Phases lists all labor phases in reporting order.
var Phases = []LaborPhase{PhaseEngineering, PhaseInstallation, PhaseCommissioning, PhaseTraining}

// PhaseEstimate is the hour and cost breakdown for a single phase.
type PhaseEstimate struct {
	Hours float64         `json:"hours"`
	Rate  decimal.Decimal `json:"rate"`
	Cost  decimal.Decimal `json:"cost"`
}

// LaborEstimate is the phased labor estimate. AdjustedHours is always
// BaseHours * AdjustmentFactor, with the factor in [1.0, 1.3].
type LaborEstimate struct {
	Breakdown        map[LaborPhase]PhaseEstimate
	BaseHours        float64
	AdjustmentFactor float64
	AdjustedHours    float64
	TotalCost        decimal.Decimal
	Confidence       float64
}

// TotalHours sums adjusted hours over all phases.
func (l *LaborEstimate) TotalHours() float64 {
	var total float64
	for _, p := range l.Breakdown {
		total += p.Hours
	}
	return total
}

package labor_test

import (
	"math"
	"testing"

	"github.com/flowkraft/quotient/pkg/labor"
	"github.com/flowkraft/quotient/pkg/model"
	"github.com/m-mizutani/gt"
)

func TestEstimatePhases(t *testing.T) {
	e := labor.New(labor.DefaultConfig())

	req := &model.Requirement{
		ComplexityScore: 45, // mid bracket
		IOCounts:        model.IOCounts{AnalogIn: 20, DigitalIn: 60, DigitalOut: 20},
		Deliverables:    []string{"PLC programming", "HMI application"},
	}

	est := e.Estimate(req, &model.BOM{})

	gt.A(t, mapKeys(est.Breakdown)).Length(4)

	// Mid bracket engineering: 120 base + 0.5/IO * 100 = 170 hours.
	gt.Number(t, est.Breakdown[model.PhaseEngineering].Hours).Equal(170.0)
	// Installation: 64 + 0.3 * 100 = 94.
	gt.Number(t, est.Breakdown[model.PhaseInstallation].Hours).Equal(94.0)
	// Commissioning: 40 + 0.2 * 100 = 60.
	gt.Number(t, est.Breakdown[model.PhaseCommissioning].Hours).Equal(60.0)
	// Training: 8 base + 4 per deliverable.
	gt.Number(t, est.Breakdown[model.PhaseTraining].Hours).Equal(16.0)

	gt.Number(t, est.AdjustmentFactor).Equal(1.0)
	gt.Number(t, est.AdjustedHours).Equal(est.BaseHours)
}

func mapKeys(m map[model.LaborPhase]model.PhaseEstimate) []model.LaborPhase {
	keys := make([]model.LaborPhase, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func TestEstimateRates(t *testing.T) {
	e := labor.New(labor.DefaultConfig())

	req := &model.Requirement{ComplexityScore: 20} // low bracket, no IO
	est := e.Estimate(req, &model.BOM{})

	// Engineering 40h * 145 = 5800.
	gt.Equal(t, est.Breakdown[model.PhaseEngineering].Cost.StringFixed(2), "5800.00")
	// Training 8h * 85 = 680.
	gt.Equal(t, est.Breakdown[model.PhaseTraining].Cost.StringFixed(2), "680.00")

	var sum float64
	for _, phase := range est.Breakdown {
		sum += phase.Cost.InexactFloat64()
	}
	gt.True(t, math.Abs(sum-est.TotalCost.InexactFloat64()) < 1e-6)
}

func TestEstimateInstallationScalesWithBOM(t *testing.T) {
	e := labor.New(labor.DefaultConfig())

	req := &model.Requirement{
		ComplexityScore: 45,
		IOCounts:        model.IOCounts{AnalogIn: 20, DigitalIn: 60, DigitalOut: 20},
	}

	bare := e.Estimate(req, &model.BOM{})
	loaded := e.Estimate(req, &model.BOM{Items: []model.BomItem{
		{Category: "analog_input_module", Quantity: 3, Source: model.BomSourceCatalog},
		{Category: "plc_medium", Quantity: 1, Source: model.BomSourceEstimate},
	}})

	// Four hardware units at 1.5h each land on installation only.
	gt.Number(t, loaded.Breakdown[model.PhaseInstallation].Hours).
		Equal(bare.Breakdown[model.PhaseInstallation].Hours + 6.0)
	gt.Number(t, loaded.Breakdown[model.PhaseEngineering].Hours).
		Equal(bare.Breakdown[model.PhaseEngineering].Hours)
	gt.True(t, loaded.TotalCost.GreaterThan(bare.TotalCost))

	// A nil BOM behaves like an empty one.
	nilBOM := e.Estimate(req, nil)
	gt.Number(t, nilBOM.Breakdown[model.PhaseInstallation].Hours).
		Equal(bare.Breakdown[model.PhaseInstallation].Hours)
}

func TestEstimateAdjustmentFactor(t *testing.T) {
	e := labor.New(labor.DefaultConfig())

	one := e.Estimate(&model.Requirement{Brownfield: true}, &model.BOM{})
	gt.Number(t, one.AdjustmentFactor).Equal(1.1)

	two := e.Estimate(&model.Requirement{Brownfield: true, SafetySystems: true}, &model.BOM{})
	gt.Number(t, two.AdjustmentFactor).Equal(1.2)

	// Three risks would be 1.3; the cap keeps it there.
	three := e.Estimate(&model.Requirement{Brownfield: true, SafetySystems: true, MultiSite: true}, &model.BOM{})
	gt.Number(t, three.AdjustmentFactor).Equal(1.3)
}

func TestEstimateAdjustedHoursInvariant(t *testing.T) {
	e := labor.New(labor.DefaultConfig())

	req := &model.Requirement{
		ComplexityScore: 70,
		IOCounts:        model.IOCounts{DigitalIn: 250},
		Brownfield:      true,
		SafetySystems:   true,
	}
	est := e.Estimate(req, &model.BOM{})

	gt.True(t, math.Abs(est.AdjustedHours-est.BaseHours*est.AdjustmentFactor) < 1e-9)
	gt.True(t, est.AdjustedHours > est.BaseHours)
}

func TestLaborConfidence(t *testing.T) {
	e := labor.New(labor.DefaultConfig())

	fallback := e.Estimate(&model.Requirement{
		ExtractionMethod:     model.ExtractionMethodFallback,
		ExtractionConfidence: 0.45,
	}, &model.BOM{})
	gt.Number(t, fallback.Confidence).Equal(0.55)

	strongAI := e.Estimate(&model.Requirement{
		ExtractionMethod:     model.ExtractionMethodAI,
		ExtractionConfidence: 0.92,
	}, &model.BOM{})
	gt.Number(t, strongAI.Confidence).Equal(0.85)

	weakAI := e.Estimate(&model.Requirement{
		ExtractionMethod:     model.ExtractionMethodAI,
		ExtractionConfidence: 0.70,
	}, &model.BOM{})
	gt.Number(t, weakAI.Confidence).Equal(0.70)
}

package extract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/flowkraft/quotient/pkg/extract"
	"github.com/flowkraft/quotient/pkg/model"
	"github.com/m-mizutani/gt"
)

type fakeExtractor struct {
	req *model.Requirement
	err error
}

func (f *fakeExtractor) Extract(ctx context.Context, text string) (*model.Requirement, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.req, nil
}

func TestExtractorEmptyInput(t *testing.T) {
	x := extract.New(nil)

	_, err := x.Extract(context.Background(), "   \n\t ")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrEmptyInput))
}

func TestExtractorUsesPrimary(t *testing.T) {
	primary := &fakeExtractor{
		req: &model.Requirement{
			ScopeSummary:         "Conveyor control system",
			ComplexityScore:      40,
			ExtractionConfidence: 0.9,
			ExtractionMethod:     model.ExtractionMethodAI,
		},
	}
	x := extract.New(primary)

	req, err := x.Extract(context.Background(), "Conveyor control system for a warehouse")
	gt.NoError(t, err)
	gt.Equal(t, req.ExtractionMethod, model.ExtractionMethodAI)
	gt.Equal(t, req.ScopeSummary, "Conveyor control system")
	// Normalize fills the sentinels the fake left empty.
	gt.Equal(t, req.Industry, model.Unknown)
}

func TestExtractorFallsBackOnPrimaryFailure(t *testing.T) {
	primary := &fakeExtractor{err: errors.New("model overloaded")}
	x := extract.New(primary)

	req, err := x.Extract(context.Background(), "Tank farm with 40 analog inputs, 5 months")
	gt.NoError(t, err)
	gt.Equal(t, req.ExtractionMethod, model.ExtractionMethodFallback)
	gt.Equal(t, req.IOCounts.AnalogIn, 40)
	gt.Equal(t, req.TimelineMonths, 5)
}

func TestExtractorNoPrimary(t *testing.T) {
	x := extract.New(nil)

	req, err := x.Extract(context.Background(), "Mixing skid with 30 digital inputs")
	gt.NoError(t, err)
	gt.Equal(t, req.ExtractionMethod, model.ExtractionMethodFallback)
	gt.Equal(t, req.IOCounts.DigitalIn, 30)
}

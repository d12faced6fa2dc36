// Package bom builds a priced bill of materials from the extracted
// requirement and the parts catalog. Completeness wins over precision: a
// category without a catalog match still gets a placeholder line item.
package bom

import (
	"context"
	"errors"
	"fmt"

	"github.com/flowkraft/quotient/pkg/adapter"
	"github.com/flowkraft/quotient/pkg/model"
	"github.com/flowkraft/quotient/pkg/utils/logging"
	"github.com/shopspring/decimal"
)

// Generator derives BOM line items from I/O counts and the controller
// tier tables.
type Generator struct {
	catalog adapter.Catalog
	cfg     Config
}

// New creates a BOM generator. catalog may be nil; every line item is
// then a placeholder estimate.
func New(catalog adapter.Catalog, cfg Config) *Generator {
	return &Generator{catalog: catalog, cfg: cfg}
}

type ioCategory struct {
	category    string
	description string
	count       int
	channels    int
}

// Generate produces the priced BOM for a requirement.
func (g *Generator) Generate(ctx context.Context, req *model.Requirement) (*model.BOM, error) {
	counts := req.IOCounts
	categories := []ioCategory{
		{CategoryAnalogInput, "Analog input module", counts.AnalogIn, g.cfg.AnalogChannels},
		{CategoryAnalogOutput, "Analog output module", counts.AnalogOut, g.cfg.AnalogChannels},
		{CategoryDigitalInput, "Digital input module", counts.DigitalIn, g.cfg.DigitalChannels},
		{CategoryDigitalOutput, "Digital output module", counts.DigitalOut, g.cfg.DigitalChannels},
	}

	result := &model.BOM{}
	for _, cat := range categories {
		if cat.count <= 0 {
			continue
		}
		modules := (cat.count + cat.channels - 1) / cat.channels
		item := g.resolveItem(ctx, cat.category, cat.description, modules)
		result.Items = append(result.Items, item)
	}

	// One controller is always included, sized by total I/O.
	controllerCat := g.cfg.controllerCategory(counts.Total())
	controller := g.resolveItem(ctx, controllerCat, "PLC controller", 1)
	result.Items = append(result.Items, controller)

	result.Confidence = float64(result.CatalogHits()) / float64(len(result.Items))
	return result, nil
}

// resolveItem looks up one catalog entry for the category, falling back
// to a generic placeholder when the catalog has no match or is down.
func (g *Generator) resolveItem(ctx context.Context, category, description string, quantity int) model.BomItem {
	if g.catalog != nil {
		entry, err := g.catalog.Lookup(ctx, category, g.cfg.PreferredVendor)
		if err != nil {
			// CatalogUnavailable is recoverable here: substitute a
			// placeholder and let the confidence ratio carry the penalty.
			if errors.Is(err, model.ErrCatalogUnavailable) {
				logging.From(ctx).Warn("parts catalog unavailable, using placeholder", "category", category, "error", err)
			} else {
				logging.From(ctx).Warn("catalog lookup failed, using placeholder", "category", category, "error", err)
			}
		} else if entry != nil {
			unitCost := entry.UnitCost
			return model.BomItem{
				Category:     category,
				Vendor:       entry.Vendor,
				PartNumber:   entry.PartNumber,
				Description:  entry.Description,
				Quantity:     quantity,
				UnitCost:     unitCost,
				TotalCost:    unitCost.Mul(decimal.NewFromInt(int64(quantity))),
				Source:       model.BomSourceCatalog,
				LeadTimeDays: entry.LeadTimeDays,
			}
		}
	}

	unitCost := g.cfg.PlaceholderCosts[category]
	return model.BomItem{
		Category:    category,
		Vendor:      "TBD",
		Description: fmt.Sprintf("%s (estimated)", description),
		Quantity:    quantity,
		UnitCost:    unitCost,
		TotalCost:   unitCost.Mul(decimal.NewFromInt(int64(quantity))),
		Source:      model.BomSourceEstimate,
	}
}

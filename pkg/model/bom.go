package model

import "github.com/shopspring/decimal"

// BomSource tells whether a line item was resolved from the real parts
// catalog or synthesized as a placeholder estimate.
type BomSource string

const (
	BomSourceCatalog  BomSource = "catalog"
	BomSourceEstimate BomSource = "estimate"
)

// BomItem is a single priced line of the bill of materials.
type BomItem struct {
	Category     string          `json:"category" yaml:"category"`
	Vendor       string          `json:"vendor" yaml:"vendor"`
	PartNumber   string          `json:"part_number,omitempty" yaml:"part_number"`
	Description  string          `json:"description" yaml:"description"`
	Quantity     int             `json:"quantity" yaml:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost" yaml:"unit_cost"`
	TotalCost    decimal.Decimal `json:"total_cost" yaml:"total_cost"`
	Source       BomSource       `json:"source" yaml:"source"`
	LeadTimeDays int             `json:"lead_time_days,omitempty" yaml:"lead_time_days"`
}

// BOM is the generated bill of materials with its confidence contribution
// (catalog hits over total items).
type BOM struct {
	Items      []BomItem
	Confidence float64
}

// TotalMaterialCost sums the total cost over all line items.
func (b *BOM) TotalMaterialCost() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.TotalCost)
	}
	return total
}

// CatalogHits counts the line items resolved from the real catalog.
func (b *BOM) CatalogHits() int {
	hits := 0
	for _, item := range b.Items {
		if item.Source == BomSourceCatalog {
			hits++
		}
	}
	return hits
}

package adapter

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// fileCatalog serves catalog lookups from a YAML file. It is the default
// backend for offline and development use, and for tests.
type fileCatalog struct {
	categories map[string][]CatalogEntry
}

type catalogFile struct {
	Categories map[string][]catalogFileEntry `yaml:"categories"`
}

type catalogFileEntry struct {
	PartNumber   string  `yaml:"part_number"`
	Vendor       string  `yaml:"vendor"`
	Description  string  `yaml:"description"`
	UnitCost     float64 `yaml:"unit_cost"`
	LeadTimeDays int     `yaml:"lead_time_days"`
	UsageCount   int     `yaml:"usage_count"`
}

// NewFileCatalog loads a parts catalog from a YAML file.
func NewFileCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.Value("path", path))
	}
	return NewFileCatalogFromBytes(data)
}

// NewFileCatalogFromBytes builds a catalog from raw YAML.
func NewFileCatalogFromBytes(data []byte) (Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse catalog file")
	}

	categories := make(map[string][]CatalogEntry, len(file.Categories))
	for category, raw := range file.Categories {
		entries := make([]CatalogEntry, 0, len(raw))
		for _, e := range raw {
			entries = append(entries, CatalogEntry{
				PartNumber:   e.PartNumber,
				Vendor:       e.Vendor,
				Description:  e.Description,
				UnitCost:     decimal.NewFromFloat(e.UnitCost),
				LeadTimeDays: e.LeadTimeDays,
				UsageCount:   e.UsageCount,
			})
		}
		categories[category] = entries
	}

	return &fileCatalog{categories: categories}, nil
}

func (c *fileCatalog) Lookup(ctx context.Context, category, preferredVendor string) (*CatalogEntry, error) {
	entries, ok := c.categories[category]
	if !ok {
		return nil, nil
	}
	return pickEntry(entries, preferredVendor), nil
}

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/flowkraft/quotient/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/shopspring/decimal"
)

// CatalogEntry is one part returned by the parts catalog, ordered by usage
// frequency descending.
type CatalogEntry struct {
	PartNumber   string          `json:"part_number"`
	Vendor       string          `json:"vendor"`
	Description  string          `json:"description"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	LeadTimeDays int             `json:"lead_time_days"`
	UsageCount   int             `json:"usage_count"`
}

// Catalog is the port to the external parts catalog (InvenTree). Lookup
// returns nil without error when the category has no match; transport
// failures wrap model.ErrCatalogUnavailable.
type Catalog interface {
	Lookup(ctx context.Context, category, preferredVendor string) (*CatalogEntry, error)
}

// inventreeCatalog queries an InvenTree instance over HTTP.
type inventreeCatalog struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewInvenTreeCatalog creates a catalog client for an InvenTree instance.
func NewInvenTreeCatalog(baseURL, token string) Catalog {
	return &inventreeCatalog{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *inventreeCatalog) Lookup(ctx context.Context, category, preferredVendor string) (*CatalogEntry, error) {
	endpoint := fmt.Sprintf("%s/api/part/?category=%s&ordering=-usage", c.baseURL, url.QueryEscape(category))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build catalog request")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(model.ErrCatalogUnavailable, err.Error(), goerr.Value("category", category))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, goerr.Wrap(model.ErrCatalogUnavailable, "unexpected catalog response",
			goerr.Value("status", resp.StatusCode),
			goerr.Value("body", string(body)))
	}

	var entries []CatalogEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, goerr.Wrap(model.ErrCatalogUnavailable, "failed to decode catalog response")
	}

	return pickEntry(entries, preferredVendor), nil
}

// pickEntry selects the best entry: the preferred vendor's most-used part
// when present, otherwise the most-used part overall. Entries are expected
// in usage order already; ties go to the earlier entry.
func pickEntry(entries []CatalogEntry, preferredVendor string) *CatalogEntry {
	if len(entries) == 0 {
		return nil
	}

	if preferredVendor != "" {
		for i := range entries {
			if entries[i].Vendor == preferredVendor {
				return &entries[i]
			}
		}
	}

	best := &entries[0]
	for i := 1; i < len(entries); i++ {
		if entries[i].UsageCount > best.UsageCount {
			best = &entries[i]
		}
	}
	return best
}

package bom

import "github.com/shopspring/decimal"

// I/O module and controller categories used for catalog lookups.
const (
	CategoryAnalogInput   = "analog_input_module"
	CategoryAnalogOutput  = "analog_output_module"
	CategoryDigitalInput  = "digital_input_module"
	CategoryDigitalOutput = "digital_output_module"
	CategoryPLCSmall      = "plc_small"
	CategoryPLCMedium     = "plc_medium"
	CategoryPLCLarge      = "plc_large"
)

// ControllerTier maps a total I/O count ceiling to a controller category.
type ControllerTier struct {
	MaxIO    int
	Category string
}

// Config holds the immutable BOM generation tables. Inject via New; do
// not mutate after construction.
type Config struct {
	// Channels per I/O module, per signal kind.
	AnalogChannels  int
	DigitalChannels int

	// PreferredVendor wins catalog ties when set.
	PreferredVendor string

	// ControllerTiers must be ordered by MaxIO ascending; the last tier
	// is the catch-all for anything larger.
	ControllerTiers []ControllerTier

	// PlaceholderCosts price the generic line items emitted when the
	// catalog has no match for a category.
	PlaceholderCosts map[string]decimal.Decimal
}

// DefaultConfig returns the stock generation tables.
func DefaultConfig() Config {
	return Config{
		AnalogChannels:  8,
		DigitalChannels: 16,
		ControllerTiers: []ControllerTier{
			{MaxIO: 100, Category: CategoryPLCSmall},
			{MaxIO: 500, Category: CategoryPLCMedium},
			{MaxIO: 0, Category: CategoryPLCLarge},
		},
		PlaceholderCosts: map[string]decimal.Decimal{
			CategoryAnalogInput:   decimal.NewFromInt(520),
			CategoryAnalogOutput:  decimal.NewFromInt(580),
			CategoryDigitalInput:  decimal.NewFromInt(260),
			CategoryDigitalOutput: decimal.NewFromInt(290),
			CategoryPLCSmall:      decimal.NewFromInt(1400),
			CategoryPLCMedium:     decimal.NewFromInt(4800),
			CategoryPLCLarge:      decimal.NewFromInt(14500),
		},
	}
}

// controllerCategory selects the controller tier for a total I/O count.
func (c *Config) controllerCategory(totalIO int) string {
	for _, tier := range c.ControllerTiers {
		if tier.MaxIO > 0 && totalIO <= tier.MaxIO {
			return tier.Category
		}
	}
	return c.ControllerTiers[len(c.ControllerTiers)-1].Category
}

package model

import "strings"

// Unknown is the sentinel used for fields the extractor could not fill.
// Downstream components check for it instead of handling empty strings.
const Unknown = "unknown"

type ExtractionMethod string

const (
	ExtractionMethodAI       ExtractionMethod = "ai"
	ExtractionMethodFallback ExtractionMethod = "fallback"
)

// IOCounts holds the I/O point counts extracted from the project scope.
type IOCounts struct {
	AnalogIn   int `json:"analog_in"`
	AnalogOut  int `json:"analog_out"`
	DigitalIn  int `json:"digital_in"`
	DigitalOut int `json:"digital_out"`
}

// Total returns the total number of I/O points.
func (c IOCounts) Total() int {
	return c.AnalogIn + c.AnalogOut + c.DigitalIn + c.DigitalOut
}

// Requirement is the structured extraction result for a single quote
// request. It is created once per request and never mutated afterwards.
type Requirement struct {
	ScopeSummary        string
	Industry            string
	ComplianceStandards []string
	TimelineMonths      int // 0 means unknown
	ComplexityScore     int // 0-100
	IOCounts            IOCounts
	Deliverables        []string

	// Scope flags feeding labor adjustment and pricing adjustments.
	Brownfield    bool
	SafetySystems bool
	MultiSite     bool
	HazardousArea bool

	ExtractionConfidence float64
	ExtractionMethod     ExtractionMethod
}

// Normalize fills absent fields with explicit sentinels so that every
// downstream component has a single code path.
func (r *Requirement) Normalize() {
	if r.ScopeSummary == "" {
		r.ScopeSummary = Unknown
	}
	if r.Industry == "" {
		r.Industry = Unknown
	}
	if r.ComplianceStandards == nil {
		r.ComplianceStandards = []string{}
	}
	if r.Deliverables == nil {
		r.Deliverables = []string{}
	}
	if r.ComplexityScore < 0 {
		r.ComplexityScore = 0
	}
	if r.ComplexityScore > 100 {
		r.ComplexityScore = 100
	}
}

// SearchText builds the text used to embed this requirement for
// similarity search against indexed reference projects.
func (r *Requirement) SearchText() string {
	parts := []string{r.ScopeSummary}
	if r.Industry != "" && r.Industry != Unknown {
		parts = append(parts, r.Industry)
	}
	if len(r.Deliverables) > 0 {
		parts = append(parts, strings.Join(r.Deliverables, " "))
	}
	return strings.Join(parts, "\n")
}

// HasStandard reports whether any compliance standard mentions the given
// keyword (case-insensitive substring match).
func (r *Requirement) HasStandard(keyword string) bool {
	for _, s := range r.ComplianceStandards {
		if strings.Contains(strings.ToLower(s), strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

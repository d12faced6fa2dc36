package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/flowkraft/quotient/pkg/model"
)

// RuleExtractor is the deterministic fallback: regex and keyword matching
// for I/O counts, standards mentions and timeline phrases. Its confidence
// is capped at the fallback band regardless of how many fields it fills.
type RuleExtractor struct{}

// NewRuleExtractor creates the rule-based extractor.
func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{}
}

var (
	reAnalogIn   = regexp.MustCompile(`(?i)(\d+)\s*(?:x\s*)?analog(?:ue)?\s+in(?:put)?s?`)
	reAnalogOut  = regexp.MustCompile(`(?i)(\d+)\s*(?:x\s*)?analog(?:ue)?\s+out(?:put)?s?`)
	reDigitalIn  = regexp.MustCompile(`(?i)(\d+)\s*(?:x\s*)?digital\s+in(?:put)?s?`)
	reDigitalOut = regexp.MustCompile(`(?i)(\d+)\s*(?:x\s*)?digital\s+out(?:put)?s?`)
	reTotalIO    = regexp.MustCompile(`(?i)(\d+)\s*(?:total\s+)?i/?o(?:\s+points?)?`)
	reMonths     = regexp.MustCompile(`(?i)(\d+)\s*(?:months?|mos?)\b`)
	reWeeks      = regexp.MustCompile(`(?i)(\d+)\s*(?:weeks?|wks?)\b`)
)

// knownStandards maps a lowercase token to the canonical standard name.
var knownStandards = []struct {
	token string
	name  string
}{
	{"62443", "IEC 62443"},
	{"61511", "IEC 61511"},
	{"61131", "IEC 61131"},
	{"508a", "UL 508A"},
	{"atex", "ATEX"},
	{"sil 2", "SIL 2"},
	{"sil 3", "SIL 3"},
	{"sil-2", "SIL 2"},
	{"sil-3", "SIL 3"},
	{"nfpa", "NFPA 70"},
	{"21 cfr", "FDA 21 CFR Part 11"},
	{"cgmp", "cGMP"},
	{"hazop", "HAZOP"},
	{"cybersecurity", "IEC 62443"},
}

var industryKeywords = []struct {
	token    string
	industry string
}{
	{"oil", "oil_and_gas"},
	{"gas", "oil_and_gas"},
	{"refinery", "oil_and_gas"},
	{"water", "water_wastewater"},
	{"wastewater", "water_wastewater"},
	{"pharma", "pharmaceutical"},
	{"food", "food_beverage"},
	{"beverage", "food_beverage"},
	{"brewery", "food_beverage"},
	{"automotive", "automotive"},
	{"chemical", "chemical"},
	{"power", "power_generation"},
	{"utility", "power_generation"},
	{"mining", "mining"},
	{"manufactur", "manufacturing"},
}

var deliverableKeywords = []struct {
	token       string
	deliverable string
}{
	{"hmi", "HMI application"},
	{"scada", "SCADA system"},
	{"plc", "PLC programming"},
	{"panel", "control panel"},
	{"drawing", "electrical drawings"},
	{"fat", "factory acceptance test"},
	{"training", "operator training"},
	{"commissioning", "commissioning"},
	{"documentation", "documentation package"},
	{"historian", "data historian"},
}

func (x *RuleExtractor) Extract(ctx context.Context, text string) (*model.Requirement, error) {
	lower := strings.ToLower(text)

	req := &model.Requirement{
		ScopeSummary:     summarize(text),
		Industry:         matchIndustry(lower),
		IOCounts:         matchIOCounts(text),
		TimelineMonths:   matchTimeline(text),
		Deliverables:     matchDeliverables(lower),
		Brownfield:       containsAny(lower, "brownfield", "existing", "retrofit", "upgrade", "migration"),
		SafetySystems:    containsAny(lower, "safety", "esd", " sis ", "sil ", "sil-", "shutdown system"),
		MultiSite:        containsAny(lower, "multi-site", "multiple sites", "multiple plants", "across sites"),
		HazardousArea:    containsAny(lower, "hazardous", "atex", "class i div", "explosion proof", "explosion-proof"),
		ExtractionMethod: model.ExtractionMethodFallback,
	}

	for _, std := range knownStandards {
		if strings.Contains(lower, std.token) && !contains(req.ComplianceStandards, std.name) {
			req.ComplianceStandards = append(req.ComplianceStandards, std.name)
		}
	}

	req.ComplexityScore = scoreComplexity(req)
	req.ExtractionConfidence = fallbackConfidence(req)

	return req, nil
}

// summarize collapses whitespace and truncates the text for the scope
// summary field.
func summarize(text string) string {
	summary := strings.Join(strings.Fields(text), " ")
	const maxLen = 240
	if len(summary) > maxLen {
		summary = summary[:maxLen]
	}
	return summary
}

func matchIndustry(lower string) string {
	for _, kw := range industryKeywords {
		if strings.Contains(lower, kw.token) {
			return kw.industry
		}
	}
	return ""
}

// matchIOCounts reads per-category counts. When only a total I/O count is
// given it is split across categories with a fixed digital-heavy ratio.
func matchIOCounts(text string) model.IOCounts {
	counts := model.IOCounts{
		AnalogIn:   firstInt(reAnalogIn, text),
		AnalogOut:  firstInt(reAnalogOut, text),
		DigitalIn:  firstInt(reDigitalIn, text),
		DigitalOut: firstInt(reDigitalOut, text),
	}
	if counts.Total() > 0 {
		return counts
	}

	total := firstInt(reTotalIO, text)
	if total == 0 {
		return counts
	}

	counts.DigitalIn = total / 2
	counts.DigitalOut = total / 4
	counts.AnalogIn = total / 8
	counts.AnalogOut = total - counts.DigitalIn - counts.DigitalOut - counts.AnalogIn
	return counts
}

func matchTimeline(text string) int {
	if months := firstInt(reMonths, text); months > 0 {
		return months
	}
	if weeks := firstInt(reWeeks, text); weeks > 0 {
		return (weeks + 3) / 4
	}
	return 0
}

func matchDeliverables(lower string) []string {
	var deliverables []string
	for _, kw := range deliverableKeywords {
		if strings.Contains(lower, kw.token) && !contains(deliverables, kw.deliverable) {
			deliverables = append(deliverables, kw.deliverable)
		}
	}
	return deliverables
}

// scoreComplexity derives a 0-100 complexity score from I/O size, scope
// flags and standards count.
func scoreComplexity(req *model.Requirement) int {
	score := 20

	total := req.IOCounts.Total()
	switch {
	case total > 500:
		score += 35
	case total > 200:
		score += 25
	case total > 50:
		score += 15
	case total > 0:
		score += 5
	}

	if req.SafetySystems {
		score += 15
	}
	if req.Brownfield {
		score += 10
	}
	if req.MultiSite {
		score += 10
	}
	if req.HazardousArea {
		score += 10
	}
	score += 5 * len(req.ComplianceStandards)

	if score > 100 {
		score = 100
	}
	return score
}

// fallbackConfidence maps the number of filled fields into the fallback
// band [0.30, 0.50]. Trust stays capped no matter how much was matched.
func fallbackConfidence(req *model.Requirement) float64 {
	filled := 0
	if req.Industry != "" {
		filled++
	}
	if req.IOCounts.Total() > 0 {
		filled++
	}
	if req.TimelineMonths > 0 {
		filled++
	}
	if len(req.ComplianceStandards) > 0 {
		filled++
	}
	if len(req.Deliverables) > 0 {
		filled++
	}

	confidence := 0.30 + 0.04*float64(filled)
	if confidence > 0.50 {
		confidence = 0.50
	}
	return confidence
}

func firstInt(re *regexp.Regexp, text string) int {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

func containsAny(s string, tokens ...string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

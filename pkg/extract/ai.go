package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/flowkraft/quotient/pkg/adapter"
	"github.com/flowkraft/quotient/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// AIExtractor performs structured requirement extraction with Gemini.
type AIExtractor struct {
	gemini adapter.Gemini
}

// NewAIExtractor creates an AI-backed extractor.
func NewAIExtractor(gemini adapter.Gemini) *AIExtractor {
	return &AIExtractor{gemini: gemini}
}

const extractSystemPrompt = `You are an estimation engineer at an industrial automation integrator.
Extract the structured requirement record from the customer's project description.
Only report what the text states or strongly implies; leave unknown fields empty or zero.
complexity_score is 0-100: 0-30 simple PLC/HMI work, 31-60 typical multi-discipline projects, 61-100 safety-rated, multi-site or highly regulated work.`

type aiIOCounts struct {
	AnalogIn   int `json:"analog_in"`
	AnalogOut  int `json:"analog_out"`
	DigitalIn  int `json:"digital_in"`
	DigitalOut int `json:"digital_out"`
}

type aiRequirement struct {
	ScopeSummary        string     `json:"scope_summary"`
	Industry            string     `json:"industry"`
	ComplianceStandards []string   `json:"compliance_standards"`
	TimelineMonths      int        `json:"timeline_months"`
	ComplexityScore     int        `json:"complexity_score"`
	IOCounts            aiIOCounts `json:"io_counts"`
	Deliverables        []string   `json:"deliverables"`
	Brownfield          bool       `json:"brownfield"`
	SafetySystems       bool       `json:"safety_systems"`
	MultiSite           bool       `json:"multi_site"`
	HazardousArea       bool       `json:"hazardous_area"`
}

func (x *AIExtractor) Extract(ctx context.Context, text string) (*model.Requirement, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(extractSystemPrompt, ""),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    requirementSchema(),
	}

	resp, err := x.gemini.GenerateContent(ctx, contents, config)
	if err != nil {
		return nil, goerr.Wrap(err, "extraction request failed")
	}

	raw := responseText(resp)
	if raw == "" {
		return nil, goerr.New("extraction response is empty")
	}

	var extracted aiRequirement
	if err := json.Unmarshal([]byte(raw), &extracted); err != nil {
		return nil, goerr.Wrap(err, "extraction response is malformed", goerr.Value("response", raw))
	}

	if strings.TrimSpace(extracted.ScopeSummary) == "" {
		return nil, goerr.New("extraction response is incomplete: no scope summary")
	}

	req := &model.Requirement{
		ScopeSummary:        extracted.ScopeSummary,
		Industry:            extracted.Industry,
		ComplianceStandards: extracted.ComplianceStandards,
		TimelineMonths:      extracted.TimelineMonths,
		ComplexityScore:     extracted.ComplexityScore,
		IOCounts: model.IOCounts{
			AnalogIn:   extracted.IOCounts.AnalogIn,
			AnalogOut:  extracted.IOCounts.AnalogOut,
			DigitalIn:  extracted.IOCounts.DigitalIn,
			DigitalOut: extracted.IOCounts.DigitalOut,
		},
		Deliverables:     extracted.Deliverables,
		Brownfield:       extracted.Brownfield,
		SafetySystems:    extracted.SafetySystems,
		MultiSite:        extracted.MultiSite,
		HazardousArea:    extracted.HazardousArea,
		ExtractionMethod: model.ExtractionMethodAI,
	}
	req.ExtractionConfidence = aiConfidence(&extracted)

	return req, nil
}

// aiConfidence assigns confidence by provenance: all required fields
// present puts the result in the high band, missing optional fields drop
// it to the medium band.
func aiConfidence(extracted *aiRequirement) float64 {
	missing := 0
	if extracted.Industry == "" {
		missing++
	}
	if extracted.TimelineMonths == 0 {
		missing++
	}
	if len(extracted.ComplianceStandards) == 0 {
		missing++
	}
	if len(extracted.Deliverables) == 0 {
		missing++
	}
	ioCounts := extracted.IOCounts
	if ioCounts.AnalogIn+ioCounts.AnalogOut+ioCounts.DigitalIn+ioCounts.DigitalOut == 0 {
		missing++
	}

	if missing == 0 {
		return 0.92
	}

	confidence := 0.84 - 0.05*float64(missing-1)
	if confidence < 0.60 {
		confidence = 0.60
	}
	return confidence
}

func requirementSchema() *genai.Schema {
	ioSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"analog_in":   {Type: genai.TypeInteger, Description: "Number of analog input points"},
			"analog_out":  {Type: genai.TypeInteger, Description: "Number of analog output points"},
			"digital_in":  {Type: genai.TypeInteger, Description: "Number of digital input points"},
			"digital_out": {Type: genai.TypeInteger, Description: "Number of digital output points"},
		},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"scope_summary": {
				Type:        genai.TypeString,
				Description: "Two or three sentence summary of the project scope",
			},
			"industry": {
				Type:        genai.TypeString,
				Description: "Customer industry, snake_case, empty if unknown",
			},
			"compliance_standards": {
				Type:        genai.TypeArray,
				Description: "Compliance standards the project must meet, e.g. IEC 62443",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"timeline_months": {
				Type:        genai.TypeInteger,
				Description: "Requested delivery timeline in months, 0 if unknown",
			},
			"complexity_score": {
				Type:        genai.TypeInteger,
				Description: "Project complexity 0-100",
			},
			"io_counts": ioSchema,
			"deliverables": {
				Type:        genai.TypeArray,
				Description: "Concrete deliverables mentioned or implied",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"brownfield": {
				Type:        genai.TypeBoolean,
				Description: "True when integrating with existing infrastructure",
			},
			"safety_systems": {
				Type:        genai.TypeBoolean,
				Description: "True when safety or ESD systems are in scope",
			},
			"multi_site": {
				Type:        genai.TypeBoolean,
				Description: "True when the scope spans multiple sites",
			},
			"hazardous_area": {
				Type:        genai.TypeBoolean,
				Description: "True when hazardous-area certified equipment is required",
			},
		},
		Required: []string{"scope_summary", "complexity_score", "io_counts"},
	}
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

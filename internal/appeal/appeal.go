// Package appeal assembles citation-backed appeal letters from existing
// explainability artifacts. Text assembly only; rendering to DOCX/PDF is an
// external concern.
package appeal

import (
	"fmt"
	"strings"

	"github.com/claimlens/claimlens/internal/egraph"
	"github.com/claimlens/claimlens/internal/model"
)

// Tone selects the letter register.
type Tone string

const (
	TonePolite Tone = "polite"
	ToneFirm   Tone = "firm"
)

// Audience selects who the letter addresses.
type Audience string

const (
	AudiencePayer    Audience = "payer"
	AudienceProvider Audience = "provider"
)

type toneTemplate struct {
	Opening string
	Closing string
}

var toneTemplates = map[Tone]toneTemplate{
	TonePolite: {
		Opening: "I am writing to request a careful review of the enclosed claim determination.",
		Closing: "Thank you for your time and prompt attention to this matter.",
	},
	ToneFirm: {
		Opening: "This letter lodges a formal dispute of the enclosed claim outcome based on the attached math evidence.",
		Closing: "Please respond with a corrective action plan within the timeframe required by regulation.",
	},
}

var audienceGreetings = map[Audience]string{
	AudiencePayer:    "To the Appeals Team",
	AudienceProvider: "To the Provider Billing Office",
}

// Exhibit references one attachment of the appeal packet.
type Exhibit struct {
	Label       string `json:"label"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Packet is a structured appeal referencing prior analysis. The proof pack
// carries the full explanation and evidence graph so a reviewer can verify
// every cited number.
type Packet struct {
	DocID    string                `json:"doc_id"`
	Tone     Tone                  `json:"tone"`
	Audience Audience              `json:"audience"`
	Subject  string                `json:"subject"`
	Body     string                `json:"body"`
	Exhibits []Exhibit             `json:"exhibits"`
	PSLDelta *float64              `json:"psl_delta,omitempty"`
	Explain  *model.ExplainPayload `json:"explain"`
	Evidence *egraph.Graph         `json:"evidence_graph"`
}

// Build constructs an appeal packet. Unknown tones fall back to polite,
// unknown audiences to payer. pslDelta, when present, adds a policy
// simulation variance section.
func Build(payload *model.ExplainPayload, graph *egraph.Graph, tone Tone, audience Audience, pslDelta *float64) *Packet {
	selected, ok := toneTemplates[tone]
	if !ok {
		tone = TonePolite
		selected = toneTemplates[TonePolite]
	}
	greeting, ok := audienceGreetings[audience]
	if !ok {
		audience = AudiencePayer
		greeting = audienceGreetings[AudiencePayer]
	}

	sections := []string{greeting + ",", "", selected.Opening, "", "Primary math evidence summary:"}

	if len(payload.Breakdown) > 0 {
		for _, entry := range payload.Breakdown {
			sections = append(sections, fmt.Sprintf("- %s: %s", entry.Label, model.MoneyOrUnknown(entry.Value)))
		}
	} else {
		sections = append(sections, "- No structured totals available.")
	}

	if len(payload.RiskFlags) > 0 {
		sections = append(sections, "", "Risk considerations:")
		for _, flag := range payload.RiskFlags {
			sections = append(sections, fmt.Sprintf("- %s (%s): %s", flag.Label, titleCase(string(flag.Severity)), flag.Rationale))
		}
	}

	if pslDelta != nil {
		sections = append(sections, "", "Policy simulation variance:",
			fmt.Sprintf("- Expected vs billed patient responsibility delta: %s", model.Money(*pslDelta)))
	}

	sections = append(sections, "", selected.Closing, "", "Sincerely,", "Patient Advocate")

	exhibits := []Exhibit{
		{Label: "A", Title: "Explainability Packet", Description: "Breakdown, calculations, warnings, and citations used in this appeal."},
		{Label: "B", Title: "Evidence Graph Snapshot", Description: "Graph of amounts, codes, sources, and relations supporting the claim."},
	}
	if len(payload.RiskFlags) > 0 {
		exhibits = append(exhibits, Exhibit{Label: "C", Title: "Risk Assessment Notes", Description: "Heuristic risk flags drawn from claim line analysis."})
	}

	return &Packet{
		DocID:    payload.DocID,
		Tone:     tone,
		Audience: audience,
		Subject:  "Appeal for " + payload.DocID,
		Body:     strings.Join(sections, "\n"),
		Exhibits: exhibits,
		PSLDelta: pslDelta,
		Explain:  payload,
		Evidence: graph,
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package appeal

import (
	"strings"
	"testing"

	"github.com/claimlens/claimlens/internal/egraph"
	"github.com/claimlens/claimlens/internal/model"
)

func appealPayload() *model.ExplainPayload {
	return &model.ExplainPayload{
		DocID: "doc-001",
		Breakdown: []model.BreakdownEntry{
			{Label: model.LabelAmountBilled, Value: model.Float(1000)},
			{Label: model.LabelPatientResp, Value: model.Float(150)},
		},
	}
}

func TestBuild_PoliteToPayer(t *testing.T) {
	payload := appealPayload()
	graph := egraph.Build(payload, nil)

	packet := Build(payload, graph, TonePolite, AudiencePayer, nil)

	if packet.Subject != "Appeal for doc-001" {
		t.Errorf("subject = %q", packet.Subject)
	}
	if !strings.HasPrefix(packet.Body, "To the Appeals Team,") {
		t.Errorf("body should open with the payer greeting, got %q", packet.Body[:40])
	}
	if !strings.Contains(packet.Body, "request a careful review") {
		t.Errorf("body should use the polite opening, got:\n%s", packet.Body)
	}
	if !strings.Contains(packet.Body, "- Amount Billed: $1,000.00") {
		t.Errorf("body should list breakdown amounts, got:\n%s", packet.Body)
	}
	if len(packet.Exhibits) != 2 {
		t.Errorf("exhibits = %d, want A and B without risk flags", len(packet.Exhibits))
	}
	if packet.Evidence != graph || packet.Explain != payload {
		t.Error("packet should carry the proof pack by reference")
	}
}

func TestBuild_FirmWithRiskFlagsAndDelta(t *testing.T) {
	payload := appealPayload()
	payload.RiskFlags = []model.RiskFlag{
		{Label: "Upcoding risk", Severity: model.RiskSeverityHigh, Rationale: "allowed amount looks unusually high."},
	}
	delta := 95.5

	packet := Build(payload, egraph.Build(payload, nil), ToneFirm, AudienceProvider, &delta)

	if !strings.HasPrefix(packet.Body, "To the Provider Billing Office,") {
		t.Errorf("body should open with the provider greeting, got %q", packet.Body[:50])
	}
	if !strings.Contains(packet.Body, "formal dispute") {
		t.Errorf("body should use the firm opening, got:\n%s", packet.Body)
	}
	if !strings.Contains(packet.Body, "Upcoding risk (High):") {
		t.Errorf("body should list risk flags with title-cased severity, got:\n%s", packet.Body)
	}
	if !strings.Contains(packet.Body, "delta: $95.50") {
		t.Errorf("body should state the simulation variance, got:\n%s", packet.Body)
	}
	if len(packet.Exhibits) != 3 || packet.Exhibits[2].Label != "C" {
		t.Errorf("exhibits = %v, want A, B and the risk exhibit C", packet.Exhibits)
	}
	if packet.PSLDelta == nil || *packet.PSLDelta != 95.5 {
		t.Errorf("psl delta = %v", packet.PSLDelta)
	}
}

func TestBuild_UnknownToneAndAudienceFallBack(t *testing.T) {
	payload := appealPayload()

	packet := Build(payload, nil, Tone("sarcastic"), Audience("press"), nil)

	if packet.Tone != TonePolite {
		t.Errorf("tone = %q, want polite fallback", packet.Tone)
	}
	if packet.Audience != AudiencePayer {
		t.Errorf("audience = %q, want payer fallback", packet.Audience)
	}
}

func TestBuild_EmptyBreakdown(t *testing.T) {
	packet := Build(&model.ExplainPayload{DocID: "doc-x"}, nil, TonePolite, AudiencePayer, nil)

	if !strings.Contains(packet.Body, "No structured totals available.") {
		t.Errorf("body should state the missing totals, got:\n%s", packet.Body)
	}
}

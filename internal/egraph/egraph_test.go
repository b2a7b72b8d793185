package egraph

import (
	"strings"
	"testing"

	"github.com/claimlens/claimlens/internal/model"
)

func graphPayload() *model.ExplainPayload {
	source := model.Source{Page: 2, Cell: "T1"}
	return &model.ExplainPayload{
		DocID: "doc-001",
		Breakdown: []model.BreakdownEntry{
			{Label: model.LabelAmountBilled, Value: model.Float(1000), Source: source},
			{Label: model.LabelAllowedAmount, Value: model.Float(800), Source: source},
			{Label: model.LabelInsurerPaid, Value: model.Float(600), Source: source},
			{Label: model.LabelAdjustments, Value: nil, Source: source},
			{Label: model.LabelPatientResp, Value: model.Float(150), Source: source},
		},
		Warnings: []string{"Unable to sum adjustments; at least one adjustment amount was missing."},
	}
}

func graphRows() []model.ClaimRow {
	return []model.ClaimRow{
		{LineID: "L1", Page: 1, CellID: "A1", CPT: "99213", Modifier: "25"},
		{LineID: "L2", Page: 1, CellID: "A2", CPT: "99213"},
		{LineID: "TOTAL", Page: 2, CellID: "T1"},
	}
}

func nodeByID(g *Graph, id string) (Node, bool) {
	for _, node := range g.Nodes {
		if node.ID == id {
			return node, true
		}
	}
	return Node{}, false
}

func hasEdge(g *Graph, source, target, edgeType string) bool {
	for _, edge := range g.Edges {
		if edge.Source == source && edge.Target == target && edge.Type == edgeType {
			return true
		}
	}
	return false
}

func TestBuild_AmountNodesLinkToSourceCells(t *testing.T) {
	g := Build(graphPayload(), graphRows())

	node, ok := nodeByID(g, "amount:"+model.LabelAmountBilled)
	if !ok {
		t.Fatal("missing billed amount node")
	}
	if node.Kind != KindAmount || !strings.Contains(node.Label, "$1,000.00") {
		t.Errorf("billed node = %+v", node)
	}

	if _, ok := nodeByID(g, "cell:2:T1"); !ok {
		t.Error("missing source cell node")
	}
	if !hasEdge(g, "amount:"+model.LabelAmountBilled, "cell:2:T1", "derived_from") {
		t.Error("billed amount should derive from its source cell")
	}
}

func TestBuild_UnknownAmountLabeled(t *testing.T) {
	g := Build(graphPayload(), graphRows())

	node, ok := nodeByID(g, "amount:"+model.LabelAdjustments)
	if !ok {
		t.Fatal("missing adjustments node")
	}
	if !strings.HasSuffix(node.Label, ": unknown") {
		t.Errorf("nil amount should label as unknown, got %q", node.Label)
	}
}

func TestBuild_CodeNodesDeduplicated(t *testing.T) {
	g := Build(graphPayload(), graphRows())

	// Two rows share CPT 99213; one node, one supports edge each pass.
	count := 0
	for _, node := range g.Nodes {
		if node.ID == "cpt:99213" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("CPT node count = %d, want 1", count)
	}
	if !hasEdge(g, "cpt:99213", "amount:"+model.LabelAllowedAmount, "supports") {
		t.Error("CPT should support the allowed amount")
	}
	if !hasEdge(g, "modifier:25", "amount:"+model.LabelAdjustments, "modifies") {
		t.Error("modifier should modify the adjustments amount")
	}
}

func TestBuild_PolicyInfluencesResponsibility(t *testing.T) {
	g := Build(graphPayload(), graphRows())

	for _, policyID := range []string{"policy:deductible", "policy:coinsurance"} {
		node, ok := nodeByID(g, policyID)
		if !ok {
			t.Fatalf("missing %s node", policyID)
		}
		if node.Kind != KindPolicy {
			t.Errorf("%s kind = %q, want policy", policyID, node.Kind)
		}
		if !hasEdge(g, policyID, "amount:"+model.LabelPatientResp, "influences") {
			t.Errorf("%s should influence patient responsibility", policyID)
		}
	}
}

func TestBuild_WarningsContradictResponsibility(t *testing.T) {
	g := Build(graphPayload(), graphRows())

	var warnID string
	for _, node := range g.Nodes {
		if node.Kind == KindWarning {
			warnID = node.ID
			if node.Label != "Unable to sum adjustments; at least one adjustment amount was missing." {
				t.Errorf("warning label = %q", node.Label)
			}
		}
	}
	if warnID == "" {
		t.Fatal("missing warning node")
	}
	if !strings.HasPrefix(warnID, "warning:") || len(warnID) != len("warning:")+8 {
		t.Errorf("warning id = %q, want warning:<8-hex>", warnID)
	}
	if !hasEdge(g, warnID, "amount:"+model.LabelPatientResp, "contradicts") {
		t.Error("warning should contradict patient responsibility")
	}
}

func TestBuild_NoDuplicateAnchorNodes(t *testing.T) {
	g := Build(graphPayload(), graphRows())

	seen := make(map[string]int)
	for _, node := range g.Nodes {
		seen[node.ID]++
	}
	for id, count := range seen {
		if count > 1 {
			t.Errorf("node %q appears %d times", id, count)
		}
	}
}

func TestBuild_EmptyInputsStillAnchor(t *testing.T) {
	g := Build(&model.ExplainPayload{DocID: "doc-x"}, nil)

	for _, id := range []string{
		"amount:" + model.LabelAllowedAmount,
		"amount:" + model.LabelAdjustments,
		"amount:" + model.LabelPatientResp,
		"policy:deductible",
		"policy:coinsurance",
	} {
		if _, ok := nodeByID(g, id); !ok {
			t.Errorf("missing anchor node %q", id)
		}
	}
}

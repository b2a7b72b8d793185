// Package egraph builds evidence graphs linking financial figures to their
// document sources, codes, and policy context.
package egraph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/claimlens/claimlens/internal/model"
)

// NodeKind classifies evidence graph nodes.
type NodeKind string

const (
	KindAmount  NodeKind = "amount"  // A breakdown figure
	KindSource  NodeKind = "source"  // A document cell the figure came from
	KindCode    NodeKind = "code"    // CPT or modifier
	KindPolicy  NodeKind = "policy"  // Deductible / coinsurance context
	KindWarning NodeKind = "warning" // A reconciliation warning
)

// Node is one evidence graph vertex.
type Node struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Kind  NodeKind `json:"kind"`
}

// Edge connects two nodes with a typed relation.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"` // derived_from, supports, modifies, influences, contradicts
}

// Graph is the assembled evidence graph.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Build creates an evidence graph from an explanation and the document's
// rows. Amount nodes link to their source cells; CPT and modifier nodes
// support the allowed/adjustment amounts; warnings contradict the patient
// responsibility figure.
func Build(payload *model.ExplainPayload, rows []model.ClaimRow) *Graph {
	var nodes []Node
	seen := make(map[string]bool)
	var edges []Edge

	ensureNode := func(id, label string, kind NodeKind) {
		if seen[id] {
			return
		}
		seen[id] = true
		nodes = append(nodes, Node{ID: id, Label: label, Kind: kind})
	}
	addEdge := func(source, target, edgeType string) {
		if source != "" && target != "" {
			edges = append(edges, Edge{Source: source, Target: target, Type: edgeType})
		}
	}

	for _, entry := range payload.Breakdown {
		nodeID := "amount:" + entry.Label
		ensureNode(nodeID, formatAmount(entry.Label, entry.Value), KindAmount)

		if entry.Source.Page > 0 && entry.Source.Cell != "" {
			cellID := fmt.Sprintf("cell:%d:%s", entry.Source.Page, entry.Source.Cell)
			ensureNode(cellID, fmt.Sprintf("Page %d • %s", entry.Source.Page, entry.Source.Cell), KindSource)
			addEdge(nodeID, cellID, "derived_from")
		}
	}

	// Anchor amount nodes exist even when absent from the breakdown.
	ensureNode("amount:"+model.LabelAllowedAmount, model.LabelAllowedAmount, KindAmount)
	ensureNode("amount:"+model.LabelAdjustments, model.LabelAdjustments, KindAmount)
	ensureNode("amount:"+model.LabelPatientResp, model.LabelPatientResp, KindAmount)

	for _, row := range rows {
		if row.CPT != "" {
			cptID := "cpt:" + row.CPT
			ensureNode(cptID, "CPT "+row.CPT, KindCode)
			addEdge(cptID, "amount:"+model.LabelAllowedAmount, "supports")
		}
		if row.Modifier != "" {
			modID := "modifier:" + row.Modifier
			ensureNode(modID, "Modifier "+row.Modifier, KindCode)
			addEdge(modID, "amount:"+model.LabelAdjustments, "modifies")
		}
	}

	ensureNode("policy:deductible", "Policy: Deductible", KindPolicy)
	ensureNode("policy:coinsurance", "Policy: Coinsurance", KindPolicy)
	addEdge("policy:deductible", "amount:"+model.LabelPatientResp, "influences")
	addEdge("policy:coinsurance", "amount:"+model.LabelPatientResp, "influences")

	for _, warning := range payload.Warnings {
		warnID := "warning:" + shortHash(warning)
		ensureNode(warnID, warning, KindWarning)
		addEdge(warnID, "amount:"+model.LabelPatientResp, "contradicts")
	}

	return &Graph{Nodes: nodes, Edges: edges}
}

func formatAmount(label string, value *float64) string {
	if value == nil {
		return label + ": unknown"
	}
	return fmt.Sprintf("%s: %s", label, model.Money(*value))
}

func shortHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:8]
}

// Package compare diffs two structured EOB documents line by line,
// attributing each change to a likely root cause with a confidence score.
package compare

import (
	"fmt"
	"math"
	"sort"

	"github.com/claimlens/claimlens/internal/model"
	"github.com/claimlens/claimlens/internal/store"
)

// ChangeType classifies one diff entry.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeChanged ChangeType = "changed"
)

// Change is one line-level difference between the two documents.
type Change struct {
	Type       ChangeType `json:"type"`
	LineID     string     `json:"line_id"`
	Impact     float64    `json:"impact"` // Patient-responsibility delta, rounded to cents
	RootCause  string     `json:"root_cause"`
	Confidence float64    `json:"confidence"`
}

// Citation locates the row backing a diff entry.
type Citation struct {
	Doc    string `json:"doc"`
	Page   int    `json:"page,omitempty"`
	Cell   string `json:"cell,omitempty"`
	LineID string `json:"line_id,omitempty"`
}

// Result is the full document comparison.
type Result struct {
	Diff      []Change   `json:"diff"`
	Citations []Citation `json:"citations"`
}

// Docs compares two documents from the store, matching rows by line id.
func Docs(st store.ClaimStore, docIDA, docIDB string) (*Result, error) {
	rowsA, err := st.GetRows(docIDA)
	if err != nil {
		return nil, err
	}
	rowsB, err := st.GetRows(docIDB)
	if err != nil {
		return nil, err
	}

	indexA := rowIndex(rowsA)
	indexB := rowIndex(rowsB)

	lineIDs := make([]string, 0, len(indexA)+len(indexB))
	seen := make(map[string]bool)
	for lineID := range indexA {
		if !seen[lineID] {
			seen[lineID] = true
			lineIDs = append(lineIDs, lineID)
		}
	}
	for lineID := range indexB {
		if !seen[lineID] {
			seen[lineID] = true
			lineIDs = append(lineIDs, lineID)
		}
	}
	sort.Strings(lineIDs)

	result := &Result{}
	for _, lineID := range lineIDs {
		rowA, okA := indexA[lineID]
		rowB, okB := indexB[lineID]

		impact := impact(rowA, okA, rowB, okB)
		cause, confidence := rootCause(rowA, okA, rowB, okB)

		var changeType ChangeType
		switch {
		case !okA:
			changeType = ChangeAdded
		case !okB:
			changeType = ChangeRemoved
		default:
			if impact == 0 && cause == "patient responsibility recalculated" {
				// No meaningful change detected.
				continue
			}
			changeType = ChangeChanged
		}

		result.Diff = append(result.Diff, Change{
			Type:       changeType,
			LineID:     lineID,
			Impact:     math.Round(impact*100) / 100,
			RootCause:  cause,
			Confidence: math.Round(confidence*100) / 100,
		})

		if okB {
			result.Citations = append(result.Citations, citation(rowB, docIDB))
		} else if okA {
			result.Citations = append(result.Citations, citation(rowA, docIDA))
		}
	}

	if len(result.Diff) == 0 {
		result.Citations = append(result.Citations, Citation{Doc: docIDB + ".pdf"})
	}
	return result, nil
}

func rowIndex(rows []model.ClaimRow) map[string]model.ClaimRow {
	index := make(map[string]model.ClaimRow, len(rows))
	for _, row := range rows {
		if row.LineID != "" {
			index[row.LineID] = row
		}
	}
	return index
}

func adjustmentSum(row model.ClaimRow) float64 {
	total := 0.0
	for _, adj := range row.Adjustments {
		total += model.Deref(adj.Amount, 0)
	}
	return total
}

func patientResponsibility(row model.ClaimRow) float64 {
	if row.PatientResp != nil {
		return *row.PatientResp
	}
	return model.Deref(row.Billed, 0) - model.Deref(row.InsurerPaid, 0) - adjustmentSum(row)
}

func impact(rowA model.ClaimRow, okA bool, rowB model.ClaimRow, okB bool) float64 {
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return patientResponsibility(rowB)
	case !okB:
		return -patientResponsibility(rowA)
	default:
		return patientResponsibility(rowB) - patientResponsibility(rowA)
	}
}

// rootCause guesses why a line changed, with a heuristic confidence.
// Modifier changes are the strongest signal (rebundling), then allowed
// amount drift, adjustment schedule changes, billed changes.
func rootCause(rowA model.ClaimRow, okA bool, rowB model.ClaimRow, okB bool) (string, float64) {
	if !okA && okB {
		return "new service captured in latest adjudication", 0.7
	}
	if !okB && okA {
		return "line removed or bundled", 0.7
	}

	if rowA.Modifier != rowB.Modifier {
		if rowA.Modifier != "" && rowB.Modifier == "" {
			return fmt.Sprintf("modifier %s removed; potential rebundling", rowA.Modifier), 0.85
		}
		if rowA.Modifier == "" && rowB.Modifier != "" {
			return fmt.Sprintf("modifier %s added", rowB.Modifier), 0.85
		}
		return fmt.Sprintf("modifier changed %s to %s", rowA.Modifier, rowB.Modifier), 0.8
	}

	if rowA.Allowed != nil && rowB.Allowed != nil && *rowA.Allowed != *rowB.Allowed {
		return "allowed amount shifted against contract", 0.75
	}
	if adjustmentSum(rowA) != adjustmentSum(rowB) {
		return "adjustment schedule updated", 0.7
	}
	if model.Deref(rowA.Billed, 0) != model.Deref(rowB.Billed, 0) {
		return "billed amount changed", 0.65
	}
	return "patient responsibility recalculated", 0.6
}

func citation(row model.ClaimRow, docID string) Citation {
	return Citation{
		Doc:    docID + ".pdf",
		Page:   row.Page,
		Cell:   row.CellID,
		LineID: row.LineID,
	}
}

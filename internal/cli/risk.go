package cli

import (
	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/model"
)

// riskCmd represents the risk command
var riskCmd = &cobra.Command{
	Use:   "risk <doc-id>",
	Short: "Evaluate heuristic billing-risk rules for a document",
	Long: `Risk scans the document's claim rows for upcoding, duplicate-charge,
and missing-adjustment patterns. Thresholds come from configuration and
are heuristic policy constants, not clinical judgments.`,
	Args: cobra.ExactArgs(1),
	RunE: runRisk,
}

func init() {
	rootCmd.AddCommand(riskCmd)
}

func runRisk(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	rows, err := newStore(cfg).GetRows(args[0])
	if err != nil {
		return err
	}

	flags := newEvaluator(cfg).BuildRiskFlags(rows)
	if flags == nil {
		flags = []model.RiskFlag{}
	}
	return printJSON(struct {
		DocID     string           `json:"doc_id"`
		RiskFlags []model.RiskFlag `json:"risk_flags"`
	}{args[0], flags})
}

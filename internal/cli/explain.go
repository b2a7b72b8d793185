package cli

import (
	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/audit"
	"github.com/claimlens/claimlens/internal/reconcile"
)

var auditDir string

// explainCmd represents the explain command
var explainCmd = &cobra.Command{
	Use:   "explain <doc-id>",
	Short: "Explain how a document's amounts reconcile",
	Long: `Explain validates the document's TOTAL row, recomputes patient
responsibility from components, and prints the full breakdown with a
per-amount calculation trace, warnings, risk flags, and an audit hash.

Example:
  claimlens explain doc-001 --data claims_struct.json
  claimlens explain doc-001 --audit-dir ./audit`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
	explainCmd.Flags().StringVar(&auditDir, "audit-dir", "", "directory for the audit trail (disabled when empty)")
}

func runExplain(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log := newLogger(cfg)

	var recorder *audit.Recorder
	if auditDir != "" {
		recorder = audit.NewRecorder(auditDir, log)
	}

	explainer := reconcile.NewExplainer(newStore(cfg), newEvaluator(cfg), recorder)
	payload, err := explainer.ExplainBill(args[0])
	if err != nil {
		return err
	}
	return printJSON(payload)
}

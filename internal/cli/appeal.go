package cli

import (
	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/appeal"
	"github.com/claimlens/claimlens/internal/audit"
	"github.com/claimlens/claimlens/internal/egraph"
	"github.com/claimlens/claimlens/internal/reconcile"
)

var (
	appealTone     string
	appealAudience string
	appealPSLDelta float64
	appealAuditDir string
)

// appealCmd represents the appeal command
var appealCmd = &cobra.Command{
	Use:   "appeal <doc-id>",
	Short: "Assemble a citation-backed appeal packet",
	Long: `Appeal builds a letter grounded in the document's explanation and
evidence graph: breakdown summary, risk considerations, optional policy
simulation variance, and an exhibit index.

Example:
  claimlens appeal doc-001 --tone firm --audience payer`,
	Args: cobra.ExactArgs(1),
	RunE: runAppeal,
}

func init() {
	rootCmd.AddCommand(appealCmd)
	appealCmd.Flags().StringVar(&appealTone, "tone", "polite", "letter tone (polite, firm)")
	appealCmd.Flags().StringVar(&appealAudience, "audience", "payer", "letter audience (payer, provider)")
	appealCmd.Flags().Float64Var(&appealPSLDelta, "psl-delta", 0, "policy simulation variance to cite (omitted when zero)")
	appealCmd.Flags().StringVar(&appealAuditDir, "audit-dir", "", "directory for the audit trail (disabled when empty)")
}

func runAppeal(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log := newLogger(cfg)

	st := newStore(cfg)
	explainer := reconcile.NewExplainer(st, newEvaluator(cfg), nil)
	payload, err := explainer.ExplainBill(args[0])
	if err != nil {
		return err
	}

	rows, err := st.GetRows(args[0])
	if err != nil {
		return err
	}
	graph := egraph.Build(payload, rows)

	var pslDelta *float64
	if cmd.Flags().Changed("psl-delta") {
		pslDelta = &appealPSLDelta
	}

	packet := appeal.Build(payload, graph, appeal.Tone(appealTone), appeal.Audience(appealAudience), pslDelta)

	if appealAuditDir != "" {
		audit.NewRecorder(appealAuditDir, log).Record("appeal", packet)
	}
	return printJSON(packet)
}

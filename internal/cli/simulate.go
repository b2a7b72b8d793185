package cli

import (
	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/model"
	"github.com/claimlens/claimlens/internal/policy"
)

var (
	simDeductible  float64
	simCoinsurance float64
	simOOP         float64
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate <doc-id>",
	Short: "Project patient responsibility under a deductible/coinsurance model",
	Long: `Simulate applies the remaining deductible, coinsurance rate, and
out-of-pocket cap to the document's allowed total. A negative --oop means
no cap.

Example:
  claimlens simulate doc-001 --deductible 500 --coinsurance 0.2 --oop 1500`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Float64Var(&simDeductible, "deductible", 0, "deductible remaining")
	simulateCmd.Flags().Float64Var(&simCoinsurance, "coinsurance", 0, "coinsurance rate in [0, 1]")
	simulateCmd.Flags().Float64Var(&simOOP, "oop", -1, "out-of-pocket remaining (negative: no cap)")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	rows, err := newStore(cfg).GetRows(args[0])
	if err != nil {
		return err
	}

	result := policy.Simulate(rows, simDeductible, simCoinsurance, simOOP)
	return printJSON(struct {
		DocID string `json:"doc_id"`
		model.SimulationResult
	}{args[0], result})
}

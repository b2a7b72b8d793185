package cli

import (
	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/compare"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <doc-id-a> <doc-id-b>",
	Short: "Diff two documents line by line",
	Long: `Compare matches claim lines by line id across two documents and
reports added, removed, and changed lines with the patient-responsibility
impact, a root-cause guess, and a confidence score.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	result, err := compare.Docs(newStore(cfg), args[0], args[1])
	if err != nil {
		return err
	}
	return printJSON(result)
}

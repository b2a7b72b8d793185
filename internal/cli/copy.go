package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/microcopy"
	"github.com/claimlens/claimlens/internal/reconcile"
)

var (
	copyPersona  string
	copyLevel    string
	copyLanguage string
)

// copyCmd represents the copy command
var copyCmd = &cobra.Command{
	Use:   "copy <doc-id>",
	Short: "Render a short plain-language explainer for an audience",
	Long: `Copy renders 2-5 bullet lines explaining the document's amounts,
tuned to a persona (patient, payer, provider), reading level (grade4,
grade6, grade8, pro), and language (en, es, hi). An unregistered
combination is an error, never a silent fallback.`,
	Args: cobra.ExactArgs(1),
	RunE: runCopy,
}

func init() {
	rootCmd.AddCommand(copyCmd)
	copyCmd.Flags().StringVar(&copyPersona, "persona", "patient", "reader persona")
	copyCmd.Flags().StringVar(&copyLevel, "level", "grade6", "reading level")
	copyCmd.Flags().StringVar(&copyLanguage, "lang", "en", "output language")
}

func runCopy(cmd *cobra.Command, args []string) error {
	persona, err := microcopy.ParsePersona(copyPersona)
	if err != nil {
		return err
	}
	level, err := microcopy.ParseLevel(copyLevel)
	if err != nil {
		return err
	}
	lang, err := microcopy.ParseLanguage(copyLanguage)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	explainer := reconcile.NewExplainer(newStore(cfg), newEvaluator(cfg), nil)
	payload, err := explainer.ExplainBill(args[0])
	if err != nil {
		return err
	}

	text, err := microcopy.Generate(payload, persona, level, lang)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

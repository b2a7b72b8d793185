package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/rag"
	"github.com/claimlens/claimlens/internal/search"
)

var (
	askDocID      string
	askTopK       int
	askEmbed      bool
	askEmbedModel string
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a free-text question against claim line evidence",
	Long: `Ask retrieves the claim lines most relevant to the question using
hybrid retrieval: BM25 over canonical claim-line text, optionally fused
with embedding cosine similarity via reciprocal-rank fusion.

Vector scoring requires OPENAI_API_KEY and --embed; when the embedding
backend is missing or fails, retrieval silently stays lexical-only.

Example:
  claimlens ask "why is line L3 so expensive" --doc doc-001
  claimlens ask "duplicate office visit charges" --embed`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVar(&askDocID, "doc", "", "restrict retrieval to one document id")
	askCmd.Flags().IntVar(&askTopK, "top-k", 5, "maximum hits to return")
	askCmd.Flags().BoolVar(&askEmbed, "embed", false, "enable embedding-based vector scoring")
	askCmd.Flags().StringVar(&askEmbedModel, "embed-model", "", "embedding model name (overrides config)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log := newLogger(cfg)

	if askEmbed {
		cfg.Embedding.Enabled = true
	}
	if askEmbedModel != "" {
		cfg.Embedding.Model = askEmbedModel
	}

	opts := []search.Option{search.WithLogger(log)}
	if cfg.Embedding.Enabled {
		embedder, err := search.NewOpenAIEmbedder(cfg.Embedding)
		if err != nil {
			// Optional dependency: a misconfigured backend degrades to
			// lexical-only, it never fails the query.
			log.Warn().Err(err).Msg("embedding backend not configured; lexical-only scoring")
		} else {
			opts = append(opts, search.WithEmbedder(embedder))
		}
	}

	engine := search.NewEngine(newStore(cfg), opts...)
	answer, err := rag.AnswerWithCitations(context.Background(), engine, args[0], askDocID, askTopK)
	if err != nil {
		return err
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "scoring: %s, hits: %d\n", engine.Source(), len(answer.RetrievalDebug.Hits))
	}
	return printJSON(answer)
}

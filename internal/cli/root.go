package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/claimlens/claimlens/internal/logging"
	"github.com/claimlens/claimlens/internal/model"
	"github.com/claimlens/claimlens/internal/risk"
	"github.com/claimlens/claimlens/internal/store"
)

var (
	cfgFile   string
	verbose   bool
	logFormat string
	dataPath  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "claimlens",
	Short: "ClaimLens - medical bill explainability and appeals assistant",
	Long: `ClaimLens reconciles the arithmetic of Explanation of Benefits (EOB)
documents and explains every number it reports.

It validates the TOTAL row against its components, traces each amount back
to a page and cell citation, flags heuristic billing risks, simulates
policy-based patient responsibility, answers free-text questions against
claim line evidence using hybrid lexical+vector retrieval, and assembles
citation-backed appeal letters.

Amounts that cannot be grounded in present data stay visible and are
marked unverifiable; ClaimLens favors transparency about missing data over
silently dropping it.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("claimlens v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.claimlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "path to structured claims JSON (overrides config)")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("output.log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("data.path", rootCmd.PersistentFlags().Lookup("data"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.claimlens")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match CLAIMLENS_*
	viper.SetEnvPrefix("CLAIMLENS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig materializes the effective configuration: defaults, overlaid
// by the config file and CLAIMLENS_* env vars, overlaid by flags.
func loadConfig() model.Config {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid configuration ignored: %v\n", err)
		cfg = model.DefaultConfig()
	}
	if dataPath != "" {
		cfg.Data.Path = dataPath
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	if logFormat != "" {
		cfg.Output.LogFormat = logFormat
	}
	cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	return cfg
}

func newLogger(cfg model.Config) zerolog.Logger {
	return logging.Setup(cfg.Output.LogFormat, cfg.Output.Verbose)
}

func newStore(cfg model.Config) *store.JSONStore {
	return store.NewJSONStore(cfg.Data.Path, cfg.Data.CacheTTL)
}

func newEvaluator(cfg model.Config) *risk.Evaluator {
	return risk.NewEvaluator(cfg.Risk)
}

// printJSON writes the payload to stdout as indented JSON. Results go to
// stdout; logs and progress stay on stderr.
func printJSON(payload any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(payload)
}

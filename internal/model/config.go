package model

import "time"

// Config holds the full runtime configuration.
type Config struct {
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Risk      RiskConfig      `yaml:"risk" mapstructure:"risk"`
	Embedding EmbeddingConfig `yaml:"embedding" mapstructure:"embedding"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

// DataConfig locates the structured claim corpus.
type DataConfig struct {
	Path     string        `yaml:"path" mapstructure:"path"`           // JSON file mapping doc id -> claim rows
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"` // Per-document row cache lifetime
}

// RiskConfig carries the heuristic thresholds. These are policy constants,
// not clinical truths; override them per deployment.
type RiskConfig struct {
	HighAcuityCPTs    []string `yaml:"high_acuity_cpts" mapstructure:"high_acuity_cpts"`     // Evaluation/management codes checked for upcoding
	UpcodingAllowed   float64  `yaml:"upcoding_allowed" mapstructure:"upcoding_allowed"`     // Allowed-amount threshold for the upcoding rule
	ResidualThreshold float64  `yaml:"residual_threshold" mapstructure:"residual_threshold"` // Unexplained residual threshold for the missing-adjustment rule
}

// EmbeddingConfig configures the optional dense scoring backend.
type EmbeddingConfig struct {
	Enabled   bool    `yaml:"enabled" mapstructure:"enabled"`
	Model     string  `yaml:"model" mapstructure:"model"` // OpenAI embedding model name
	APIKey    string  `yaml:"-" mapstructure:"-"`         // From OPENAI_API_KEY, never persisted
	BaseURL   string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int     `yaml:"timeout" mapstructure:"timeout"`       // Seconds per API call
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // Requests per second
}

// OutputConfig controls rendering of CLI results and logs.
type OutputConfig struct {
	Verbose   bool   `yaml:"verbose" mapstructure:"verbose"`
	LogFormat string `yaml:"log_format" mapstructure:"log_format"` // "text" or "json"
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Data: DataConfig{
			Path:     "claims_struct.json",
			CacheTTL: 10 * time.Minute,
		},
		Risk: RiskConfig{
			HighAcuityCPTs:    []string{"99214", "99215"},
			UpcodingAllowed:   1500,
			ResidualThreshold: 100,
		},
		Embedding: EmbeddingConfig{
			Enabled:   false, // Lexical-only by default; vector scoring is opt-in
			Model:     "text-embedding-3-small",
			Timeout:   30,
			RateLimit: 5,
		},
		Output: OutputConfig{
			LogFormat: "text",
		},
	}
}

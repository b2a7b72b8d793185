package search

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/claimlens/claimlens/internal/model"
)

// embedBatchSize bounds how many segment texts go into one embedding call.
const embedBatchSize = 16

// Embedder encodes texts into fixed-size dense vectors. The model is a
// pretrained black box; the engine only needs vectors of a consistent size.
type Embedder interface {
	// Name identifies the backend for logs and debug output.
	Name() string

	// IsAvailable checks whether the backend is configured and reachable.
	IsAvailable(ctx context.Context) bool

	// Embed encodes the given texts, one vector per text.
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// OpenAIEmbedder implements Embedder against the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client  *openai.Client
	model   openai.EmbeddingModel
	timeout time.Duration
	limiter *rate.Limiter
}

// NewOpenAIEmbedder creates an embedder from config.
func NewOpenAIEmbedder(cfg model.EmbeddingConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	embeddingModel := openai.EmbeddingModel(cfg.Model)
	if cfg.Model == "" {
		embeddingModel = openai.SmallEmbedding3
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 5
	}

	return &OpenAIEmbedder{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   embeddingModel,
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(rps), embedBatchSize),
	}, nil
}

// Name returns the backend name.
func (e *OpenAIEmbedder) Name() string {
	return "openai"
}

// IsAvailable checks the API with a lightweight call.
func (e *OpenAIEmbedder) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	_, err := e.client.ListModels(ctx)
	return err == nil
}

// Embed encodes texts in batches, rate limited per API call.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, 0, len(texts))

	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		resp, err := e.client.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
			Input: batch,
			Model: e.model,
		})
		cancel()
		if err != nil {
			return nil, fmt.Errorf("embedding API error: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("embedding API returned %d vectors for %d inputs", len(resp.Data), len(batch))
		}

		for _, item := range resp.Data {
			vec := make([]float64, len(item.Embedding))
			for i, v := range item.Embedding {
				vec[i] = float64(v)
			}
			vectors = append(vectors, vec)
		}
	}

	return vectors, nil
}

package embed

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIEmbedder implements Generator against the OpenAI embeddings API,
// batching requests at DefaultBatchSize and retrying transient failures
// (spec.md §4.3, §7).
type OpenAIEmbedder struct {
	client    openaisdk.Client
	model     openaisdk.EmbeddingModel
	dimension int
	batchSize int
	retryCfg  RetryConfig
}

// NewOpenAIEmbedder builds an OpenAIEmbedder. baseURL may be empty to use
// the default OpenAI endpoint (set, e.g., to point at a compatible proxy).
func NewOpenAIEmbedder(apiKey, baseURL string, model openaisdk.EmbeddingModel, dimension int) *OpenAIEmbedder {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIEmbedder{
		client:    openaisdk.NewClient(opts...),
		model:     model,
		dimension: dimension,
		batchSize: DefaultBatchSize,
		retryCfg:  DefaultRetryConfig(),
	}
}

func (e *OpenAIEmbedder) Dimensions() int { return e.dimension }

func (e *OpenAIEmbedder) Generate(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.GenerateBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *OpenAIEmbedder) GenerateBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		var sub [][]float32
		err := WithRetry(ctx, e.retryCfg, func() error {
			var callErr error
			sub, callErr = e.callAPI(ctx, texts[start:end])
			return callErr
		})
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

func (e *OpenAIEmbedder) callAPI(ctx context.Context, texts []string) ([][]float32, error) {
	params := openaisdk.EmbeddingNewParams{
		Model: e.model,
		Input: openaisdk.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	}

	resp, err := e.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, classifyOpenAIError(err)
	}
	if len(resp.Data) != len(texts) {
		return nil, Fatal(fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(resp.Data)), nil)
	}

	out := make([][]float32, len(resp.Data))
	for i, emb := range resp.Data {
		out[i] = toFloat32Vector(emb.Embedding, e.dimension)
	}
	return out, nil
}

// classifyOpenAIError treats rate-limit and transport errors as retryable
// and everything else (auth, bad request, model not found) as fatal.
func classifyOpenAIError(err error) error {
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "rate limit") || strings.Contains(lower, "429") ||
		strings.Contains(lower, "timeout") || strings.Contains(lower, "connection") ||
		strings.Contains(lower, "503") || strings.Contains(lower, "502") {
		return Retryable("openai embeddings request failed: "+msg, err)
	}
	return Fatal("openai embeddings request failed: "+msg, err)
}

func toFloat32Vector(input []float64, expected int) []float32 {
	vec := make([]float32, expected)
	for i := 0; i < len(input) && i < expected; i++ {
		vec[i] = float32(input[i])
	}
	return vec
}

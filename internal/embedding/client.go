// Package embedding wraps the external text embedding backend behind a small
// client interface. Vectors are fixed-dimension and unit-length, so cosine
// similarity and inner product are interchangeable downstream.
package embedding

import (
	"context"
	"fmt"
	"math"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

// DefaultDimensions matches the vector(384) column in the wardrobe index.
const DefaultDimensions = 384

type Client interface {
	// Embed returns the unit-length embedding vector for text. Deterministic
	// for a fixed backing model. Empty input produces a vector, not an error.
	Embed(ctx context.Context, text string) ([]float32, error)

	Dimensions() int
}

// OpenAIClient calls the OpenAI embeddings API.
type OpenAIClient struct {
	sdk        openai.Client
	dimensions int
}

func NewOpenAIClient(apiKey string, dimensions int) *OpenAIClient {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &OpenAIClient{
		sdk:        openai.NewClient(option.WithAPIKey(apiKey)),
		dimensions: dimensions,
	}
}

func (c *OpenAIClient) Dimensions() int { return c.dimensions }

func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		// The API rejects empty input; a single space embeds to a real vector.
		text = " "
	}

	resp, err := c.sdk.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: param.NewOpt(text),
		},
		Model:      openai.EmbeddingModelTextEmbedding3Small,
		Dimensions: param.NewOpt(int64(c.dimensions)),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no data")
	}

	emb := resp.Data[0].Embedding
	if len(emb) != c.dimensions {
		return nil, fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(emb), c.dimensions)
	}

	out := make([]float32, len(emb))
	for i := range emb {
		out[i] = float32(emb[i])
	}
	return normalize(out), nil
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return v
	}

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

var _ Client = (*OpenAIClient)(nil)

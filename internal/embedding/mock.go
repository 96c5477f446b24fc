package embedding

import (
	"context"
	"crypto/sha256"
)

// MockClient derives deterministic unit-length vectors from a hash of the
// input text. It stands in for the real backend in tests, seeding, and keyless
// local development.
type MockClient struct {
	dimensions int
}

func NewMockClient(dimensions int) *MockClient {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &MockClient{dimensions: dimensions}
}

func (c *MockClient) Dimensions() int { return c.dimensions }

func (c *MockClient) Embed(_ context.Context, text string) ([]float32, error) {
	sum := sha256.Sum256([]byte(text))

	vec := make([]float32, c.dimensions)
	for i := range vec {
		// hash bytes cycled and mapped to [-1, 1]
		vec[i] = float32(sum[i%len(sum)])/127.5 - 1
	}
	return normalize(vec), nil
}

var _ Client = (*MockClient)(nil)

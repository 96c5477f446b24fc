// Package caption calls the external image captioning inference service.
package caption

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

const maxResponseBytes = 1 << 20

// Downloader fetches image bytes for a stored or public URL.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Client posts image bytes to a HuggingFace-Inference-style endpoint and
// returns the generated caption.
type Client struct {
	endpoint string
	token    string
	httpc    *http.Client
	images   Downloader
}

func NewClient(endpoint, token string, images Downloader) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		httpc:    &http.Client{Timeout: 60 * time.Second},
		images:   images,
	}
}

func (c *Client) Caption(ctx context.Context, imageURL string) (string, error) {
	if c.endpoint == "" {
		return "", fmt.Errorf("caption endpoint not configured")
	}

	data, err := c.images.Download(ctx, imageURL)
	if err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build caption request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("caption request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read caption response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("caption service returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var out []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode caption response: %w", err)
	}
	if len(out) == 0 || out[0].GeneratedText == "" {
		return "", fmt.Errorf("caption service returned no caption")
	}
	return out[0].GeneratedText, nil
}

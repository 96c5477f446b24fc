// Package storage wraps the S3-compatible object store that holds wardrobe
// images. Stored image URLs are opaque references; clients only ever see
// short-lived signed URLs resolved here.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultURLExpiry = 15 * time.Minute

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
}

type Client struct {
	mc     *minio.Client
	bucket string
	expiry time.Duration
	httpc  *http.Client
}

func NewClient(opts Options) (*Client, error) {
	mc, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	expiry := opts.URLExpiry
	if expiry <= 0 {
		expiry = defaultURLExpiry
	}

	return &Client{
		mc:     mc,
		bucket: opts.Bucket,
		expiry: expiry,
		httpc:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// ResolveSignedURLs exchanges stored image URLs for short-lived signed ones.
// Output order and length match the input; any failure aborts the whole batch
// so callers never mix raw and signed URLs.
func (c *Client) ResolveSignedURLs(ctx context.Context, urls []string) ([]string, error) {
	signed := make([]string, len(urls))
	for i, raw := range urls {
		key, err := c.objectKey(raw)
		if err != nil {
			return nil, err
		}
		u, err := c.mc.PresignedGetObject(ctx, c.bucket, key, c.expiry, nil)
		if err != nil {
			return nil, fmt.Errorf("presign object %q: %w", key, err)
		}
		signed[i] = u.String()
	}
	return signed, nil
}

// Download fetches image bytes, from the bucket when the URL resolves to an
// object key, falling back to a direct GET for public URLs.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	if key, err := c.objectKey(rawURL); err == nil {
		if data, err := c.downloadObject(ctx, key); err == nil {
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %q: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %q: status %d", rawURL, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read download body: %w", err)
	}
	return data, nil
}

func (c *Client) downloadObject(ctx context.Context, key string) ([]byte, error) {
	obj, err := c.mc.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

// objectKey extracts the object key from a stored image URL. Accepts
// virtual-hosted-style URLs (bucket in the hostname), path-style URLs (bucket
// as the first path segment), and bare object keys.
func (c *Client) objectKey(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("empty image url")
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.TrimPrefix(raw, "/"), nil
	}

	path := strings.TrimPrefix(u.Path, "/")
	if path == "" {
		return "", fmt.Errorf("no object key in url %q", raw)
	}

	if strings.HasPrefix(u.Host, c.bucket+".") {
		return path, nil
	}
	if first, rest, ok := strings.Cut(path, "/"); ok && first == c.bucket {
		return rest, nil
	}
	return path, nil
}

package caption

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeDownloader struct {
	data []byte
	err  error
}

func (f *fakeDownloader) Download(context.Context, string) ([]byte, error) {
	return f.data, f.err
}

func TestCaptionSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Write([]byte(`[{"generated_text": "a red cotton dress"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token", &fakeDownloader{data: []byte("img-bytes")})

	got, err := c.Caption(context.Background(), "wardrobe/u1/dress.jpg")
	if err != nil {
		t.Fatalf("caption failed: %v", err)
	}
	if got != "a red cotton dress" {
		t.Errorf("expected caption, got %q", got)
	}
}

func TestCaptionServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", &fakeDownloader{data: []byte("img-bytes")})

	if _, err := c.Caption(context.Background(), "img.jpg"); err == nil {
		t.Error("expected error from 503 response")
	}
}

func TestCaptionEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", &fakeDownloader{data: []byte("img-bytes")})

	if _, err := c.Caption(context.Background(), "img.jpg"); err == nil {
		t.Error("expected error for empty caption list")
	}
}

func TestCaptionNoEndpoint(t *testing.T) {
	c := NewClient("", "", &fakeDownloader{data: []byte("img-bytes")})

	if _, err := c.Caption(context.Background(), "img.jpg"); err == nil {
		t.Error("expected error when endpoint is not configured")
	}
}

func TestCaptionDownloadFailure(t *testing.T) {
	c := NewClient("http://localhost:1", "", &fakeDownloader{err: errors.New("no such object")})

	if _, err := c.Caption(context.Background(), "img.jpg"); err == nil {
		t.Error("expected error when download fails")
	}
}

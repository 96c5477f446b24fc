package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabrecsai/wardrobe-service/internal/domain"
	"github.com/fabrecsai/wardrobe-service/internal/service"
)

type stubEmbedder struct {
	fail bool
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.fail {
		return nil, errors.New("backend unavailable")
	}
	return []float32{1, 0, 0}, nil
}

func (s *stubEmbedder) Dimensions() int { return 3 }

type stubStore struct {
	results   []domain.SearchResult
	deleteErr error
	items     []domain.WardrobeItem
}

func (s *stubStore) Insert(context.Context, *domain.WardrobeItem) error { return nil }

func (s *stubStore) Delete(_ context.Context, itemID, userID string) error { return s.deleteErr }

func (s *stubStore) FindByUser(_ context.Context, userID string) ([]domain.WardrobeItem, error) {
	return s.items, nil
}

func (s *stubStore) SearchSimilar(_ context.Context, _ []float32, userID string, k int) ([]domain.SearchResult, error) {
	var out []domain.SearchResult
	for _, r := range s.results {
		if r.UserID != userID {
			continue
		}
		out = append(out, r)
		if len(out) == k {
			break
		}
	}
	return out, nil
}

type stubResolver struct{}

func (stubResolver) ResolveSignedURLs(_ context.Context, urls []string) ([]string, error) {
	signed := make([]string, len(urls))
	for i, u := range urls {
		signed[i] = "https://signed.example.com/" + u
	}
	return signed, nil
}

type stubCaptioner struct {
	caption string
	err     error
}

func (s *stubCaptioner) Caption(context.Context, string) (string, error) {
	return s.caption, s.err
}

func newTestRouter(store *stubStore, emb *stubEmbedder, captioner *stubCaptioner) http.Handler {
	svc := service.New(store, emb, stubResolver{}, captioner, nil, service.Options{TopK: 2, Concurrency: 2})
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Post("/api/wardrobe/vectorize", h.Vectorize)
	r.Post("/api/wardrobe/match", h.MatchWardrobe)
	r.Post("/api/wardrobe/items", h.AddItem)
	r.Get("/api/wardrobe/items/{userID}", h.GetWardrobe)
	r.Delete("/api/wardrobe/items/{itemID}", h.DeleteItem)
	r.Post("/api/caption/", h.CaptionImage)
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestMatchEndpoint(t *testing.T) {
	store := &stubStore{results: []domain.SearchResult{
		{
			WardrobeItem: domain.WardrobeItem{
				ID:       "shirt-1",
				UserID:   "u1",
				ImageURL: "wardrobe/u1/s1.jpg",
				Caption:  "a blue cotton shirt",
				Category: "stored",
			},
			Score: 0.93,
		},
	}}
	router := newTestRouter(store, &stubEmbedder{}, &stubCaptioner{})

	body := `{
		"user_id": "u1",
		"recommendations": {"tops": {"Suggestions": [{"Clothing Type": "shirt", "Color": "blue"}]}}
	}`
	rec := doRequest(t, router, http.MethodPost, "/api/wardrobe/match", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Recommendations [][]map[string]any `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// the flat list sits inside a single-element outer array
	require.Len(t, resp.Recommendations, 1)
	require.Len(t, resp.Recommendations[0], 1)

	item := resp.Recommendations[0][0]
	assert.Equal(t, "shirt-1", item["id"])
	assert.Equal(t, "tops", item["category"])
	assert.Equal(t, "https://signed.example.com/wardrobe/u1/s1.jpg", item["image_url"])
	emb, ok := item["caption_embedding"]
	assert.True(t, ok)
	assert.Nil(t, emb)
}

func TestMatchEndpointEmptyPayload(t *testing.T) {
	router := newTestRouter(&stubStore{}, &stubEmbedder{}, &stubCaptioner{})

	rec := doRequest(t, router, http.MethodPost, "/api/wardrobe/match",
		`{"user_id": "u1", "recommendations": {}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"recommendations": [[]]}`, rec.Body.String())
}

func TestMatchEndpointMissingUserID(t *testing.T) {
	router := newTestRouter(&stubStore{}, &stubEmbedder{}, &stubCaptioner{})

	rec := doRequest(t, router, http.MethodPost, "/api/wardrobe/match",
		`{"recommendations": {}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_parameter", resp.Error)
}

func TestMatchEndpointInvalidBody(t *testing.T) {
	router := newTestRouter(&stubStore{}, &stubEmbedder{}, &stubCaptioner{})

	rec := doRequest(t, router, http.MethodPost, "/api/wardrobe/match", `["not", "an", "object"]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVectorizeEndpoint(t *testing.T) {
	router := newTestRouter(&stubStore{}, &stubEmbedder{}, &stubCaptioner{})

	rec := doRequest(t, router, http.MethodPost, "/api/wardrobe/vectorize", `{"text": "blue shirt"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp VectorizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []float32{1, 0, 0}, resp.Vector)
}

func TestVectorizeEndpointNullOnFailure(t *testing.T) {
	router := newTestRouter(&stubStore{}, &stubEmbedder{fail: true}, &stubCaptioner{})

	rec := doRequest(t, router, http.MethodPost, "/api/wardrobe/vectorize", `{"text": "blue shirt"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"vector": null}`, rec.Body.String())
}

func TestAddItemEndpoint(t *testing.T) {
	router := newTestRouter(&stubStore{}, &stubEmbedder{}, &stubCaptioner{caption: "a red dress"})

	body := `{"user_id": "u1", "image_url": "wardrobe/u1/dress.jpg", "category": "dresses"}`
	rec := doRequest(t, router, http.MethodPost, "/api/wardrobe/items", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp ItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Item.ID)
	assert.Equal(t, "a red dress", resp.Item.Caption)
	assert.Nil(t, resp.Item.CaptionEmbedding)
}

func TestAddItemEndpointMissingFields(t *testing.T) {
	router := newTestRouter(&stubStore{}, &stubEmbedder{}, &stubCaptioner{})

	rec := doRequest(t, router, http.MethodPost, "/api/wardrobe/items", `{"user_id": "u1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetWardrobeEndpoint(t *testing.T) {
	store := &stubStore{items: []domain.WardrobeItem{
		{ID: "i1", UserID: "u1", ImageURL: "wardrobe/u1/a.jpg"},
	}}
	router := newTestRouter(store, &stubEmbedder{}, &stubCaptioner{})

	rec := doRequest(t, router, http.MethodGet, "/api/wardrobe/items/u1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp WardrobeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "https://signed.example.com/wardrobe/u1/a.jpg", resp.Items[0].ImageURL)
}

func TestDeleteItemEndpoint(t *testing.T) {
	cases := []struct {
		name      string
		deleteErr error
		path      string
		wantCode  int
	}{
		{"deleted", nil, "/api/wardrobe/items/i1?user_id=u1", http.StatusNoContent},
		{"not found", domain.ErrItemNotFound, "/api/wardrobe/items/missing?user_id=u1", http.StatusNotFound},
		{"missing user_id", nil, "/api/wardrobe/items/i1", http.StatusBadRequest},
		{"store failure", fmt.Errorf("connection refused"), "/api/wardrobe/items/i1?user_id=u1", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&stubStore{deleteErr: tc.deleteErr}, &stubEmbedder{}, &stubCaptioner{})
			rec := doRequest(t, router, http.MethodDelete, tc.path, "")
			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}

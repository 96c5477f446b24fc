// Package service implements the wardrobe matching pipeline and the
// operations behind the wardrobe API. Collaborators (document store, embedding
// backend, object storage, captioning service, cache) are injected as
// interfaces, constructed once at startup and safe for concurrent use.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/fabrecsai/wardrobe-service/internal/domain"
	"github.com/fabrecsai/wardrobe-service/internal/embedding"
)

const (
	defaultTopK        = 2
	defaultConcurrency = 4
)

// WardrobeStore is the persistence contract: document CRUD plus the
// user-filtered nearest-neighbor search.
type WardrobeStore interface {
	Insert(ctx context.Context, item *domain.WardrobeItem) error
	Delete(ctx context.Context, itemID, userID string) error
	FindByUser(ctx context.Context, userID string) ([]domain.WardrobeItem, error)
	SearchSimilar(ctx context.Context, queryVec []float32, userID string, k int) ([]domain.SearchResult, error)
}

// URLResolver exchanges stored object URLs for client-usable signed URLs,
// order-preserving and all-or-nothing per batch.
type URLResolver interface {
	ResolveSignedURLs(ctx context.Context, urls []string) ([]string, error)
}

// Captioner describes an image.
type Captioner interface {
	Caption(ctx context.Context, imageURL string) (string, error)
}

// VectorCache caches embeddings across requests. Cache failures are logged
// and never fail a request.
type VectorCache interface {
	Get(ctx context.Context, text string) ([]float32, bool, error)
	Set(ctx context.Context, text string, vec []float32) error
}

type Options struct {
	TopK        int
	Concurrency int
}

type Service struct {
	store       WardrobeStore
	embedder    embedding.Client
	urls        URLResolver
	captioner   Captioner
	cache       VectorCache
	topK        int
	concurrency int
}

// New wires the service. cache may be nil, in which case every embedding goes
// to the backend.
func New(store WardrobeStore, embedder embedding.Client, urls URLResolver, captioner Captioner, cache VectorCache, opts Options) *Service {
	topK := opts.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Service{
		store:       store,
		embedder:    embedder,
		urls:        urls,
		captioner:   captioner,
		cache:       cache,
		topK:        topK,
		concurrency: concurrency,
	}
}

// Vectorize returns the embedding for text, serving repeated texts from cache.
func (s *Service) Vectorize(ctx context.Context, text string) ([]float32, error) {
	return s.embedText(ctx, text)
}

func (s *Service) embedText(ctx context.Context, text string) ([]float32, error) {
	if s.cache != nil {
		vec, found, err := s.cache.Get(ctx, text)
		if err != nil {
			log.Printf("[service] embedding cache get error: %v", err)
		}
		if found {
			return vec, nil
		}
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, &domain.EmbeddingError{Err: err}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, text, vec); err != nil {
			log.Printf("[service] embedding cache set error: %v", err)
		}
	}
	return vec, nil
}

// AddItem captions the image when no caption is given, embeds the caption,
// and persists the item.
func (s *Service) AddItem(ctx context.Context, userID, imageURL, captionText, category string) (*domain.WardrobeItem, error) {
	if captionText == "" {
		generated, err := s.captioner.Caption(ctx, imageURL)
		if err != nil {
			return nil, fmt.Errorf("caption image: %w", err)
		}
		captionText = generated
	}

	vec, err := s.embedText(ctx, captionText)
	if err != nil {
		return nil, err
	}

	item := &domain.WardrobeItem{
		ID:               uuid.NewString(),
		UserID:           userID,
		ImageURL:         imageURL,
		Caption:          captionText,
		CaptionEmbedding: vec,
		Category:         category,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetWardrobe lists a user's items with signed image URLs, one resolution
// batch for the whole wardrobe. Stored embeddings are not returned.
func (s *Service) GetWardrobe(ctx context.Context, userID string) ([]domain.WardrobeItem, error) {
	items, err := s.store.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []domain.WardrobeItem{}, nil
	}

	urls := make([]string, len(items))
	for i := range items {
		urls[i] = items[i].ImageURL
	}
	signed, err := s.urls.ResolveSignedURLs(ctx, urls)
	if err != nil {
		return nil, &domain.URLResolutionError{Err: err}
	}

	for i := range items {
		items[i].ImageURL = signed[i]
		items[i].CaptionEmbedding = nil
	}
	return items, nil
}

// DeleteItem removes one item, scoped to its owner.
func (s *Service) DeleteItem(ctx context.Context, itemID, userID string) error {
	return s.store.Delete(ctx, itemID, userID)
}

// CaptionImage describes the image at the given URL.
func (s *Service) CaptionImage(ctx context.Context, imageURL string) (string, error) {
	return s.captioner.Caption(ctx, imageURL)
}

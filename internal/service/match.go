package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/fabrecsai/wardrobe-service/internal/domain"
)

// itemOutcome is the per-descriptor result of one embed+search round trip.
// Failures are carried as values so the caller can apply the skip policy
// explicitly instead of aborting the request.
type itemOutcome struct {
	results []domain.SearchResult
	err     error
}

// MatchWardrobe finds, for every clothing descriptor in the payload, the
// user's most similar saved items and returns the flattened ranked list.
// Individual descriptor failures are skipped; only a cancelled request fails
// as a whole.
func (s *Service) MatchWardrobe(ctx context.Context, userID string, payload domain.RecommendationPayload) ([]domain.FlatRecommendation, error) {
	buckets := s.matchBuckets(ctx, userID, payload)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return domain.Flatten(buckets), nil
}

// matchBuckets runs the embed+search round trip for each extracted descriptor
// and assembles results per category and subcategory in payload traversal
// order. Round trips run concurrently under a bounded pool; outcomes are
// gathered by index so output order never depends on completion order. A
// failed descriptor is logged and contributes nothing; a subcategory with
// zero successes is omitted entirely.
func (s *Service) matchBuckets(ctx context.Context, userID string, payload domain.RecommendationPayload) []domain.CategoryBucket {
	queries := payload.QueryItems()
	outcomes := make([]itemOutcome, len(queries))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.concurrency) // semaphore

	for i := range queries {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			results, err := s.searchSimilar(ctx, queries[idx].QueryText, userID)
			outcomes[idx] = itemOutcome{results: results, err: err}
		}(i)
	}
	wg.Wait()

	var buckets []domain.CategoryBucket
	for i, q := range queries {
		if outcomes[i].err != nil {
			log.Printf("[service] match: query %q under %s/%s failed: %v",
				q.QueryText, q.Category, q.Subcategory, outcomes[i].err)
			continue
		}

		if len(buckets) == 0 || buckets[len(buckets)-1].Category != q.Category {
			buckets = append(buckets, domain.CategoryBucket{Category: q.Category})
		}
		cb := &buckets[len(buckets)-1]

		if len(cb.Groups) == 0 || cb.Groups[len(cb.Groups)-1].Label != q.Subcategory {
			cb.Groups = append(cb.Groups, domain.SubcategoryResults{Label: q.Subcategory})
		}
		grp := &cb.Groups[len(cb.Groups)-1]

		grp.ItemResults = append(grp.ItemResults, outcomes[i].results)
	}
	return buckets
}

// searchSimilar is the similarity search gate: embed the query text, run the
// user-scoped vector search, then resolve stored image URLs to signed ones in
// a single batch per search. Zero matches is an empty result, not an error.
func (s *Service) searchSimilar(ctx context.Context, queryText, userID string) ([]domain.SearchResult, error) {
	vec, err := s.embedText(ctx, queryText)
	if err != nil {
		return nil, err
	}

	results, err := s.store.SearchSimilar(ctx, vec, userID, s.topK)
	if err != nil {
		return nil, &domain.SearchError{Err: err}
	}
	if len(results) == 0 {
		return []domain.SearchResult{}, nil
	}

	urls := make([]string, len(results))
	for i := range results {
		urls[i] = results[i].ImageURL
	}
	signed, err := s.urls.ResolveSignedURLs(ctx, urls)
	if err != nil {
		return nil, &domain.URLResolutionError{Err: err}
	}
	if len(signed) != len(results) {
		return nil, &domain.URLResolutionError{
			Err: fmt.Errorf("resolved %d urls for %d results", len(signed), len(results)),
		}
	}

	for i := range results {
		results[i].ImageURL = signed[i]
		results[i].CaptionEmbedding = nil
	}
	return results, nil
}

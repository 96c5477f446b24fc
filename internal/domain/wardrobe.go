package domain

import "time"

type WardrobeItem struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	ImageURL         string    `json:"image_url"`
	Caption          string    `json:"caption"`
	CaptionEmbedding []float32 `json:"caption_embedding"`
	Category         string    `json:"category"`
	CreatedAt        time.Time `json:"created_at"`
}

// SearchResult is a wardrobe item as returned from similarity search: ImageURL
// holds a signed URL and CaptionEmbedding is never populated, so it serializes
// as null.
type SearchResult struct {
	WardrobeItem
	Score float64 `json:"score"`
}

// FlatRecommendation is a search result stamped with the top-level payload
// category it was found under. The outer Category field shadows the item's
// stored category in the JSON output.
type FlatRecommendation struct {
	SearchResult
	Category string `json:"category"`
}

// SubcategoryResults holds one result list per originating descriptor, in
// descriptor order.
type SubcategoryResults struct {
	Label       string
	ItemResults [][]SearchResult
}

// CategoryBucket groups match results for one top-level payload category.
// Buckets are ordered slices rather than maps so traversal order always equals
// payload encounter order.
type CategoryBucket struct {
	Category string
	Groups   []SubcategoryResults
}

// Flatten converts the nested bucket structure into a single ordered list,
// stamping each result with its bucket's category. Pure structural transform:
// no filtering, no deduplication, no re-ranking.
func Flatten(buckets []CategoryBucket) []FlatRecommendation {
	flat := make([]FlatRecommendation, 0)
	for _, cb := range buckets {
		for _, grp := range cb.Groups {
			for _, results := range grp.ItemResults {
				for _, res := range results {
					flat = append(flat, FlatRecommendation{
						SearchResult: res,
						Category:     cb.Category,
					})
				}
			}
		}
	}
	return flat
}

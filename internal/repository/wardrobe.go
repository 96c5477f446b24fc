package repository

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/fabrecsai/wardrobe-service/internal/domain"
)

// Insert stores a new wardrobe item with its caption embedding.
func (r *Repository) Insert(ctx context.Context, item *domain.WardrobeItem) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO wardrobe_items (id, user_id, image_url, caption, caption_embedding, category, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.UserID, item.ImageURL, item.Caption,
		pgvector.NewVector(item.CaptionEmbedding), item.Category, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wardrobe item %s: %w", item.ID, err)
	}
	return nil
}

// Delete removes an item owned by the user. Returns domain.ErrItemNotFound
// when no matching row exists.
func (r *Repository) Delete(ctx context.Context, itemID, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM wardrobe_items WHERE id = $1 AND user_id = $2`,
		itemID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete wardrobe item %s: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// FindByUser returns every item the user has saved, newest first.
func (r *Repository) FindByUser(ctx context.Context, userID string) ([]domain.WardrobeItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, image_url, caption, category, created_at
		 FROM wardrobe_items
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query wardrobe for user %s: %w", userID, err)
	}
	defer rows.Close()

	var items []domain.WardrobeItem
	for rows.Next() {
		var it domain.WardrobeItem
		err := rows.Scan(&it.ID, &it.UserID, &it.ImageURL, &it.Caption, &it.Category, &it.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan wardrobe item: %w", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over wardrobe items: %w", err)
	}
	return items, nil
}

// SearchSimilar returns the user's k nearest items to the query vector by
// cosine similarity, best first. The user filter is part of the query, so
// other users' rows are never candidates regardless of k. The stored embedding
// is not selected; results carry no caption_embedding.
func (r *Repository) SearchSimilar(ctx context.Context, queryVec []float32, userID string, k int) ([]domain.SearchResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, image_url, caption, category, created_at,
		        1 - (caption_embedding <=> $1) AS score
		 FROM wardrobe_items
		 WHERE user_id = $2
		 ORDER BY caption_embedding <=> $1
		 LIMIT $3`,
		pgvector.NewVector(queryVec), userID, k,
	)
	if err != nil {
		return nil, fmt.Errorf("vector search for user %s: %w", userID, err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var res domain.SearchResult
		err := rows.Scan(&res.ID, &res.UserID, &res.ImageURL, &res.Caption, &res.Category, &res.CreatedAt, &res.Score)
		if err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over search results: %w", err)
	}
	return results, nil
}

package seeds

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/fabrecsai/wardrobe-service/internal/embedding"
)

const demoUserID = "demo-user"

type seedItem struct {
	caption  string
	category string
	key      string
}

var demoItems = []seedItem{
	{"blue cotton shirt with short sleeves", "tops", "wardrobe/demo/blue-shirt.jpg"},
	{"white linen button-up shirt", "tops", "wardrobe/demo/white-shirt.jpg"},
	{"grey crewneck sweater", "tops", "wardrobe/demo/grey-sweater.jpg"},
	{"black slim fit jeans", "bottoms", "wardrobe/demo/black-jeans.jpg"},
	{"beige chino trousers", "bottoms", "wardrobe/demo/beige-chinos.jpg"},
	{"white leather sneakers", "shoes", "wardrobe/demo/white-sneakers.jpg"},
	{"brown suede ankle boots", "shoes", "wardrobe/demo/brown-boots.jpg"},
	{"red wool scarf", "accessories", "wardrobe/demo/red-scarf.jpg"},
	{"black leather belt", "accessories", "wardrobe/demo/black-belt.jpg"},
}

// Setup inserts a demo wardrobe so vector search returns something out of the
// box. Captions are embedded with whatever client the server runs with, so
// seeded vectors and query vectors always come from the same model.
func Setup(ctx context.Context, pool *pgxpool.Pool, embedder embedding.Client) error {
	log.Println("[seed] inserting demo wardrobe items")

	for _, it := range demoItems {
		vec, err := embedder.Embed(ctx, it.caption)
		if err != nil {
			return fmt.Errorf("embed seed caption %q: %w", it.caption, err)
		}

		_, err = pool.Exec(ctx,
			`INSERT INTO wardrobe_items (id, user_id, image_url, caption, caption_embedding, category, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.NewString(), demoUserID, it.key, it.caption,
			pgvector.NewVector(vec), it.category, time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("insert seed item %q: %w", it.caption, err)
		}
	}

	log.Println("[seed] seeding complete")
	return nil
}

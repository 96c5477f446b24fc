package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fabrecsai/wardrobe-service/internal/handler"
)

func Setup(h *handler.Handler) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// Routes
	r.Route("/api/wardrobe", func(r chi.Router) {
		r.Post("/vectorize", h.Vectorize)
		r.Post("/match", h.MatchWardrobe)
		r.Post("/items", h.AddItem)
		r.Get("/items/{userID}", h.GetWardrobe)
		r.Delete("/items/{itemID}", h.DeleteItem)
	})
	r.Post("/api/caption/", h.CaptionImage)
	r.Get("/health", healthCheck)

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message":"Fashion Recommendation ML API is running!"}`))
}

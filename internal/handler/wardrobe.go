package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/fabrecsai/wardrobe-service/internal/domain"
)

// POST /api/wardrobe/vectorize
func (h *Handler) Vectorize(w http.ResponseWriter, r *http.Request) {
	var req VectorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}

	vec, err := h.service.Vectorize(r.Context(), req.Text)
	if err != nil {
		log.Printf("[handler] vectorize failed: %v", err)
		writeJSON(w, http.StatusOK, VectorizeResponse{Vector: nil})
		return
	}

	writeJSON(w, http.StatusOK, VectorizeResponse{Vector: vec})
}

// POST /api/wardrobe/match
func (h *Handler) MatchWardrobe(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "user_id is required")
		return
	}

	flat, err := h.service.MatchWardrobe(r.Context(), req.UserID, req.Recommendations)
	if err != nil {
		// Request timeout or client disconnect
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout",
				"Request timed out, please try again")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, MatchResponse{
		Recommendations: [][]domain.FlatRecommendation{flat},
	})
}

// POST /api/wardrobe/items
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}
	if req.UserID == "" || req.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "user_id and image_url are required")
		return
	}

	item, err := h.service.AddItem(r.Context(), req.UserID, req.ImageURL, req.Caption, req.Category)
	if err != nil {
		log.Printf("[handler] add item failed for user %s: %v", req.UserID, err)
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	created := *item
	created.CaptionEmbedding = nil
	writeJSON(w, http.StatusCreated, ItemResponse{Item: created})
}

// GET /api/wardrobe/items/{userID}
func (h *Handler) GetWardrobe(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid user_id parameter")
		return
	}

	items, err := h.service.GetWardrobe(r.Context(), userID)
	if err != nil {
		log.Printf("[handler] get wardrobe failed for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, WardrobeResponse{Items: items})
}

// DELETE /api/wardrobe/items/{itemID}?user_id=
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "user_id query parameter is required")
		return
	}

	if err := h.service.DeleteItem(r.Context(), itemID, userID); err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			writeError(w, http.StatusNotFound, "item_not_found",
				"Wardrobe item does not exist for this user")
			return
		}
		log.Printf("[handler] delete item %s failed: %v", itemID, err)
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

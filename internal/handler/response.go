package handler

import "github.com/fabrecsai/wardrobe-service/internal/domain"

type VectorizeRequest struct {
	Text string `json:"text"`
}

// VectorizeResponse carries null instead of an HTTP error when embedding
// fails; callers tolerate a null vector.
type VectorizeResponse struct {
	Vector []float32 `json:"vector"`
}

type MatchRequest struct {
	UserID          string                       `json:"user_id"`
	Recommendations domain.RecommendationPayload `json:"recommendations"`
}

// MatchResponse wraps the flattened list in a single-element outer array; the
// frontend consumes exactly this shape.
type MatchResponse struct {
	Recommendations [][]domain.FlatRecommendation `json:"recommendations"`
}

type AddItemRequest struct {
	UserID   string `json:"user_id"`
	ImageURL string `json:"image_url"`
	Caption  string `json:"caption,omitempty"`
	Category string `json:"category,omitempty"`
}

type ItemResponse struct {
	Item domain.WardrobeItem `json:"item"`
}

type WardrobeResponse struct {
	Items []domain.WardrobeItem `json:"items"`
}

type CaptionRequest struct {
	ImageURL string `json:"image_url"`
}

type CaptionResponse struct {
	Caption string `json:"caption,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

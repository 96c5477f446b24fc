package handler

import (
	"log"
	"net/http"

	"github.com/goccy/go-json"
)

// POST /api/caption/
func (h *Handler) CaptionImage(w http.ResponseWriter, r *http.Request) {
	var req CaptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}
	if req.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "image_url is required")
		return
	}

	captionText, err := h.service.CaptionImage(r.Context(), req.ImageURL)
	if err != nil {
		// Failures are reported in-band; existing clients read the error
		// field out of a 200 response.
		log.Printf("[handler] caption failed for %s: %v", req.ImageURL, err)
		writeJSON(w, http.StatusOK, CaptionResponse{Error: "failed to generate caption"})
		return
	}

	writeJSON(w, http.StatusOK, CaptionResponse{Caption: captionText})
}

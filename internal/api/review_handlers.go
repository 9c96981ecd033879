package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"detailing/internal/auth"
	"detailing/internal/entities"
	"detailing/internal/service"
)

type ReviewHandler struct {
	Service *service.ReviewService
}

func NewReviewHandler(svc *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{Service: svc}
}

func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	var req entities.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	review, err := h.Service.CreateReview(caller.ID, req)
	if err != nil {
		writeServiceError(w, err, "Could not create review")
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// PendingReviews lists the caller's completed appointments awaiting a review.
func (h *ReviewHandler) PendingReviews(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	ids, err := h.Service.PendingReviews(caller.ID)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"appointment_ids": ids})
}

// PublicReviews is unauthenticated; the marketing site reads it.
func (h *ReviewHandler) PublicReviews(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	reviews, err := h.Service.PublicReviews(limit)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

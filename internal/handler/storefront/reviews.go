package storefront

import (
	"net/http"
	"strings"

	"github.com/dukerupert/vortex/internal/domain"
	"github.com/dukerupert/vortex/internal/handler"
	"github.com/dukerupert/vortex/internal/telemetry"
)

// ReviewHandler handles product review routes
type ReviewHandler struct {
	reviews   Reviews
	validator Validator
	metrics   *telemetry.BusinessMetrics
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews Reviews, validator Validator, metrics *telemetry.BusinessMetrics) *ReviewHandler {
	return &ReviewHandler{
		reviews:   reviews,
		validator: validator,
		metrics:   metrics,
	}
}

// List handles GET /products/{id}/reviews
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListReviews(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	handler.WriteJSON(w, http.StatusOK, reviews)
}

// Create handles POST /products/{id}/reviews
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.NewReview
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if err := h.validator.Struct("review.create", req); err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}
	req.Comment = strings.TrimSpace(req.Comment)
	req.UserName = strings.TrimSpace(req.UserName)

	review, err := h.reviews.CreateReview(r.Context(), r.PathValue("id"), req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.metrics.RecordReviewCreated()
	handler.WriteJSON(w, http.StatusCreated, review)
}

// Update handles PUT /reviews/{id}
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.ReviewUpdate
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if req.Rating == nil && req.Comment == nil {
		handler.BadRequestResponse(w, r, "Nothing to update")
		return
	}
	if err := h.validator.Struct("review.update", req); err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	review, err := h.reviews.UpdateReview(r.Context(), r.PathValue("id"), req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, review)
}

// Delete handles DELETE /reviews/{id}
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.reviews.DeleteReview(r.Context(), r.PathValue("id")); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

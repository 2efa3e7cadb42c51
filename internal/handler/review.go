package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentndrive/internal/domain"
	"rentndrive/internal/middleware"
	"rentndrive/internal/service"
)

// ReviewHandler handles HTTP requests for reviews.
type ReviewHandler struct {
	reviewService *service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// ReviewResponse is the HTTP representation of a review.
type ReviewResponse struct {
	ID         string `json:"id"`
	ReviewerID string `json:"reviewer_id"`
	TargetID   string `json:"target_id"`
	TargetType string `json:"target_type"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func toReviewResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		ReviewerID: r.ReviewerID,
		TargetID:   r.TargetID,
		TargetType: string(r.TargetType),
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt.Format(timeLayout),
	}
}

// addReviewRequest is the request body for POST /review.
type addReviewRequest struct {
	TargetID   string `json:"target_id" binding:"required"`
	TargetType string `json:"target_type" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Comment    string `json:"comment"`
}

// Add handles POST /review
func (h *ReviewHandler) Add(c *gin.Context) {
	var req addReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrInvalidReviewTarget)
		return
	}

	review, err := h.reviewService.AddReview(c.Request.Context(), middleware.ActorFrom(c), service.AddReviewRequest{
		TargetID:   req.TargetID,
		TargetType: domain.ReviewTargetType(req.TargetType),
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{
		"message": "Review added",
		"review":  toReviewResponse(review),
	})
}

// ListOwn handles GET /reviews
func (h *ReviewHandler) ListOwn(c *gin.Context) {
	reviews, err := h.reviewService.ListOwn(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toReviewResponses(reviews))
}

// ListAll handles GET /admin/reviews
func (h *ReviewHandler) ListAll(c *gin.Context) {
	reviews, err := h.reviewService.ListAll(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toReviewResponses(reviews))
}

// Delete handles DELETE /review/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	if err := h.reviewService.DeleteReview(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"message": "Review deleted"})
}

func toReviewResponses(reviews []*domain.Review) []ReviewResponse {
	response := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		response = append(response, toReviewResponse(r))
	}
	return response
}

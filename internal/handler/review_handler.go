package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/algoprep/backend/internal/domain"
	"github.com/algoprep/backend/internal/service"
)

// ReviewHandler handles synchronous code review requests
type ReviewHandler struct {
	reviewService *service.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// Review evaluates a code submission and returns the structured verdict.
// Repeated submissions of the same code for the same problem are served from
// cache.
// POST /api/review
func (h *ReviewHandler) Review(c *gin.Context) {
	var req domain.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	review, err := h.reviewService.Review(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrReviewUpstream) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "AI service unavailable",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to review code",
		})
		return
	}

	c.JSON(http.StatusOK, review)
}

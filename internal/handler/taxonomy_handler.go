package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/algoprep/backend/internal/service"
)

// TaxonomyHandler serves the topic and pattern lookup tables
type TaxonomyHandler struct {
	problemService *service.ProblemService
}

// NewTaxonomyHandler creates a new taxonomy handler
func NewTaxonomyHandler(problemService *service.ProblemService) *TaxonomyHandler {
	return &TaxonomyHandler{
		problemService: problemService,
	}
}

// GetTopics returns all topics
// GET /api/topics
func (h *TaxonomyHandler) GetTopics(c *gin.Context) {
	topics, err := h.problemService.GetTopics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve topics",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

// GetPatterns returns all patterns
// GET /api/patterns
func (h *TaxonomyHandler) GetPatterns(c *gin.Context) {
	patterns, err := h.problemService.GetPatterns(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve patterns",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"patterns": patterns})
}

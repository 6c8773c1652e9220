package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/algoprep/backend/internal/domain"
	"github.com/algoprep/backend/internal/service"
)

// AssistantHandler exposes the conversational assistant endpoints. Each route
// has the same request/response shape with a different system persona.
type AssistantHandler struct {
	assistantService *service.AssistantService
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistantService *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{
		assistantService: assistantService,
	}
}

// Explain answers questions about the current problem statement
// POST /api/explain
func (h *AssistantHandler) Explain(c *gin.Context) {
	h.respond(c, h.assistantService.Explain)
}

// AnalyzeCode reviews the user's in-progress code conversationally
// POST /api/code-analyze
func (h *AssistantHandler) AnalyzeCode(c *gin.Context) {
	h.respond(c, h.assistantService.AnalyzeCode)
}

// CodeHelp gives hints without revealing full solutions
// POST /api/code-help
func (h *AssistantHandler) CodeHelp(c *gin.Context) {
	h.respond(c, h.assistantService.CodeHelp)
}

// Docs answers language and library documentation questions
// POST /api/docs
func (h *AssistantHandler) Docs(c *gin.Context) {
	h.respond(c, h.assistantService.Docs)
}

// InfoHelp answers general questions about the selected topic
// POST /api/info-help
func (h *AssistantHandler) InfoHelp(c *gin.Context) {
	h.respond(c, h.assistantService.InfoHelp)
}

func (h *AssistantHandler) respond(c *gin.Context, fn func(context.Context, *domain.AssistantRequest) (string, error)) {
	var req domain.AssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}
	if len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Messages are required"})
		return
	}

	text, err := fn(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrReviewUpstream) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "AI service unavailable",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to process request",
		})
		return
	}

	c.JSON(http.StatusOK, domain.AssistantResponse{Response: text})
}

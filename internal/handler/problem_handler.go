package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/algoprep/backend/internal/domain"
	"github.com/algoprep/backend/internal/service"
)

// ProblemHandler handles problem-related HTTP requests
type ProblemHandler struct {
	problemService *service.ProblemService
}

// NewProblemHandler creates a new problem handler
func NewProblemHandler(problemService *service.ProblemService) *ProblemHandler {
	return &ProblemHandler{
		problemService: problemService,
	}
}

// CreateProblem stores a new problem from the authoring form
// POST /api/problems
func (h *ProblemHandler) CreateProblem(c *gin.Context) {
	var req domain.CreateProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	problem, err := h.problemService.CreateProblem(c.Request.Context(), &req)
	if err != nil {
		switch err {
		case domain.ErrInvalidDifficulty:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Difficulty must be easy, medium or hard",
			})
		case domain.ErrBadRequest:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid topic or pattern identifier",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create problem",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, problem.ToResponse())
}

// GetProblems returns all problems, optionally filtered by topic and pattern
// GET /api/problems?topic_id=<uuid>&pattern_id=<uuid>
func (h *ProblemHandler) GetProblems(c *gin.Context) {
	var topicID, patternID *uuid.UUID

	if raw := c.Query("topic_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid topic ID"})
			return
		}
		topicID = &id
	}
	if raw := c.Query("pattern_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pattern ID"})
			return
		}
		patternID = &id
	}

	problems, err := h.problemService.GetProblems(c.Request.Context(), topicID, patternID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve problems",
		})
		return
	}

	responses := make([]domain.ProblemResponse, len(problems))
	for i := range problems {
		responses[i] = problems[i].ToResponse()
	}

	c.JSON(http.StatusOK, gin.H{"problems": responses})
}

// GetProblem returns a specific problem by ID
// GET /api/problems/:id
func (h *ProblemHandler) GetProblem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid problem ID"})
		return
	}

	problem, err := h.problemService.GetProblemByID(c.Request.Context(), id)
	if err != nil {
		switch err {
		case domain.ErrProblemNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Problem not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve problem",
			})
		}
		return
	}

	c.JSON(http.StatusOK, problem.ToResponse())
}

// DeleteProblem removes a problem
// DELETE /api/problems/:id
func (h *ProblemHandler) DeleteProblem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid problem ID"})
		return
	}

	if err := h.problemService.DeleteProblem(c.Request.Context(), id); err != nil {
		switch err {
		case domain.ErrProblemNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Problem not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete problem",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

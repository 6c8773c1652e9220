package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/algoprep/backend/internal/domain"
	"github.com/algoprep/backend/internal/middleware"
	"github.com/algoprep/backend/internal/service"
)

// InterviewHandler handles interview session HTTP requests
type InterviewHandler struct {
	interviewService *service.InterviewService
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(interviewService *service.InterviewService) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
	}
}

// CreateInterview starts a new interview session
// POST /api/interview/create
func (h *InterviewHandler) CreateInterview(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req domain.CreateInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	plan, err := h.interviewService.CreateInterview(c.Request.Context(), userID, &req)
	if err != nil {
		switch err {
		case domain.ErrNoTopicsSelected:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Please select at least one topic",
			})
		case domain.ErrInvalidDifficulty:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Difficulty must be easy, medium or hard",
			})
		case domain.ErrNoProblemsInStore:
			c.JSON(http.StatusNotFound, gin.H{
				"error": "No problems found in the database. Please contact support.",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create interview",
			})
		}
		return
	}

	c.JSON(http.StatusOK, plan)
}

// GetInterview fetches an interview session. Mock sessions are regenerated
// from their identifier, so they don't require authentication; persisted
// sessions do.
// GET /api/interview/:id
func (h *InterviewHandler) GetInterview(c *gin.Context) {
	id := c.Param("id")

	userID, authed := middleware.GetUserID(c)
	if !authed && !strings.HasPrefix(id, domain.MockInterviewPrefix) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	plan, err := h.interviewService.GetInterview(c.Request.Context(), userID, id)
	if err != nil {
		switch err {
		case domain.ErrInterviewNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Interview not found"})
		case domain.ErrProblemNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"error": "No problems found for this interview",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to fetch interview",
			})
		}
		return
	}

	c.JSON(http.StatusOK, plan)
}

// SubmitSolution accepts a code submission for an interview question
// POST /api/interview/:id
func (h *InterviewHandler) SubmitSolution(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req domain.SubmitSolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	err := h.interviewService.SubmitSolution(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		switch err {
		case domain.ErrInterviewNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Interview not found"})
		case domain.ErrInterviewCompleted:
			c.JSON(http.StatusConflict, gin.H{
				"error": "Interview is already completed",
			})
		case domain.ErrBadRequest:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid problem ID"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to submit solution",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Solution submitted successfully. Review will be processed in the background.",
	})
}

// CompleteInterview closes an interview and returns its feedback report
// POST /api/interview/:id/complete
func (h *InterviewHandler) CompleteInterview(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	interview, err := h.interviewService.CompleteInterview(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch err {
		case domain.ErrInterviewNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Interview not found"})
		case domain.ErrInterviewCompleted:
			c.JSON(http.StatusConflict, gin.H{
				"error": "Interview is already completed",
			})
		case domain.ErrNoSubmissions:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "No submissions to evaluate for this interview",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to complete interview",
			})
		}
		return
	}

	c.JSON(http.StatusOK, completionResponse(interview))
}

// GetFeedback returns the feedback report of a completed interview
// GET /api/interview/:id/feedback
func (h *InterviewHandler) GetFeedback(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	interview, err := h.interviewService.GetFeedback(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch err {
		case domain.ErrInterviewNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Interview not found"})
		case domain.ErrInterviewNotCompleted:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Interview is not completed yet",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to fetch feedback",
			})
		}
		return
	}

	c.JSON(http.StatusOK, completionResponse(interview))
}

func completionResponse(interview *domain.Interview) gin.H {
	report := interview.Feedback
	return gin.H{
		"id":               interview.ID,
		"duration":         interview.Duration,
		"overallScore":     report.OverallScore,
		"timeSpent":        report.TimeSpent,
		"questionFeedback": report.QuestionFeedback,
		"strengths":        report.Strengths,
		"improvements":     report.Improvements,
		"recommendations":  report.Recommendations,
	}
}

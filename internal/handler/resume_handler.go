package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/algoprep/backend/internal/domain"
	"github.com/algoprep/backend/internal/middleware"
	"github.com/algoprep/backend/internal/service"
)

// ResumeHandler handles resume tailoring, cover letters and PDF export
type ResumeHandler struct {
	resumeService *service.ResumeService
}

// NewResumeHandler creates a new resume handler
func NewResumeHandler(resumeService *service.ResumeService) *ResumeHandler {
	return &ResumeHandler{
		resumeService: resumeService,
	}
}

// Analyze tailors the resume against a job description
// POST /api/resume/analyze
func (h *ResumeHandler) Analyze(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req domain.AnalyzeResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	result, err := h.resumeService.Analyze(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondError(c, err, "Failed to analyze resume")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GenerateCoverLetter creates and stores a cover letter for a company
// POST /api/resume/cover-letter
func (h *ResumeHandler) GenerateCoverLetter(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req domain.CoverLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	letter, err := h.resumeService.GenerateCoverLetter(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondError(c, err, "Failed to generate cover letter")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"coverLetter": letter.Content,
	})
}

// UpdateResponses merges questionnaire answers into the resume content
// POST /api/resume/update-responses
func (h *ResumeHandler) UpdateResponses(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req domain.UpdateResponsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.resumeService.UpdateResponses(c.Request.Context(), userID, &req); err != nil {
		h.respondError(c, err, "Failed to update responses")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Download streams the resume as a PDF attachment
// GET /api/resume/download?id=<uuid>
func (h *ResumeHandler) Download(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	resumeID, err := uuid.Parse(c.Query("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resume ID"})
		return
	}

	data, filename, err := h.resumeService.Download(c.Request.Context(), userID, resumeID)
	if err != nil {
		h.respondError(c, err, "Failed to generate PDF")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// Delete removes a resume along with its cover letters and versions
// DELETE /api/resume/:id
func (h *ResumeHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	resumeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resume ID"})
		return
	}

	if err := h.resumeService.Delete(c.Request.Context(), userID, resumeID); err != nil {
		h.respondError(c, err, "Failed to delete resume")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ResumeHandler) respondError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, domain.ErrResumeNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resume not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

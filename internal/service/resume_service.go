package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/algoprep/backend/internal/domain"
	"github.com/algoprep/backend/internal/llm"
	"github.com/algoprep/backend/internal/pdf"
)

// ResumeService handles resume tailoring, cover letters, questionnaire
// responses and PDF export
type ResumeService struct {
	resumeRepo domain.ResumeRepository
	llmClient  llm.Client
	renderer   *pdf.ResumeRenderer
	tracer     trace.Tracer
	logger     *zap.Logger
}

// NewResumeService creates a new resume service
func NewResumeService(
	resumeRepo domain.ResumeRepository,
	llmClient llm.Client,
	renderer *pdf.ResumeRenderer,
	tracer trace.Tracer,
	logger *zap.Logger,
) *ResumeService {
	return &ResumeService{
		resumeRepo: resumeRepo,
		llmClient:  llmClient,
		renderer:   renderer,
		tracer:     tracer,
		logger:     logger,
	}
}

// Analyze tailors the resume content against a job description. A failed or
// malformed model response degrades to a canned follow-up questionnaire
// instead of failing the request; either way the resume content is updated.
func (s *ResumeService) Analyze(ctx context.Context, userID uuid.UUID, req *domain.AnalyzeResumeRequest) (*domain.AnalyzeResumeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ResumeService.Analyze")
	defer span.End()

	span.SetAttributes(attribute.String("resume.id", req.ResumeID))

	resumeID, err := uuid.Parse(req.ResumeID)
	if err != nil {
		return nil, domain.ErrResumeNotFound
	}
	resume, err := s.resumeRepo.FindByIDAndUser(resumeID, userID)
	if err != nil {
		return nil, err
	}

	// Snapshot the current content before the tailoring pass rewrites it
	if len(resume.Content) > 0 {
		version := &domain.ResumeVersion{ResumeID: resumeID, Content: resume.Content}
		if err := s.resumeRepo.SaveVersion(version); err != nil {
			s.logger.Warn("Failed to snapshot resume version", zap.Error(err))
		}
	}

	analysis, err := s.runAnalysis(ctx, req)
	if err != nil {
		span.SetAttributes(attribute.Bool("analysis.degraded", true))
		s.logger.Error("Resume analysis failed, using fallback", zap.Error(err))
		return s.fallbackAnalysis(resumeID, userID, req)
	}

	content := mergeContent(req.ProfileData, map[string]interface{}{
		"aiAnalysis": map[string]interface{}{
			"suggestions":   analysis.Suggestions,
			"needsMoreInfo": len(analysis.MissingInformation) > 0,
			"questions":     analysis.MissingInformation,
		},
		"tailoredContent": analysis.TailoredContent,
		"lastUpdated":     time.Now().UTC().Format(time.RFC3339),
	})
	if err := s.updateContent(resumeID, userID, content); err != nil {
		return nil, err
	}

	return &domain.AnalyzeResumeResponse{
		Success:       true,
		NeedsMoreInfo: len(analysis.MissingInformation) > 0,
		Questions:     analysis.MissingInformation,
	}, nil
}

func (s *ResumeService) runAnalysis(ctx context.Context, req *domain.AnalyzeResumeRequest) (*domain.ResumeAnalysis, error) {
	profileJSON, err := json.MarshalIndent(req.ProfileData, "", "  ")
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Analyze this job description and candidate profile to create a tailored resume.
Provide your response in this exact JSON format:
{
  "tailoredContent": { <modified version of the profile data> },
  "missingInformation": [
    {
      "id": "<string>",
      "type": "text" | "textarea",
      "label": "<string>",
      "description": "<string>",
      "placeholder": "<string>",
      "required": <boolean>
    }
  ],
  "suggestions": ["<string>", ...]
}

Job Description:
%s

Candidate Profile:
%s

Focus on:
1. Tailoring the content to match job requirements
2. Identifying missing skills or experiences
3. Suggesting improvements and highlights`, req.JobDescription, profileJSON)

	var analysis domain.ResumeAnalysis
	if err := s.llmClient.GenerateJSON(ctx, llm.ResumeSystemPrompt, prompt, &analysis); err != nil {
		return nil, err
	}
	if analysis.TailoredContent == nil || analysis.MissingInformation == nil || analysis.Suggestions == nil {
		return nil, fmt.Errorf("%w: incomplete analysis", domain.ErrReviewUpstream)
	}
	return &analysis, nil
}

// fallbackAnalysis writes a canned questionnaire when the model is
// unavailable, so the tailoring flow keeps moving
func (s *ResumeService) fallbackAnalysis(resumeID, userID uuid.UUID, req *domain.AnalyzeResumeRequest) (*domain.AnalyzeResumeResponse, error) {
	questions := []domain.MissingInformationField{
		{
			ID:          "relevantProjects",
			Type:        "textarea",
			Label:       "Relevant Projects",
			Description: "Please describe any projects that are relevant to this role",
			Placeholder: "Describe your projects...",
			Required:    true,
		},
	}

	content := mergeContent(req.ProfileData, map[string]interface{}{
		"aiAnalysis": map[string]interface{}{
			"suggestions":   []string{"Add more details about your technical projects"},
			"needsMoreInfo": true,
			"questions":     questions,
		},
		"tailoredContent": req.ProfileData,
		"lastUpdated":     time.Now().UTC().Format(time.RFC3339),
	})
	if err := s.updateContent(resumeID, userID, content); err != nil {
		return nil, err
	}

	return &domain.AnalyzeResumeResponse{
		Success:       true,
		NeedsMoreInfo: true,
		Questions:     questions,
	}, nil
}

// GenerateCoverLetter renders a template-based cover letter from the resume
// content and stores it
func (s *ResumeService) GenerateCoverLetter(ctx context.Context, userID uuid.UUID, req *domain.CoverLetterRequest) (*domain.CoverLetter, error) {
	ctx, span := s.tracer.Start(ctx, "ResumeService.GenerateCoverLetter")
	defer span.End()

	span.SetAttributes(
		attribute.String("resume.id", req.ResumeID),
		attribute.String("company", req.CompanyName),
	)

	resumeID, err := uuid.Parse(req.ResumeID)
	if err != nil {
		return nil, domain.ErrResumeNotFound
	}
	resume, err := s.resumeRepo.FindByIDAndUser(resumeID, userID)
	if err != nil {
		return nil, err
	}

	content := parseContent(resume.Content)
	letter := buildCoverLetter(content, req)

	coverLetter := &domain.CoverLetter{
		ResumeID:    resumeID,
		CompanyName: req.CompanyName,
		Content:     letter,
	}
	if err := s.resumeRepo.SaveCoverLetter(coverLetter); err != nil {
		s.logger.Error("Failed to save cover letter", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Cover letter generated",
		zap.String("resume_id", req.ResumeID),
		zap.String("company", req.CompanyName),
	)
	return coverLetter, nil
}

// UpdateResponses merges questionnaire answers into the resume content
func (s *ResumeService) UpdateResponses(ctx context.Context, userID uuid.UUID, req *domain.UpdateResponsesRequest) error {
	ctx, span := s.tracer.Start(ctx, "ResumeService.UpdateResponses")
	defer span.End()

	span.SetAttributes(attribute.String("resume.id", req.ResumeID))

	resumeID, err := uuid.Parse(req.ResumeID)
	if err != nil {
		return domain.ErrResumeNotFound
	}
	resume, err := s.resumeRepo.FindByIDAndUser(resumeID, userID)
	if err != nil {
		return err
	}

	content := parseContent(resume.Content)
	content["additionalInfo"] = req.Responses
	content["lastUpdated"] = time.Now().UTC().Format(time.RFC3339)

	return s.updateContent(resumeID, userID, content)
}

// Download renders the resume as a PDF and returns the bytes with a download
// filename
func (s *ResumeService) Download(ctx context.Context, userID, resumeID uuid.UUID) ([]byte, string, error) {
	ctx, span := s.tracer.Start(ctx, "ResumeService.Download")
	defer span.End()

	span.SetAttributes(attribute.String("resume.id", resumeID.String()))

	resume, err := s.resumeRepo.FindByIDAndUser(resumeID, userID)
	if err != nil {
		return nil, "", err
	}

	data, err := s.renderer.Render(resume)
	if err != nil {
		s.logger.Error("Failed to render resume PDF", zap.Error(err))
		return nil, "", domain.ErrInternalServer
	}

	return data, downloadFilename(resume.Title), nil
}

// Delete removes a resume along with its cover letters and versions
func (s *ResumeService) Delete(ctx context.Context, userID, resumeID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "ResumeService.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("resume.id", resumeID.String()))

	if err := s.resumeRepo.Delete(resumeID, userID); err != nil {
		return err
	}
	s.logger.Info("Resume deleted", zap.String("resume_id", resumeID.String()))
	return nil
}

func (s *ResumeService) updateContent(resumeID, userID uuid.UUID, content map[string]interface{}) error {
	raw, err := json.Marshal(content)
	if err != nil {
		return err
	}
	return s.resumeRepo.UpdateContent(resumeID, userID, datatypes.JSON(raw))
}

// buildCoverLetter assembles the letter from resume content, honoring
// per-section customizations and degrading gracefully when content fields are
// missing
func buildCoverLetter(content map[string]interface{}, req *domain.CoverLetterRequest) string {
	name := contentString(content, "personalInfo", "name")
	title := contentString(content, "personalInfo", "title")
	email := contentString(content, "personalInfo", "contact", "email")
	phone := contentString(content, "personalInfo", "contact", "phone")

	if title == "" {
		title = "software engineer"
	}

	intro := ""
	body := ""
	closing := ""
	if req.Customizations != nil {
		intro = req.Customizations.Introduction
		body = req.Customizations.Body
		closing = req.Customizations.Closing
	}
	if intro == "" {
		intro = "Throughout my career, I have focused on delivering high-quality, user-centric solutions."
	}
	if body == "" {
		skills := contentStrings(content, "technicalSkills", "frontend")
		if len(skills) > 3 {
			skills = skills[:3]
		}
		jd := req.JobDescription
		if len(jd) > 100 {
			jd = jd[:100]
		}
		if len(skills) > 0 {
			body = fmt.Sprintf(
				"I am particularly drawn to this opportunity because it aligns perfectly with my expertise in %s. "+
					"Your job description emphasizes the need for a developer who can %s... "+
					"This resonates with my experience and passion for building robust solutions.",
				strings.Join(skills, ", "), jd)
		} else {
			body = fmt.Sprintf(
				"Your job description emphasizes the need for a developer who can %s... "+
					"This resonates with my experience and passion for building robust solutions.", jd)
		}
	}
	if closing == "" {
		closing = "I am excited about the possibility of joining your team and contributing to your company's success. " +
			"I would welcome the opportunity to discuss how my skills and experience align with your needs in more detail."
	}

	var sb strings.Builder
	sb.WriteString("Dear Hiring Manager,\n\n")
	fmt.Fprintf(&sb, "I am writing to express my strong interest in the %s position at %s.\n\n", title, req.CompanyName)
	sb.WriteString(intro + "\n\n")
	sb.WriteString(body + "\n\n")

	if achievements := contentStrings(content, "achievements"); len(achievements) > 0 {
		sb.WriteString("Some key achievements that demonstrate my qualifications:\n")
		for i, a := range achievements {
			if i == 2 {
				break
			}
			sb.WriteString("- " + a + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(closing + "\n\n")
	sb.WriteString("Best regards,\n")
	if name != "" {
		sb.WriteString(name + "\n")
	}
	if email != "" {
		sb.WriteString(email + "\n")
	}
	if phone != "" {
		sb.WriteString(phone + "\n")
	}
	return strings.TrimSpace(sb.String())
}

func parseContent(raw datatypes.JSON) map[string]interface{} {
	content := map[string]interface{}{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &content)
	}
	return content
}

func mergeContent(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// contentString walks nested maps along the given path and returns the string
// leaf, or ""
func contentString(content map[string]interface{}, path ...string) string {
	var current interface{} = content
	for _, key := range path {
		m, ok := current.(map[string]interface{})
		if !ok {
			return ""
		}
		current = m[key]
	}
	s, _ := current.(string)
	return s
}

// contentStrings walks nested maps and returns the string slice leaf, or nil
func contentStrings(content map[string]interface{}, path ...string) []string {
	var current interface{} = content
	for _, key := range path {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current = m[key]
	}
	items, ok := current.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// downloadFilename sanitizes the resume title for a Content-Disposition
// attachment name
func downloadFilename(title string) string {
	if title == "" {
		title = "resume"
	}
	var sb strings.Builder
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String() + "_resume.pdf"
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Resume is a stored resume document. Content is schemaless client-side data
// (personal info, experience, skills, achievements), kept as jsonb.
type Resume struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	Title     string         `json:"title"`
	Content   datatypes.JSON `json:"content" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Resume) TableName() string {
	return "resumes"
}

// CoverLetter is a generated cover letter tied to a resume
type CoverLetter struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ResumeID    uuid.UUID `json:"resume_id" gorm:"type:uuid;not null;index"`
	CompanyName string    `json:"company_name"`
	Content     string    `json:"content" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (CoverLetter) TableName() string {
	return "cover_letters"
}

// ResumeVersion is a snapshot of resume content before a tailoring pass
type ResumeVersion struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ResumeID  uuid.UUID      `json:"resume_id" gorm:"type:uuid;not null;index"`
	Content   datatypes.JSON `json:"content" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at"`
}

// TableName specifies the table name for GORM
func (ResumeVersion) TableName() string {
	return "resume_versions"
}

// ResumeRepository defines the interface for resume data access.
// Delete cascades to cover letters and versions.
type ResumeRepository interface {
	FindByIDAndUser(id, userID uuid.UUID) (*Resume, error)
	UpdateContent(id, userID uuid.UUID, content datatypes.JSON) error
	SaveVersion(version *ResumeVersion) error
	SaveCoverLetter(letter *CoverLetter) error
	Delete(id, userID uuid.UUID) error
}

// MissingInformationField is a follow-up question the tailoring pass wants the
// candidate to answer
type MissingInformationField struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Placeholder string `json:"placeholder"`
	Required    bool   `json:"required"`
}

// ResumeAnalysis is the tailoring result for a (resume, job description) pair
type ResumeAnalysis struct {
	TailoredContent    map[string]interface{}    `json:"tailoredContent"`
	MissingInformation []MissingInformationField `json:"missingInformation"`
	Suggestions        []string                  `json:"suggestions"`
}

// AnalyzeResumeResponse reports whether the tailoring pass needs follow-up
// answers from the candidate
type AnalyzeResumeResponse struct {
	Success       bool                      `json:"success"`
	NeedsMoreInfo bool                      `json:"needsMoreInfo"`
	Questions     []MissingInformationField `json:"questions"`
}

// AnalyzeResumeRequest asks for a tailored resume against a job description
type AnalyzeResumeRequest struct {
	ResumeID       string                 `json:"resumeId" binding:"required"`
	ProfileData    map[string]interface{} `json:"profileData" binding:"required"`
	JobDescription string                 `json:"jobDescription" binding:"required"`
}

// CoverLetterRequest asks for a generated cover letter
type CoverLetterRequest struct {
	ResumeID       string `json:"resumeId" binding:"required"`
	CompanyName    string `json:"companyName" binding:"required"`
	JobDescription string `json:"jobDescription" binding:"required"`

	Customizations *struct {
		Introduction string `json:"introduction"`
		Body         string `json:"body"`
		Closing      string `json:"closing"`
	} `json:"customizations"`
}

// UpdateResponsesRequest merges questionnaire answers into resume content
type UpdateResponsesRequest struct {
	ResumeID  string                 `json:"resumeId" binding:"required"`
	Responses map[string]interface{} `json:"responses" binding:"required"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SubmissionStatus tracks the best-effort background review of a submission
type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusReviewed SubmissionStatus = "reviewed"
	SubmissionStatusFailed   SubmissionStatus = "failed"
)

// Submission is one row per (interview, problem) pair. It is created on
// submit with status pending and updated asynchronously once the background
// review finishes; review failures leave it marked failed and are never
// retried.
type Submission struct {
	ID              uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	InterviewID     uuid.UUID        `json:"interview_id" gorm:"type:uuid;not null;index"`
	ProblemID       uuid.UUID        `json:"problem_id" gorm:"type:uuid;not null;index"`
	Code            string           `json:"code" gorm:"type:text;not null"`
	Language        string           `json:"language"`
	SubmittedAt     time.Time        `json:"submitted_at" gorm:"not null"`
	Status          SubmissionStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	Score           int              `json:"score"`
	TimeComplexity  string           `json:"time_complexity"`
	SpaceComplexity string           `json:"space_complexity"`
	Feedback        string           `json:"feedback" gorm:"type:text"`
	Suggestions     pq.StringArray   `json:"suggestions" gorm:"type:text[]"`

	// Relationships
	Problem Problem `json:"problem" gorm:"foreignKey:ProblemID"`
}

// TableName specifies the table name for GORM
func (Submission) TableName() string {
	return "interview_submissions"
}

// SubmissionRepository defines the interface for submission data access
type SubmissionRepository interface {
	Create(submission *Submission) error
	FindByID(id uuid.UUID) (*Submission, error)
	FindByInterviewID(interviewID uuid.UUID) ([]Submission, error)
	Update(submission *Submission) error
}

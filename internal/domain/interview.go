package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// InterviewStatus represents the current state of an interview.
// The only transition is in_progress -> completed; there is no cancellation
// and no re-open.
type InterviewStatus string

const (
	InterviewStatusInProgress InterviewStatus = "in_progress"
	InterviewStatusCompleted  InterviewStatus = "completed"
)

// MockInterviewPrefix marks interview identifiers that were never persisted.
// Mock interviews live entirely in the client's local storage; the server only
// regenerates their question set on demand.
const MockInterviewPrefix = "mock-interview"

// QuestionFeedback is the per-question section of a feedback report
type QuestionFeedback struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Status      string   `json:"status"`
	TimeSpent   int      `json:"timeSpent"`
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
	Complexity  struct {
		Time  string `json:"time"`
		Space string `json:"space"`
	} `json:"complexity"`
	Score int `json:"score"`
}

// FeedbackReport is the one-shot report attached to an interview at
// completion, stored as a jsonb column
type FeedbackReport struct {
	OverallScore     int                `json:"overallScore"`
	TimeSpent        int                `json:"timeSpent"`
	QuestionFeedback []QuestionFeedback `json:"questionFeedback"`
	Strengths        []string           `json:"strengths"`
	Improvements     []string           `json:"improvements"`
	Recommendations  []string           `json:"recommendations"`
}

func (f FeedbackReport) Value() (driver.Value, error) {
	return json.Marshal(f)
}

func (f *FeedbackReport) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	data, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("feedback: unsupported column type")
		}
		data = []byte(s)
	}
	return json.Unmarshal(data, f)
}

// Interview represents a persisted interview session. Created at start time,
// mutated exactly once at completion to attach feedback, never deleted.
type Interview struct {
	ID              uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID          uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	Duration        int             `json:"duration" gorm:"not null"`
	Difficulty      Difficulty      `json:"difficulty" gorm:"type:varchar(10);not null"`
	Topics          pq.StringArray  `json:"topics" gorm:"type:text[]"`
	ProblemIDs      pq.StringArray  `json:"problems" gorm:"column:problem_ids;type:text[]"`
	CompanyType     string          `json:"company_type"`
	TargetCompanies pq.StringArray  `json:"target_companies" gorm:"type:text[]"`
	StartTime       time.Time       `json:"start_time" gorm:"not null"`
	Status          InterviewStatus `json:"status" gorm:"type:varchar(20);not null;default:'in_progress'"`
	CompletedAt     *time.Time      `json:"completed_at"`
	Feedback        *FeedbackReport `json:"feedback,omitempty" gorm:"type:jsonb"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Interview) TableName() string {
	return "interviews"
}

// InterviewRepository defines the interface for interview data access
type InterviewRepository interface {
	Create(interview *Interview) error
	FindByIDAndUser(id, userID uuid.UUID) (*Interview, error)
	Update(interview *Interview) error
}

// CreateInterviewRequest is the interview-start payload
type CreateInterviewRequest struct {
	Duration        int        `json:"duration" binding:"required,min=10,max=180"`
	Difficulty      Difficulty `json:"difficulty" binding:"required"`
	Topics          []string   `json:"topics"`
	CompanyType     string     `json:"companyType"`
	TargetCompanies []string   `json:"targetCompanies"`
}

// InterviewQuestion is a problem as presented inside an interview session.
// Mock questions carry synthetic identifiers and never touch the store.
type InterviewQuestion struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	Template    string     `json:"template"`
}

// QuestionCount breaks an interview's question set into real and mock parts
type QuestionCount struct {
	Real  int `json:"real"`
	Mock  int `json:"mock"`
	Total int `json:"total"`
}

// InterviewPlan is the response to an interview-create or fetch request.
// ID is a UUID for persisted interviews and a mock-interview identifier for
// client-local ones.
type InterviewPlan struct {
	ID              string              `json:"id"`
	Duration        int                 `json:"duration"`
	Questions       []InterviewQuestion `json:"questions"`
	StartTime       time.Time           `json:"startTime"`
	IsMockInterview bool                `json:"isMockInterview"`
	IsRegenerated   bool                `json:"isRegenerated,omitempty"`
	CompanyType     string              `json:"companyType,omitempty"`
	TargetCompanies []string            `json:"targetCompanies,omitempty"`
	QuestionCount   *QuestionCount      `json:"questionCount,omitempty"`
}

// SubmitSolutionRequest is the body for submitting code against an interview
// question
type SubmitSolutionRequest struct {
	ProblemID string `json:"problemId" binding:"required"`
	Code      string `json:"code" binding:"required"`
	Language  string `json:"language"`
}

package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Difficulty represents the difficulty level of a problem
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether the difficulty is one of the known levels
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Example is a worked input/output pair attached to a problem statement
type Example struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

// ExampleList is stored as a jsonb column
type ExampleList []Example

func (l ExampleList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]Example{})
	}
	return json.Marshal(l)
}

func (l *ExampleList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	data, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("examples: unsupported column type")
		}
		data = []byte(s)
	}
	return json.Unmarshal(data, l)
}

// TestCase is an unstructured input/output pair used by the client editor
type TestCase struct {
	Input  map[string]interface{} `json:"input"`
	Output interface{}            `json:"output"`
}

// TestCaseList is stored as a jsonb column
type TestCaseList []TestCase

func (l TestCaseList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]TestCase{})
	}
	return json.Marshal(l)
}

func (l *TestCaseList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	data, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("test cases: unsupported column type")
		}
		data = []byte(s)
	}
	return json.Unmarshal(data, l)
}

// Problem represents a coding problem authored through the admin form.
// Problems are immutable after creation except by full replace or delete;
// deleting one cascades to its topic/pattern association rows.
type Problem struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title           string         `json:"title" gorm:"not null"`
	Slug            string         `json:"slug" gorm:"uniqueIndex;not null"`
	Description     string         `json:"description" gorm:"type:text;not null"`
	Difficulty      Difficulty     `json:"difficulty" gorm:"type:varchar(10);not null"`
	Category        string         `json:"category"`
	Examples        ExampleList    `json:"examples" gorm:"type:jsonb"`
	Constraints     pq.StringArray `json:"constraints" gorm:"type:text[]"`
	TestCases       TestCaseList   `json:"test_cases" gorm:"type:jsonb"`
	TimeComplexity  string         `json:"time_complexity"`
	SpaceComplexity string         `json:"space_complexity"`
	Context         string         `json:"context" gorm:"type:text"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	// Relationships
	Topics   []Topic   `json:"topics,omitempty" gorm:"many2many:problem_topics"`
	Patterns []Pattern `json:"patterns,omitempty" gorm:"many2many:problem_patterns"`
}

// TableName specifies the table name for GORM
func (Problem) TableName() string {
	return "problems"
}

// TopicIDs returns the identifiers of all topics associated with the problem
func (p *Problem) TopicIDs() []string {
	ids := make([]string, len(p.Topics))
	for i, t := range p.Topics {
		ids[i] = t.ID.String()
	}
	return ids
}

// HasAnyTopic reports whether the problem is tagged with at least one of the
// given topic identifiers
func (p *Problem) HasAnyTopic(topicIDs []string) bool {
	for _, t := range p.Topics {
		id := t.ID.String()
		for _, want := range topicIDs {
			if id == want {
				return true
			}
		}
	}
	return false
}

// HasAnyPattern reports whether the problem is tagged with at least one of the
// given pattern identifiers
func (p *Problem) HasAnyPattern(patternIDs map[string]struct{}) bool {
	for _, pt := range p.Patterns {
		if _, ok := patternIDs[pt.ID.String()]; ok {
			return true
		}
	}
	return false
}

// ProblemRepository defines the interface for problem data access
type ProblemRepository interface {
	Create(problem *Problem, topicIDs, patternIDs []uuid.UUID) error
	FindByID(id uuid.UUID) (*Problem, error)
	FindAll() ([]Problem, error)
	FindFiltered(topicID, patternID *uuid.UUID) ([]Problem, error)
	FindByIDs(ids []uuid.UUID) ([]Problem, error)
	Delete(id uuid.UUID) error
	Count() (int64, error)
}

// CreateProblemRequest represents the authoring form payload
type CreateProblemRequest struct {
	Title           string       `json:"title" binding:"required"`
	Description     string       `json:"description" binding:"required"`
	Difficulty      Difficulty   `json:"difficulty" binding:"required"`
	Category        string       `json:"category"`
	Examples        []Example    `json:"examples"`
	Constraints     []string     `json:"constraints"`
	TestCases       TestCaseList `json:"test_cases"`
	TimeComplexity  string       `json:"time_complexity"`
	SpaceComplexity string       `json:"space_complexity"`
	Context         string       `json:"context"`
	PatternIDs      []string     `json:"pattern_ids"`
	TopicIDs        []string     `json:"topic_ids"`
}

// ProblemResponse represents a problem in API responses
type ProblemResponse struct {
	ID              uuid.UUID    `json:"id"`
	Title           string       `json:"title"`
	Slug            string       `json:"slug"`
	Description     string       `json:"description"`
	Difficulty      Difficulty   `json:"difficulty"`
	Category        string       `json:"category"`
	Examples        []Example    `json:"examples"`
	Constraints     []string     `json:"constraints"`
	TestCases       TestCaseList `json:"test_cases"`
	TimeComplexity  string       `json:"time_complexity"`
	SpaceComplexity string       `json:"space_complexity"`
	Patterns        []Pattern    `json:"patterns"`
	Topics          []Topic      `json:"topics"`
	CreatedAt       time.Time    `json:"created_at"`
}

// ToResponse converts a Problem to a ProblemResponse
func (p *Problem) ToResponse() ProblemResponse {
	patterns := p.Patterns
	if patterns == nil {
		patterns = []Pattern{}
	}
	topics := p.Topics
	if topics == nil {
		topics = []Topic{}
	}
	return ProblemResponse{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Description:     p.Description,
		Difficulty:      p.Difficulty,
		Category:        p.Category,
		Examples:        p.Examples,
		Constraints:     p.Constraints,
		TestCases:       p.TestCases,
		TimeComplexity:  p.TimeComplexity,
		SpaceComplexity: p.SpaceComplexity,
		Patterns:        patterns,
		Topics:          topics,
		CreatedAt:       p.CreatedAt,
	}
}

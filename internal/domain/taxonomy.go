package domain

import (
	"time"

	"github.com/google/uuid"
)

// Topic is a subject-area tag (e.g. "Graphs") associated with problems
// many-to-many. Topics are read-only from the application's perspective and
// seeded at startup.
type Topic struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Topic) TableName() string {
	return "topics"
}

// Pattern is a tag for a reusable algorithmic technique (e.g. "Two Pointers"),
// associated with problems many-to-many. Read-only, seeded.
type Pattern struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Pattern) TableName() string {
	return "patterns"
}

// TaxonomyRepository defines data access for the topic/pattern lookup tables
type TaxonomyRepository interface {
	FindAllTopics() ([]Topic, error)
	FindAllPatterns() ([]Pattern, error)
	CreateTopics(topics []Topic) error
	CreatePatterns(patterns []Pattern) error
	CountTopics() (int64, error)
	CountPatterns() (int64, error)
}

package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/algoprep/backend/internal/domain"
)

// interviewRepository implements domain.InterviewRepository using GORM
type interviewRepository struct {
	db *gorm.DB
}

// NewInterviewRepository creates a new interview repository
func NewInterviewRepository(db *gorm.DB) domain.InterviewRepository {
	return &interviewRepository{db: db}
}

// Create creates a new interview in the database
func (r *interviewRepository) Create(interview *domain.Interview) error {
	return r.db.Create(interview).Error
}

// FindByIDAndUser finds an interview owned by the given user. Ownership is
// part of the lookup so a wrong owner surfaces as not-found.
func (r *interviewRepository) FindByIDAndUser(id, userID uuid.UUID) (*domain.Interview, error) {
	var interview domain.Interview
	result := r.db.Where("id = ? AND user_id = ?", id, userID).First(&interview)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInterviewNotFound
		}
		return nil, result.Error
	}
	return &interview, nil
}

// Update updates an existing interview
func (r *interviewRepository) Update(interview *domain.Interview) error {
	return r.db.Save(interview).Error
}

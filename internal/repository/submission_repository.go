package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/algoprep/backend/internal/domain"
)

// submissionRepository implements domain.SubmissionRepository using GORM
type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *gorm.DB) domain.SubmissionRepository {
	return &submissionRepository{db: db}
}

// Create creates a new submission in the database
func (r *submissionRepository) Create(submission *domain.Submission) error {
	return r.db.Create(submission).Error
}

// FindByID finds a submission by its ID with the problem loaded
func (r *submissionRepository) FindByID(id uuid.UUID) (*domain.Submission, error) {
	var submission domain.Submission
	result := r.db.Preload("Problem").Where("id = ?", id).First(&submission)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, result.Error
	}
	return &submission, nil
}

// FindByInterviewID returns all submissions for an interview in submit order
func (r *submissionRepository) FindByInterviewID(interviewID uuid.UUID) ([]domain.Submission, error) {
	var submissions []domain.Submission
	result := r.db.
		Preload("Problem").
		Where("interview_id = ?", interviewID).
		Order("submitted_at ASC").
		Find(&submissions)
	return submissions, result.Error
}

// Update updates an existing submission
func (r *submissionRepository) Update(submission *domain.Submission) error {
	return r.db.Save(submission).Error
}

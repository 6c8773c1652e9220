package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/algoprep/backend/internal/domain"
)

// resumeRepository implements domain.ResumeRepository using GORM
type resumeRepository struct {
	db *gorm.DB
}

// NewResumeRepository creates a new resume repository
func NewResumeRepository(db *gorm.DB) domain.ResumeRepository {
	return &resumeRepository{db: db}
}

// FindByIDAndUser finds a resume owned by the given user
func (r *resumeRepository) FindByIDAndUser(id, userID uuid.UUID) (*domain.Resume, error) {
	var resume domain.Resume
	result := r.db.Where("id = ? AND user_id = ?", id, userID).First(&resume)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrResumeNotFound
		}
		return nil, result.Error
	}
	return &resume, nil
}

// UpdateContent replaces the content blob of a resume
func (r *resumeRepository) UpdateContent(id, userID uuid.UUID, content datatypes.JSON) error {
	result := r.db.Model(&domain.Resume{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrResumeNotFound
	}
	return nil
}

// SaveVersion stores a content snapshot
func (r *resumeRepository) SaveVersion(version *domain.ResumeVersion) error {
	return r.db.Create(version).Error
}

// SaveCoverLetter stores a generated cover letter
func (r *resumeRepository) SaveCoverLetter(letter *domain.CoverLetter) error {
	return r.db.Create(letter).Error
}

// Delete removes a resume, cascading to cover letters and versions first
func (r *resumeRepository) Delete(id, userID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.CoverLetter{}, "resume_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.ResumeVersion{}, "resume_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Resume{}, "id = ? AND user_id = ?", id, userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrResumeNotFound
		}
		return nil
	})
}

package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/algoprep/backend/internal/domain"
)

// problemRepository implements domain.ProblemRepository using GORM
type problemRepository struct {
	db *gorm.DB
}

// NewProblemRepository creates a new problem repository
func NewProblemRepository(db *gorm.DB) domain.ProblemRepository {
	return &problemRepository{db: db}
}

// Create inserts the problem and its topic/pattern association rows in one
// transaction
func (r *problemRepository) Create(problem *domain.Problem, topicIDs, patternIDs []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(problem).Error; err != nil {
			return err
		}
		for _, id := range topicIDs {
			if err := tx.Exec(
				"INSERT INTO problem_topics (problem_id, topic_id) VALUES (?, ?)",
				problem.ID, id,
			).Error; err != nil {
				return err
			}
		}
		for _, id := range patternIDs {
			if err := tx.Exec(
				"INSERT INTO problem_patterns (problem_id, pattern_id) VALUES (?, ?)",
				problem.ID, id,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID finds a problem by its ID with topics and patterns loaded
func (r *problemRepository) FindByID(id uuid.UUID) (*domain.Problem, error) {
	var problem domain.Problem
	result := r.db.
		Preload("Topics").
		Preload("Patterns").
		Where("id = ?", id).
		First(&problem)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProblemNotFound
		}
		return nil, result.Error
	}
	return &problem, nil
}

// FindAll returns all problems, newest first, with associations loaded
func (r *problemRepository) FindAll() ([]domain.Problem, error) {
	var problems []domain.Problem
	result := r.db.
		Preload("Topics").
		Preload("Patterns").
		Order("created_at DESC").
		Find(&problems)
	return problems, result.Error
}

// FindFiltered returns problems restricted to a topic and/or pattern
func (r *problemRepository) FindFiltered(topicID, patternID *uuid.UUID) ([]domain.Problem, error) {
	query := r.db.
		Preload("Topics").
		Preload("Patterns").
		Order("problems.created_at DESC")

	if topicID != nil {
		query = query.
			Joins("JOIN problem_topics pt ON pt.problem_id = problems.id").
			Where("pt.topic_id = ?", *topicID)
	}
	if patternID != nil {
		query = query.
			Joins("JOIN problem_patterns pp ON pp.problem_id = problems.id").
			Where("pp.pattern_id = ?", *patternID)
	}

	var problems []domain.Problem
	result := query.Find(&problems)
	return problems, result.Error
}

// FindByIDs returns the problems matching the given IDs
func (r *problemRepository) FindByIDs(ids []uuid.UUID) ([]domain.Problem, error) {
	var problems []domain.Problem
	result := r.db.
		Preload("Topics").
		Preload("Patterns").
		Where("id IN ?", ids).
		Find(&problems)
	return problems, result.Error
}

// Delete removes a problem and cascades to its association rows
func (r *problemRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM problem_patterns WHERE problem_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM problem_topics WHERE problem_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Problem{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrProblemNotFound
		}
		return nil
	})
}

// Count returns the total number of problems
func (r *problemRepository) Count() (int64, error) {
	var count int64
	result := r.db.Model(&domain.Problem{}).Count(&count)
	return count, result.Error
}
